// Package netio reads per-interface traffic counters from /proc/net/dev
// and provides summation helpers over them.
package netio

import (
	"strconv"
	"strings"

	"github.com/ja7ad/sysprobe/pkg/system/fsys"
	"github.com/ja7ad/sysprobe/pkg/types"
)

// Interface holds one network interface's cumulative counters.
type Interface struct {
	Name string

	RxBytes   types.Bytes
	RxPackets uint64
	RxErrors  uint64
	RxDropped uint64

	TxBytes   types.Bytes
	TxPackets uint64
	TxErrors  uint64
	TxDropped uint64
}

// IsLoopback reports whether the interface is the loopback device.
func (i Interface) IsLoopback() bool { return i.Name == "lo" }

// Read returns all interfaces listed in /proc/net/dev.
func Read(fs fsys.FS) types.Result[[]Interface] {
	raw, err := fs.ReadFile("/proc/net/dev")
	if err != nil {
		return types.Err[[]Interface](err)
	}
	return types.Ok(parse(raw))
}

// parse handles the two-line header followed by
// "iface: rx_bytes rx_packets errs drop fifo frame compressed multicast
// tx_bytes tx_packets errs drop ...".
func parse(raw string) []Interface {
	var out []Interface
	for _, line := range strings.Split(raw, "\n") {
		name, rest, found := strings.Cut(line, ":")
		if !found {
			continue // header lines
		}
		fields := strings.Fields(rest)
		if len(fields) < 12 {
			continue
		}
		n := func(i int) uint64 {
			v, _ := strconv.ParseUint(fields[i], 10, 64)
			return v
		}
		out = append(out, Interface{
			Name:      strings.TrimSpace(name),
			RxBytes:   types.Bytes(n(0)),
			RxPackets: n(1),
			RxErrors:  n(2),
			RxDropped: n(3),
			TxBytes:   types.Bytes(n(8)),
			TxPackets: n(9),
			TxErrors:  n(10),
			TxDropped: n(11),
		})
	}
	return out
}

// Totals is the element-wise sum over a set of interfaces.
type Totals struct {
	RxBytes   types.Bytes
	TxBytes   types.Bytes
	RxPackets uint64
	TxPackets uint64
	RxErrors  uint64
	TxErrors  uint64
}

// Sum adds up counters across ifaces; loopback is skipped unless
// includeLoopback is set, since it double-counts local traffic.
func Sum(ifaces []Interface, includeLoopback bool) Totals {
	var t Totals
	for _, i := range ifaces {
		if i.IsLoopback() && !includeLoopback {
			continue
		}
		t.RxBytes += i.RxBytes
		t.TxBytes += i.TxBytes
		t.RxPackets += i.RxPackets
		t.TxPackets += i.TxPackets
		t.RxErrors += i.RxErrors
		t.TxErrors += i.TxErrors
	}
	return t
}
