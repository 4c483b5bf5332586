package proc

import (
	"fmt"
	"strconv"
	"strings"
)

// CPUTimes is one row of /proc/stat jiffy counters. Kernels older than
// 2.6.24 report fewer columns; missing trailing fields stay zero.
type CPUTimes struct {
	User      uint64
	Nice      uint64
	System    uint64
	Idle      uint64
	IOWait    uint64
	IRQ       uint64
	SoftIRQ   uint64
	Steal     uint64
	Guest     uint64
	GuestNice uint64
}

// Active returns the non-idle jiffies.
func (t CPUTimes) Active() uint64 {
	return t.User + t.Nice + t.System + t.IRQ + t.SoftIRQ + t.Steal
}

// Total returns all jiffies including idle and iowait.
func (t CPUTimes) Total() uint64 {
	return t.Active() + t.Idle + t.IOWait
}

// CoreTimes is a per-core row tagged with the core's id from the cpu<N>
// line. Cores may in principle be reported out of numeric order, so Index
// is authoritative, not the position in the slice.
type CoreTimes struct {
	Index int
	CPUTimes
}

// CPUSnapshot is the parsed CPU section of /proc/stat: the aggregate
// counters plus one entry per core in file order.
type CPUSnapshot struct {
	Total CPUTimes
	Cores []CoreTimes
}

// ParseCPUStat parses /proc/stat text. It fails when no aggregate "cpu "
// line is present or that line has fewer than four counters; the other
// counters in the file (intr, ctxt, ...) are ignored.
func ParseCPUStat(raw string) (CPUSnapshot, error) {
	var (
		snap     CPUSnapshot
		haveAggr bool
	)
	for _, line := range strings.Split(raw, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || !strings.HasPrefix(fields[0], "cpu") {
			continue
		}
		if fields[0] == "cpu" {
			if haveAggr {
				continue
			}
			if len(fields) < 5 {
				return CPUSnapshot{}, fmt.Errorf("%w: %d fields", ErrShortCPU, len(fields)-1)
			}
			snap.Total = parseTimes(fields[1:])
			haveAggr = true
			continue
		}
		idx, err := strconv.Atoi(fields[0][3:])
		if err != nil {
			continue // interrupt counters etc.
		}
		snap.Cores = append(snap.Cores, CoreTimes{Index: idx, CPUTimes: parseTimes(fields[1:])})
	}
	if !haveAggr {
		return CPUSnapshot{}, ErrNoCPU
	}
	return snap, nil
}

// parseTimes fills the fixed-order counters; extra columns are ignored.
func parseTimes(fields []string) CPUTimes {
	var t CPUTimes
	dst := []*uint64{
		&t.User, &t.Nice, &t.System, &t.Idle, &t.IOWait,
		&t.IRQ, &t.SoftIRQ, &t.Steal, &t.Guest, &t.GuestNice,
	}
	for i, p := range dst {
		if i >= len(fields) {
			break
		}
		*p, _ = strconv.ParseUint(fields[i], 10, 64)
	}
	return t
}
