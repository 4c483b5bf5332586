package proc

import (
	"strconv"
	"strings"

	"github.com/ja7ad/sysprobe/pkg/types"
)

// MemInfo holds the commonly consumed /proc/meminfo fields.
type MemInfo struct {
	Total     types.Bytes
	Free      types.Bytes
	Available types.Bytes // zero on kernels before 3.14
	Buffers   types.Bytes
	Cached    types.Bytes
}

// Used returns total minus available memory, preferring MemAvailable and
// falling back to free+buffers+cached reclaim accounting.
func (m MemInfo) Used() types.Bytes {
	avail := m.Available
	if avail == 0 {
		avail = m.Free + m.Buffers + m.Cached
	}
	if avail >= m.Total {
		return 0
	}
	return m.Total - avail
}

// ReadMemInfo reads /proc/meminfo. Values are "<key>: <n> kB" lines.
func (s *Source) ReadMemInfo() types.Result[MemInfo] {
	raw, err := s.fs.ReadFile("/proc/meminfo")
	if err != nil {
		return types.Err[MemInfo](err)
	}

	var mem MemInfo
	for _, line := range strings.Split(raw, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		b := types.Bytes(kb * 1024)
		switch fields[0] {
		case "MemTotal:":
			mem.Total = b
		case "MemFree:":
			mem.Free = b
		case "MemAvailable:":
			mem.Available = b
		case "Buffers:":
			mem.Buffers = b
		case "Cached:":
			mem.Cached = b
		}
	}
	return types.Ok(mem)
}
