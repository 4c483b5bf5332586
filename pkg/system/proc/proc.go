// Package proc reads process and CPU statistics from the /proc
// pseudo-filesystem. All readers are point-in-time: counters are cumulative
// since boot and callers take deltas if they need rates.
package proc

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ja7ad/sysprobe/pkg/system/fsys"
	"github.com/ja7ad/sysprobe/pkg/types"
)

// ClockTicks returns the number of jiffies (clock ticks) per second.
// It first checks the env var CLK_TCK (useful for testing), otherwise
// falls back to 100 (common default).
//
// Note: On real systems, the authoritative way is `sysconf(_SC_CLK_TCK)`,
// but calling that requires cgo. For portability in a pure-Go library,
// this simplified approach is acceptable.
func ClockTicks() int {
	v, _ := strconv.Atoi(os.Getenv("CLK_TCK"))
	if v > 0 {
		return v
	}
	return 100
}

// PageSize returns the system memory page size in bytes.
// Like ClockTicks, it first checks an env override (PAGE_SIZE)
// to ease testing, then falls back to os.Getpagesize().
func PageSize() int {
	if ps := os.Getenv("PAGE_SIZE"); ps != "" {
		if v, _ := strconv.Atoi(ps); v > 0 {
			return v
		}
	}
	return os.Getpagesize()
}

// Snapshot is a point-in-time view of one process.
type Snapshot struct {
	PID   int
	Comm  string
	State string
	PPID  int

	UserJiffies   uint64
	SystemJiffies uint64
	MinorFaults   uint64
	MajorFaults   uint64

	RSS        types.Bytes
	ReadBytes  types.Bytes // zero when /proc/<pid>/io is not exposed
	WriteBytes types.Bytes
}

// CPUSeconds converts the accumulated user+system jiffies to seconds.
func (s Snapshot) CPUSeconds() float64 {
	return float64(s.UserJiffies+s.SystemJiffies) / float64(ClockTicks())
}

// Source reads process metrics through fs. Construct one per metrics
// session; not safe for concurrent use.
type Source struct {
	fs fsys.FS
}

// Option configures a Source.
type Option func(*Source)

// WithFS substitutes the filesystem, for tests.
func WithFS(fs fsys.FS) Option {
	return func(s *Source) { s.fs = fs }
}

// NewSource returns a Source reading the host /proc.
func NewSource(opts ...Option) *Source {
	s := &Source{fs: fsys.OS()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CPU reads and parses /proc/stat.
func (s *Source) CPU() types.Result[CPUSnapshot] {
	raw, err := s.fs.ReadFile("/proc/stat")
	if err != nil {
		return types.Err[CPUSnapshot](fmt.Errorf("read /proc/stat: %w", err))
	}
	snap, err := ParseCPUStat(raw)
	if err != nil {
		return types.Err[CPUSnapshot](err)
	}
	return types.Ok(snap)
}

// Process reads one process. Fails with ErrNotFound when the stat file is
// gone by the time of reading: a /proc walk always races process exit.
func (s *Source) Process(pid int) types.Result[Snapshot] {
	snap, err := s.readProcess(pid)
	if err != nil {
		return types.Err[Snapshot](err)
	}
	return types.Ok(snap)
}

func (s *Source) readProcess(pid int) (Snapshot, error) {
	raw, err := s.fs.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: pid %d", ErrNotFound, pid)
	}
	snap, err := parsePIDStat(raw)
	if err != nil {
		return Snapshot{}, err
	}

	if rss, err := s.readRSS(pid); err == nil {
		snap.RSS = rss
	}
	if r, w, err := s.readIO(pid); err == nil {
		snap.ReadBytes, snap.WriteBytes = r, w
	}
	return snap, nil
}

// parsePIDStat parses a /proc/<pid>/stat line. comm (2nd field) is in
// parens and may contain spaces; everything before the closing ") " is
// pid + comm, numeric fields follow.
func parsePIDStat(raw string) (Snapshot, error) {
	line := strings.TrimSpace(raw)
	open := strings.IndexByte(line, '(')
	end := strings.LastIndex(line, ") ")
	if open < 0 || end < open {
		return Snapshot{}, ErrNoStat
	}

	var snap Snapshot
	snap.PID, _ = strconv.Atoi(strings.TrimSpace(line[:open]))
	snap.Comm = line[open+1 : end]

	// Indexes relative to the post-comm fields:
	// state (3rd overall) => fields[0]
	// ppid (4th overall) => fields[1]
	// minflt (10th overall) => fields[7]
	// majflt (12th overall) => fields[9]
	// utime (14th overall) => fields[11]
	// stime (15th overall) => fields[12]
	fields := strings.Fields(line[end+2:])
	if len(fields) < 13 {
		return Snapshot{}, ErrNoStat
	}
	snap.State = fields[0]
	snap.PPID, _ = strconv.Atoi(fields[1])
	snap.MinorFaults, _ = strconv.ParseUint(fields[7], 10, 64)
	snap.MajorFaults, _ = strconv.ParseUint(fields[9], 10, 64)
	snap.UserJiffies, _ = strconv.ParseUint(fields[11], 10, 64)
	snap.SystemJiffies, _ = strconv.ParseUint(fields[12], 10, 64)
	return snap, nil
}

// readRSS prefers smaps_rollup (aggregated, kernel 4.14+), falling back to
// statm's resident page count.
func (s *Source) readRSS(pid int) (types.Bytes, error) {
	if raw, err := s.fs.ReadFile(fmt.Sprintf("/proc/%d/smaps_rollup", pid)); err == nil {
		for _, line := range strings.Split(raw, "\n") {
			if !strings.HasPrefix(line, "Rss:") {
				continue
			}
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				kb, _ := strconv.ParseUint(fields[1], 10, 64)
				return types.Bytes(kb * 1024), nil
			}
		}
	}
	if raw, err := s.fs.ReadFile(fmt.Sprintf("/proc/%d/statm", pid)); err == nil {
		fields := strings.Fields(raw)
		if len(fields) >= 2 {
			pages, _ := strconv.ParseUint(fields[1], 10, 64)
			return types.Bytes(pages * uint64(PageSize())), nil
		}
	}
	return 0, ErrNoRSS
}

// readIO reads cumulative read_bytes/write_bytes. Kernel threads and
// hardened kernels may not expose the file.
func (s *Source) readIO(pid int) (readBytes, writeBytes types.Bytes, err error) {
	raw, err := s.fs.ReadFile(fmt.Sprintf("/proc/%d/io", pid))
	if err != nil {
		return 0, 0, err
	}
	for _, line := range strings.Split(raw, "\n") {
		if v, ok := strings.CutPrefix(line, "read_bytes:"); ok {
			n, _ := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
			readBytes = types.Bytes(n)
		} else if v, ok := strings.CutPrefix(line, "write_bytes:"); ok {
			n, _ := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
			writeBytes = types.Bytes(n)
		}
	}
	return readBytes, writeBytes, nil
}
