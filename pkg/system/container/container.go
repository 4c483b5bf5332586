// Package container derives the calling process's resource limits and
// usage from the cgroup filesystem, degrading per-field when individual
// controller files are absent: partial data beats no data.
package container

import (
	"strconv"
	"strings"
	"time"

	"github.com/ja7ad/sysprobe/pkg/system/cgroup"
	"github.com/ja7ad/sysprobe/pkg/system/fsys"
	"github.com/ja7ad/sysprobe/pkg/types"
)

// v1Unlimited: memory.limit_in_bytes reports a page-rounded max int64 on
// unlimited cgroups; anything this large means "no limit".
const v1Unlimited = uint64(1) << 60

// defaultUsageWindow is the two-read interval used to turn the cumulative
// CPU usage counter into an instantaneous cores-in-use figure.
const defaultUsageWindow = 100 * time.Millisecond

// Source reads container limits through a version-appropriate resolver.
// Construct one per metrics session; not safe for concurrent use.
type Source struct {
	fs     fsys.FS
	det    *cgroup.Detector
	window time.Duration
	sleep  func(time.Duration) // test seam
}

// Option configures a Source.
type Option func(*Source)

// WithFS substitutes the filesystem, for tests.
func WithFS(fs fsys.FS) Option {
	return func(s *Source) {
		s.fs = fs
		s.det = cgroup.NewDetector(fs)
	}
}

// WithUsageWindow sets the CPU usage sampling window. Zero disables the
// sample and leaves CPUUsageCores absent.
func WithUsageWindow(d time.Duration) Option {
	return func(s *Source) { s.window = d }
}

// NewSource returns a Source reading the host cgroup filesystem.
func NewSource(opts ...Option) *Source {
	fs := fsys.OS()
	s := &Source{
		fs:     fs,
		det:    cgroup.NewDetector(fs),
		window: defaultUsageWindow,
		sleep:  time.Sleep,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Read assembles a Limits snapshot. A host without cgroups yields a
// successful result with Version None and every field absent; individual
// missing controller files yield absent fields, never failures.
func (s *Source) Read() types.Result[Limits] {
	switch s.det.Detect() {
	case cgroup.V2:
		return types.Ok(s.readV2())
	case cgroup.V1:
		return types.Ok(s.readV1())
	default:
		return types.Ok(Limits{Version: cgroup.None})
	}
}

func (s *Source) readV1() Limits {
	res := cgroup.NewV1Resolver(s.fs)
	l := Limits{Version: cgroup.V1}

	// Quota in cores = cfs_quota_us / cfs_period_us; negative quota means
	// unlimited.
	if quota, ok := s.readInt(res, "cpu", "cpu.cfs_quota_us"); ok && quota > 0 {
		if period, ok := s.readInt(res, "cpu", "cpu.cfs_period_us"); ok && period > 0 {
			cores := float64(quota) / float64(period)
			l.CPUQuotaCores = &cores
		}
	}
	if raw, ok := s.readRaw(res, "cpu", "cpu.stat"); ok {
		if n, ok := keyedCounter(raw, "nr_throttled"); ok {
			l.ThrottledCount = &n
		}
	}
	if v, ok := s.readUint(res, "memory", "memory.limit_in_bytes"); ok && v < v1Unlimited {
		b := types.Bytes(v)
		l.MemoryLimit = &b
	}
	if v, ok := s.readUint(res, "memory", "memory.usage_in_bytes"); ok {
		b := types.Bytes(v)
		l.MemoryUsage = &b
	}
	if raw, ok := s.readRaw(res, "memory", "memory.oom_control"); ok {
		if n, ok := keyedCounter(raw, "oom_kill"); ok {
			l.OOMKills = &n
		}
	}

	// cpuacct.usage counts cumulative nanoseconds across all cores.
	l.CPUUsageCores = s.sampleUsage(func() (uint64, bool) {
		v, ok := s.readUint(res, "cpuacct", "cpuacct.usage")
		return v, ok
	}, time.Nanosecond)

	return l
}

func (s *Source) readV2() Limits {
	res := cgroup.NewV2Resolver(s.fs)
	l := Limits{Version: cgroup.V2}

	// cpu.max: "<quota|max> <period>" in microseconds.
	if raw, ok := s.readRawV2(res, "cpu.max"); ok {
		if cores, ok := parseCPUMax(raw); ok {
			l.CPUQuotaCores = &cores
		}
	}
	if raw, ok := s.readRawV2(res, "cpu.stat"); ok {
		if n, ok := keyedCounter(raw, "nr_throttled"); ok {
			l.ThrottledCount = &n
		}
	}
	if raw, ok := s.readRawV2(res, "memory.max"); ok {
		if v, ok := parseLimitValue(raw); ok {
			b := types.Bytes(v)
			l.MemoryLimit = &b
		}
	}
	if raw, ok := s.readRawV2(res, "memory.current"); ok {
		if v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64); err == nil {
			b := types.Bytes(v)
			l.MemoryUsage = &b
		}
	}
	if raw, ok := s.readRawV2(res, "memory.events"); ok {
		if n, ok := keyedCounter(raw, "oom_kill"); ok {
			l.OOMKills = &n
		}
	}

	// cpu.stat usage_usec counts cumulative microseconds across all cores.
	l.CPUUsageCores = s.sampleUsage(func() (uint64, bool) {
		raw, ok := s.readRawV2(res, "cpu.stat")
		if !ok {
			return 0, false
		}
		return keyedCounter(raw, "usage_usec")
	}, time.Microsecond)

	return l
}

// sampleUsage reads a cumulative CPU time counter twice over the
// configured window and converts the delta to cores in use. Returns nil
// when sampling is disabled or either read fails.
func (s *Source) sampleUsage(read func() (uint64, bool), unit time.Duration) *float64 {
	if s.window <= 0 {
		return nil
	}
	before, ok := read()
	if !ok {
		return nil
	}
	s.sleep(s.window)
	after, ok := read()
	if !ok || after < before {
		return nil
	}
	cores := float64(after-before) * float64(unit) / float64(s.window)
	return &cores
}

func (s *Source) readRaw(res *cgroup.V1Resolver, controller, file string) (string, bool) {
	p, ok := res.ResolvePath(controller, file)
	if !ok {
		return "", false
	}
	raw, err := s.fs.ReadFile(p)
	return raw, err == nil
}

func (s *Source) readRawV2(res *cgroup.V2Resolver, file string) (string, bool) {
	p, ok := res.ResolvePath(file)
	if !ok {
		return "", false
	}
	raw, err := s.fs.ReadFile(p)
	return raw, err == nil
}

func (s *Source) readInt(res *cgroup.V1Resolver, controller, file string) (int64, bool) {
	raw, ok := s.readRaw(res, controller, file)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return v, err == nil
}

func (s *Source) readUint(res *cgroup.V1Resolver, controller, file string) (uint64, bool) {
	raw, ok := s.readRaw(res, controller, file)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	return v, err == nil
}

// parseCPUMax parses a v2 cpu.max file into allowed cores. The literal
// "max" quota means unlimited and maps to absent.
func parseCPUMax(raw string) (cores float64, ok bool) {
	fields := strings.Fields(raw)
	if len(fields) < 2 || fields[0] == "max" {
		return 0, false
	}
	quota, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || quota <= 0 {
		return 0, false
	}
	period, err := strconv.ParseFloat(fields[1], 64)
	if err != nil || period <= 0 {
		return 0, false
	}
	return quota / period, true
}

// parseLimitValue parses a single-value v2 limit file where the literal
// "max" means unlimited.
func parseLimitValue(raw string) (uint64, bool) {
	t := strings.TrimSpace(raw)
	if t == "" || t == "max" {
		return 0, false
	}
	v, err := strconv.ParseUint(t, 10, 64)
	return v, err == nil
}

// keyedCounter extracts "key value" from a flat key/value stat file.
func keyedCounter(raw, key string) (uint64, bool) {
	for _, line := range strings.Split(raw, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[0] == key {
			v, err := strconv.ParseUint(fields[1], 10, 64)
			return v, err == nil
		}
	}
	return 0, false
}
