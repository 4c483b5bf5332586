package proc

import "errors"

var (
	// ErrNoCPU indicates that /proc/stat input had no aggregate cpu line.
	ErrNoCPU = errors.New("proc: no cpu line")

	// ErrShortCPU indicates that the aggregate cpu line had fewer than the
	// four mandatory jiffy counters.
	ErrShortCPU = errors.New("proc: short cpu line")

	// ErrNotFound indicates that a process exited or never existed.
	ErrNotFound = errors.New("proc: process not found")

	// ErrNoStat indicates that a /proc/<pid>/stat file was empty or
	// malformed.
	ErrNoStat = errors.New("proc: malformed or empty stat")

	// ErrNoRSS indicates that resident set size could not be determined
	// (neither smaps_rollup nor statm succeeded).
	ErrNoRSS = errors.New("proc: no rss")

	// ErrNoLoadAvg indicates that /proc/loadavg was missing or malformed.
	ErrNoLoadAvg = errors.New("proc: malformed loadavg")
)
