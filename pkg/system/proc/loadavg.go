package proc

import (
	"strconv"
	"strings"

	"github.com/ja7ad/sysprobe/pkg/types"
)

// LoadAvg holds the 1, 5 and 15 minute system load averages.
type LoadAvg struct {
	One     float64
	Five    float64
	Fifteen float64
}

// LoadAverage reads /proc/loadavg.
func (s *Source) LoadAverage() types.Result[LoadAvg] {
	raw, err := s.fs.ReadFile("/proc/loadavg")
	if err != nil {
		return types.Err[LoadAvg](err)
	}
	fields := strings.Fields(raw)
	if len(fields) < 3 {
		return types.Err[LoadAvg](ErrNoLoadAvg)
	}

	var (
		avg LoadAvg
		e1  error
	)
	avg.One, e1 = strconv.ParseFloat(fields[0], 64)
	if e1 == nil {
		avg.Five, e1 = strconv.ParseFloat(fields[1], 64)
	}
	if e1 == nil {
		avg.Fifteen, e1 = strconv.ParseFloat(fields[2], 64)
	}
	if e1 != nil {
		return types.Err[LoadAvg](ErrNoLoadAvg)
	}
	return types.Ok(avg)
}
