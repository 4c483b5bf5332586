package container

import (
	"github.com/ja7ad/sysprobe/pkg/system/cgroup"
	"github.com/ja7ad/sysprobe/pkg/types"
)

// Limits is a point-in-time view of the container's cgroup resource
// limits and usage. Every numeric field is optional: nil means the metric
// is not observable on this host (controller unmounted, file absent, or
// the limit is "max"/unlimited). Derived getters propagate absence with
// comma-ok returns instead of sentinel numbers.
type Limits struct {
	Version cgroup.Version

	CPUQuotaCores  *float64     // allowed cores; nil = unlimited/unknown
	CPUUsageCores  *float64     // cores in use over the sampling window
	MemoryLimit    *types.Bytes // nil = unlimited/unknown
	MemoryUsage    *types.Bytes
	ThrottledCount *uint64 // CFS throttling events since boot
	OOMKills       *uint64 // OOM kills in this cgroup
}

// HasCPULimit reports whether a positive CPU quota is in effect.
func (l Limits) HasCPULimit() bool {
	return l.CPUQuotaCores != nil && *l.CPUQuotaCores > 0
}

// HasMemoryLimit reports whether a positive memory limit is in effect.
func (l Limits) HasMemoryLimit() bool {
	return l.MemoryLimit != nil && *l.MemoryLimit > 0
}

// CPUUtilizationPercentage returns usage as a percentage of the quota,
// clamped to [0,100]. ok is false when either operand is absent or the
// quota is not positive.
func (l Limits) CPUUtilizationPercentage() (pct float64, ok bool) {
	if !l.HasCPULimit() || l.CPUUsageCores == nil {
		return 0, false
	}
	return clampPct(*l.CPUUsageCores / *l.CPUQuotaCores * 100), true
}

// MemoryUtilizationPercentage returns usage as a percentage of the limit,
// clamped to [0,100]. ok is false when either operand is absent or the
// limit is not positive.
func (l Limits) MemoryUtilizationPercentage() (pct float64, ok bool) {
	if !l.HasMemoryLimit() || l.MemoryUsage == nil {
		return 0, false
	}
	return clampPct(float64(*l.MemoryUsage) / float64(*l.MemoryLimit) * 100), true
}

// AvailableCPUCores returns quota minus usage, never negative.
func (l Limits) AvailableCPUCores() (cores float64, ok bool) {
	if !l.HasCPULimit() || l.CPUUsageCores == nil {
		return 0, false
	}
	if c := *l.CPUQuotaCores - *l.CPUUsageCores; c > 0 {
		return c, true
	}
	return 0, true
}

// AvailableMemoryBytes returns limit minus usage, never negative even when
// usage transiently exceeds the limit.
func (l Limits) AvailableMemoryBytes() (avail types.Bytes, ok bool) {
	if !l.HasMemoryLimit() || l.MemoryUsage == nil {
		return 0, false
	}
	if *l.MemoryUsage >= *l.MemoryLimit {
		return 0, true
	}
	return *l.MemoryLimit - *l.MemoryUsage, true
}

func clampPct(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
