// Package system exposes one Source interface over all metric families.
// Implementations are selected per-OS at construction time; every method
// returns a fresh point-in-time snapshot.
package system

import (
	"github.com/ja7ad/sysprobe/pkg/system/container"
	"github.com/ja7ad/sysprobe/pkg/system/host"
	"github.com/ja7ad/sysprobe/pkg/system/netio"
	"github.com/ja7ad/sysprobe/pkg/system/proc"
	"github.com/ja7ad/sysprobe/pkg/system/storage"
	"github.com/ja7ad/sysprobe/pkg/types"
)

// Source produces snapshots, one method per metric family. A Source is
// meant to live for one metrics session; it is not safe for concurrent
// use from multiple goroutines.
type Source interface {
	// Container derives cgroup limits and usage for the calling process.
	Container() types.Result[container.Limits]

	// CPU parses the aggregate and per-core counters of /proc/stat.
	CPU() types.Result[proc.CPUSnapshot]

	// Process reads a single process by PID.
	Process(pid int) types.Result[proc.Snapshot]

	// ProcessGroup aggregates a root PID and all of its descendants.
	ProcessGroup(pid int) types.Result[proc.GroupSnapshot]

	// LoadAverage reads the 1/5/15 minute load averages.
	LoadAverage() types.Result[proc.LoadAvg]

	// Memory reads system-wide memory accounting.
	Memory() types.Result[proc.MemInfo]

	// Storage captures the mount table with capacity and disk counters.
	Storage() types.Result[storage.Snapshot]

	// Network reads per-interface traffic counters.
	Network() types.Result[[]netio.Interface]

	// Host identifies the machine.
	Host() host.Info
}
