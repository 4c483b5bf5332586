package proc

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/ja7ad/sysprobe/pkg/types"
)

// GroupSnapshot aggregates a root process and all of its descendants found
// during a single walk of the process table. The walk is best-effort:
// members that exit mid-walk are omitted rather than failing the call.
type GroupSnapshot struct {
	RootPID int
	PIDs    []int // still-alive members, ascending

	UserJiffies   uint64
	SystemJiffies uint64
	MinorFaults   uint64
	MajorFaults   uint64
	RSS           types.Bytes
	ReadBytes     types.Bytes
	WriteBytes    types.Bytes
}

// CPUSeconds converts the group's accumulated jiffies to seconds.
func (g GroupSnapshot) CPUSeconds() float64 {
	return float64(g.UserJiffies+g.SystemJiffies) / float64(ClockTicks())
}

// ProcessGroup reads rootPid and every descendant. Children are discovered
// by scanning each process's ppid field; PIDs form a tree, so the
// breadth-first walk cannot cycle. Fails with ErrNotFound only when the
// root itself is gone.
func (s *Source) ProcessGroup(rootPid int) types.Result[GroupSnapshot] {
	children, err := s.childIndex()
	if err != nil {
		return types.Err[GroupSnapshot](fmt.Errorf("scan process table: %w", err))
	}

	group := GroupSnapshot{RootPID: rootPid}
	queue := []int{rootPid}
	for i := 0; i < len(queue); i++ {
		pid := queue[i]
		queue = append(queue, children[pid]...)

		snap, err := s.readProcess(pid)
		if err != nil {
			if pid == rootPid {
				return types.Err[GroupSnapshot](err)
			}
			continue // exited mid-walk
		}
		group.PIDs = append(group.PIDs, pid)
		group.UserJiffies += snap.UserJiffies
		group.SystemJiffies += snap.SystemJiffies
		group.MinorFaults += snap.MinorFaults
		group.MajorFaults += snap.MajorFaults
		group.RSS += snap.RSS
		group.ReadBytes += snap.ReadBytes
		group.WriteBytes += snap.WriteBytes
	}
	sort.Ints(group.PIDs)
	return types.Ok(group)
}

// childIndex builds parent -> children from one pass over /proc.
func (s *Source) childIndex() (map[int][]int, error) {
	names, err := s.fs.ReadDir("/proc")
	if err != nil {
		return nil, err
	}
	children := make(map[int][]int)
	for _, name := range names {
		pid, err := strconv.Atoi(name)
		if err != nil {
			continue // not a process entry
		}
		raw, err := s.fs.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
		if err != nil {
			continue // exited between list and read
		}
		snap, err := parsePIDStat(raw)
		if err != nil {
			continue
		}
		children[snap.PPID] = append(children[snap.PPID], pid)
	}
	return children, nil
}
