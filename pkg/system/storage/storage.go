// Package storage captures the mount table and disk counters and answers
// point-in-time lookups over them. A Snapshot is a read-only view: it is
// never mutated after construction.
package storage

import (
	"fmt"
	"strings"

	"github.com/ja7ad/sysprobe/pkg/types"
)

// FsType is a filesystem type as reported by the mount table.
type FsType string

const (
	Ext4    FsType = "ext4"
	XFS     FsType = "xfs"
	Btrfs   FsType = "btrfs"
	ZFS     FsType = "zfs"
	Tmpfs   FsType = "tmpfs"
	Overlay FsType = "overlay"
	NFS     FsType = "nfs4"
)

// MountPoint is one captured mount-table entry with its capacity figures.
type MountPoint struct {
	Device string
	Path   string
	FsType FsType

	TotalBytes types.Bytes
	UsedBytes  types.Bytes
	AvailBytes types.Bytes

	TotalInodes uint64
	UsedInodes  uint64
	FreeInodes  uint64
}

// Snapshot owns an ordered mount table plus an optional disk-I/O table.
type Snapshot struct {
	mounts []MountPoint
	disks  []DiskStat
}

// NewSnapshot builds a Snapshot, rejecting duplicate mount paths: path
// uniqueness is what makes longest-prefix matching unambiguous. Devices
// may repeat (bind mounts).
func NewSnapshot(mounts []MountPoint, disks []DiskStat) (Snapshot, error) {
	seen := make(map[string]struct{}, len(mounts))
	for _, m := range mounts {
		if _, dup := seen[m.Path]; dup {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrDupMount, m.Path)
		}
		seen[m.Path] = struct{}{}
	}
	return Snapshot{mounts: mounts, disks: disks}, nil
}

// Mounts returns the captured mount table in original order.
func (s Snapshot) Mounts() []MountPoint { return s.mounts }

// Disks returns the captured disk-I/O table, empty when not collected.
func (s Snapshot) Disks() []DiskStat { return s.disks }

// FindMountPoint returns the most specific mount containing path: among
// mounts whose path is a whole-component prefix of the query, the longest
// wins, so "/" is the fallback when nothing more specific matches.
func (s Snapshot) FindMountPoint(path string) (MountPoint, bool) {
	var (
		best  MountPoint
		found bool
	)
	for _, m := range s.mounts {
		if !mountContains(m.Path, path) {
			continue
		}
		if !found || len(m.Path) > len(best.Path) {
			best = m
			found = true
		}
	}
	return best, found
}

// mountContains reports whether p lives under mount. A component boundary
// is required so mount /hom does not match path /home.
func mountContains(mount, p string) bool {
	if p == mount {
		return true
	}
	if mount == "/" {
		return strings.HasPrefix(p, "/")
	}
	return strings.HasPrefix(p, mount+"/")
}

// FindDevice returns the first mount whose device equals the query.
// Exact, case-sensitive match; bind mounts make first-in-table-order the
// only defensible answer.
func (s Snapshot) FindDevice(device string) (MountPoint, bool) {
	for _, m := range s.mounts {
		if m.Device == device {
			return m, true
		}
	}
	return MountPoint{}, false
}

// FindByFsType returns all mounts of the given filesystem type,
// preserving table order.
func (s Snapshot) FindByFsType(t FsType) []MountPoint {
	out := make([]MountPoint, 0)
	for _, m := range s.mounts {
		if m.FsType == t {
			out = append(out, m)
		}
	}
	return out
}
