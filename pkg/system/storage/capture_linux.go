//go:build linux

package storage

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/ja7ad/sysprobe/pkg/system/fsys"
	"github.com/ja7ad/sysprobe/pkg/types"
)

// Capture reads the current mount table, fills in per-mount capacity via
// statfs, and collects the disk-I/O table. Mounts whose statfs fails
// (stale NFS handles, FUSE without permission) are kept with zero
// capacity figures; diskstats is optional and its absence is not an
// error.
func Capture() types.Result[Snapshot] {
	return CaptureFS(fsys.OS())
}

// CaptureFS is Capture reading mount and disk tables through fs; statfs
// still goes to the real kernel.
func CaptureFS(fs fsys.FS) types.Result[Snapshot] {
	raw, err := fs.ReadFile("/proc/self/mounts")
	if err != nil {
		return types.Err[Snapshot](fmt.Errorf("read mounts: %w", err))
	}

	entries := parseMounts(raw)
	mounts := make([]MountPoint, 0, len(entries))
	for _, e := range entries {
		m := MountPoint{Device: e.device, Path: e.path, FsType: e.fsType}

		var st unix.Statfs_t
		if err := unix.Statfs(e.path, &st); err == nil {
			bsize := uint64(st.Bsize)
			m.TotalBytes = types.Bytes(st.Blocks * bsize)
			m.AvailBytes = types.Bytes(st.Bavail * bsize)
			// Used counts root-reserved blocks, so used+avail < total on ext4.
			m.UsedBytes = types.Bytes((st.Blocks - st.Bfree) * bsize)
			m.TotalInodes = st.Files
			m.FreeInodes = st.Ffree
			m.UsedInodes = st.Files - st.Ffree
		}
		mounts = append(mounts, m)
	}

	var disks []DiskStat
	if raw, err := fs.ReadFile("/proc/diskstats"); err == nil {
		disks = parseDiskStats(raw)
	}

	snap, err := NewSnapshot(mounts, disks)
	if err != nil {
		return types.Err[Snapshot](err)
	}
	return types.Ok(snap)
}
