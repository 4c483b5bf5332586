// Package cgroup detects which cgroup hierarchy the host exposes and
// resolves controller files to readable paths, tolerating the layout
// differences between the legacy v1 hierarchies and the unified v2 mount.
package cgroup

import "github.com/ja7ad/sysprobe/pkg/system/fsys"

// Version identifies the cgroup hierarchy exposed by the host.
type Version int

const (
	None Version = iota // non-Linux host, or cgroups unmounted
	V1                  // legacy multi-hierarchy cgroup v1
	V2                  // unified cgroup v2
)

func (v Version) String() string {
	switch v {
	case V1:
		return "cgroup v1"
	case V2:
		return "cgroup v2"
	default:
		return "none"
	}
}

const (
	// Root is the standard cgroup mount point for both versions.
	Root = "/sys/fs/cgroup"

	// controllersFile marks the unified v2 hierarchy when present
	// directly under Root.
	controllersFile = Root + "/cgroup.controllers"

	// selfCgroup lists the calling process's v1 controller memberships.
	selfCgroup = "/proc/self/cgroup"
)

// Detector probes the host's cgroup version once and caches the answer
// for its own lifetime. Not safe for concurrent use; construct one per
// metrics session.
type Detector struct {
	fs       fsys.FS
	detected bool
	version  Version
}

// NewDetector returns a Detector reading through fs.
func NewDetector(fs fsys.FS) *Detector {
	return &Detector{fs: fs}
}

// Detect returns the host's cgroup version. The probe runs at most once
// per Detector; absence of every marker is a valid terminal state (None),
// not an error.
func (d *Detector) Detect() Version {
	if d.detected {
		return d.version
	}
	switch {
	case d.fs.Exists(controllersFile):
		d.version = V2
	case d.fs.Exists(selfCgroup):
		d.version = V1
	default:
		d.version = None
	}
	d.detected = true
	return d.version
}

// Reset clears the cached version so the next Detect re-probes. Intended
// for tests and for long-lived processes after a container migration.
func (d *Detector) Reset() {
	d.detected = false
	d.version = None
}
