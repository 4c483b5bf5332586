package cgroup

import "github.com/ja7ad/sysprobe/pkg/system/fsys"

// V2Resolver resolves files under the unified hierarchy, where every
// controller's interface files live directly below the single mount root.
// No membership table is needed.
type V2Resolver struct {
	fs fsys.FS
}

// NewV2Resolver returns a resolver reading through fs.
func NewV2Resolver(fs fsys.FS) *V2Resolver {
	return &V2Resolver{fs: fs}
}

// ResolvePath returns the unified-hierarchy path for file, ok=false when
// it is not readable on this host.
func (r *V2Resolver) ResolvePath(file string) (path string, ok bool) {
	p := Root + "/" + file
	if r.fs.Exists(p) {
		return p, true
	}
	return "", false
}
