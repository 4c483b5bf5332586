package cgroup

import (
	"strings"

	"github.com/ja7ad/sysprobe/pkg/system/fsys"
)

// V1Resolver maps (controller, file) pairs to readable paths under the
// legacy per-controller hierarchies. The controller membership table from
// /proc/self/cgroup is parsed once and cached; Reset rebuilds it.
//
// Not safe for concurrent use.
type V1Resolver struct {
	fs     fsys.FS
	loaded bool
	byCtrl map[string]string // controller -> mount-relative path
}

// NewV1Resolver returns a resolver reading through fs.
func NewV1Resolver(fs fsys.FS) *V1Resolver {
	return &V1Resolver{fs: fs}
}

// Mappings returns a copy of the controller membership table. An empty
// table (unreadable or empty /proc/self/cgroup) is not an error; path
// resolution degrades to the fixed-location fallback.
func (r *V1Resolver) Mappings() map[string]string {
	r.load()
	out := make(map[string]string, len(r.byCtrl))
	for k, v := range r.byCtrl {
		out[k] = v
	}
	return out
}

// ResolvePath returns a readable path for the controller's file, trying
// the process's own cgroup directory first and the hierarchy root second.
// ok is false when neither candidate is readable, which callers must treat
// as "metric unavailable": v1 controllers are optionally mounted.
func (r *V1Resolver) ResolvePath(controller, file string) (path string, ok bool) {
	r.load()
	if rel, mapped := r.byCtrl[controller]; mapped {
		p := Root + "/" + controller + rel + "/" + file
		if r.fs.Exists(p) {
			return p, true
		}
	}
	p := Root + "/" + controller + "/" + file
	if r.fs.Exists(p) {
		return p, true
	}
	return "", false
}

// Reset drops the cached membership table; the next call re-reads
// /proc/self/cgroup. Used by tests and after a cgroup re-parent.
func (r *V1Resolver) Reset() {
	r.loaded = false
	r.byCtrl = nil
}

// load parses /proc/self/cgroup. Line format: hierarchyId:controllerList:path.
// Lines with the wrong field count are skipped, as are lines whose
// controller list is empty (the unified-hierarchy record on hybrid hosts).
func (r *V1Resolver) load() {
	if r.loaded {
		return
	}
	r.loaded = true
	r.byCtrl = make(map[string]string)

	raw, err := r.fs.ReadFile(selfCgroup)
	if err != nil {
		return // empty mapping, fallback paths still work
	}
	for _, line := range strings.Split(raw, "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 3)
		if len(parts) != 3 || parts[1] == "" {
			continue
		}
		rel := strings.TrimSuffix(parts[2], "/")
		for _, ctrl := range strings.Split(parts[1], ",") {
			r.byCtrl[ctrl] = rel
		}
	}
}
