package cgroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/sysprobe/pkg/system/fsys"
)

func TestDetect_V2(t *testing.T) {
	fs := fsys.MapFS{
		"/sys/fs/cgroup/cgroup.controllers": "cpuset cpu io memory\n",
		"/proc/self/cgroup":                 "0::/\n",
	}
	d := NewDetector(fs)
	assert.Equal(t, V2, d.Detect())
}

func TestDetect_V1(t *testing.T) {
	fs := fsys.MapFS{
		"/proc/self/cgroup": "4:cpu,cpuacct:/docker/abc123\n",
	}
	d := NewDetector(fs)
	assert.Equal(t, V1, d.Detect())
}

func TestDetect_None(t *testing.T) {
	d := NewDetector(fsys.MapFS{})
	assert.Equal(t, None, d.Detect())
}

func TestDetect_MemoizedUntilReset(t *testing.T) {
	fs := fsys.MapFS{}
	d := NewDetector(fs)
	assert.Equal(t, None, d.Detect())

	// Environment changes do not affect an already-detected instance.
	fs["/sys/fs/cgroup/cgroup.controllers"] = "cpu memory\n"
	assert.Equal(t, None, d.Detect())

	d.Reset()
	assert.Equal(t, V2, d.Detect())
}

func TestVersion_String(t *testing.T) {
	assert.Equal(t, "cgroup v1", V1.String())
	assert.Equal(t, "cgroup v2", V2.String())
	assert.Equal(t, "none", None.String())
}

func TestV1Resolver_Mappings(t *testing.T) {
	fs := fsys.MapFS{
		"/proc/self/cgroup": "12:pids:/docker/abc123\n" +
			"4:cpu,cpuacct:/docker/abc123\n" +
			"3:memory:/docker/abc123\n" +
			"0::/system.slice\n" + // unified record, must be skipped
			"garbage-line\n",
	}
	r := NewV1Resolver(fs)
	m := r.Mappings()

	require.Len(t, m, 4)
	assert.Equal(t, "/docker/abc123", m["cpu"])
	assert.Equal(t, "/docker/abc123", m["cpuacct"])
	assert.Equal(t, "/docker/abc123", m["memory"])
	assert.Equal(t, "/docker/abc123", m["pids"])
	assert.NotContains(t, m, "")
}

func TestV1Resolver_EmptyOnReadFailure(t *testing.T) {
	r := NewV1Resolver(fsys.MapFS{})
	assert.Empty(t, r.Mappings())
}

func TestV1Resolver_ResolvePath_Mapped(t *testing.T) {
	fs := fsys.MapFS{
		"/proc/self/cgroup":                         "4:cpu,cpuacct:/docker/abc123\n",
		"/sys/fs/cgroup/cpu/docker/abc123/cpu.stat": "nr_throttled 0\n",
	}
	r := NewV1Resolver(fs)

	p, ok := r.ResolvePath("cpu", "cpu.stat")
	require.True(t, ok)
	assert.Equal(t, "/sys/fs/cgroup/cpu/docker/abc123/cpu.stat", p)
}

func TestV1Resolver_ResolvePath_FallsBackToRoot(t *testing.T) {
	fs := fsys.MapFS{
		"/proc/self/cgroup":           "4:cpu,cpuacct:/docker/abc123\n",
		"/sys/fs/cgroup/cpu/cpu.stat": "nr_throttled 0\n",
	}
	r := NewV1Resolver(fs)

	p, ok := r.ResolvePath("cpu", "cpu.stat")
	require.True(t, ok)
	assert.Equal(t, "/sys/fs/cgroup/cpu/cpu.stat", p)
}

func TestV1Resolver_ResolvePath_NotFound(t *testing.T) {
	fs := fsys.MapFS{
		"/proc/self/cgroup": "4:cpu,cpuacct:/docker/abc123\n",
	}
	r := NewV1Resolver(fs)

	_, ok := r.ResolvePath("cpu", "cpu.stat")
	assert.False(t, ok)
}

func TestV1Resolver_Reset(t *testing.T) {
	fs := fsys.MapFS{}
	r := NewV1Resolver(fs)
	assert.Empty(t, r.Mappings())

	fs["/proc/self/cgroup"] = "3:memory:/kube/pod42\n"
	assert.Empty(t, r.Mappings(), "mapping is cached until Reset")

	r.Reset()
	assert.Equal(t, "/kube/pod42", r.Mappings()["memory"])
}

func TestV2Resolver_ResolvePath(t *testing.T) {
	fs := fsys.MapFS{
		"/sys/fs/cgroup/cpu.max": "max 100000\n",
	}
	r := NewV2Resolver(fs)

	p, ok := r.ResolvePath("cpu.max")
	require.True(t, ok)
	assert.Equal(t, "/sys/fs/cgroup/cpu.max", p)

	_, ok = r.ResolvePath("memory.max")
	assert.False(t, ok)
}
