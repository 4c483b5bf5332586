//go:build linux

package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/sysprobe/pkg/system/cgroup"
	"github.com/ja7ad/sysprobe/pkg/system/container"
	"github.com/ja7ad/sysprobe/pkg/system/fsys"
)

// fakeHost is a self-consistent v2 host image.
var fakeHost = fsys.MapFS{
	"/sys/fs/cgroup/cgroup.controllers": "cpu memory\n",
	"/sys/fs/cgroup/cpu.max":            "100000 100000\n",
	"/sys/fs/cgroup/memory.max":         "1073741824\n",
	"/sys/fs/cgroup/memory.current":     "268435456\n",

	"/proc/stat":    "cpu 100 0 50 850 0 0 0 0 0 0\ncpu0 100 0 50 850 0 0 0 0 0 0\n",
	"/proc/loadavg": "0.10 0.20 0.30 1/100 999\n",
	"/proc/meminfo": "MemTotal: 1024000 kB\nMemFree: 512000 kB\nMemAvailable: 768000 kB\n",

	"/proc/1/stat":  "1 (init) S 0 1 1 0 -1 4194304 0 0 0 0 1 1 0 0 20 0 1 0 1 0 100 0\n",
	"/proc/42/stat": "42 (svc) S 1 1 1 0 -1 4194304 0 0 0 0 9 1 0 0 20 0 1 0 1 0 100 0\n",

	"/proc/net/dev": "Inter-|   Receive|  Transmit\n" +
		" face |bytes packets errs drop fifo frame compressed multicast|bytes packets errs drop fifo colls carrier compressed\n" +
		"  eth0: 100 1 0 0 0 0 0 0 200 2 0 0 0 0 0 0\n",

	"/proc/sys/kernel/hostname": "fake-host\n",
}

func TestSource_AgainstFakeHost(t *testing.T) {
	s := New(WithFS(fakeHost), WithContainerOptions(container.WithUsageWindow(0)))

	limits := s.Container()
	require.True(t, limits.IsSuccess())
	assert.Equal(t, cgroup.V2, limits.Value().Version)
	assert.True(t, limits.Value().HasCPULimit())

	cpu := s.CPU()
	require.True(t, cpu.IsSuccess())
	assert.Len(t, cpu.Value().Cores, 1)

	p := s.Process(42)
	require.True(t, p.IsSuccess())
	assert.Equal(t, "svc", p.Value().Comm)

	g := s.ProcessGroup(1)
	require.True(t, g.IsSuccess())
	assert.Equal(t, []int{1, 42}, g.Value().PIDs)

	load := s.LoadAverage()
	require.True(t, load.IsSuccess())
	assert.InDelta(t, 0.10, load.Value().One, 1e-9)

	mem := s.Memory()
	require.True(t, mem.IsSuccess())

	net := s.Network()
	require.True(t, net.IsSuccess())
	require.Len(t, net.Value(), 1)
	assert.Equal(t, "eth0", net.Value()[0].Name)

	assert.Equal(t, "fake-host", s.Host().Hostname)
}
