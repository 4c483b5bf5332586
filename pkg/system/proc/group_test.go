package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/sysprobe/pkg/system/fsys"
)

func TestProcessGroup(t *testing.T) {
	fs := fsys.MapFS{
		"/proc/stat":     "cpu 1 2 3 4\n",
		"/proc/1/stat":   statLine(1, "init", "S", 0, 0, 0, 5, 5),
		"/proc/100/stat": statLine(100, "root", "S", 1, 10, 1, 100, 50),
		"/proc/101/stat": statLine(101, "child-a", "S", 100, 20, 2, 200, 100),
		"/proc/102/stat": statLine(102, "child-b", "S", 100, 30, 3, 300, 150),
		"/proc/103/stat": statLine(103, "grandchild", "R", 102, 40, 4, 400, 200),
		"/proc/200/stat": statLine(200, "unrelated", "S", 1, 0, 0, 999, 999),
	}
	s := NewSource(WithFS(fs))

	res := s.ProcessGroup(100)
	require.True(t, res.IsSuccess())
	g := res.Value()

	assert.Equal(t, 100, g.RootPID)
	assert.Equal(t, []int{100, 101, 102, 103}, g.PIDs)
	assert.Equal(t, uint64(100+200+300+400), g.UserJiffies)
	assert.Equal(t, uint64(50+100+150+200), g.SystemJiffies)
	assert.Equal(t, uint64(10+20+30+40), g.MinorFaults)
	assert.Equal(t, uint64(1+2+3+4), g.MajorFaults)
}

func TestProcessGroup_SinglePid(t *testing.T) {
	fs := fsys.MapFS{
		"/proc/100/stat": statLine(100, "loner", "S", 1, 0, 0, 10, 10),
	}
	s := NewSource(WithFS(fs))

	g := s.ProcessGroup(100).Value()
	assert.Equal(t, []int{100}, g.PIDs)
	assert.Equal(t, uint64(10), g.UserJiffies)
}

func TestProcessGroup_RootGone(t *testing.T) {
	fs := fsys.MapFS{
		"/proc/1/stat": statLine(1, "init", "S", 0, 0, 0, 5, 5),
	}
	s := NewSource(WithFS(fs))

	res := s.ProcessGroup(4242)
	require.True(t, res.IsFailure())
	assert.ErrorIs(t, res.Err(), ErrNotFound)
}

func TestProcessGroup_OmitsVanishedChildren(t *testing.T) {
	fs := fsys.MapFS{
		"/proc/100/stat": statLine(100, "root", "S", 1, 0, 0, 10, 0),
		"/proc/101/stat": statLine(101, "child", "S", 100, 0, 0, 20, 0),
	}
	// Child exits between the table scan and the per-PID read.
	s := NewSource(WithFS(&vanishFS{MapFS: fs, vanish: "/proc/101/stat"}))

	res := s.ProcessGroup(100)
	require.True(t, res.IsSuccess(), "a vanished child must not fail the walk")
	g := res.Value()
	assert.Equal(t, []int{100}, g.PIDs)
	assert.Equal(t, uint64(10), g.UserJiffies)
}

// vanishFS serves a path on its first read (the table scan) and fails
// subsequent reads, simulating a process that exits mid-walk.
type vanishFS struct {
	fsys.MapFS
	vanish string
	seen   bool
}

func (v *vanishFS) ReadFile(path string) (string, error) {
	if path == v.vanish {
		if v.seen {
			return "", fsys.ErrNotExist
		}
		v.seen = true
	}
	return v.MapFS.ReadFile(path)
}
