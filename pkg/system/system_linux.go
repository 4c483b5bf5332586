//go:build linux

package system

import (
	"github.com/ja7ad/sysprobe/pkg/system/container"
	"github.com/ja7ad/sysprobe/pkg/system/fsys"
	"github.com/ja7ad/sysprobe/pkg/system/host"
	"github.com/ja7ad/sysprobe/pkg/system/netio"
	"github.com/ja7ad/sysprobe/pkg/system/proc"
	"github.com/ja7ad/sysprobe/pkg/system/storage"
	"github.com/ja7ad/sysprobe/pkg/types"
)

// New returns the /proc- and cgroup-backed Source for this host.
func New(opts ...Option) Source {
	s := &linuxSource{fs: fsys.OS()}
	for _, o := range opts {
		o(s)
	}
	s.procs = proc.NewSource(proc.WithFS(s.fs))
	s.containers = container.NewSource(append(s.containerOpts, container.WithFS(s.fs))...)
	return s
}

// Option configures the Source.
type Option func(*linuxSource)

// WithFS substitutes the filesystem, for tests.
func WithFS(fs fsys.FS) Option {
	return func(s *linuxSource) { s.fs = fs }
}

// WithContainerOptions forwards options to the container source.
func WithContainerOptions(opts ...container.Option) Option {
	return func(s *linuxSource) { s.containerOpts = opts }
}

type linuxSource struct {
	fs            fsys.FS
	procs         *proc.Source
	containers    *container.Source
	containerOpts []container.Option
}

func (s *linuxSource) Container() types.Result[container.Limits] { return s.containers.Read() }

func (s *linuxSource) CPU() types.Result[proc.CPUSnapshot] { return s.procs.CPU() }

func (s *linuxSource) Process(pid int) types.Result[proc.Snapshot] { return s.procs.Process(pid) }

func (s *linuxSource) ProcessGroup(pid int) types.Result[proc.GroupSnapshot] {
	return s.procs.ProcessGroup(pid)
}

func (s *linuxSource) LoadAverage() types.Result[proc.LoadAvg] { return s.procs.LoadAverage() }

func (s *linuxSource) Memory() types.Result[proc.MemInfo] { return s.procs.ReadMemInfo() }

func (s *linuxSource) Storage() types.Result[storage.Snapshot] { return storage.CaptureFS(s.fs) }

func (s *linuxSource) Network() types.Result[[]netio.Interface] { return netio.Read(s.fs) }

func (s *linuxSource) Host() host.Info { return host.Probe(s.fs) }
