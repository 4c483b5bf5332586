// Package host identifies the machine: OS family, CPU architecture and,
// when running under a hypervisor, the virtualization vendor.
package host

import (
	"runtime"
	"strings"

	"github.com/ja7ad/sysprobe/pkg/system/fsys"
)

// Family is the operating system family.
type Family int

const (
	UnknownFamily Family = iota
	Linux
	Darwin
	Windows
)

func (f Family) String() string {
	switch f {
	case Linux:
		return "linux"
	case Darwin:
		return "darwin"
	case Windows:
		return "windows"
	default:
		return "unknown"
	}
}

// Arch is the CPU architecture.
type Arch int

const (
	UnknownArch Arch = iota
	AMD64
	ARM64
)

func (a Arch) String() string {
	switch a {
	case AMD64:
		return "amd64"
	case ARM64:
		return "arm64"
	default:
		return "unknown"
	}
}

// VirtVendor is the detected hypervisor vendor.
type VirtVendor int

const (
	Bare VirtVendor = iota // physical, or vendor not recognizable
	KVM
	VMware
	HyperV
	Xen
	VirtualBox
)

func (v VirtVendor) String() string {
	switch v {
	case KVM:
		return "kvm"
	case VMware:
		return "vmware"
	case HyperV:
		return "hyper-v"
	case Xen:
		return "xen"
	case VirtualBox:
		return "virtualbox"
	default:
		return "bare-metal"
	}
}

// Info is the host identity snapshot.
type Info struct {
	Family     Family
	Arch       Arch
	VirtVendor VirtVendor
	Hostname   string
	Kernel     string // kernel release, empty off-Linux
}

// Probe fills an Info from the runtime and, on Linux, the DMI and proc
// pseudo-files read through fs.
func Probe(fs fsys.FS) Info {
	info := Info{
		Family: family(runtime.GOOS),
		Arch:   arch(runtime.GOARCH),
	}
	if raw, err := fs.ReadFile("/proc/sys/kernel/hostname"); err == nil {
		info.Hostname = strings.TrimSpace(raw)
	}
	if raw, err := fs.ReadFile("/proc/sys/kernel/osrelease"); err == nil {
		info.Kernel = strings.TrimSpace(raw)
	}
	info.VirtVendor = virtVendor(fs)
	return info
}

func family(goos string) Family {
	switch goos {
	case "linux":
		return Linux
	case "darwin":
		return Darwin
	case "windows":
		return Windows
	default:
		return UnknownFamily
	}
}

func arch(goarch string) Arch {
	switch goarch {
	case "amd64":
		return AMD64
	case "arm64":
		return ARM64
	default:
		return UnknownArch
	}
}

// virtVendor inspects the DMI system vendor and product strings. On bare
// metal these name the board manufacturer; hypervisors leave well-known
// markers.
func virtVendor(fs fsys.FS) VirtVendor {
	var probe strings.Builder
	for _, p := range []string{
		"/sys/class/dmi/id/sys_vendor",
		"/sys/class/dmi/id/product_name",
	} {
		if raw, err := fs.ReadFile(p); err == nil {
			probe.WriteString(strings.ToLower(raw))
			probe.WriteByte(' ')
		}
	}
	s := probe.String()
	switch {
	case strings.Contains(s, "kvm") || strings.Contains(s, "qemu"):
		return KVM
	case strings.Contains(s, "vmware"):
		return VMware
	case strings.Contains(s, "microsoft") && strings.Contains(s, "virtual"):
		return HyperV
	case strings.Contains(s, "xen"):
		return Xen
	case strings.Contains(s, "virtualbox"):
		return VirtualBox
	default:
		return Bare
	}
}
