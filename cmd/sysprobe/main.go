//go:build linux

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ja7ad/sysprobe/pkg/system"
	"github.com/ja7ad/sysprobe/pkg/system/container"
	"github.com/ja7ad/sysprobe/pkg/system/netio"
)

type opts struct {
	JSON        bool          `yaml:"json"`
	UsageWindow time.Duration `yaml:"usage_window"`
	Loopback    bool          `yaml:"loopback"`
}

func main() {
	o := opts{UsageWindow: 100 * time.Millisecond}
	var configPath string

	root := &cobra.Command{
		Use:   "sysprobe",
		Short: "Point-in-time system metric snapshots",
		Long: `sysprobe reads kernel pseudo-files (/proc, /sys/fs/cgroup) and prints a
typed snapshot of container limits, CPU counters, processes, storage and
network state. Each invocation produces exactly one snapshot.

Examples:
  sysprobe container
  sysprobe process --group $(pidof dockerd)
  sysprobe storage --json`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return nil
			}
			return loadConfig(configPath, &o)
		},
	}
	root.PersistentFlags().BoolVar(&o.JSON, "json", false, "print snapshots as JSON")
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (flags win)")

	root.AddCommand(
		detectCmd(&o),
		containerCmd(&o),
		cpuCmd(&o),
		processCmd(&o),
		storageCmd(&o),
		netCmd(&o),
		hostCmd(&o),
	)

	if err := root.Execute(); err != nil {
		slog.Error("sysprobe failed", "err", err)
		os.Exit(1)
	}
}

func loadConfig(path string, o *opts) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, o); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func newSource(o *opts) system.Source {
	return system.New(system.WithContainerOptions(container.WithUsageWindow(o.UsageWindow)))
}

func detectCmd(o *opts) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Report the cgroup version this host exposes",
		RunE: func(cmd *cobra.Command, args []string) error {
			// No usage sampling needed just to report the version.
			src := system.New(system.WithContainerOptions(container.WithUsageWindow(0)))
			limits, err := src.Container().Unwrap()
			if err != nil {
				return err
			}
			return emit(o, limits.Version.String(), func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "cgroup version:\t%s\n", limits.Version)
			})
		},
	}
}

func containerCmd(o *opts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "container",
		Short: "Show container/cgroup limits and usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			o.applyUsageWindowFlag(cmd)
			l, err := newSource(o).Container().Unwrap()
			if err != nil {
				return err
			}
			return emit(o, l, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "cgroup:\t%s\n", l.Version)
				fmt.Fprintf(w, "cpu quota (cores):\t%s\n", optFloat(l.CPUQuotaCores, "unlimited"))
				fmt.Fprintf(w, "cpu usage (cores):\t%s\n", optFloat(l.CPUUsageCores, "n/a"))
				if pct, ok := l.CPUUtilizationPercentage(); ok {
					fmt.Fprintf(w, "cpu utilization:\t%.1f%%\n", pct)
				}
				if l.MemoryLimit != nil {
					fmt.Fprintf(w, "memory limit:\t%s\n", l.MemoryLimit.Humanized())
				} else {
					fmt.Fprintf(w, "memory limit:\tunlimited\n")
				}
				if l.MemoryUsage != nil {
					fmt.Fprintf(w, "memory usage:\t%s\n", l.MemoryUsage.Humanized())
				}
				if avail, ok := l.AvailableMemoryBytes(); ok {
					fmt.Fprintf(w, "memory available:\t%s\n", avail.Humanized())
				}
				if l.ThrottledCount != nil {
					fmt.Fprintf(w, "cpu throttled events:\t%d\n", *l.ThrottledCount)
				}
				if l.OOMKills != nil {
					fmt.Fprintf(w, "oom kills:\t%d\n", *l.OOMKills)
				}
			})
		},
	}
	cmd.Flags().Duration("usage-window", o.UsageWindow, "CPU usage sampling window (0 disables)")
	return cmd
}

// applyUsageWindowFlag lets the flag override the config-file value.
func (o *opts) applyUsageWindowFlag(cmd *cobra.Command) {
	if cmd.Flags().Changed("usage-window") {
		o.UsageWindow, _ = cmd.Flags().GetDuration("usage-window")
	}
}

func cpuCmd(o *opts) *cobra.Command {
	return &cobra.Command{
		Use:   "cpu",
		Short: "Show /proc/stat jiffy counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := newSource(o).CPU().Unwrap()
			if err != nil {
				return err
			}
			return emit(o, snap, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "core\tuser\tnice\tsystem\tidle\tiowait\tsteal\n")
				fmt.Fprintf(w, "all\t%d\t%d\t%d\t%d\t%d\t%d\n",
					snap.Total.User, snap.Total.Nice, snap.Total.System,
					snap.Total.Idle, snap.Total.IOWait, snap.Total.Steal)
				for _, c := range snap.Cores {
					fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
						c.Index, c.User, c.Nice, c.System, c.Idle, c.IOWait, c.Steal)
				}
			})
		},
	}
}

func processCmd(o *opts) *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:   "process <pid>",
		Short: "Show one process, or a process tree with --group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid pid %q", args[0])
			}
			src := newSource(o)
			if group {
				g, err := src.ProcessGroup(pid).Unwrap()
				if err != nil {
					return err
				}
				return emit(o, g, func(w *tabwriter.Writer) {
					fmt.Fprintf(w, "root pid:\t%d\n", g.RootPID)
					fmt.Fprintf(w, "members:\t%d\n", len(g.PIDs))
					fmt.Fprintf(w, "cpu time:\t%.2fs\n", g.CPUSeconds())
					fmt.Fprintf(w, "rss:\t%s\n", g.RSS.Humanized())
					fmt.Fprintf(w, "read:\t%s\n", g.ReadBytes.Humanized())
					fmt.Fprintf(w, "written:\t%s\n", g.WriteBytes.Humanized())
				})
			}
			p, err := src.Process(pid).Unwrap()
			if err != nil {
				return err
			}
			return emit(o, p, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "pid:\t%d (%s)\n", p.PID, p.Comm)
				fmt.Fprintf(w, "state:\t%s\n", p.State)
				fmt.Fprintf(w, "parent:\t%d\n", p.PPID)
				fmt.Fprintf(w, "cpu time:\t%.2fs\n", p.CPUSeconds())
				fmt.Fprintf(w, "rss:\t%s\n", p.RSS.Humanized())
				fmt.Fprintf(w, "faults (min/maj):\t%d/%d\n", p.MinorFaults, p.MajorFaults)
			})
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "aggregate the PID and all descendants")
	return cmd
}

func storageCmd(o *opts) *cobra.Command {
	return &cobra.Command{
		Use:   "storage",
		Short: "Show mounted filesystems and capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := newSource(o).Storage().Unwrap()
			if err != nil {
				return err
			}
			return emit(o, snap.Mounts(), func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "device\tmount\ttype\ttotal\tused\tavail\n")
				for _, m := range snap.Mounts() {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						m.Device, m.Path, m.FsType,
						m.TotalBytes.Humanized(), m.UsedBytes.Humanized(), m.AvailBytes.Humanized())
				}
			})
		},
	}
}

func netCmd(o *opts) *cobra.Command {
	return &cobra.Command{
		Use:   "net",
		Short: "Show network interface counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			ifaces, err := newSource(o).Network().Unwrap()
			if err != nil {
				return err
			}
			totals := netio.Sum(ifaces, o.Loopback)
			return emit(o, ifaces, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "iface\trx\ttx\trx pkts\ttx pkts\terrs\n")
				for _, i := range ifaces {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
						i.Name, i.RxBytes.Humanized(), i.TxBytes.Humanized(),
						i.RxPackets, i.TxPackets, i.RxErrors+i.TxErrors)
				}
				fmt.Fprintf(w, "total\t%s\t%s\t%d\t%d\t%d\n",
					totals.RxBytes.Humanized(), totals.TxBytes.Humanized(),
					totals.RxPackets, totals.TxPackets, totals.RxErrors+totals.TxErrors)
			})
		},
	}
}

func hostCmd(o *opts) *cobra.Command {
	return &cobra.Command{
		Use:   "host",
		Short: "Show host identity and system-wide load/memory",
		RunE: func(cmd *cobra.Command, args []string) error {
			src := newSource(o)
			info := src.Host()
			load, _ := src.LoadAverage().Unwrap()
			mem, err := src.Memory().Unwrap()
			if err != nil {
				slog.Warn("meminfo unavailable", "err", err)
			}
			out := struct {
				Hostname string  `json:"hostname"`
				Family   string  `json:"family"`
				Arch     string  `json:"arch"`
				Virt     string  `json:"virt"`
				Kernel   string  `json:"kernel"`
				Load1    float64 `json:"load_1m"`
				MemTotal uint64  `json:"mem_total_bytes"`
				MemUsed  uint64  `json:"mem_used_bytes"`
			}{info.Hostname, info.Family.String(), info.Arch.String(),
				info.VirtVendor.String(), info.Kernel, load.One, uint64(mem.Total), uint64(mem.Used())}
			return emit(o, out, func(w *tabwriter.Writer) {
				fmt.Fprintf(w, "hostname:\t%s\n", info.Hostname)
				fmt.Fprintf(w, "os/arch:\t%s/%s\n", info.Family, info.Arch)
				fmt.Fprintf(w, "virtualization:\t%s\n", info.VirtVendor)
				fmt.Fprintf(w, "kernel:\t%s\n", info.Kernel)
				fmt.Fprintf(w, "load (1m/5m/15m):\t%.2f %.2f %.2f\n", load.One, load.Five, load.Fifteen)
				fmt.Fprintf(w, "memory:\t%s used / %s\n", mem.Used().Humanized(), mem.Total.Humanized())
			})
		},
	}
}

// emit prints v as JSON when requested, otherwise renders the table form.
func emit(o *opts, v any, table func(w *tabwriter.Writer)) error {
	if o.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	table(w)
	return w.Flush()
}

func optFloat(v *float64, absent string) string {
	if v == nil {
		return absent
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
