package sysinfo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultProcessCount = 5
	DefaultDiskPath     = "/"
	DefaultCPUSample    = 200 * time.Millisecond
)

// ErrNoData is returned when every probe failed.
var ErrNoData = errors.New("no system data could be collected")

// Source produces snapshots.
type Source interface {
	Collect(ctx context.Context) (Snapshot, error)
}

// probes are the raw readers behind a Collector. Tests replace them.
type probes struct {
	host      func(ctx context.Context) (HostInfo, error)
	cpu       func(ctx context.Context, sample time.Duration) (CPUInfo, error)
	memory    func(ctx context.Context) (MemoryInfo, error)
	load      func(ctx context.Context) (LoadInfo, error)
	disk      func(ctx context.Context, path string) (DiskInfo, error)
	network   func(ctx context.Context) (NetworkInfo, error)
	processes func(ctx context.Context) ([]Process, error)
}

// Collector reads the local system through gopsutil.
type Collector struct {
	processCount int
	diskPath     string
	cpuSample    time.Duration
	now          func() time.Time
	probes       probes
}

// Option configures a Collector.
type Option func(*Collector)

// WithProcessCount sets how many top processes are kept.
func WithProcessCount(n int) Option {
	return func(c *Collector) {
		c.processCount = n
	}
}

// WithDiskPath sets the mount point whose usage is reported.
func WithDiskPath(path string) Option {
	return func(c *Collector) {
		c.diskPath = path
	}
}

// WithCPUSample sets how long CPU usage is measured.
func WithCPUSample(d time.Duration) Option {
	return func(c *Collector) {
		c.cpuSample = d
	}
}

// NewCollector creates a Collector with gopsutil probes.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		processCount: DefaultProcessCount,
		diskPath:     DefaultDiskPath,
		cpuSample:    DefaultCPUSample,
		now:          time.Now,
		probes: probes{
			host:      readHost,
			cpu:       readCPU,
			memory:    readMemory,
			load:      readLoad,
			disk:      readDisk,
			network:   readNetwork,
			processes: readProcesses,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect runs every probe concurrently. Failed probes are reported as
// warnings; an error is returned only when nothing could be read or the
// context ended.
func (c *Collector) Collect(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{CollectedAt: c.now()}

	var (
		mu       sync.Mutex
		failures []string
	)
	record := func(name string, err error) {
		mu.Lock()
		defer mu.Unlock()
		failures = append(failures, fmt.Sprintf("%s: %v", name, err))
	}

	g, gctx := errgroup.WithContext(ctx)
	probed := 0
	run := func(name string, fn func(context.Context) error) {
		probed++
		g.Go(func() error {
			if err := fn(gctx); err != nil {
				record(name, err)
			}
			return nil
		})
	}

	run("host", func(ctx context.Context) (err error) {
		snap.Host, err = c.probes.host(ctx)
		return err
	})
	run("cpu", func(ctx context.Context) (err error) {
		snap.CPU, err = c.probes.cpu(ctx, c.cpuSample)
		return err
	})
	run("memory", func(ctx context.Context) (err error) {
		snap.Memory, err = c.probes.memory(ctx)
		return err
	})
	run("load", func(ctx context.Context) (err error) {
		snap.Load, err = c.probes.load(ctx)
		return err
	})
	run("disk", func(ctx context.Context) (err error) {
		snap.Disk, err = c.probes.disk(ctx, c.diskPath)
		return err
	})
	run("network", func(ctx context.Context) (err error) {
		snap.Network, err = c.probes.network(ctx)
		return err
	})
	run("processes", func(ctx context.Context) error {
		ps, err := c.probes.processes(ctx)
		if err != nil {
			return err
		}
		snap.Processes = TopProcesses(ps, c.processCount)
		return nil
	})

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("system snapshot interrupted: %w", err)
	}
	if len(failures) == probed {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrNoData, failures)
	}
	sort.Strings(failures)
	snap.Warnings = failures
	return snap, nil
}

func readHost(ctx context.Context) (HostInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return HostInfo{}, err
	}
	return HostInfo{
		Hostname:        info.Hostname,
		OS:              info.OS,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelVersion:   info.KernelVersion,
		Uptime:          time.Duration(info.Uptime) * time.Second,
	}, nil
}

func readCPU(ctx context.Context, sample time.Duration) (CPUInfo, error) {
	cores, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return CPUInfo{}, err
	}
	percents, err := cpu.PercentWithContext(ctx, sample, false)
	if err != nil {
		return CPUInfo{}, err
	}
	info := CPUInfo{Cores: cores}
	if len(percents) > 0 {
		info.Percent = percents[0]
	}
	return info, nil
}

func readMemory(ctx context.Context) (MemoryInfo, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryInfo{}, err
	}
	return MemoryInfo{
		Total:       vm.Total,
		Used:        vm.Used,
		Available:   vm.Available,
		UsedPercent: vm.UsedPercent,
	}, nil
}

func readLoad(ctx context.Context) (LoadInfo, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return LoadInfo{}, err
	}
	return LoadInfo{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}, nil
}

func readDisk(ctx context.Context, path string) (DiskInfo, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return DiskInfo{}, err
	}
	return DiskInfo{
		Path:        usage.Path,
		Total:       usage.Total,
		Used:        usage.Used,
		UsedPercent: usage.UsedPercent,
	}, nil
}

func readNetwork(ctx context.Context) (NetworkInfo, error) {
	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return NetworkInfo{}, err
	}
	if len(counters) == 0 {
		return NetworkInfo{}, errors.New("no network counters")
	}
	return NetworkInfo{BytesSent: counters[0].BytesSent, BytesRecv: counters[0].BytesRecv}, nil
}

// readProcesses lists processes. Processes that vanish or deny access while
// being read are skipped.
func readProcesses(ctx context.Context) ([]Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		cpuPct, err := p.CPUPercentWithContext(ctx)
		if err != nil {
			continue
		}
		memPct, _ := p.MemoryPercentWithContext(ctx)
		out = append(out, Process{PID: p.Pid, Name: name, CPU: cpuPct, Memory: memPct})
	}
	return out, nil
}
