package sensors

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rileyhilliard/termdash/internal/monitor"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// Readers are the OS reads a Host performs each refresh. Tests replace
// them; GopsutilReaders returns the real ones.
type Readers struct {
	CPUPercent func(ctx context.Context) (float64, error)
	Memory     func(ctx context.Context) (used, total uint64, err error)
	Disk       func(ctx context.Context, mount string) (monitor.DiskReading, error)
	Network    func(ctx context.Context) ([]monitor.InterfaceReading, error)
	Uptime     func(ctx context.Context) (time.Duration, error)
	Processes  func(ctx context.Context) ([]monitor.ProcessInfo, error)
}

// GopsutilReaders reads the local machine through gopsutil.
func GopsutilReaders() Readers {
	procs := &processReader{known: make(map[int32]*process.Process)}
	return Readers{
		CPUPercent: readCPU,
		Memory:     readMemory,
		Disk:       readDisk,
		Network:    readNetwork,
		Uptime:     readUptime,
		Processes:  procs.read,
	}
}

func readCPU(ctx context.Context) (float64, error) {
	// Interval 0 compares against the previous call, so each refresh
	// reports usage since the last one.
	pct, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, err
	}
	if len(pct) == 0 {
		return 0, fmt.Errorf("no CPU usage reported")
	}
	return pct[0], nil
}

func readMemory(ctx context.Context) (uint64, uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, err
	}
	return vm.Used, vm.Total, nil
}

func readDisk(ctx context.Context, mount string) (monitor.DiskReading, error) {
	usage, err := disk.UsageWithContext(ctx, mount)
	if err != nil {
		return monitor.DiskReading{}, err
	}
	return monitor.DiskReading{
		UsedPercent: usage.UsedPercent,
		UsedBytes:   usage.Used,
		TotalBytes:  usage.Total,
	}, nil
}

func readNetwork(ctx context.Context) ([]monitor.InterfaceReading, error) {
	counters, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]monitor.InterfaceReading, 0, len(counters))
	for _, c := range counters {
		out = append(out, monitor.InterfaceReading{
			Name:    c.Name,
			RxBytes: c.BytesRecv,
			TxBytes: c.BytesSent,
		})
	}
	return out, nil
}

func readUptime(ctx context.Context) (time.Duration, error) {
	secs, err := host.UptimeWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}

// processReader keeps process handles between refreshes so CPU percent is
// measured over the refresh interval rather than the process lifetime.
type processReader struct {
	mu    sync.Mutex
	known map[int32]*process.Process
}

func (r *processReader) read(ctx context.Context) ([]monitor.ProcessInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int32]*process.Process, len(procs))
	out := make([]monitor.ProcessInfo, 0, len(procs))
	for _, p := range procs {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if prev, ok := r.known[p.Pid]; ok {
			p = prev
		}
		seen[p.Pid] = p

		name, err := p.NameWithContext(ctx)
		if err != nil {
			// Exited or not ours to inspect
			continue
		}
		pct, err := p.PercentWithContext(ctx, 0)
		if err != nil {
			continue
		}
		info := monitor.ProcessInfo{PID: p.Pid, Name: name, CPUPercent: pct}
		if m, err := p.MemoryInfoWithContext(ctx); err == nil && m != nil {
			info.MemoryBytes = m.RSS
		}
		out = append(out, info)
	}
	r.known = seen

	return out, nil
}

// SortProcesses orders processes by CPU, then memory, then PID.
func SortProcesses(procs []monitor.ProcessInfo) {
	sort.SliceStable(procs, func(i, j int) bool {
		a, b := procs[i], procs[j]
		if a.CPUPercent != b.CPUPercent {
			return a.CPUPercent > b.CPUPercent
		}
		if a.MemoryBytes != b.MemoryBytes {
			return a.MemoryBytes > b.MemoryBytes
		}
		return a.PID < b.PID
	})
}

// Hostname returns the machine's host name.
func Hostname(ctx context.Context) string {
	if info, err := host.InfoWithContext(ctx); err == nil && info.Hostname != "" {
		return info.Hostname
	}
	name, _ := os.Hostname()
	return name
}

// DiscoverMounts lists the mount points of physical partitions, in the
// order the OS reports them. It falls back to "/" when nothing is found.
func DiscoverMounts(ctx context.Context) []string {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil || len(parts) == 0 {
		return []string{"/"}
	}
	return uniqueMounts(parts)
}

func uniqueMounts(parts []disk.PartitionStat) []string {
	seen := make(map[string]bool, len(parts))
	var out []string
	for _, p := range parts {
		if p.Mountpoint == "" || seen[p.Mountpoint] {
			continue
		}
		seen[p.Mountpoint] = true
		out = append(out, p.Mountpoint)
	}
	if len(out) == 0 {
		return []string{"/"}
	}
	return out
}
