package monitor

import (
	"context"
	"time"

	"gopkg.in/yaml.v3"
)

// Snapshot is a point-in-time, serializable copy of the dashboard state.
type Snapshot struct {
	Hostname  string          `yaml:"hostname,omitempty"`
	TakenAt   time.Time       `yaml:"taken_at"`
	Uptime    string          `yaml:"uptime,omitempty"`
	CPU       ReadingSnapshot `yaml:"cpu"`
	Memory    MemorySnapshot  `yaml:"memory"`
	Disks     []DiskSnapshot  `yaml:"disks,omitempty"`
	Network   NetworkSnapshot `yaml:"network"`
	Processes []ProcessInfo   `yaml:"processes,omitempty"`
	Stale     []string        `yaml:"stale,omitempty"`
}

// ReadingSnapshot is a scalar percentage with its alert level.
type ReadingSnapshot struct {
	Percent   float64 `yaml:"percent"`
	Level     string  `yaml:"level"`
	Available bool    `yaml:"available"`
	Stale     bool    `yaml:"stale,omitempty"`
}

// MemorySnapshot adds byte counts to the memory reading.
type MemorySnapshot struct {
	ReadingSnapshot `yaml:",inline"`
	UsedBytes       uint64 `yaml:"used_bytes"`
	TotalBytes      uint64 `yaml:"total_bytes"`
}

// DiskSnapshot is one mount point's usage.
type DiskSnapshot struct {
	Mount           string `yaml:"mount"`
	ReadingSnapshot `yaml:",inline"`
	UsedBytes       uint64 `yaml:"used_bytes"`
	TotalBytes      uint64 `yaml:"total_bytes"`
}

// NetworkSnapshot lists the active interfaces.
type NetworkSnapshot struct {
	Stale      bool        `yaml:"stale,omitempty"`
	Interfaces []Interface `yaml:"interfaces"`
}

func snapshotReading(r Reading, kind MetricKind) ReadingSnapshot {
	return ReadingSnapshot{
		Percent:   r.Value,
		Level:     r.Level(kind).String(),
		Available: r.Available,
		Stale:     r.Stale,
	}
}

// NewSnapshot copies state. The snapshot shares nothing with state.
func NewSnapshot(state *DashboardState) Snapshot {
	s := Snapshot{
		Hostname: state.Hostname,
		TakenAt:  state.LastRefresh,
		CPU:      snapshotReading(state.CPU, KindCPU),
		Memory: MemorySnapshot{
			ReadingSnapshot: snapshotReading(state.Memory.Reading, KindMemory),
			UsedBytes:       state.Memory.UsedBytes,
			TotalBytes:      state.Memory.TotalBytes,
		},
		Network: NetworkSnapshot{
			Stale:      state.NetworkStale,
			Interfaces: append([]Interface{}, state.Interfaces...),
		},
		Processes: append([]ProcessInfo(nil), state.Processes...),
		Stale:     state.StaleMetrics(),
	}

	if state.Uptime.Available {
		s.Uptime = state.UptimeDuration().Truncate(time.Second).String()
	}

	for _, d := range state.Disks {
		s.Disks = append(s.Disks, DiskSnapshot{
			Mount:           d.Mount,
			ReadingSnapshot: snapshotReading(d.Reading, KindDisk),
			UsedBytes:       d.UsedBytes,
			TotalBytes:      d.TotalBytes,
		})
	}

	return s
}

// YAML encodes the snapshot.
func (s Snapshot) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

// TakeSnapshot samples twice, interval apart, so network rates have a
// baseline, and returns the resulting state.
func TakeSnapshot(ctx context.Context, sampler *Sampler, state *DashboardState, interval time.Duration) (Snapshot, error) {
	if err := sampler.Refresh(ctx, state); err != nil {
		return Snapshot{}, err
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-timer.C:
	}

	if err := sampler.Refresh(ctx, state); err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(state), nil
}
