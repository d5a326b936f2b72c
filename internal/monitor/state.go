package monitor

import (
	"sort"
	"time"

	"github.com/rileyhilliard/termdash/internal/errors"
	"github.com/rileyhilliard/termdash/internal/logger"
)

// Reading is the current value of a scalar metric.
// Available is false until the first successful read. Stale is set when
// the latest read failed and Value is carried over from an earlier tick.
type Reading struct {
	Value     float64   `yaml:"value"`
	Available bool      `yaml:"available"`
	Stale     bool      `yaml:"stale"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// Set records a successful read.
func (r *Reading) Set(value float64, at time.Time) {
	r.Value = value
	r.Available = true
	r.Stale = false
	r.UpdatedAt = at
}

// MarkStale records a failed read. The previous value is kept; a metric
// that was never read stays unavailable rather than stale.
func (r *Reading) MarkStale() {
	if r.Available {
		r.Stale = true
	}
}

// Level classifies the reading, or reports normal if it was never read.
func (r Reading) Level(kind MetricKind) AlertLevel {
	if !r.Available {
		return AlertNormal
	}
	return Classify(kind, r.Value)
}

// MemoryState is memory usage as a percentage plus the raw byte counts.
type MemoryState struct {
	Reading    `yaml:",inline"`
	UsedBytes  uint64 `yaml:"used_bytes"`
	TotalBytes uint64 `yaml:"total_bytes"`
}

// DiskReading is what the collector reports for one mount point.
type DiskReading struct {
	UsedPercent float64
	UsedBytes   uint64
	TotalBytes  uint64
}

// DiskState is the dashboard's view of one mount point.
type DiskState struct {
	Reading    `yaml:",inline"`
	Mount      string `yaml:"mount"`
	UsedBytes  uint64 `yaml:"used_bytes"`
	TotalBytes uint64 `yaml:"total_bytes"`
}

// ProcessInfo is one row of the top-processes table.
type ProcessInfo struct {
	PID         int32   `yaml:"pid"`
	Name        string  `yaml:"name"`
	CPUPercent  float64 `yaml:"cpu_percent"`
	MemoryBytes uint64  `yaml:"memory_bytes"`
}

// DashboardState is everything the dashboard shows. It has a single owner:
// the Sampler mutates it during a refresh and the renderer only reads it.
// It is not safe for concurrent use.
type DashboardState struct {
	Hostname string

	History *History

	CPU    Reading
	Memory MemoryState
	Uptime Reading // seconds

	// Disks in display order, one per configured mount
	Disks []*DiskState

	Network      *InterfaceTracker
	Interfaces   []Interface // active set from the last successful read
	NetworkStale bool

	Processes      []ProcessInfo
	ProcessesStale bool

	// SensorErrors holds the latest failure of each metric that is
	// currently unavailable, keyed by metric name (e.g., "disk /data").
	SensorErrors map[string]*errors.Error

	LastRefresh time.Time

	// lastNetworkObservation is when the tracker last received readings;
	// rate deltas are measured from it so a failed read doesn't inflate
	// the next tick's rates.
	lastNetworkObservation time.Time
}

// NewDashboardState creates an empty state keeping historySize samples
// per metric.
func NewDashboardState(historySize int, log logger.Logger) *DashboardState {
	return &DashboardState{
		History: NewHistory(historySize),
		Network: NewInterfaceTracker(log),
	}
}

// Disk returns the state for a mount, or nil if it isn't tracked.
func (s *DashboardState) Disk(mount string) *DiskState {
	for _, d := range s.Disks {
		if d.Mount == mount {
			return d
		}
	}
	return nil
}

// disk returns the state for a mount, creating it in display order.
func (s *DashboardState) disk(mount string) *DiskState {
	if d := s.Disk(mount); d != nil {
		return d
	}
	d := &DiskState{Mount: mount}
	s.Disks = append(s.Disks, d)
	return d
}

// UptimeDuration returns the last known uptime.
func (s *DashboardState) UptimeDuration() time.Duration {
	return time.Duration(s.Uptime.Value * float64(time.Second))
}

// HasRefreshed reports whether at least one refresh cycle has completed.
func (s *DashboardState) HasRefreshed() bool {
	return !s.LastRefresh.IsZero()
}

// StaleMetrics returns the names of metrics whose last read failed, sorted.
func (s *DashboardState) StaleMetrics() []string {
	out := make([]string, 0, len(s.SensorErrors))
	for name := range s.SensorErrors {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
