package monitor

import "math"

// AlertLevel is the severity derived from a metric value.
type AlertLevel int

const (
	AlertNormal AlertLevel = iota
	AlertWarning
	AlertCritical
)

// String returns a human-readable level name.
func (l AlertLevel) String() string {
	switch l {
	case AlertNormal:
		return "normal"
	case AlertWarning:
		return "warning"
	case AlertCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// MetricKind selects the threshold table used for classification.
type MetricKind int

const (
	KindCPU MetricKind = iota
	KindMemory
	KindDisk
)

// String returns the metric kind label.
func (k MetricKind) String() string {
	switch k {
	case KindCPU:
		return "cpu"
	case KindMemory:
		return "memory"
	case KindDisk:
		return "disk"
	default:
		return "unknown"
	}
}

// Thresholds are the percentage boundaries where a metric turns warning and
// critical. Both bounds are inclusive: a value equal to Critical is critical.
type Thresholds struct {
	Warning  float64
	Critical float64
}

// DefaultThresholds holds the static per-kind thresholds.
var DefaultThresholds = map[MetricKind]Thresholds{
	KindCPU:    {Warning: 75, Critical: 90},
	KindMemory: {Warning: 75, Critical: 90},
	KindDisk:   {Warning: 75, Critical: 90},
}

// Classify maps a value to an alert level. NaN and negative values are
// normal and anything above 100 is critical, so every float has a level.
func (t Thresholds) Classify(value float64) AlertLevel {
	switch {
	case math.IsNaN(value):
		return AlertNormal
	case value >= t.Critical:
		return AlertCritical
	case value >= t.Warning:
		return AlertWarning
	default:
		return AlertNormal
	}
}

// Classify returns the alert level for a value of the given kind using
// DefaultThresholds. Unknown kinds use the disk table.
func Classify(kind MetricKind, value float64) AlertLevel {
	t, ok := DefaultThresholds[kind]
	if !ok {
		t = DefaultThresholds[KindDisk]
	}
	return t.Classify(value)
}
