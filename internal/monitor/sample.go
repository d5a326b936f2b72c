package monitor

import (
	"strings"
	"time"
)

// MetricSample is one metric reading at one instant.
type MetricSample struct {
	Value     float64
	Timestamp time.Time
}

// NewSample creates a sample. Timestamps from time.Now carry the monotonic
// clock reading, so ordering survives wall-clock adjustments.
func NewSample(value float64, at time.Time) MetricSample {
	return MetricSample{Value: value, Timestamp: at}
}

// MetricKey names a tracked time series in History.
type MetricKey string

// Fixed metric keys
const (
	KeyCPU    MetricKey = "cpu"
	KeyMemory MetricKey = "memory"
)

// DiskKey returns the history key for a mount point.
func DiskKey(mount string) MetricKey {
	return MetricKey("disk:" + mount)
}

// NetRxKey returns the history key for an interface's receive rate.
func NetRxKey(iface string) MetricKey {
	return MetricKey("net:" + iface + ":rx")
}

// NetTxKey returns the history key for an interface's transmit rate.
func NetTxKey(iface string) MetricKey {
	return MetricKey("net:" + iface + ":tx")
}

// Interface returns the interface a network rate key belongs to. ok is
// false for every other key.
func (k MetricKey) Interface() (iface string, ok bool) {
	rest, ok := strings.CutPrefix(string(k), "net:")
	if !ok {
		return "", false
	}
	for _, dir := range []string{":rx", ":tx"} {
		if name, found := strings.CutSuffix(rest, dir); found && name != "" {
			return name, true
		}
	}
	return "", false
}
