package monitor

import (
	"sort"
	"time"

	"github.com/rileyhilliard/termdash/internal/logger"
)

// InterfaceReading is one interface's cumulative byte counters as reported
// by the collector on a single tick.
type InterfaceReading struct {
	Name    string `yaml:"name"`
	RxBytes uint64 `yaml:"rx_bytes"`
	TxBytes uint64 `yaml:"tx_bytes"`
}

// Interface is a tracked network interface with its last computed
// throughput in bytes per second.
type Interface struct {
	Name         string  `yaml:"name"`
	RxBytesTotal uint64  `yaml:"rx_bytes_total"`
	TxBytesTotal uint64  `yaml:"tx_bytes_total"`
	RxRate       float64 `yaml:"rx_rate"`
	TxRate       float64 `yaml:"tx_rate"`
}

// Active reports whether the interface moved any bytes on its last tick.
func (i Interface) Active() bool {
	return i.RxRate > 0 || i.TxRate > 0
}

// trackedInterface is the tracker's per-interface bookkeeping.
type trackedInterface struct {
	Interface
	active bool
}

// InterfaceTracker derives per-interface throughput from cumulative
// counters and keeps only interfaces carrying traffic in its active set.
// Counters of idle interfaces stay tracked so a later burst is measured
// against the right baseline.
type InterfaceTracker struct {
	known map[string]*trackedInterface
	log   logger.Logger
}

// NewInterfaceTracker creates an empty tracker. A nil logger discards.
func NewInterfaceTracker(log logger.Logger) *InterfaceTracker {
	if log == nil {
		log = logger.Default()
	}
	return &InterfaceTracker{
		known: make(map[string]*trackedInterface),
		log:   log,
	}
}

// Observe folds one tick of readings into the tracker and returns the
// active interfaces sorted by name.
//
// An interface seen for the first time is active when its counters are
// nonzero; its rates are zero until a second reading gives a delta. When
// elapsed is not positive, known interfaces keep the previous tick's rates.
// A counter that went backwards (interface reset) becomes the new baseline
// with a zero rate for this tick; the other direction is measured as usual. Interfaces absent from readings are
// forgotten.
func (t *InterfaceTracker) Observe(readings []InterfaceReading, elapsed time.Duration) []Interface {
	seen := make(map[string]bool, len(readings))

	for _, r := range readings {
		seen[r.Name] = true

		prev, ok := t.known[r.Name]
		if !ok {
			t.known[r.Name] = &trackedInterface{
				Interface: Interface{
					Name:         r.Name,
					RxBytesTotal: r.RxBytes,
					TxBytesTotal: r.TxBytes,
				},
				active: r.RxBytes > 0 || r.TxBytes > 0,
			}
			continue
		}

		if elapsed <= 0 {
			// Nothing to divide by; keep the previous tick's view
			continue
		}

		secs := elapsed.Seconds()
		prev.RxRate = t.rate(r.Name, "rx", prev.RxBytesTotal, r.RxBytes, secs)
		prev.TxRate = t.rate(r.Name, "tx", prev.TxBytesTotal, r.TxBytes, secs)
		prev.RxBytesTotal = r.RxBytes
		prev.TxBytesTotal = r.TxBytes
		prev.active = prev.Interface.Active()
	}

	for name := range t.known {
		if !seen[name] {
			delete(t.known, name)
		}
	}

	return t.Active()
}

// rate is the per-second delta of one counter. A counter that went
// backwards is rebaselined with rate 0.
func (t *InterfaceTracker) rate(iface, dir string, prev, cur uint64, secs float64) float64 {
	if cur < prev {
		t.log.Debug("%s counter reset on %s (%d -> %d), rebaselining", dir, iface, prev, cur)
		return 0
	}
	return float64(cur-prev) / secs
}

// Active returns the current active set sorted by name.
func (t *InterfaceTracker) Active() []Interface {
	var active []Interface
	for _, ti := range t.known {
		if ti.active {
			active = append(active, ti.Interface)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Name < active[j].Name })
	return active
}

// Get returns the tracked state of a single interface.
func (t *InterfaceTracker) Get(name string) (Interface, bool) {
	ti, ok := t.known[name]
	if !ok {
		return Interface{}, false
	}
	return ti.Interface, true
}

// Tracked returns the names of every tracked interface, active or not.
func (t *InterfaceTracker) Tracked() []string {
	names := make([]string, 0, len(t.known))
	for name := range t.known {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
