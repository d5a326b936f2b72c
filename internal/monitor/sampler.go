package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/termdash/internal/errors"
	"github.com/rileyhilliard/termdash/internal/logger"
)

// Source is the metrics-collection capability the sampler reads from.
// Refresh updates the source's snapshot of the OS; the getters then return
// values from that snapshot without blocking. A getter error means the
// metric is unavailable this tick.
type Source interface {
	Refresh(ctx context.Context) error
	CPUUsage() (float64, error)
	MemoryUsage() (used, total uint64, err error)
	DiskUsage(mount string) (DiskReading, error)
	Interfaces() ([]InterfaceReading, error)
	Uptime() (time.Duration, error)
	TopProcesses(n int) ([]ProcessInfo, error)
}

// DefaultSampleTimeout bounds one source refresh so a slow sensor can't
// stall the dashboard past its tick.
const DefaultSampleTimeout = 800 * time.Millisecond

// Sampler runs one refresh cycle of a Source into a DashboardState.
type Sampler struct {
	src       Source
	mounts    []string
	processes int
	timeout   time.Duration
	now       func() time.Time
	log       logger.Logger
}

// SamplerOption configures a Sampler.
type SamplerOption func(*Sampler)

// WithMounts sets the mount points whose disk usage is sampled.
func WithMounts(mounts ...string) SamplerOption {
	return func(s *Sampler) {
		s.mounts = append([]string(nil), mounts...)
	}
}

// WithProcessCount sets how many top processes are sampled. Zero disables.
func WithProcessCount(n int) SamplerOption {
	return func(s *Sampler) {
		if n < 0 {
			n = 0
		}
		s.processes = n
	}
}

// WithTimeout bounds each source refresh. Zero means no extra bound.
func WithTimeout(d time.Duration) SamplerOption {
	return func(s *Sampler) {
		s.timeout = d
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) SamplerOption {
	return func(s *Sampler) {
		s.now = now
	}
}

// WithLogger sets the logger for sensor failures.
func WithLogger(l logger.Logger) SamplerOption {
	return func(s *Sampler) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSampler creates a sampler reading from src.
func NewSampler(src Source, opts ...SamplerOption) *Sampler {
	s := &Sampler{
		src:     src,
		timeout: DefaultSampleTimeout,
		now:     time.Now,
		log:     logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mounts returns the sampled mount points.
func (s *Sampler) Mounts() []string {
	return s.mounts
}

// Refresh samples every metric once and folds the results into state.
// A metric that fails to read keeps its previous value, marked stale, and
// the cycle carries on. The only error returned is ctx's, when it is
// already done before sampling starts.
func (s *Sampler) Refresh(ctx context.Context, state *DashboardState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rctx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := s.src.Refresh(rctx); err != nil {
		s.log.Warn("source refresh incomplete: %v", err)
	}

	now := s.now()

	s.sampleCPU(state, now)
	s.sampleMemory(state, now)
	s.sampleDisks(state, now)
	s.sampleNetwork(state, now)
	s.sampleUptime(state, now)
	s.sampleProcesses(state)

	state.LastRefresh = now
	return nil
}

func (s *Sampler) sampleCPU(state *DashboardState, now time.Time) {
	pct, err := s.src.CPUUsage()
	if err != nil {
		state.CPU.MarkStale()
		s.fail(state, "cpu", err)
		return
	}
	s.ok(state, "cpu")
	state.CPU.Set(pct, now)
	state.History.Push(KeyCPU, NewSample(pct, now))
}

func (s *Sampler) sampleMemory(state *DashboardState, now time.Time) {
	used, total, err := s.src.MemoryUsage()
	if err == nil && total == 0 {
		err = fmt.Errorf("total memory reported as zero")
	}
	if err != nil {
		state.Memory.MarkStale()
		s.fail(state, "memory", err)
		return
	}
	s.ok(state, "memory")

	pct := float64(used) / float64(total) * 100
	state.Memory.Set(pct, now)
	state.Memory.UsedBytes = used
	state.Memory.TotalBytes = total
	state.History.Push(KeyMemory, NewSample(pct, now))
}

func (s *Sampler) sampleDisks(state *DashboardState, now time.Time) {
	for _, mount := range s.mounts {
		d := state.disk(mount)

		metric := "disk " + mount
		usage, err := s.src.DiskUsage(mount)
		if err != nil {
			d.MarkStale()
			s.fail(state, metric, err)
			continue
		}
		s.ok(state, metric)

		d.Set(usage.UsedPercent, now)
		d.UsedBytes = usage.UsedBytes
		d.TotalBytes = usage.TotalBytes
		state.History.Push(DiskKey(mount), NewSample(usage.UsedPercent, now))
	}
}

func (s *Sampler) sampleNetwork(state *DashboardState, now time.Time) {
	readings, err := s.src.Interfaces()
	if err != nil {
		state.NetworkStale = true
		s.fail(state, "network", err)
		return
	}
	s.ok(state, "network")

	var elapsed time.Duration
	if !state.lastNetworkObservation.IsZero() {
		elapsed = now.Sub(state.lastNetworkObservation)
	}

	state.Interfaces = state.Network.Observe(readings, elapsed)
	state.NetworkStale = false
	if elapsed > 0 || state.lastNetworkObservation.IsZero() {
		state.lastNetworkObservation = now
	}

	for _, iface := range state.Interfaces {
		state.History.Push(NetRxKey(iface.Name), NewSample(iface.RxRate, now))
		state.History.Push(NetTxKey(iface.Name), NewSample(iface.TxRate, now))
	}

	for _, key := range state.History.Keys() {
		name, ok := key.Interface()
		if !ok {
			continue
		}
		if _, tracked := state.Network.Get(name); !tracked {
			state.History.Forget(key)
		}
	}
}

func (s *Sampler) sampleUptime(state *DashboardState, now time.Time) {
	up, err := s.src.Uptime()
	if err != nil {
		state.Uptime.MarkStale()
		s.fail(state, "uptime", err)
		return
	}
	s.ok(state, "uptime")
	state.Uptime.Set(up.Seconds(), now)
}

func (s *Sampler) sampleProcesses(state *DashboardState) {
	if s.processes == 0 {
		return
	}

	procs, err := s.src.TopProcesses(s.processes)
	if err != nil {
		state.ProcessesStale = true
		s.fail(state, "processes", err)
		return
	}
	s.ok(state, "processes")
	state.Processes = procs
	state.ProcessesStale = false
}

// fail records a sensor failure in state. The first failure of a metric is
// logged as a warning; repeats only at debug level.
func (s *Sampler) fail(state *DashboardState, metric string, err error) {
	_, failing := state.SensorErrors[metric]
	if state.SensorErrors == nil {
		state.SensorErrors = make(map[string]*errors.Error)
	}
	state.SensorErrors[metric] = errors.SensorUnavailable(metric, err)

	if failing {
		s.log.Debug("%s still unavailable: %v", metric, err)
		return
	}
	s.log.Warn("%s unavailable, showing last known value: %v", metric, err)
}

// ok clears a metric's failure after a successful read.
func (s *Sampler) ok(state *DashboardState, metric string) {
	if _, failing := state.SensorErrors[metric]; failing {
		delete(state.SensorErrors, metric)
		s.log.Info("%s recovered", metric)
	}
}
