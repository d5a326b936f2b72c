// Package sensors reads metrics of the local machine for the dashboard.
package sensors

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rileyhilliard/termdash/internal/logger"
	"github.com/rileyhilliard/termdash/internal/monitor"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotSampled is returned by getters before the first refresh.
	ErrNotSampled = errors.New("not sampled yet")
	// ErrTimedOut is returned for reads that missed the refresh deadline.
	ErrTimedOut = errors.New("sensor read timed out")
	// ErrUnknownMount is returned for mounts the host wasn't asked to read.
	ErrUnknownMount = errors.New("mount not sampled")
)

type result[T any] struct {
	val T
	err error
}

func pending[T any]() result[T] {
	return result[T]{err: ErrTimedOut}
}

// reading is one refresh's worth of results. Reads write into it
// concurrently until it is sealed; later writes are dropped.
type reading struct {
	mu     sync.Mutex
	sealed bool

	cpu       result[float64]
	memUsed   uint64
	memTotal  uint64
	memErr    error
	disks     map[string]result[monitor.DiskReading]
	network   result[[]monitor.InterfaceReading]
	uptime    result[time.Duration]
	processes result[[]monitor.ProcessInfo]
}

func newReading(mounts []string, withProcesses bool) *reading {
	r := &reading{
		cpu:       pending[float64](),
		memErr:    ErrTimedOut,
		disks:     make(map[string]result[monitor.DiskReading], len(mounts)),
		network:   pending[[]monitor.InterfaceReading](),
		uptime:    pending[time.Duration](),
		processes: result[[]monitor.ProcessInfo]{},
	}
	for _, m := range mounts {
		r.disks[m] = pending[monitor.DiskReading]()
	}
	if withProcesses {
		r.processes = pending[[]monitor.ProcessInfo]()
	}
	return r
}

// store applies fn unless the reading is already sealed.
func (r *reading) store(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.sealed {
		fn()
	}
}

func (r *reading) seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Host is a monitor.Source for the local machine. Refresh runs every OS
// read concurrently and waits for them only until ctx is done; reads that
// haven't finished by then report ErrTimedOut for that refresh.
type Host struct {
	readers       Readers
	mounts        []string
	withProcesses bool
	log           logger.Logger

	mu      sync.Mutex
	current *reading
}

// Option configures a Host.
type Option func(*Host)

// WithReaders replaces the gopsutil reads.
func WithReaders(r Readers) Option {
	return func(h *Host) {
		h.readers = r
	}
}

// WithProcesses enables or disables the process listing, which is the
// most expensive read.
func WithProcesses(enabled bool) Option {
	return func(h *Host) {
		h.withProcesses = enabled
	}
}

// WithLogger sets the host's logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.log = l
		}
	}
}

// NewHost creates a source reading the given mounts.
func NewHost(mounts []string, opts ...Option) *Host {
	h := &Host{
		readers:       GopsutilReaders(),
		mounts:        append([]string(nil), mounts...),
		withProcesses: true,
		log:           logger.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Refresh takes a new reading. It returns ctx's error when some reads
// missed the deadline; their getters then report ErrTimedOut.
func (h *Host) Refresh(ctx context.Context) error {
	r := newReading(h.mounts, h.withProcesses)

	var g errgroup.Group

	g.Go(func() error {
		v, err := h.readers.CPUPercent(ctx)
		r.store(func() { r.cpu = result[float64]{v, err} })
		return nil
	})

	g.Go(func() error {
		used, total, err := h.readers.Memory(ctx)
		r.store(func() { r.memUsed, r.memTotal, r.memErr = used, total, err })
		return nil
	})

	for _, mount := range h.mounts {
		g.Go(func() error {
			v, err := h.readers.Disk(ctx, mount)
			r.store(func() { r.disks[mount] = result[monitor.DiskReading]{v, err} })
			return nil
		})
	}

	g.Go(func() error {
		v, err := h.readers.Network(ctx)
		r.store(func() { r.network = result[[]monitor.InterfaceReading]{v, err} })
		return nil
	})

	g.Go(func() error {
		v, err := h.readers.Uptime(ctx)
		r.store(func() { r.uptime = result[time.Duration]{v, err} })
		return nil
	})

	if h.withProcesses {
		g.Go(func() error {
			v, err := h.readers.Processes(ctx)
			if err == nil {
				SortProcesses(v)
			}
			r.store(func() { r.processes = result[[]monitor.ProcessInfo]{v, err} })
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
		h.log.Debug("sensor refresh cut short: %v", err)
	}
	r.seal()

	h.mu.Lock()
	h.current = r
	h.mu.Unlock()

	return err
}

func (h *Host) reading() *reading {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// CPUUsage returns total CPU usage in percent.
func (h *Host) CPUUsage() (float64, error) {
	r := h.reading()
	if r == nil {
		return 0, ErrNotSampled
	}
	return r.cpu.val, r.cpu.err
}

// MemoryUsage returns used and total physical memory in bytes.
func (h *Host) MemoryUsage() (uint64, uint64, error) {
	r := h.reading()
	if r == nil {
		return 0, 0, ErrNotSampled
	}
	return r.memUsed, r.memTotal, r.memErr
}

// DiskUsage returns usage of a mount point.
func (h *Host) DiskUsage(mount string) (monitor.DiskReading, error) {
	r := h.reading()
	if r == nil {
		return monitor.DiskReading{}, ErrNotSampled
	}
	d, ok := r.disks[mount]
	if !ok {
		return monitor.DiskReading{}, ErrUnknownMount
	}
	return d.val, d.err
}

// Interfaces returns cumulative byte counters per network interface.
func (h *Host) Interfaces() ([]monitor.InterfaceReading, error) {
	r := h.reading()
	if r == nil {
		return nil, ErrNotSampled
	}
	return r.network.val, r.network.err
}

// Uptime returns time since boot.
func (h *Host) Uptime() (time.Duration, error) {
	r := h.reading()
	if r == nil {
		return 0, ErrNotSampled
	}
	return r.uptime.val, r.uptime.err
}

// TopProcesses returns up to n processes, busiest first.
func (h *Host) TopProcesses(n int) ([]monitor.ProcessInfo, error) {
	r := h.reading()
	if r == nil {
		return nil, ErrNotSampled
	}
	if r.processes.err != nil {
		return nil, r.processes.err
	}
	if n <= 0 {
		return nil, nil
	}
	procs := r.processes.val
	if n < len(procs) {
		procs = procs[:n]
	}
	return append([]monitor.ProcessInfo(nil), procs...), nil
}

var _ monitor.Source = (*Host)(nil)
