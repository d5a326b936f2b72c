package monitor

import (
	"context"
	"errors"
	"time"
)

var errSensor = errors.New("sensor offline")

// fakeTick is one tick's worth of readings. A non-nil error field makes
// the matching getter fail on that tick.
type fakeTick struct {
	cpu    float64
	cpuErr error

	memUsed, memTotal uint64
	memErr            error

	disks    map[string]DiskReading
	diskErrs map[string]error

	ifaces   []InterfaceReading
	ifaceErr error

	uptime    time.Duration
	uptimeErr error

	procs   []ProcessInfo
	procErr error

	refreshErr error
}

// fakeSource replays a scripted sequence of ticks. Each Refresh advances
// to the next tick; the last tick repeats once the script runs out.
type fakeSource struct {
	ticks     []fakeTick
	idx       int
	refreshes int
	onRefresh func()
}

func newFakeSource(ticks ...fakeTick) *fakeSource {
	return &fakeSource{ticks: ticks, idx: -1}
}

func (f *fakeSource) cur() fakeTick {
	if f.idx < 0 {
		return fakeTick{}
	}
	if f.idx >= len(f.ticks) {
		return f.ticks[len(f.ticks)-1]
	}
	return f.ticks[f.idx]
}

func (f *fakeSource) Refresh(ctx context.Context) error {
	f.refreshes++
	if f.onRefresh != nil {
		f.onRefresh()
	}
	if f.idx < len(f.ticks)-1 {
		f.idx++
	}
	return f.cur().refreshErr
}

func (f *fakeSource) CPUUsage() (float64, error) {
	t := f.cur()
	return t.cpu, t.cpuErr
}

func (f *fakeSource) MemoryUsage() (uint64, uint64, error) {
	t := f.cur()
	return t.memUsed, t.memTotal, t.memErr
}

func (f *fakeSource) DiskUsage(mount string) (DiskReading, error) {
	t := f.cur()
	if err := t.diskErrs[mount]; err != nil {
		return DiskReading{}, err
	}
	d, ok := t.disks[mount]
	if !ok {
		return DiskReading{}, errors.New("no such mount")
	}
	return d, nil
}

func (f *fakeSource) Interfaces() ([]InterfaceReading, error) {
	t := f.cur()
	return t.ifaces, t.ifaceErr
}

func (f *fakeSource) Uptime() (time.Duration, error) {
	t := f.cur()
	return t.uptime, t.uptimeErr
}

func (f *fakeSource) TopProcesses(n int) ([]ProcessInfo, error) {
	t := f.cur()
	if t.procErr != nil {
		return nil, t.procErr
	}
	if len(t.procs) > n {
		return t.procs[:n], nil
	}
	return t.procs, nil
}

// fakeClock advances by step every call.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

// healthyTick is a baseline tick with every sensor working.
func healthyTick() fakeTick {
	return fakeTick{
		cpu:      25,
		memUsed:  4 << 30,
		memTotal: 16 << 30,
		disks: map[string]DiskReading{
			"/": {UsedPercent: 42, UsedBytes: 42 << 30, TotalBytes: 100 << 30},
		},
		ifaces: []InterfaceReading{
			{Name: "eth0", RxBytes: 1000, TxBytes: 1000},
			{Name: "lo", RxBytes: 50, TxBytes: 50},
		},
		uptime: 3 * time.Hour,
		procs: []ProcessInfo{
			{PID: 1, Name: "init", CPUPercent: 0.1, MemoryBytes: 1 << 20},
		},
	}
}
