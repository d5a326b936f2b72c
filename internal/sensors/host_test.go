package sensors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rileyhilliard/termdash/internal/monitor"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeReaders() Readers {
	return Readers{
		CPUPercent: func(context.Context) (float64, error) { return 12.5, nil },
		Memory: func(context.Context) (uint64, uint64, error) {
			return 2 << 30, 8 << 30, nil
		},
		Disk: func(_ context.Context, mount string) (monitor.DiskReading, error) {
			return monitor.DiskReading{UsedPercent: 42, UsedBytes: 42, TotalBytes: 100}, nil
		},
		Network: func(context.Context) ([]monitor.InterfaceReading, error) {
			return []monitor.InterfaceReading{{Name: "eth0", RxBytes: 10, TxBytes: 20}}, nil
		},
		Uptime: func(context.Context) (time.Duration, error) { return time.Hour, nil },
		Processes: func(context.Context) ([]monitor.ProcessInfo, error) {
			return []monitor.ProcessInfo{
				{PID: 3, Name: "idle", CPUPercent: 0},
				{PID: 1, Name: "busy", CPUPercent: 80},
				{PID: 2, Name: "warm", CPUPercent: 10, MemoryBytes: 5},
				{PID: 4, Name: "warm2", CPUPercent: 10, MemoryBytes: 9},
			}, nil
		},
	}
}

func TestHost_GettersBeforeRefresh(t *testing.T) {
	h := NewHost([]string{"/"}, WithReaders(fakeReaders()))

	_, err := h.CPUUsage()
	assert.ErrorIs(t, err, ErrNotSampled)
	_, _, err = h.MemoryUsage()
	assert.ErrorIs(t, err, ErrNotSampled)
	_, err = h.DiskUsage("/")
	assert.ErrorIs(t, err, ErrNotSampled)
	_, err = h.Interfaces()
	assert.ErrorIs(t, err, ErrNotSampled)
	_, err = h.Uptime()
	assert.ErrorIs(t, err, ErrNotSampled)
	_, err = h.TopProcesses(3)
	assert.ErrorIs(t, err, ErrNotSampled)
}

func TestHost_Refresh(t *testing.T) {
	h := NewHost([]string{"/", "/data"}, WithReaders(fakeReaders()))

	require.NoError(t, h.Refresh(context.Background()))

	cpu, err := h.CPUUsage()
	require.NoError(t, err)
	assert.Equal(t, 12.5, cpu)

	used, total, err := h.MemoryUsage()
	require.NoError(t, err)
	assert.Equal(t, uint64(2<<30), used)
	assert.Equal(t, uint64(8<<30), total)

	for _, mount := range []string{"/", "/data"} {
		d, err := h.DiskUsage(mount)
		require.NoError(t, err)
		assert.Equal(t, 42.0, d.UsedPercent)
	}
	_, err = h.DiskUsage("/elsewhere")
	assert.ErrorIs(t, err, ErrUnknownMount)

	ifaces, err := h.Interfaces()
	require.NoError(t, err)
	assert.Len(t, ifaces, 1)

	up, err := h.Uptime()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, up)
}

func TestHost_TopProcesses(t *testing.T) {
	h := NewHost(nil, WithReaders(fakeReaders()))
	require.NoError(t, h.Refresh(context.Background()))

	top, err := h.TopProcesses(3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []int32{1, 4, 2}, []int32{top[0].PID, top[1].PID, top[2].PID})

	all, err := h.TopProcesses(100)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := h.TopProcesses(0)
	require.NoError(t, err)
	assert.Empty(t, none)

	// Callers get their own copy
	top[0].Name = "mutated"
	again, _ := h.TopProcesses(1)
	assert.Equal(t, "busy", again[0].Name)
}

func TestHost_ProcessesDisabled(t *testing.T) {
	called := false
	r := fakeReaders()
	r.Processes = func(context.Context) ([]monitor.ProcessInfo, error) {
		called = true
		return nil, nil
	}
	h := NewHost(nil, WithReaders(r), WithProcesses(false))

	require.NoError(t, h.Refresh(context.Background()))

	assert.False(t, called)
	procs, err := h.TopProcesses(5)
	assert.NoError(t, err)
	assert.Empty(t, procs)
}

func TestHost_ReadErrorIsPerMetric(t *testing.T) {
	r := fakeReaders()
	r.Network = func(context.Context) ([]monitor.InterfaceReading, error) {
		return nil, errors.New("permission denied")
	}
	h := NewHost([]string{"/"}, WithReaders(r))

	require.NoError(t, h.Refresh(context.Background()))

	_, err := h.Interfaces()
	assert.EqualError(t, err, "permission denied")
	_, err = h.CPUUsage()
	assert.NoError(t, err)
}

// A read that misses the deadline reports a timeout, and its late result
// never lands in the reading that was already handed out.
func TestHost_SlowReadTimesOut(t *testing.T) {
	release := make(chan struct{})
	finished := make(chan struct{})

	r := fakeReaders()
	r.Disk = func(_ context.Context, mount string) (monitor.DiskReading, error) {
		<-release
		defer close(finished)
		return monitor.DiskReading{UsedPercent: 99}, nil
	}
	h := NewHost([]string{"/"}, WithReaders(r))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := h.Refresh(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = h.DiskUsage("/")
	assert.ErrorIs(t, err, ErrTimedOut)

	cpu, err := h.CPUUsage()
	require.NoError(t, err, "fast reads still land")
	assert.Equal(t, 12.5, cpu)

	close(release)
	<-finished
	_, err = h.DiskUsage("/")
	assert.ErrorIs(t, err, ErrTimedOut)
}

func TestHost_WithSampler(t *testing.T) {
	r := fakeReaders()
	r.Disk = func(ctx context.Context, mount string) (monitor.DiskReading, error) {
		if mount == "/slow" {
			<-ctx.Done()
			return monitor.DiskReading{}, ctx.Err()
		}
		return monitor.DiskReading{UsedPercent: 42}, nil
	}
	h := NewHost([]string{"/", "/slow"}, WithReaders(r))
	s := monitor.NewSampler(h,
		monitor.WithMounts("/", "/slow"),
		monitor.WithTimeout(20*time.Millisecond),
	)
	state := monitor.NewDashboardState(10, nil)

	require.NoError(t, s.Refresh(context.Background(), state))

	assert.Equal(t, 12.5, state.CPU.Value)
	assert.Equal(t, 42.0, state.Disk("/").Value)
	assert.False(t, state.Disk("/slow").Available)
	assert.Contains(t, state.StaleMetrics(), "disk /slow")
}

func TestSortProcesses(t *testing.T) {
	procs := []monitor.ProcessInfo{
		{PID: 9, CPUPercent: 1},
		{PID: 2, CPUPercent: 5, MemoryBytes: 1},
		{PID: 1, CPUPercent: 5, MemoryBytes: 1},
		{PID: 3, CPUPercent: 5, MemoryBytes: 7},
	}

	SortProcesses(procs)

	var pids []int32
	for _, p := range procs {
		pids = append(pids, p.PID)
	}
	assert.Equal(t, []int32{3, 1, 2, 9}, pids)
}

func TestUniqueMounts(t *testing.T) {
	tests := []struct {
		name  string
		parts []disk.PartitionStat
		want  []string
	}{
		{
			name:  "keeps order",
			parts: []disk.PartitionStat{{Mountpoint: "/"}, {Mountpoint: "/home"}},
			want:  []string{"/", "/home"},
		},
		{
			name:  "drops duplicates and blanks",
			parts: []disk.PartitionStat{{Mountpoint: "/"}, {Mountpoint: ""}, {Mountpoint: "/"}},
			want:  []string{"/"},
		},
		{
			name:  "falls back to root",
			parts: []disk.PartitionStat{{Mountpoint: ""}},
			want:  []string{"/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uniqueMounts(tt.parts))
		})
	}
}
