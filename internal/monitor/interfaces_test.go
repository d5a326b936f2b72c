package monitor

import (
	"testing"
	"time"

	"github.com/rileyhilliard/termdash/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(ifaces []Interface) []string {
	var out []string
	for _, i := range ifaces {
		out = append(out, i.Name)
	}
	return out
}

func TestInterfaceTracker_FirstObservation(t *testing.T) {
	tr := NewInterfaceTracker(nil)

	active := tr.Observe([]InterfaceReading{
		{Name: "eth0", RxBytes: 1000, TxBytes: 0},
		{Name: "docker0", RxBytes: 0, TxBytes: 0},
	}, 0)

	// Nonzero counters are active on first sight; rates need a second tick
	require.Len(t, active, 1)
	assert.Equal(t, "eth0", active[0].Name)
	assert.Zero(t, active[0].RxRate)
	assert.Zero(t, active[0].TxRate)

	assert.Equal(t, []string{"docker0", "eth0"}, tr.Tracked())
}

func TestInterfaceTracker_ActiveFiltering(t *testing.T) {
	tr := NewInterfaceTracker(nil)
	tr.Observe([]InterfaceReading{
		{Name: "eth0", RxBytes: 2000, TxBytes: 3000},
		{Name: "lo", RxBytes: 100, TxBytes: 100},
	}, 0)

	active := tr.Observe([]InterfaceReading{
		{Name: "eth0", RxBytes: 2000, TxBytes: 3500},
		{Name: "lo", RxBytes: 100, TxBytes: 100},
	}, time.Second)

	require.Len(t, active, 1)
	assert.Equal(t, "eth0", active[0].Name)
	assert.Equal(t, 0.0, active[0].RxRate)
	assert.Equal(t, 500.0, active[0].TxRate)

	// Idle interfaces stay tracked
	lo, ok := tr.Get("lo")
	require.True(t, ok)
	assert.Equal(t, uint64(100), lo.RxBytesTotal)
	assert.False(t, lo.Active())
}

func TestInterfaceTracker_RateScalesWithElapsed(t *testing.T) {
	tr := NewInterfaceTracker(nil)
	tr.Observe([]InterfaceReading{{Name: "eth0", RxBytes: 0, TxBytes: 0}}, 0)

	active := tr.Observe([]InterfaceReading{{Name: "eth0", RxBytes: 4096, TxBytes: 1024}}, 2*time.Second)

	require.Len(t, active, 1)
	assert.Equal(t, 2048.0, active[0].RxRate)
	assert.Equal(t, 512.0, active[0].TxRate)
}

func TestInterfaceTracker_CounterReset(t *testing.T) {
	bl := logger.NewBufferLogger()
	tr := NewInterfaceTracker(bl)
	tr.Observe([]InterfaceReading{{Name: "eth0", RxBytes: 5000, TxBytes: 100}}, 0)
	tr.Observe([]InterfaceReading{{Name: "eth0", RxBytes: 10000, TxBytes: 100}}, time.Second)

	active := tr.Observe([]InterfaceReading{{Name: "eth0", RxBytes: 200, TxBytes: 100}}, time.Second)

	// Zero rate, so the reset tick drops eth0 from the active set
	assert.Empty(t, active)
	eth0, ok := tr.Get("eth0")
	require.True(t, ok)
	assert.Equal(t, 0.0, eth0.RxRate)
	assert.Equal(t, 0.0, eth0.TxRate)
	assert.Equal(t, uint64(200), eth0.RxBytesTotal)
	assert.True(t, bl.HasLevel("debug"))

	// Next tick measures from the new baseline
	active = tr.Observe([]InterfaceReading{{Name: "eth0", RxBytes: 700, TxBytes: 100}}, time.Second)
	require.Len(t, active, 1)
	assert.Equal(t, 500.0, active[0].RxRate)
}

func TestInterfaceTracker_ResetOnOneDirectionKeepsOther(t *testing.T) {
	bl := logger.NewBufferLogger()
	tr := NewInterfaceTracker(bl)
	tr.Observe([]InterfaceReading{{Name: "eth0", RxBytes: 10000, TxBytes: 1000}}, 0)

	active := tr.Observe([]InterfaceReading{{Name: "eth0", RxBytes: 200, TxBytes: 6000}}, time.Second)

	require.Len(t, active, 1)
	assert.Equal(t, "eth0", active[0].Name)
	assert.Equal(t, 0.0, active[0].RxRate)
	assert.Equal(t, 5000.0, active[0].TxRate)
	assert.Equal(t, uint64(200), active[0].RxBytesTotal)
	assert.Equal(t, uint64(6000), active[0].TxBytesTotal)
	assert.True(t, bl.HasLevel("debug"))

	// Both directions measure from the new totals
	active = tr.Observe([]InterfaceReading{{Name: "eth0", RxBytes: 1200, TxBytes: 6000}}, time.Second)
	require.Len(t, active, 1)
	assert.Equal(t, 1000.0, active[0].RxRate)
	assert.Equal(t, 0.0, active[0].TxRate)
}

func TestInterfaceTracker_ZeroElapsedKeepsPreviousRates(t *testing.T) {
	tr := NewInterfaceTracker(nil)
	tr.Observe([]InterfaceReading{{Name: "eth0", RxBytes: 0, TxBytes: 0}}, 0)
	tr.Observe([]InterfaceReading{{Name: "eth0", RxBytes: 1000, TxBytes: 0}}, time.Second)

	for _, elapsed := range []time.Duration{0, -time.Second} {
		active := tr.Observe([]InterfaceReading{{Name: "eth0", RxBytes: 5000, TxBytes: 0}}, elapsed)
		require.Len(t, active, 1)
		assert.Equal(t, 1000.0, active[0].RxRate)
	}

	// Baseline was not advanced by the zero-interval ticks
	active := tr.Observe([]InterfaceReading{{Name: "eth0", RxBytes: 5000, TxBytes: 0}}, time.Second)
	require.Len(t, active, 1)
	assert.Equal(t, 4000.0, active[0].RxRate)
}

func TestInterfaceTracker_BurstAfterIdle(t *testing.T) {
	tr := NewInterfaceTracker(nil)
	tr.Observe([]InterfaceReading{{Name: "wlan0", RxBytes: 100, TxBytes: 100}}, 0)

	active := tr.Observe([]InterfaceReading{{Name: "wlan0", RxBytes: 100, TxBytes: 100}}, time.Second)
	assert.Empty(t, active)

	active = tr.Observe([]InterfaceReading{{Name: "wlan0", RxBytes: 400, TxBytes: 100}}, time.Second)
	require.Len(t, active, 1)
	assert.Equal(t, 300.0, active[0].RxRate)
}

func TestInterfaceTracker_ForgetsVanishedInterfaces(t *testing.T) {
	tr := NewInterfaceTracker(nil)
	tr.Observe([]InterfaceReading{
		{Name: "eth0", RxBytes: 1, TxBytes: 1},
		{Name: "veth1234", RxBytes: 1, TxBytes: 1},
	}, 0)

	tr.Observe([]InterfaceReading{{Name: "eth0", RxBytes: 1, TxBytes: 1}}, time.Second)

	assert.Equal(t, []string{"eth0"}, tr.Tracked())
	_, ok := tr.Get("veth1234")
	assert.False(t, ok)
}

func TestInterfaceTracker_SortedOutput(t *testing.T) {
	tr := NewInterfaceTracker(nil)
	tr.Observe([]InterfaceReading{
		{Name: "wlan0", RxBytes: 0},
		{Name: "eth1", RxBytes: 0},
		{Name: "eth0", RxBytes: 0},
	}, 0)

	active := tr.Observe([]InterfaceReading{
		{Name: "wlan0", RxBytes: 10},
		{Name: "eth1", RxBytes: 10},
		{Name: "eth0", RxBytes: 10},
	}, time.Second)

	assert.Equal(t, []string{"eth0", "eth1", "wlan0"}, names(active))
}
