// Package monitor implements a real-time TUI dashboard for the local machine.
//
// The dashboard shows CPU and memory usage graphs, disk usage per mount
// point, throughput of active network interfaces and, optionally, the
// busiest processes. Each value is color coded by alert level, and values
// that failed to read on the latest tick keep their last good reading with
// a stale marker.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm Architecture
// (Model-Update-View pattern):
//
//   - Model: Holds the dashboard state and the scheduler phase
//   - Update: Processes messages (keystrokes, tick events, resizes)
//   - View: Renders the current state to a string for display
//
// # Key Components
//
//	Source            - Snapshot-style metric provider (see internal/sensors)
//	Sampler           - Runs one refresh cycle of a Source into DashboardState
//	DashboardState    - Latest readings, stale flags and per-metric history
//	InterfaceTracker  - Turns cumulative byte counters into rates
//	History           - Ring buffers feeding the sparkline graphs
//	Session           - Owns the terminal and restores it exactly once
//
// # Message Flow
//
// The dashboard operates on a tick-based refresh cycle:
//
//  1. Init emits a tick immediately, so the first frame has data
//  2. Each tick runs Sampler.Refresh, bounded by the sample timeout
//  3. The next tick is scheduled one interval after the previous one fired
//  4. View() re-renders the dashboard from DashboardState
//
// A quit key moves the Model to PhaseTerminating. From then on ticks are
// dropped, so no sample starts after the user asked to leave.
//
// # Layout
//
// The view adapts to terminal width. Below 60 columns graphs are replaced
// by gauges only; from 120 columns CPU and memory sit side by side.
package monitor
