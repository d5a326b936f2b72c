package monitor

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/termdash/internal/logger"
)

// Phase is the lifecycle state of the refresh loop.
type Phase int

const (
	PhaseRunning Phase = iota
	PhaseTerminating
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseTerminating:
		return "terminating"
	default:
		return "unknown"
	}
}

// Width breakpoints for layout
const (
	DefaultWidth      = 80
	BreakpointCompact = 60
	BreakpointWide    = 120
)

// tickMsg signals that the refresh interval has elapsed.
type tickMsg time.Time

// Model is the Bubble Tea model for the dashboard. Each tick it samples
// the host into its DashboardState; View renders that state. Update is the
// only place state is mutated.
type Model struct {
	ctx      context.Context
	sampler  *Sampler
	state    *DashboardState
	input    InputHandler
	help     help.Model
	interval time.Duration
	phase    Phase
	width    int
	height   int
	now      func() time.Time
	log      logger.Logger
}

// NewModel creates a dashboard model that refreshes state every interval.
// ctx bounds every sample taken by the model.
func NewModel(ctx context.Context, sampler *Sampler, state *DashboardState, interval time.Duration, log logger.Logger) Model {
	if log == nil {
		log = logger.Default()
	}
	return Model{
		ctx:      ctx,
		sampler:  sampler,
		state:    state,
		input:    NewInputHandler(DefaultKeyMap()),
		help:     help.New(),
		interval: interval,
		now:      time.Now,
		log:      log,
	}
}

// Init triggers the first sample immediately; later ones follow the tick.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		return tickMsg(m.now())
	}
}

// Update handles ticks, key presses and resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.input.Interpret(msg) == ActionQuit {
			return m.terminate()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if m.phase != PhaseRunning {
			return m, nil
		}
		if err := m.sampler.Refresh(m.ctx, m.state); err != nil {
			m.log.Debug("refresh aborted: %v", err)
			return m.terminate()
		}
		return m, m.tickCmd(time.Time(msg))
	}

	return m, nil
}

// View renders the dashboard. Nothing is drawn once the loop is
// terminating so the last frame doesn't linger over the restored screen.
func (m Model) View() string {
	if m.phase == PhaseTerminating {
		return ""
	}
	return m.renderDashboard()
}

// Phase returns the loop's lifecycle state.
func (m Model) Phase() Phase {
	return m.phase
}

// State returns the dashboard state the model renders.
func (m Model) State() *DashboardState {
	return m.state
}

func (m Model) terminate() (tea.Model, tea.Cmd) {
	m.phase = PhaseTerminating
	return m, tea.Quit
}

// tickCmd schedules the tick after the one fired at tickAt. The wait is
// measured from tickAt, so time spent sampling doesn't push the cadence.
func (m Model) tickCmd(tickAt time.Time) tea.Cmd {
	return tea.Tick(m.tickDelay(tickAt), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// tickDelay is what remains of the interval that started at tickAt. A
// sample that overran the interval gets the next tick right away.
func (m Model) tickDelay(tickAt time.Time) time.Duration {
	d := m.interval - m.now().Sub(tickAt)
	if d < 0 {
		return 0
	}
	if d > m.interval {
		return m.interval
	}
	return d
}

// contentWidth is the usable width for sections.
func (m Model) contentWidth() int {
	if m.width <= 0 {
		return DefaultWidth
	}
	return m.width
}

// compact reports whether the terminal is too narrow for graphs.
func (m Model) compact() bool {
	return m.width > 0 && m.width < BreakpointCompact
}

// wide reports whether CPU and memory fit side by side.
func (m Model) wide() bool {
	return m.width >= BreakpointWide
}

// graphHeight is the number of rows in the CPU and memory graphs.
func (m Model) graphHeight() int {
	if m.height >= 40 {
		return 4
	}
	return 2
}
