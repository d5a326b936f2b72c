package monitor

import (
	"context"
	stderrors "errors"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/rileyhilliard/termdash/internal/errors"
	"github.com/rileyhilliard/termdash/internal/logger"
	"golang.org/x/term"
)

// Terminal is the controlling terminal the dashboard takes over.
type Terminal interface {
	// IsTerminal reports whether both input and output are a TTY.
	IsTerminal() bool
	// Save records the current terminal mode so Restore can return to it.
	Save() error
	// Restore puts the terminal back the way Save found it and makes the
	// cursor visible.
	Restore() error
}

// Program is the event loop a Session drives. *tea.Program satisfies it.
type Program interface {
	Run() (tea.Model, error)
}

// ProgramFactory builds the event loop for a model.
type ProgramFactory func(ctx context.Context, model tea.Model) Program

// DefaultProgram runs the model full screen on the process's stdin and
// stdout, stopping when ctx is cancelled.
func DefaultProgram(ctx context.Context, model tea.Model) Program {
	return tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)
}

// Session owns the terminal for the lifetime of one dashboard run.
type Session struct {
	model      Model
	terminal   Terminal
	newProgram ProgramFactory
	log        logger.Logger

	restoreOnce sync.Once
	restoreErr  error
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithTerminal replaces the process's terminal.
func WithTerminal(t Terminal) SessionOption {
	return func(s *Session) {
		s.terminal = t
	}
}

// WithProgramFactory replaces the Bubble Tea program.
func WithProgramFactory(f ProgramFactory) SessionOption {
	return func(s *Session) {
		s.newProgram = f
	}
}

// WithSessionLogger sets the session's logger.
func WithSessionLogger(l logger.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSession creates a session that will run model.
func NewSession(model Model, opts ...SessionOption) *Session {
	s := &Session{
		model:      model,
		terminal:   NewStdTerminal(),
		newProgram: DefaultProgram,
		log:        logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run takes over the terminal and blocks until the user quits or ctx is
// cancelled. The terminal is restored before Run returns, whether the loop
// ends normally, with an error, or by panic.
func (s *Session) Run(ctx context.Context) (err error) {
	if !s.terminal.IsTerminal() {
		return errors.New(errors.ErrTerminal,
			"termdash needs an interactive terminal",
			"Run it directly in a terminal, or use 'termdash snapshot' for a one-off reading.")
	}
	if serr := s.terminal.Save(); serr != nil {
		return errors.WrapWithCode(serr, errors.ErrTerminal,
			"Couldn't read the terminal mode",
			"Make sure stdin is attached to a terminal.")
	}

	defer func() {
		r := recover()
		if rerr := s.Close(); rerr != nil && err == nil {
			err = rerr
		}
		if r != nil {
			panic(r)
		}
	}()

	s.log.Debug("dashboard started")
	_, perr := s.newProgram(ctx, s.model).Run()
	switch {
	case perr == nil:
		s.log.Debug("dashboard stopped")
		return nil
	case ctx.Err() != nil && stderrors.Is(perr, tea.ErrProgramKilled):
		s.log.Debug("dashboard cancelled: %v", ctx.Err())
		return nil
	default:
		s.log.Error("dashboard failed: %v", perr)
		return errors.WrapWithCode(perr, errors.ErrRender,
			"The dashboard stopped unexpectedly",
			"Try again with --log-file and --debug to capture details.")
	}
}

// Close restores the terminal. Only the first call has any effect; Run
// calls it on the way out, so callers only need it on paths that never
// reach Run's return.
func (s *Session) Close() error {
	s.restoreOnce.Do(func() {
		if err := s.terminal.Restore(); err != nil {
			s.restoreErr = errors.WrapWithCode(err, errors.ErrTerminal,
				"Couldn't restore the terminal",
				"Run 'reset' to get your terminal back to normal.")
		}
	})
	return s.restoreErr
}

// StdTerminal is the process's own terminal on stdin/stdout.
type StdTerminal struct {
	in    *os.File
	out   *os.File
	state *term.State
}

// NewStdTerminal returns the terminal attached to stdin and stdout.
func NewStdTerminal() *StdTerminal {
	return &StdTerminal{in: os.Stdin, out: os.Stdout}
}

// IsTerminal reports whether stdin and stdout are both a TTY.
func (t *StdTerminal) IsTerminal() bool {
	return term.IsTerminal(int(t.in.Fd())) && term.IsTerminal(int(t.out.Fd()))
}

// Save records the terminal mode of stdin.
func (t *StdTerminal) Save() error {
	st, err := term.GetState(int(t.in.Fd()))
	if err != nil {
		return err
	}
	t.state = st
	return nil
}

// Restore returns stdin to the saved mode and shows the cursor.
func (t *StdTerminal) Restore() error {
	termenv.NewOutput(t.out).ShowCursor()
	if t.state == nil {
		return nil
	}
	return term.Restore(int(t.in.Fd()), t.state)
}
