package monitor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is what the dashboard does in response to a key.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
)

// String returns a human-readable label for the action.
func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}

// KeyMap holds the dashboard's key bindings. It implements help.KeyMap.
type KeyMap struct {
	Quit key.Binding
}

// DefaultKeyMap quits on q, Q, Esc and Ctrl+C.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

// FullHelp returns all bindings, grouped by column.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit}}
}

// InputHandler maps key events to actions. Keys without a binding are
// ignored.
type InputHandler struct {
	keys KeyMap
}

// NewInputHandler creates a handler for the given bindings.
func NewInputHandler(keys KeyMap) InputHandler {
	return InputHandler{keys: keys}
}

// Keys returns the handler's bindings.
func (h InputHandler) Keys() KeyMap {
	return h.keys
}

// Interpret returns the action bound to msg.
func (h InputHandler) Interpret(msg tea.KeyMsg) Action {
	if key.Matches(msg, h.keys.Quit) {
		return ActionQuit
	}
	return ActionNone
}
