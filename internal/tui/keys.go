package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the application
type KeyMap struct {
	// Timer commands
	StartStop   key.Binding
	Reset       key.Binding
	Split       key.Binding
	NestedSplit key.Binding
	CloseSplit  key.Binding
	MoveUp      key.Binding
	Save        key.Binding

	// UI
	Up     key.Binding
	Down   key.Binding
	Help   key.Binding
	Debug  key.Binding
	Escape key.Binding
	Enter  key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		StartStop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start/stop"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Split: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "open subgoal"),
		),
		NestedSplit: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "nested subgoal"),
		),
		CloseSplit: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "close subgoal"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "move up"),
		),
		Save: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "save log"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Debug: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "debug panel"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns a short help string
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.StartStop, k.Split, k.CloseSplit, k.Save, k.Help, k.Quit}
}

// FullHelp returns the full help string
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.StartStop, k.Reset, k.Save},
		{k.Split, k.NestedSplit, k.CloseSplit, k.MoveUp},
		{k.Up, k.Down, k.Help, k.Debug, k.Quit},
	}
}
