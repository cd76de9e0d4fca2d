package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap binds keys to tree view commands.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Submit   key.Binding
}

// DefaultKeyMap returns arrow-key bindings with vim aliases.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "first sibling"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "last sibling"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
	}
}

// CommandFor maps a key press to a tree view command.
func (k KeyMap) CommandFor(msg tea.KeyMsg) (Command, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return Do(ActionMoveUp), true
	case key.Matches(msg, k.Down):
		return Do(ActionMoveDown), true
	case key.Matches(msg, k.Left):
		return Do(ActionClose), true
	case key.Matches(msg, k.Right):
		return Do(ActionOpen), true
	case key.Matches(msg, k.PageUp):
		return ScrollUp(0), true
	case key.Matches(msg, k.PageDown):
		return ScrollDown(0), true
	case key.Matches(msg, k.Home):
		return Do(ActionFirstSibling), true
	case key.Matches(msg, k.End):
		return Do(ActionLastSibling), true
	case key.Matches(msg, k.Submit):
		return Do(ActionSubmit), true
	}
	return Command{}, false
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Submit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Left, k.Right, k.Home, k.End, k.Submit},
	}
}

// BrowserKeyMap holds the directory browser keys on top of the tree keys.
type BrowserKeyMap struct {
	Tree    KeyMap
	Enter   key.Binding
	Parent  key.Binding
	Copy    key.Binding
	Refresh key.Binding
	Goto    key.Binding
	Tab     key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultBrowserKeyMap returns the browser bindings. Enter re-roots on a
// directory, so the tree's own submit binding is the same key.
func DefaultBrowserKeyMap() BrowserKeyMap {
	return BrowserKeyMap{
		Tree: DefaultKeyMap(),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open dir"),
		),
		Parent: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "parent dir"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy path"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Goto: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "go to"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k BrowserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Goto, k.Copy, k.Tab, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k BrowserKeyMap) FullHelp() [][]key.Binding {
	return append(k.Tree.FullHelp(),
		[]key.Binding{k.Enter, k.Parent, k.Refresh},
		[]key.Binding{k.Goto, k.Copy, k.Tab, k.Help, k.Quit},
	)
}
