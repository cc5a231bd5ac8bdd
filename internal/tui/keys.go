package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	New     key.Binding
	Find    key.Binding
	Next    key.Binding
	Menu    key.Binding
	Close   key.Binding
	Raise   key.Binding
	Lower   key.Binding
	Center  key.Binding
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Narrow  key.Binding
	Widen   key.Binding
	Shorten key.Binding
	Grow    key.Binding
	Cancel  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new window")),
		Find:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find")),
		Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next window")),
		Menu:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
		Close:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "destroy")),
		Raise:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "raise")),
		Lower:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "lower")),
		Center:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "center")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "move left")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "move right")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
		Narrow:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "narrower")),
		Widen:   key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "wider")),
		Shorten: key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("K", "shorter")),
		Grow:    key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("J", "taller")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Find, k.Next, k.Menu, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Find, k.Next, k.Menu, k.Close},
		{k.Left, k.Right, k.Up, k.Down, k.Center},
		{k.Narrow, k.Widen, k.Shorten, k.Grow},
		{k.Raise, k.Lower, k.Cancel, k.Help, k.Quit},
	}
}
