package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Plan       key.Binding
	Projection key.Binding
	Readiness  key.Binding
	Prev       key.Binding
	Next       key.Binding
	Up         key.Binding
	Down       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Plan:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "plan")),
		Projection: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "projection")),
		Readiness:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "readiness")),
		Prev:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous week")),
		Next:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next week")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Plan, k.Projection, k.Readiness, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Plan, k.Projection, k.Readiness},
		{k.Prev, k.Next},
		{k.Up, k.Down},
		{k.Help, k.Quit},
	}
}
