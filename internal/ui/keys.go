package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Challenger       key.Binding
	Opponent         key.Binding
	CancelChallenger key.Binding
	CancelOpponent   key.Binding
	Undo             key.Binding
	Reset            key.Binding
	Help             key.Binding
	Quit             key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Challenger: key.NewBinding(
			key.WithKeys("1", "left", "h"),
			key.WithHelp("1/←", "challenger wins"),
		),
		Opponent: key.NewBinding(
			key.WithKeys("2", "right", "l"),
			key.WithHelp("2/→", "opponent wins"),
		),
		CancelChallenger: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "complete challenger"),
		),
		CancelOpponent: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "complete opponent"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "ctrl+z"),
			key.WithHelp("u", "undo"),
		),
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "start over"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Challenger, k.Opponent, k.Undo, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Challenger, k.Opponent},
		{k.CancelChallenger, k.CancelOpponent},
		{k.Undo, k.Reset},
		{k.Help, k.Quit},
	}
}
