package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next    key.Binding
	Audio   key.Binding
	Photo   key.Binding
	Toggle  key.Binding
	Capture key.Binding
	Save    key.Binding
	Open    key.Binding
	Copy    key.Binding
	Dismiss key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch mode"),
		),
		Audio: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "audio"),
		),
		Photo: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "photo"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "start/stop"),
		),
		Capture: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "take photo"),
		),
		Save: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy url"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("enter", "esc", " "),
			key.WithHelp("enter", "dismiss"),
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

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Toggle, k.Capture, k.Save, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Audio, k.Photo},
		{k.Toggle, k.Capture},
		{k.Save, k.Open, k.Copy},
		{k.Help, k.Quit},
	}
}
