package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Details key.Binding
	Back    key.Binding
	Search  key.Binding
	Sort    key.Binding
	Closer  key.Binding
	Farther key.Binding
	Random  key.Binding
	Map     key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Top: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G", "bottom"),
	),
	Details: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Sort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sort"),
	),
	Closer: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "radius -"),
	),
	Farther: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "radius +"),
	),
	Random: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "random"),
	),
	Map: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "map"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Details, k.Search, k.Sort, k.Closer, k.Farther, k.Random, k.Map, k.Quit}
}
