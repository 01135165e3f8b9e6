package presenter

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the presentation.
type keyMap struct {
	next       key.Binding
	prev       key.Binding
	first      key.Binding
	last       key.Binding
	fullscreen key.Binding
	overview   key.Binding
	enter      key.Binding
	help       key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:       key.NewBinding(key.WithKeys("right", "l", "n", " ", "pgdown"), key.WithHelp("→/l", "next")),
		prev:       key.NewBinding(key.WithKeys("left", "h", "p", "pgup"), key.WithHelp("←/h", "previous")),
		first:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		last:       key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
		fullscreen: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fullscreen")),
		overview:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "overview")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "go to slide")),
		help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:       key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "close")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.prev, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.prev, k.first, k.last},
		{k.fullscreen, k.overview, k.enter},
		{k.help, k.quit},
	}
}
