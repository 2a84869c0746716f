package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	next    key.Binding
	prev    key.Binding
	sort    key.Binding
	filter  key.Binding
	genre   key.Binding
	clear   key.Binding
	refresh key.Binding
	details key.Binding
	delete  key.Binding
	palms   key.Binding
	tagline key.Binding
	writers key.Binding
	back    key.Binding
	yes     key.Binding
	no      key.Binding
	help    key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		next:    key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→/l", "next page")),
		prev:    key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←/h", "prev page")),
		sort:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6"), key.WithHelp("1-6", "sort column")),
		filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		genre:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "cycle genre")),
		clear:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		details: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		delete:  key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
		palms:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "golden palm sum")),
		tagline: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tagline search")),
		writers: key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "screenwriters w/o oscars")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.prev, k.next, k.sort, k.filter, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.prev, k.next},
		{k.sort, k.filter, k.genre, k.clear},
		{k.refresh, k.details, k.delete},
		{k.palms, k.tagline, k.writers},
		{k.help, k.quit},
	}
}
