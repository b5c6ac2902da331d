package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	summary  key.Binding
	genre    key.Binding
	director key.Binding
	favorite key.Binding
	movies   key.Binding
	profile  key.Binding
	reload   key.Binding
	logout   key.Binding
	login    key.Binding
	register key.Binding
	next     key.Binding
	prev     key.Binding
	submit   key.Binding
	back     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		summary:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "synopsis")),
		genre:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "genre")),
		director: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "director")),
		favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		movies:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "movies")),
		profile:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
		reload:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		logout:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "logout")),
		login:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "login")),
		register: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "sign up")),
		next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.summary, k.genre, k.director},
		{k.favorite, k.movies, k.profile, k.reload, k.logout},
		{k.login, k.register, k.back, k.quit},
	}
}
