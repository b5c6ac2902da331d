package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// panelColors maps a dialog panel class to its border color.
var panelColors = map[string]lipgloss.Color{
	"genre-dialog-background":    lipgloss.Color("#04B575"),
	"director-dialog-background": lipgloss.Color("#FFA500"),
	"summary-dialog-background":  lipgloss.Color("#7D56F4"),
	"login-dialog-background":    lipgloss.Color("#3C9EE7"),
	"register-dialog-background": lipgloss.Color("#E7663C"),
}

const defaultPanelColor = lipgloss.Color("#626262")

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	fav   lipgloss.Style
	label lipgloss.Style
}

var _ Painter = (*Palette)(nil)

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		fav:   NewBold(w),
		label: NewBold(h),
	}
}

// On renders s on a background color.
func (p *Palette) On(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Background(c).Render(s)
}

// As renders s in a foreground color.
func (p *Palette) As(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// PanelColor returns the border color for a panel class.
func PanelColor(class string) lipgloss.Color {
	if c, ok := panelColors[class]; ok {
		return c
	}
	return defaultPanelColor
}
