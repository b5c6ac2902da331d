package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/myflix/internal/controllers"
)

// RenderDialog renders a dialog as a bordered panel of its configured width.
//
// Login and registration panels carry only their heading; the TUI fills in the form.
func RenderDialog(d controllers.Dialog) string {
	return renderPanel(d, dialogBody(d))
}

func renderPanel(d controllers.Dialog, body string) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PanelColor(d.Display.PanelClass)).
		Padding(0, 1)
	if d.Display.Width > 0 {
		style = style.Width(d.Display.Width)
	}
	return style.Render(body)
}

func dialogBody(d controllers.Dialog) string {
	var b strings.Builder

	switch d.Kind {
	case controllers.GenreDialog:
		b.WriteString(styles.title.Render(d.Data["Name"]))
		b.WriteString("\n")
		b.WriteString(d.Data["Description"])
	case controllers.DirectorDialog:
		b.WriteString(styles.title.Render(d.Data["Name"]))
		b.WriteString("\n")
		if birth := d.Data["Birth"]; birth != "" {
			b.WriteString(styles.label.Render("Born: "))
			b.WriteString(birth)
			b.WriteString("\n\n")
		}
		b.WriteString(d.Data["Bio"])
	case controllers.SummaryDialog:
		b.WriteString(styles.title.Render(d.Data["Title"]))
		b.WriteString("\n")
		b.WriteString(d.Data["Description"])
	case controllers.LoginDialog:
		b.WriteString(styles.title.Render("Log in"))
	case controllers.RegisterDialog:
		b.WriteString(styles.title.Render("Sign up"))
	default:
		b.WriteString(styles.title.Render(string(d.Kind)))
	}

	return strings.TrimRight(b.String(), "\n")
}
