package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/myflix/internal/controllers"
	"github.com/desertthunder/myflix/internal/models"
)

// authForm is the field set shown inside a login or registration overlay.
type authForm struct {
	kind       controllers.DialogKind
	labels     []string
	inputs     []textinput.Model
	focus      int
	err        error
	submitting bool
}

func newAuthForm(kind controllers.DialogKind, width int) *authForm {
	labels := []string{"Username", "Password"}
	if kind == controllers.RegisterDialog {
		labels = append(labels, "Email", "Birthday")
	}

	f := &authForm{kind: kind, labels: labels}
	for i, label := range labels {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 64
		in.Width = max(width-4, 8)
		switch label {
		case "Password":
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		case "Birthday":
			in.Placeholder = "YYYY-MM-DD (optional)"
		}
		if i == 0 {
			in.Focus()
		}
		f.inputs = append(f.inputs, in)
	}
	return f
}

func (f *authForm) value(label string) string {
	for i, l := range f.labels {
		if l == label {
			return strings.TrimSpace(f.inputs[i].Value())
		}
	}
	return ""
}

func (f *authForm) credentials() models.Credentials {
	return models.Credentials{Username: f.value("Username"), Password: f.inputs[1].Value()}
}

func (f *authForm) registration() models.Registration {
	return models.Registration{
		Username: f.value("Username"),
		Password: f.inputs[1].Value(),
		Email:    f.value("Email"),
		Birthday: f.value("Birthday"),
	}
}

// move shifts focus by delta, wrapping around.
func (f *authForm) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *authForm) last() bool {
	return f.focus == len(f.inputs)-1
}

func (f *authForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *authForm) view() string {
	var b strings.Builder
	for i, label := range f.labels {
		b.WriteString(styles.label.Render(label))
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	switch {
	case f.submitting:
		b.WriteString(styles.help.Render("Submitting..."))
	case f.err != nil:
		b.WriteString(styles.err.Render(f.err.Error()))
	}
	return strings.TrimRight(b.String(), "\n")
}
