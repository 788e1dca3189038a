package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/promptquest/internal/ui/theme"
)

// TextInput is a labelled form field with an inline error line.
type TextInput struct {
	Label string
	Model textinput.Model
	Err   string
}

// NewTextInput builds an unfocused field. Secret fields echo bullets.
func NewTextInput(label, placeholder string, secret bool) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 128
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return TextInput{Label: label, Model: ti}
}

func (t *TextInput) Focus() tea.Cmd { return t.Model.Focus() }

func (t *TextInput) Blur() { t.Model.Blur() }

func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) Value() string { return t.Model.Value() }

func (t *TextInput) SetValue(v string) { t.Model.SetValue(v) }

func (t TextInput) View() string {
	label := theme.Subtitle.Render(t.Label)
	if t.Model.Focused() {
		label = theme.Selected.Render(t.Label)
	}
	out := label + "\n" + t.Model.View()
	if t.Err != "" {
		out += "\n" + theme.ErrorText.Render(t.Err)
	}
	return out
}
