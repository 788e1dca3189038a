package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/promptquest/internal/ui/theme"
)

// MultiChoice renders a question and its options. It holds no answer
// state of its own; the caller passes the cursor, the chosen option and,
// once feedback is due, the correct one.
type MultiChoice struct {
	Question string
	Options  []string
	Cursor   int
	// Chosen is -1 until the learner picks an option.
	Chosen int
	// Reveal shows correct and wrong marks.
	Reveal  bool
	Correct int
	Width   int
}

// OptionLabel is "A", "B", ... for option i.
func OptionLabel(i int) string {
	return string(rune('A' + i))
}

func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Width(m.Width).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		marker := "  "
		if !m.Reveal && i == m.Cursor {
			marker = "▸ "
		}
		box := "( )"
		if i == m.Chosen {
			box = "(•)"
		}
		line := fmt.Sprintf("%s%s %s  %s", marker, box, OptionLabel(i), opt)

		style := theme.Unselected
		switch {
		case m.Reveal && i == m.Correct:
			style = theme.Correct
			line += "  ✓"
		case m.Reveal && i == m.Chosen:
			style = theme.Incorrect
			line += "  ✗"
		case m.Reveal:
			style = theme.Hint
		case i == m.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
