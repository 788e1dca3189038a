package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/promptquest/internal/ui/theme"
)

// ContentWidth is the column width screens lay their blocks out in.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-8, 30), 76)
}

// Card draws content in a rounded box of total width w, with an optional
// heading.
func Card(heading, content string, w int) string {
	if heading != "" {
		content = theme.Subtitle.Render(heading) + "\n" + content
	}
	return theme.Card.Width(w).Render(content)
}

// StatCard is a small card with a big value and a caption.
func StatCard(value, caption string, w int) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		theme.XP.Render(value),
		theme.Subtitle.Render(caption),
	)
	return theme.Card.Width(w).Align(lipgloss.Center).Render(body)
}

// Notice draws a blocking message box with a dismiss hint underneath.
func Notice(title, message string, w int) string {
	body := lipgloss.NewStyle().Bold(true).Foreground(theme.Warning).Render(title)
	if message != "" {
		body += "\n\n" + lipgloss.NewStyle().Width(max(w-8, 10)).Render(message)
	}
	body += "\n\n" + theme.Hint.Render("press any key")
	return theme.Notice.Width(w).Render(body)
}

// Center places block in the middle of a width x height area.
func Center(block string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}
