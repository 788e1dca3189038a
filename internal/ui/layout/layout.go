// Package layout draws the frame around every screen: header, content
// area and key-hint footer.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/promptquest/internal/progress"
	"github.com/abhisek/promptquest/internal/ui/theme"
)

const (
	MinWidth  = 70
	MinHeight = 22

	CompactWidthThreshold = 100
)

// KeyHint is one footer entry.
type KeyHint struct {
	Key         string
	Description string
}

// Status is the signed-in learner summary shown on the right of the
// header. The zero value renders nothing.
type Status struct {
	XP     int
	Streak int
}

func (s Status) empty() bool { return s == Status{} }

func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small\n\nResize to at least %d x %d\n(currently %d x %d)",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader draws the brand on the left, the screen title in the middle
// and the learner status on the right.
func RenderHeader(title string, st Status, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("PromptQuest")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	right := ""
	if !st.empty() {
		level := progress.LevelForXP(st.XP)
		right = theme.XP.Render(fmt.Sprintf("Lv %d", level)) +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  %d XP  ", st.XP)) +
			theme.XP.Render(fmt.Sprintf("%dd streak", st.Streak))
	}

	inner := max(width-4, 0)
	leftGap := max((inner-lipgloss.Width(center))/2-lipgloss.Width(left), 1)
	rightGap := max(inner-lipgloss.Width(left)-leftGap-lipgloss.Width(center)-lipgloss.Width(right), 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(content)
}

func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key)+" "+
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description))
	}
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		Render(strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, giving the content all
// remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)
	return header + "\n" + body + "\n" + footer
}

// ContentHeight is what RenderFrame leaves for content.
func ContentHeight(header, footer string, height int) int {
	return max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
}
