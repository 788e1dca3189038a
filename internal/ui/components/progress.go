package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/promptquest/internal/ui/theme"
)

// ProgressBar is a horizontal bar for a fraction in [0, 1].
type ProgressBar struct {
	Label       string
	Fraction    float64
	ShowPercent bool
	Width       int
}

func NewProgressBar(label string, fraction float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{Label: label, Fraction: fraction, ShowPercent: showPercent, Width: width}
}

// Filled is the number of filled cells for a bar of n cells.
func (p ProgressBar) Filled(n int) int {
	f := min(max(p.Fraction, 0), 1)
	return int(float64(n)*f + 0.5)
}

func (p ProgressBar) View() string {
	var out string
	if p.Label != "" {
		out = theme.Body.Render(p.Label) + "  "
	}
	suffix := ""
	if p.ShowPercent {
		suffix = fmt.Sprintf("  %3d%%", int(min(max(p.Fraction, 0), 1)*100+0.5))
	}

	cells := max(p.Width-lipgloss.Width(out)-len(suffix), 4)
	filled := p.Filled(cells)
	out += lipgloss.NewStyle().Foreground(theme.Primary).Render(strings.Repeat("█", filled))
	out += lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", cells-filled))
	return out + theme.Subtitle.Render(suffix)
}
