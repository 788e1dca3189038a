package landing

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/promptquest/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ██████╗  ██████╗ ███╗   ███╗██████╗ ████████╗ ██████╗ ██╗   ██╗███████╗███████╗████████╗
 ██╔══██╗██╔══██╗██╔═══██╗████╗ ████║██╔══██╗╚══██╔══╝██╔═══██╗██║   ██║██╔════╝██╔════╝╚══██╔══╝
 ██████╔╝██████╔╝██║   ██║██╔████╔██║██████╔╝   ██║   ██║   ██║██║   ██║█████╗  ███████╗   ██║
 ██╔═══╝ ██╔══██╗██║   ██║██║╚██╔╝██║██╔═══╝    ██║   ██║▄▄ ██║██║   ██║██╔══╝  ╚════██║   ██║
 ██║     ██║  ██║╚██████╔╝██║ ╚═╝ ██║██║        ██║   ╚██████╔╝╚██████╔╝███████╗███████║   ██║
 ╚═╝     ╚═╝  ╚═╝ ╚═════╝ ╚═╝     ╚═╝╚═╝        ╚═╝    ╚══▀▀═╝  ╚═════╝ ╚══════╝╚══════╝   ╚═╝`

const (
	bannerCompact = "P R O M P T Q U E S T"
	bannerWidth   = 99
)

// RenderBanner returns the PROMPTQUEST banner, falling back to spaced
// letters when the art does not fit.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
