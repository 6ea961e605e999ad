package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/theme"
)

const bannerArt = `
 ████████╗ ██████╗ ██╗      █████╗ ██╗  ██╗
 ╚══██╔══╝██╔═══██╗██║     ██╔══██╗██║ ██╔╝
    ██║   ██║   ██║██║     ███████║█████╔╝
    ██║   ██║   ██║██║     ██╔══██║██╔═██╗
    ██║   ╚██████╔╝███████╗██║  ██║██║  ██╗
    ╚═╝    ╚═════╝ ╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝`

const bannerCompact = "J U A R A   T O L A K"

// RenderBanner returns the JUARA TOLAK banner. Uses a compact fallback for
// terminals narrower than 48 columns.
func RenderBanner(width int) string {
	if width < 48 {
		return lipgloss.NewStyle().
			Foreground(theme.ArcadeYellow).
			Bold(true).
			Render(bannerCompact)
	}
	kicker := lipgloss.NewStyle().
		Foreground(theme.ArcadeCyan).
		Bold(true).
		Render("J  U  A  R  A")
	art := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true).
		Render(bannerArt)
	return lipgloss.JoinVertical(lipgloss.Center, kicker, art)
}
