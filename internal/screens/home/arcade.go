package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/screens/welcome"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/theme"
)

const titleCompact = "J U A R A · T O L A K"

// renderTitle returns the banner, or a one-line fallback in compact mode.
func renderTitle(cw int, compact bool) string {
	var title string
	if compact {
		title = lipgloss.NewStyle().
			Foreground(theme.ArcadeYellow).
			Bold(true).
			Render(titleCompact)
	} else {
		title = welcome.RenderBanner(cw)
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(title)
}

// renderChampionCard renders the current champion in a double-bordered box
// matching content width.
func renderChampionCard(champ *leaderboard.Record, loaded bool, cw int, compact bool) string {
	label := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	name := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var body string
	switch {
	case !loaded:
		body = dim.Render("Memuatkan juara...")
	case champ == nil:
		body = label.Render("Jadilah Juara Pertama!")
	case compact:
		body = fmt.Sprintf("%s %s %s",
			label.Render("🏆"),
			name.Render(champ.Name),
			dim.Render(fmt.Sprintf("(%s) %d", champ.ClassName, champ.Score)))
	default:
		body = lipgloss.JoinVertical(lipgloss.Center,
			label.Render("JUARA SEMASA"),
			name.Render(champ.Name),
			dim.Render(champ.ClassName),
			name.Render(fmt.Sprintf("%d MARKAH", champ.Score)))
	}

	if !compact {
		v := TrophyEmpty
		if champ != nil {
			v = TrophyGold
		}
		body = lipgloss.JoinHorizontal(lipgloss.Center, RenderTrophy(v), "   ", body)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(body)
}
