package game

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/problemgen"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/scoring"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/components"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/layout"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/theme"
)

const tileWidth = 12

func (g *GameScreen) View(width, height int) string {
	if g.confirmQuit {
		return renderQuitConfirm(width)
	}
	if g.question == nil {
		return layout.Centered("\n\n\n  Bersedia...", width, lipgloss.NewStyle().Foreground(theme.TextDim))
	}

	var b strings.Builder
	b.WriteString(g.renderStatusBar(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n")

	if !layout.IsCompactHeight(height + 8) {
		b.WriteString("\n")
	}

	q := g.question
	b.WriteString(layout.Centered(
		fmt.Sprintf("Soalan %d · %s", q.Index, difficultyText(q.Difficulty)),
		width, lipgloss.NewStyle().Foreground(theme.TextDim)))
	b.WriteString("\n\n")

	problem := fmt.Sprintf("%d - %d = ?", q.Problem.Minuend, q.Problem.Subtrahend)
	b.WriteString(layout.Centered(problem, width, lipgloss.NewStyle().Foreground(theme.Text).Bold(true)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, g.grid.View(tileWidth)))
	b.WriteString("\n\n")

	b.WriteString(g.renderFeedback(width))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, g.renderClockBar(min(width-8, 50))))

	if g.summary != nil {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered("TAMAT! Menyimpan markah...", width, theme.Title))
	}
	return b.String()
}

// renderStatusBar shows score, lives, combo and the clock on one line.
func (g *GameScreen) renderStatusBar(width int) string {
	st := g.state

	score := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).
		Render(fmt.Sprintf("  MARKAH %d", st.Score))

	hearts := strings.Repeat("♥ ", max(st.Lives, 0))
	if hearts == "" {
		hearts = "-"
	}
	lives := lipgloss.NewStyle().Foreground(theme.Error).Render(strings.TrimSpace(hearts))

	combo := ""
	if st.Combo > 0 {
		combo = lipgloss.NewStyle().Foreground(theme.ArcadeCyan).
			Render(g.comboHint(st.Combo))
	}

	clockStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	if g.lowTime {
		clockStyle = clockStyle.Foreground(theme.Error)
	}
	clock := clockStyle.Render(fmt.Sprintf("⏱ %d:%02d", st.SecondsRemaining/60, st.SecondsRemaining%60))

	middle := lives
	if combo != "" {
		middle += "   " + combo
	}

	line := score
	gap := (width-lipgloss.Width(middle))/2 - lipgloss.Width(score)
	if gap < 2 {
		gap = 2
	}
	line += strings.Repeat(" ", gap) + middle
	rightGap := width - lipgloss.Width(line) - lipgloss.Width(clock) - 4
	if rightGap < 2 {
		rightGap = 2
	}
	return line + strings.Repeat(" ", rightGap) + clock
}

// comboHint shows the current streak and the streak that earns the next
// bonus.
func (g *GameScreen) comboHint(combo int) string {
	text := fmt.Sprintf("KOMBO x%d", combo)
	policy := scoring.NewPolicy(g.engine.Config().Scoring)
	if next := policy.NextComboMilestone(combo); next > 0 {
		text += fmt.Sprintf(" · bonus x%d", next)
	}
	return text
}

func (g *GameScreen) renderClockBar(width int) string {
	total := int(g.engine.Config().GameDuration.Seconds())
	pct := 0.0
	if total > 0 {
		pct = float64(g.state.SecondsRemaining) / float64(total)
	}
	bar := components.NewProgressBar("Masa", pct, fmt.Sprintf("%ds", g.state.SecondsRemaining), width)
	if g.lowTime {
		bar.Fill = theme.Error
	}
	return bar.View()
}

func (g *GameScreen) renderFeedback(width int) string {
	if g.feedback == nil {
		return ""
	}
	out := *g.feedback

	style := lipgloss.NewStyle().Bold(true)
	switch out.Label {
	case scoring.LabelWrong, scoring.LabelTimeUp:
		style = style.Foreground(theme.Error)
	case scoring.LabelCombo:
		style = style.Foreground(theme.ArcadeCyan)
	case scoring.LabelFast:
		style = style.Foreground(theme.ArcadeYellow)
	default:
		style = style.Foreground(theme.Success)
	}

	text := labelText(out)
	if !out.Correct {
		text += fmt.Sprintf("   %d - %d = %d", out.Problem.Minuend, out.Problem.Subtrahend, out.Problem.Answer)
	}
	return layout.Centered(text, width, style)
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(layout.Centered("Berhenti sekarang?", width, lipgloss.NewStyle().Foreground(theme.Text).Bold(true)))
	b.WriteString("\n")
	b.WriteString(layout.Centered("Markah setakat ini akan disimpan.", width, lipgloss.NewStyle().Foreground(theme.TextDim)))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered("[Y] Ya, tamatkan", width, lipgloss.NewStyle().Foreground(theme.Error)))
	b.WriteString("\n")
	b.WriteString(layout.Centered("[N] Tidak, teruskan", width, lipgloss.NewStyle().Foreground(theme.Success)))
	return b.String()
}

func difficultyText(d problemgen.Difficulty) string {
	switch d {
	case problemgen.DifficultyEasy:
		return "MUDAH"
	case problemgen.DifficultyMedium:
		return "SEDERHANA"
	case problemgen.DifficultyHard:
		return "SUKAR"
	default:
		return strings.ToUpper(string(d))
	}
}
