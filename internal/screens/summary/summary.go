package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/router"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/screen"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/screens/game"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/session"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/layout"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/theme"
)

// Actions build the screens reachable from the summary.
type Actions struct {
	Replay      func() screen.Screen
	Leaderboard func() screen.Screen
}

// SummaryScreen displays the game-over summary.
type SummaryScreen struct {
	result  game.Result
	actions Actions
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(result game.Result, actions Actions) *SummaryScreen {
	return &SummaryScreen{result: result, actions: actions}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Tamat!"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Papan markah"},
		{Key: "R", Description: "Main semula"},
		{Key: "Esc", Description: "Menu utama"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter":
		if s.actions.Leaderboard != nil {
			next := s.actions.Leaderboard()
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
		return s, func() tea.Msg { return router.PopToRootMsg{Refresh: true} }
	case "r", "R":
		if s.actions.Replay != nil {
			next := s.actions.Replay()
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	case "esc":
		return s, func() tea.Msg { return router.PopToRootMsg{Refresh: true} }
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.result.Summary

	var b strings.Builder

	b.WriteString(layout.Centered("TAMAT!", width, theme.Title))
	b.WriteString("\n")
	b.WriteString(layout.Centered(reasonText(sum.Reason), width, lipgloss.NewStyle().Foreground(theme.TextDim)))
	b.WriteString("\n\n")

	b.WriteString(layout.Centered("MARKAH ANDA", width, lipgloss.NewStyle().Foreground(theme.TextDim)))
	b.WriteString("\n")
	b.WriteString(layout.Centered(fmt.Sprintf("%d", sum.FinalScore), width,
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	statsLine := fmt.Sprintf("Betul: %d/%d        Ketepatan: %.0f%%        Masa: %d:%02d",
		sum.CorrectCount, sum.Answered, sum.Accuracy()*100, mins, secs)
	b.WriteString(layout.Centered(statsLine, width, lipgloss.NewStyle().Foreground(theme.Text)))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 50)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	b.WriteString(s.renderSaveStatus(width))
	return b.String()
}

func (s *SummaryScreen) renderSaveStatus(width int) string {
	res := s.result
	if res.SaveErr != nil {
		return layout.Centered("Markah tidak dapat disimpan.", width,
			lipgloss.NewStyle().Foreground(theme.Error))
	}

	var lines []string
	if res.Submit.Saved {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Success).Bold(true).
			Render("★ REKOD BAHARU! ★"))
	} else {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("Rekod terbaik anda: %d", res.Submit.Best)))
	}
	if res.Submit.Rank > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.ArcadeCyan).
			Render(fmt.Sprintf("Kedudukan sekolah: #%d", res.Submit.Rank)))
	}
	if res.Submit.Rank == 1 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).
			Render("JUARA SEMASA!"))
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func reasonText(r session.EndReason) string {
	switch r {
	case session.EndLivesExhausted:
		return "Nyawa habis!"
	case session.EndTimeUp:
		return "Masa tamat!"
	case session.EndQuit:
		return "Permainan dihentikan."
	default:
		return ""
	}
}
