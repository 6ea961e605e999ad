// Package scoreboard is the leaderboard screen: a top-five chart and the
// full ranking, filterable by class.
package scoreboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/router"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/screen"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/components"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/layout"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/theme"
)

const (
	allLabel    = "SEMUA"
	loadTimeout = 5 * time.Second
	dateLayout  = "02/01/2006"
)

type recordsLoadedMsg struct {
	Records []leaderboard.Record
	Err     error
}

// ScoreboardScreen displays the ranked scores.
type ScoreboardScreen struct {
	scores    *leaderboard.Service
	highlight string
	initClass string

	records []leaderboard.Record
	filters []string
	filter  int
	offset  int
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*ScoreboardScreen)(nil)
var _ screen.KeyHintProvider = (*ScoreboardScreen)(nil)

// New creates a scoreboard. highlight is the record ID to mark, and
// className the filter to open on; both may be empty.
func New(scores *leaderboard.Service, highlight, className string) *ScoreboardScreen {
	return &ScoreboardScreen{
		scores:    scores,
		highlight: highlight,
		initClass: className,
		filters:   []string{leaderboard.AllClasses},
	}
}

func (s *ScoreboardScreen) Init() tea.Cmd {
	scores := s.scores
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		records, err := scores.Standings(ctx, leaderboard.AllClasses)
		return recordsLoadedMsg{Records: records, Err: err}
	}
}

func (s *ScoreboardScreen) Title() string {
	return "Papan Markah"
}

func (s *ScoreboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Kelas"},
		{Key: "↑↓", Description: "Skrol"},
		{Key: "Esc", Description: "Kembali"},
	}
}

func (s *ScoreboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recordsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.records = msg.Records
		s.filters = append([]string{leaderboard.AllClasses}, leaderboard.Classes(msg.Records)...)
		for i, c := range s.filters {
			if c == s.initClass {
				s.filter = i
			}
		}
		s.offset = 0
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{Refresh: true} }
		case "left", "h":
			s.filter = (s.filter - 1 + len(s.filters)) % len(s.filters)
			s.offset = 0
		case "right", "l":
			s.filter = (s.filter + 1) % len(s.filters)
			s.offset = 0
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			if s.offset < len(s.visible())-1 {
				s.offset++
			}
		}
	}
	return s, nil
}

// Class returns the active class filter.
func (s *ScoreboardScreen) Class() string {
	return s.filters[s.filter]
}

// visible returns the ranked records of the active filter.
func (s *ScoreboardScreen) visible() []leaderboard.Record {
	return leaderboard.FilterClass(s.records, s.Class())
}

func (s *ScoreboardScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered(fmt.Sprintf("\n\nRalat: %s", s.errMsg), width,
			lipgloss.NewStyle().Foreground(theme.Error))
	}
	if !s.loaded {
		return layout.Centered("\n\n  Memuatkan markah...", width,
			lipgloss.NewStyle().Foreground(theme.TextDim))
	}

	cw := components.ContentWidth(width)
	rows := s.visible()

	var sections []string
	sections = append(sections, s.renderFilterBar(cw))

	if len(rows) == 0 {
		empty := "TIADA REKOD LAGI."
		if s.Class() != leaderboard.AllClasses {
			empty = "TIADA REKOD UNTUK KELAS INI."
		}
		sections = append(sections, "\n"+lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(empty))
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.JoinVertical(lipgloss.Center, sections...))
	}

	compact := layout.IsCompactHeight(height + 8)
	if !compact {
		sections = append(sections, renderChart(leaderboard.Top(rows, leaderboard.ChartSize), s.highlight, cw))
	}

	// Chart, filter bar and table header take roughly this many lines.
	used := 4
	if !compact {
		used += leaderboard.ChartSize + 2
	}
	sections = append(sections, s.renderTable(rows, cw, max(height-used, 3)))

	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (s *ScoreboardScreen) renderFilterBar(cw int) string {
	label := s.Class()
	if label == leaderboard.AllClasses {
		label = allLabel
	}
	bar := fmt.Sprintf("◀  %s  ▶", label)
	pos := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("  (%d/%d)", s.filter+1, len(s.filters)))
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
		Render(theme.Selected.Render(bar) + pos)
}

// renderChart draws one bar per top entry, scaled to the best score.
func renderChart(top []leaderboard.Record, highlight string, cw int) string {
	best := 0
	for _, r := range top {
		best = max(best, r.Score)
	}

	lines := make([]string, 0, len(top))
	for i, r := range top {
		pct := 0.0
		if best > 0 {
			pct = float64(r.Score) / float64(best)
		}
		label := fmt.Sprintf("%d. %-12s", i+1, truncate(r.Name, 12))
		bar := components.NewProgressBar(label, pct, fmt.Sprintf("%4d", r.Score), cw)
		if r.ID == highlight {
			bar.Fill = theme.ArcadeYellow
		}
		lines = append(lines, bar.View())
	}
	return strings.Join(lines, "\n") + "\n"
}

func (s *ScoreboardScreen) renderTable(rows []leaderboard.Record, cw, maxRows int) string {
	showClass := s.Class() == leaderboard.AllClasses

	header := fmt.Sprintf("%-4s %-16s", "No.", "Nama")
	if showClass {
		header += fmt.Sprintf(" %-10s", "Kelas")
	}
	header += fmt.Sprintf(" %6s  %s", "Markah", "Tarikh")

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).Render(header))
	b.WriteString("\n")

	end := min(s.offset+maxRows, len(rows))
	for i := s.offset; i < end; i++ {
		r := rows[i]
		line := fmt.Sprintf("%-4s %-16s", fmt.Sprintf("%d.", i+1), truncate(r.Name, 16))
		if showClass {
			line += fmt.Sprintf(" %-10s", truncate(r.ClassName, 10))
		}
		line += fmt.Sprintf(" %6d  %s", r.Score, r.Timestamp.Local().Format(dateLayout))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case r.ID == s.highlight:
			style = theme.Highlight
		case i == 0:
			style = style.Foreground(theme.ArcadeYellow)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	if end < len(rows) {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("… %d lagi", len(rows)-end)))
	}
	return lipgloss.NewStyle().Width(cw).Render(b.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
