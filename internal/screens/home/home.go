// Package home is the start screen: the title, the reigning champion and
// the main menu.
package home

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/router"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/screen"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/components"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/layout"
)

const loadTimeout = 5 * time.Second

var menuLabels = []string{"MAIN", "PAPAN MARKAH", "KELUAR"}

type championLoadedMsg struct {
	Record *leaderboard.Record
	Err    error
}

// HomeScreen is the main menu of the game.
type HomeScreen struct {
	scores *leaderboard.Service
	menu   components.Menu

	champion *leaderboard.Record
	loaded   bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a HomeScreen. play and board build the screens pushed by the
// first two menu items.
func New(scores *leaderboard.Service, play, board func() screen.Screen) *HomeScreen {
	push := func(factory func() screen.Screen) tea.Cmd {
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: factory()}
		}
	}

	items := []components.MenuItem{
		{Label: menuLabels[0], Action: func() tea.Cmd { return push(play) }},
		{Label: menuLabels[1], Action: func() tea.Cmd { return push(board) }},
		{Label: menuLabels[2], Action: func() tea.Cmd { return tea.Quit }},
	}

	return &HomeScreen{
		scores: scores,
		menu:   components.NewMenu(items),
	}
}

// Init loads the champion. It runs again whenever the router pops back here
// with a refresh so a new record shows up immediately.
func (h *HomeScreen) Init() tea.Cmd {
	h.loaded = false
	scores := h.scores
	if scores == nil {
		h.loaded = true
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		rec, err := scores.Champion(ctx)
		if errors.Is(err, leaderboard.ErrNoScores) {
			return championLoadedMsg{}
		}
		if err != nil {
			return championLoadedMsg{Err: err}
		}
		return championLoadedMsg{Record: &rec}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(championLoadedMsg); ok {
		h.loaded = true
		// A failed load shows the empty card; the leaderboard screen reports
		// the error itself.
		h.champion = msg.Record
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header, footer and frame gaps.
	termHeight := height + 8
	compact := termHeight < layout.CompactHeightThreshold || width < 100
	cw := components.ContentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		renderChampionCard(h.champion, h.loaded, cw, compact),
		components.ArcadeMenu(menuLabels, h.menu.Selected, cw, compact && termHeight < layout.MinHeight+6),
	}
	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Utama"
}

// Champion returns the loaded champion, or nil if none.
func (h *HomeScreen) Champion() *leaderboard.Record {
	return h.champion
}
