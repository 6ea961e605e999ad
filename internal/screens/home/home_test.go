package home

import (
	"context"
	"io"
	"log/slog"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/router"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/screen"
)

type stubScreen struct{ name string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.name }
func (s *stubScreen) Title() string                           { return s.name }

func newService() *leaderboard.Service {
	return leaderboard.NewService(leaderboard.NewMemoryStore(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newHome(svc *leaderboard.Service) *HomeScreen {
	return New(svc,
		func() screen.Screen { return &stubScreen{name: "play"} },
		func() screen.Screen { return &stubScreen{name: "board"} })
}

func enter() tea.KeyPressMsg { return tea.KeyPressMsg{Code: tea.KeyEnter} }
func down() tea.KeyPressMsg  { return tea.KeyPressMsg{Code: tea.KeyDown} }

func TestHome_NoChampionYet(t *testing.T) {
	h := newHome(newService())
	h.Update(h.Init()())

	assert.True(t, h.loaded)
	assert.Nil(t, h.Champion())
	assert.Contains(t, h.View(120, 40), "Jadilah Juara Pertama!")
}

func TestHome_ShowsChampion(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	_, err := svc.Submit(ctx, "ali", "1 amanah", 40)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, "siti", "2 bestari", 95)
	require.NoError(t, err)

	h := newHome(svc)
	h.Update(h.Init()())

	require.NotNil(t, h.Champion())
	assert.Equal(t, "SITI", h.Champion().Name)
	view := h.View(120, 40)
	assert.Contains(t, view, "JUARA SEMASA")
	assert.Contains(t, view, "SITI")
	assert.Contains(t, view, "95 MARKAH")
}

func TestHome_RefreshReloadsChampion(t *testing.T) {
	svc := newService()
	h := newHome(svc)
	h.Update(h.Init()())
	require.Nil(t, h.Champion())

	_, err := svc.Submit(context.Background(), "chong", "3 cekal", 20)
	require.NoError(t, err)

	cmd := h.Init()
	assert.False(t, h.loaded)
	h.Update(cmd())
	require.NotNil(t, h.Champion())
	assert.Equal(t, "CHONG", h.Champion().Name)
}

func TestHome_MenuPushesScreens(t *testing.T) {
	h := newHome(newService())

	_, cmd := h.Update(enter())
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "play", push.Screen.Title())

	h.Update(down())
	_, cmd = h.Update(enter())
	require.NotNil(t, cmd)
	push, ok = cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "board", push.Screen.Title())
}

func TestHome_ExitQuits(t *testing.T) {
	h := newHome(newService())
	h.Update(down())
	h.Update(down())

	_, cmd := h.Update(enter())
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestHome_CompactView(t *testing.T) {
	h := newHome(newService())
	h.Update(h.Init()())

	view := h.View(70, 16)
	assert.Contains(t, view, "J U A R A · T O L A K")
	assert.Contains(t, view, "MAIN")
}
