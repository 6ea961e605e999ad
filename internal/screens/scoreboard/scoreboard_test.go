package scoreboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/router"
)

func seededService(t *testing.T) (*leaderboard.Service, map[string]string) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	svc := leaderboard.NewService(leaderboard.NewMemoryStore(),
		slog.New(slog.NewTextHandler(io.Discard, nil))).WithClock(clock)

	ids := make(map[string]string)
	for _, r := range []struct {
		name, class string
		score       int
	}{
		{"ALI", "1 AMANAH", 50},
		{"SITI", "1 AMANAH", 80},
		{"CHONG", "2 BESTARI", 120},
		{"RAJU", "2 BESTARI", 30},
	} {
		res, err := svc.Submit(context.Background(), r.name, r.class, r.score)
		require.NoError(t, err)
		ids[r.name] = res.Record.ID
		clock.Advance(time.Minute)
	}
	return svc, ids
}

func load(t *testing.T, s *ScoreboardScreen) {
	t.Helper()
	msg := s.Init()()
	s.Update(msg)
	require.True(t, s.loaded)
}

func TestScoreboard_LoadsAllClasses(t *testing.T) {
	svc, _ := seededService(t)
	s := New(svc, "", "")
	load(t, s)

	assert.Equal(t, []string{leaderboard.AllClasses, "1 AMANAH", "2 BESTARI"}, s.filters)
	assert.Equal(t, leaderboard.AllClasses, s.Class())
	rows := s.visible()
	require.Len(t, rows, 4)
	assert.Equal(t, "CHONG", rows[0].Name)

	view := s.View(100, 40)
	assert.Contains(t, view, "SEMUA")
	assert.Contains(t, view, "Kelas")
	assert.Contains(t, view, "CHONG")
}

func TestScoreboard_OpensOnRequestedClass(t *testing.T) {
	svc, ids := seededService(t)
	s := New(svc, ids["SITI"], "1 AMANAH")
	load(t, s)

	assert.Equal(t, "1 AMANAH", s.Class())
	rows := s.visible()
	require.Len(t, rows, 2)
	assert.Equal(t, "SITI", rows[0].Name)
	assert.NotContains(t, s.View(100, 40), "Kelas ")
}

func TestScoreboard_ArrowsCycleClasses(t *testing.T) {
	svc, _ := seededService(t)
	s := New(svc, "", "")
	load(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	assert.Equal(t, "1 AMANAH", s.Class())
	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	assert.Equal(t, "2 BESTARI", s.Class())
	s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	assert.Equal(t, leaderboard.AllClasses, s.Class())
	s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	assert.Equal(t, "2 BESTARI", s.Class())
}

func TestScoreboard_Empty(t *testing.T) {
	svc := leaderboard.NewService(leaderboard.NewMemoryStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	s := New(svc, "", "")
	load(t, s)

	assert.Contains(t, s.View(80, 24), "TIADA REKOD LAGI.")
}

type brokenStore struct{ leaderboard.Store }

func (brokenStore) List(context.Context) ([]leaderboard.Record, error) {
	return nil, errors.New("store offline")
}

func TestScoreboard_LoadError(t *testing.T) {
	svc := leaderboard.NewService(brokenStore{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s := New(svc, "", "")
	load(t, s)

	assert.Contains(t, s.View(80, 24), "store offline")
}

func TestScoreboard_EscReturnsHome(t *testing.T) {
	svc, _ := seededService(t)
	s := New(svc, "", "")
	load(t, s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.Equal(t, router.PopToRootMsg{Refresh: true}, cmd())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "ALI", truncate("ALI", 5))
	assert.Equal(t, "MUHAMMAD…", truncate("MUHAMMAD HAZIQ", 9))
}
