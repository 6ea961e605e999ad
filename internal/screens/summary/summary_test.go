package summary

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/router"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/screen"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/screens/game"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/session"
)

type stubScreen struct{ title string }

func (s stubScreen) Init() tea.Cmd                           { return nil }
func (s stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s stubScreen) View(int, int) string                    { return s.title }
func (s stubScreen) Title() string                           { return s.title }

func testResult() game.Result {
	return game.Result{
		Player: game.Player{Name: "ALI", ClassName: "1 AMANAH"},
		Summary: session.Summary{
			FinalScore:   95,
			CorrectCount: 5,
			Answered:     6,
			Reason:       session.EndTimeUp,
			Duration:     60 * time.Second,
		},
		Submit: leaderboard.SubmitResult{Saved: true, Best: 95, Rank: 1},
	}
}

func testActions() Actions {
	return Actions{
		Replay:      func() screen.Screen { return stubScreen{title: "game"} },
		Leaderboard: func() screen.Screen { return stubScreen{title: "board"} },
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testResult(), testActions())
	if s.Title() != "Tamat!" {
		t.Errorf("Title = %q, want %q", s.Title(), "Tamat!")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testResult(), testActions())
	view := s.View(80, 24)
	for _, want := range []string{"TAMAT!", "Masa tamat!", "95", "Betul: 5/6", "83%", "REKOD BAHARU", "#1", "JUARA SEMASA"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_NotSaved(t *testing.T) {
	res := testResult()
	res.Submit = leaderboard.SubmitResult{Saved: false, Best: 120, Rank: 3}
	view := New(res, testActions()).View(80, 24)
	if !strings.Contains(view, "Rekod terbaik anda: 120") {
		t.Error("expected previous best to be shown")
	}
	if strings.Contains(view, "JUARA SEMASA") {
		t.Error("rank 3 is not the champion")
	}
}

func TestSummaryScreen_SaveError(t *testing.T) {
	res := testResult()
	res.SaveErr = errors.New("disk full")
	view := New(res, testActions()).View(80, 24)
	if !strings.Contains(view, "tidak dapat disimpan") {
		t.Error("expected save failure notice")
	}
}

func TestSummaryScreen_Navigation_Enter(t *testing.T) {
	s := New(testResult(), testActions())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok || msg.Screen.Title() != "board" {
		t.Errorf("expected replace with leaderboard, got %#v", msg)
	}
}

func TestSummaryScreen_Navigation_Replay(t *testing.T) {
	s := New(testResult(), testActions())
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if cmd == nil {
		t.Fatal("expected a command on R")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok || msg.Screen.Title() != "game" {
		t.Errorf("expected replace with new game, got %#v", msg)
	}
}

func TestSummaryScreen_Navigation_Esc(t *testing.T) {
	s := New(testResult(), testActions())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command on Esc")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("expected pop to root")
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testResult(), testActions())
	hints := s.KeyHints()
	if len(hints) != 3 {
		t.Errorf("KeyHints length = %d, want 3", len(hints))
	}
}
