// Package game is the terminal screen that runs one session engine and
// renders its updates.
package game

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/jonboulle/clockwork"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/problemgen"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/router"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/scoring"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/screen"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/session"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/components"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/ui/layout"
)

const (
	updateBuffer     = 64
	feedbackDuration = 900 * time.Millisecond
	saveTimeout      = 5 * time.Second
)

// Player identifies who is playing.
type Player struct {
	Name      string
	ClassName string
}

// String renders the player for the header.
func (p Player) String() string {
	if p.Name == "" {
		return ""
	}
	return p.Name + " · " + p.ClassName
}

// Result is what a finished game hands to the next screen.
type Result struct {
	Player  Player
	Summary session.Summary
	Submit  leaderboard.SubmitResult
	SaveErr error
}

// Deps are the collaborators of a game screen.
type Deps struct {
	Session  session.Config
	Scores   *leaderboard.Service
	Notifier session.Notifier
	Logger   *slog.Logger
	// Clock drives the engine. Nil uses the wall clock.
	Clock clockwork.Clock
	// Rand seeds the problem generator. Nil uses a random seed.
	Rand problemgen.Rand
}

// GameScreen implements screen.Screen for one running game.
type GameScreen struct {
	player Player
	deps   Deps
	onEnd  func(Result) screen.Screen

	engine  *session.Engine
	updates chan session.Update
	cancel  context.CancelFunc

	state    session.State
	question *session.QuestionUpdate
	grid     components.AnswerGrid
	feedback *session.RoundOutcome
	fbSeq    int
	lowTime  bool

	confirmQuit bool
	summary     *session.Summary
	saving      bool
}

var _ screen.Screen = (*GameScreen)(nil)
var _ screen.KeyHintProvider = (*GameScreen)(nil)

// New creates a game screen. onEnd builds the screen shown after the score
// has been submitted.
func New(player Player, deps Deps, onEnd func(Result) screen.Screen) *GameScreen {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &GameScreen{
		player:  player,
		deps:    deps,
		onEnd:   onEnd,
		updates: make(chan session.Update, updateBuffer),
	}
}

func (g *GameScreen) Init() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel

	opts := []session.Option{
		session.WithLogger(g.deps.Logger.With("player", g.player.Name, "class", g.player.ClassName)),
		session.WithNotifier(g.deps.Notifier),
		session.WithObserver(func(u session.Update) {
			select {
			case g.updates <- u:
			case <-ctx.Done():
			}
		}),
	}
	if g.deps.Clock != nil {
		opts = append(opts, session.WithClock(g.deps.Clock))
	}
	if g.deps.Rand != nil {
		opts = append(opts, session.WithRand(g.deps.Rand))
	}
	g.engine = session.New(g.deps.Session, opts...)
	g.state.SecondsRemaining = int(g.engine.Config().GameDuration / time.Second)
	g.state.Lives = g.engine.Config().StartingLives

	updates := g.updates
	engine := g.engine
	go func() {
		defer close(updates)
		_ = engine.Run(ctx)
	}()

	return waitForUpdate(g.updates)
}

// waitForUpdate blocks on the engine stream for the next update.
func waitForUpdate(ch <-chan session.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return engineDoneMsg{}
		}
		return updateMsg{Update: u}
	}
}

func (g *GameScreen) Title() string {
	return "Tolak!"
}

func (g *GameScreen) KeyHints() []layout.KeyHint {
	if g.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Tamatkan"},
			{Key: "N", Description: "Teruskan"},
		}
	}
	if g.summary != nil {
		return []layout.KeyHint{{Key: "…", Description: "Menyimpan markah"}}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Jawab"},
		{Key: "←↑↓→", Description: "Pilih"},
		{Key: "Enter", Description: "Hantar"},
		{Key: "Esc", Description: "Berhenti"},
	}
}

func (g *GameScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		cmd := g.apply(msg.Update)
		return g, tea.Batch(cmd, waitForUpdate(g.updates))

	case engineDoneMsg:
		// An engine that stopped without a summary was cancelled; nothing to save.
		if g.summary == nil {
			return g, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return g, nil

	case feedbackClearMsg:
		if msg.Seq == g.fbSeq {
			g.feedback = nil
		}
		return g, nil

	case components.PickedMsg:
		if g.engine != nil && g.summary == nil {
			g.engine.Submit(msg.Index, msg.Value)
		}
		return g, nil

	case savedMsg:
		return g, g.finish(msg)

	case tea.KeyMsg:
		return g.handleKey(msg)
	}
	return g, nil
}

func (g *GameScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if g.summary != nil {
		return g, nil
	}

	key := msg.String()
	if g.confirmQuit {
		switch key {
		case "y", "Y":
			g.confirmQuit = false
			g.engine.Quit()
		case "n", "N", "esc":
			g.confirmQuit = false
		}
		return g, nil
	}

	if key == "esc" {
		g.confirmQuit = true
		return g, nil
	}

	var cmd tea.Cmd
	g.grid, cmd = g.grid.Update(msg)
	return g, cmd
}

// apply folds one engine update into the screen.
func (g *GameScreen) apply(u session.Update) tea.Cmd {
	switch u := u.(type) {
	case session.QuestionUpdate:
		g.question = &u
		g.state = u.State
		g.grid = components.NewAnswerGrid(u.Index, u.Problem.Options[:])

	case session.OutcomeUpdate:
		g.state = u.State
		out := u.Outcome
		if g.grid.Index == out.Index {
			g.grid.Reveal(out.Problem.Answer, out.Chosen)
		}
		g.feedback = &out
		g.fbSeq++
		seq := g.fbSeq
		return tea.Tick(feedbackDuration, func(time.Time) tea.Msg {
			return feedbackClearMsg{Seq: seq}
		})

	case session.TickUpdate:
		g.state.SecondsRemaining = u.Remaining
		g.lowTime = u.LowTime

	case session.EndedUpdate:
		g.state = u.State
		sum := u.Summary
		g.summary = &sum
		g.confirmQuit = false
		g.saving = true
		return g.save(sum)
	}
	return nil
}

// save submits the final score off the UI goroutine.
func (g *GameScreen) save(sum session.Summary) tea.Cmd {
	scores := g.deps.Scores
	player := g.player
	return func() tea.Msg {
		if scores == nil {
			return savedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		res, err := scores.Submit(ctx, player.Name, player.ClassName, sum.FinalScore)
		return savedMsg{Result: res, Err: err}
	}
}

func (g *GameScreen) finish(msg savedMsg) tea.Cmd {
	g.saving = false
	if g.cancel != nil {
		g.cancel()
	}
	res := Result{
		Player:  g.player,
		Summary: *g.summary,
		Submit:  msg.Result,
		SaveErr: msg.Err,
	}
	if msg.Err != nil {
		g.deps.Logger.Error("save score failed", "player", g.player.Name, "error", msg.Err)
	}
	if g.onEnd == nil {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	next := g.onEnd(res)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// labelText maps a scoring label to the on-screen feedback.
func labelText(out session.RoundOutcome) string {
	switch out.Label {
	case scoring.LabelTimeUp:
		return "MASA TAMAT!"
	case scoring.LabelWrong:
		return "SALAH!"
	case scoring.LabelCombo:
		return "KOMBO! +" + strconv.Itoa(out.Points)
	case scoring.LabelFast:
		return "PANTAS! +" + strconv.Itoa(out.Points)
	default:
		return "BETUL! +" + strconv.Itoa(out.Points)
	}
}
