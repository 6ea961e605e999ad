package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/problemgen"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/scoring"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/timer"
)

// Default game constants.
const (
	DefaultGameDuration  = 60 * time.Second
	DefaultQuestionLimit = 10 * time.Second
	DefaultStartingLives = 2
)

// inboxSize bounds the events queued between the timers, the player and
// the engine loop.
const inboxSize = 64

// ErrAlreadyRunning is returned when Run is called twice on one engine.
var ErrAlreadyRunning = errors.New("session already running")

// Config holds the tunables of one session.
type Config struct {
	GameDuration  time.Duration
	QuestionLimit time.Duration
	StartingLives int

	// LowTime is the remaining-seconds threshold at or below which each
	// tick triggers the countdown notification.
	LowTime int

	Scoring  scoring.Config
	Problems problemgen.Config
}

// DefaultConfig returns the standard one-minute game.
func DefaultConfig() Config {
	return Config{
		GameDuration:  DefaultGameDuration,
		QuestionLimit: DefaultQuestionLimit,
		StartingLives: DefaultStartingLives,
		LowTime:       timer.DefaultLowTime,
		Scoring:       scoring.DefaultConfig(),
		Problems:      problemgen.DefaultConfig(),
	}
}

// Validate checks that a session can be run with this config.
func (c Config) Validate() error {
	if c.GameDuration < time.Second {
		return fmt.Errorf("game duration %s is shorter than one second", c.GameDuration)
	}
	if c.QuestionLimit <= 0 {
		return errors.New("question limit must be positive")
	}
	if c.StartingLives < 0 {
		return errors.New("starting lives must not be negative")
	}
	if err := c.Problems.Validate(); err != nil {
		return fmt.Errorf("problems: %w", err)
	}
	return nil
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clockwork.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithRand replaces the random source of the problem generator.
func WithRand(r problemgen.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithNotifier sets the feedback sound player.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithObserver sets the update callback.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSessionID overrides the generated session UUID.
func WithSessionID(id string) Option {
	return func(e *Engine) { e.id = id }
}

// Engine runs one game session. All state transitions happen on the
// goroutine executing Run; answers and timer events are queued into it.
type Engine struct {
	cfg      Config
	id       string
	clock    clockwork.Clock
	rng      problemgen.Rand
	notifier Notifier
	observer Observer
	logger   *slog.Logger

	gen    *problemgen.Generator
	policy scoring.Policy
	round  *timer.RoundTimer
	clk    *timer.GameClock

	inbox    chan any
	done     chan struct{}
	doneOnce sync.Once
	running  sync.Once

	state   State
	summary *Summary
}

// New creates an engine. Zero-valued config fields take their defaults.
func New(cfg Config, opts ...Option) *Engine {
	cfg = withDefaults(cfg)

	e := &Engine{
		cfg:      cfg,
		clock:    clockwork.NewRealClock(),
		notifier: nopNotifier{},
		logger:   slog.Default(),
		inbox:    make(chan any, inboxSize),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.id == "" {
		e.id = uuid.New().String()
	}

	e.gen = problemgen.New(cfg.Problems, e.rng)
	e.policy = scoring.NewPolicy(cfg.Scoring)
	sink := func(ev timer.Event) { e.enqueue(ev) }
	e.round = timer.NewRoundTimer(e.clock, sink)
	e.clk = timer.NewGameClock(e.clock, sink, cfg.LowTime)
	e.logger = e.logger.With("session_id", e.id)
	return e
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.GameDuration <= 0 {
		cfg.GameDuration = def.GameDuration
	}
	if cfg.QuestionLimit <= 0 {
		cfg.QuestionLimit = def.QuestionLimit
	}
	if cfg.LowTime <= 0 {
		cfg.LowTime = def.LowTime
	}
	if cfg.Scoring == (scoring.Config{}) {
		cfg.Scoring = def.Scoring
	}
	if len(cfg.Problems.Bands) == 0 {
		cfg.Problems = def.Problems
	}
	return cfg
}

// ID returns the session UUID.
func (e *Engine) ID() string {
	return e.id
}

// Config returns the effective config.
func (e *Engine) Config() Config {
	return e.cfg
}

// Done is closed once Run has returned.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Submit queues the player's chosen option value for the question at
// index. It reports false when the session is already over.
func (e *Engine) Submit(index, choice int) bool {
	return e.enqueue(Answer{Index: index, Choice: choice})
}

// Quit asks the engine to end the session.
func (e *Engine) Quit() bool {
	return e.enqueue(Quit{})
}

// Run starts the session and processes events until it ends or ctx is
// cancelled. A cancelled session stops its timers without a summary.
func (e *Engine) Run(ctx context.Context) error {
	err := ErrAlreadyRunning
	e.running.Do(func() { err = e.run(ctx) })
	return err
}

func (e *Engine) run(ctx context.Context) error {
	defer e.shutdown()

	e.start()
	for e.state.Phase != PhaseEnded {
		select {
		case <-ctx.Done():
			e.logger.Info("session abandoned", "score", e.state.Score)
			return ctx.Err()
		case ev := <-e.inbox:
			e.handle(ev)
		}
	}
	return nil
}

// Summary returns the final summary, or nil while the session is live.
// Only safe to call after Done is closed.
func (e *Engine) Summary() *Summary {
	return e.summary
}

func (e *Engine) enqueue(ev any) bool {
	select {
	case <-e.done:
		return false
	default:
	}
	select {
	case e.inbox <- ev:
		return true
	case <-e.done:
		return false
	}
}

func (e *Engine) shutdown() {
	e.round.Stop()
	e.clk.Stop()
	e.doneOnce.Do(func() { close(e.done) })
}

// start initializes state, arms the game clock and serves question 1.
func (e *Engine) start() {
	e.state = newState(e.id, e.cfg, e.clock.Now())
	e.clk.Start(e.state.SecondsRemaining)
	e.logger.Info("session started",
		"duration", e.cfg.GameDuration,
		"lives", e.state.Lives)
	e.ask(1)
}

// handle applies one event. Everything after the session ends is a no-op.
func (e *Engine) handle(ev any) {
	if e.state.Phase == PhaseEnded {
		return
	}
	switch ev := ev.(type) {
	case Answer:
		e.handleAnswer(ev)
	case timer.Timeout:
		e.handleTimeout(ev)
	case timer.Tick:
		e.handleTick(ev)
	case timer.Expired:
		e.state.SecondsRemaining = 0
		e.end(EndTimeUp)
	case Quit:
		e.end(EndQuit)
	default:
		e.logger.Warn("unknown session event", "type", fmt.Sprintf("%T", ev))
	}
}

func (e *Engine) ask(index int) {
	s := &e.state
	p := e.gen.Generate(index, s.Last)
	pair := p.Pair()

	s.QuestionIndex = index
	s.Current = &p
	s.Last = &pair
	s.QuestionStartTime = e.clock.Now()
	s.Round = e.round.Start(e.cfg.QuestionLimit)
	s.Phase = PhaseAwaitingAnswer

	e.emit(QuestionUpdate{
		Index:      index,
		Problem:    p,
		Difficulty: e.gen.Band(index).Difficulty,
		Limit:      e.cfg.QuestionLimit,
		State:      s.Snapshot(),
	})
}

func (e *Engine) handleAnswer(ev Answer) {
	s := &e.state
	if s.Phase != PhaseAwaitingAnswer || s.Current == nil {
		return
	}
	if ev.Index != s.QuestionIndex {
		e.logger.Debug("stale answer dropped",
			"answer_index", ev.Index, "question_index", s.QuestionIndex)
		return
	}
	e.round.Cancel(s.Round)
	s.Round = 0

	p := *s.Current
	elapsed := e.clock.Since(s.QuestionStartTime)
	correct := ev.Choice == p.Answer
	res := e.policy.Score(correct, elapsed, s.Combo)

	e.closeRound(RoundOutcome{
		Index:   s.QuestionIndex,
		Problem: p,
		Correct: correct,
		Chosen:  ev.Choice,
		Elapsed: elapsed,
	}, res)
}

func (e *Engine) handleTimeout(ev timer.Timeout) {
	s := &e.state
	// A timeout that lost the race against an answer carries a stale handle.
	if s.Phase != PhaseAwaitingAnswer || ev.Handle != s.Round || s.Current == nil {
		return
	}
	s.Round = 0

	e.closeRound(RoundOutcome{
		Index:    s.QuestionIndex,
		Problem:  *s.Current,
		TimedOut: true,
		Chosen:   -1,
		Elapsed:  e.clock.Since(s.QuestionStartTime),
	}, e.policy.Timeout())
}

func (e *Engine) closeRound(out RoundOutcome, res scoring.Result) {
	s := &e.state
	s.Phase = PhaseTransitioning
	s.Current = nil
	s.Score += res.Delta
	s.Combo = res.NewCombo
	s.Answered++
	if out.Correct {
		s.CorrectCount++
		e.notifier.NotifyCorrect()
	} else {
		s.Lives--
		e.notifier.NotifyWrong()
	}
	out.Points = res.Delta
	out.Label = res.Label

	e.logger.Debug("round closed",
		"index", out.Index,
		"question", out.Problem.Text(),
		"label", string(out.Label),
		"points", out.Points,
		"elapsed", out.Elapsed,
		"lives", s.Lives)
	e.emit(OutcomeUpdate{Outcome: out, State: s.Snapshot()})

	if s.Lives < 0 {
		e.end(EndLivesExhausted)
		return
	}
	e.ask(s.QuestionIndex + 1)
}

func (e *Engine) handleTick(ev timer.Tick) {
	e.state.SecondsRemaining = ev.Remaining
	if ev.LowTime {
		e.notifier.NotifyTick()
	}
	e.emit(TickUpdate{Remaining: ev.Remaining, LowTime: ev.LowTime})
}

// end stops both timers and emits the summary. Safe to call twice.
func (e *Engine) end(reason EndReason) {
	s := &e.state
	if s.Phase == PhaseEnded {
		return
	}
	e.round.Stop()
	e.clk.Stop()
	s.Round = 0
	s.Current = nil
	s.Phase = PhaseEnded

	sum := buildSummary(*s, reason, e.clock.Since(s.StartTime))
	e.summary = &sum
	e.logger.Info("session ended",
		"reason", string(reason),
		"score", sum.FinalScore,
		"correct", sum.CorrectCount,
		"answered", sum.Answered)
	e.emit(EndedUpdate{Summary: sum, State: s.Snapshot()})
}

func (e *Engine) emit(u Update) {
	if e.observer != nil {
		e.observer(u)
	}
}
