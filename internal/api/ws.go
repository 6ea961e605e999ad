package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/notify"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/session"
)

const (
	sendBuffer   = 64
	writeWait    = 5 * time.Second
	saveTimeout  = 5 * time.Second
	closeTimeout = time.Second
)

// Message types sent to the browser.
const (
	msgStarted  = "started"
	msgQuestion = "question"
	msgOutcome  = "outcome"
	msgTick     = "tick"
	msgSound    = "sound"
	msgEnded    = "ended"
	msgSaved    = "saved"
	msgError    = "error"
)

// Message types accepted from the browser.
const (
	msgAnswer = "answer"
	msgQuit   = "quit"
)

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload,omitempty"`
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type answerPayload struct {
	Index *int `json:"index"`
	Value *int `json:"value"`
}

type startedPayload struct {
	SessionID     string `json:"sessionId"`
	Name          string `json:"name"`
	ClassName     string `json:"className"`
	DurationSec   int    `json:"durationSec"`
	QuestionSec   int    `json:"questionSec"`
	StartingLives int    `json:"startingLives"`
}

type statePayload struct {
	Score            int `json:"score"`
	Lives            int `json:"lives"`
	Combo            int `json:"combo"`
	SecondsRemaining int `json:"secondsRemaining"`
}

type questionPayload struct {
	Index      int    `json:"index"`
	Text       string `json:"text"`
	Minuend    int    `json:"minuend"`
	Subtrahend int    `json:"subtrahend"`
	Options    []int  `json:"options"`
	Difficulty string `json:"difficulty"`
	LimitMs    int64  `json:"limitMs"`
	statePayload
}

type outcomePayload struct {
	Index     int    `json:"index"`
	Correct   bool   `json:"correct"`
	TimedOut  bool   `json:"timedOut"`
	Chosen    *int   `json:"chosen,omitempty"`
	Answer    int    `json:"answer"`
	Points    int    `json:"points"`
	Label     string `json:"label"`
	ElapsedMs int64  `json:"elapsedMs"`
	statePayload
}

type tickPayload struct {
	Remaining int  `json:"remaining"`
	LowTime   bool `json:"lowTime"`
}

type soundPayload struct {
	Cue string `json:"cue"`
}

type endedPayload struct {
	SessionID    string  `json:"sessionId"`
	FinalScore   int     `json:"finalScore"`
	CorrectCount int     `json:"correctCount"`
	Answered     int     `json:"answered"`
	Accuracy     float64 `json:"accuracy"`
	Reason       string  `json:"reason"`
	DurationMs   int64   `json:"durationMs"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// handlePlay upgrades to a WebSocket and runs one game on it. The finished
// game is saved to the leaderboard under the name and class given in the
// query string.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	name := leaderboard.NormalizeName(r.URL.Query().Get("name"))
	className := r.URL.Query().Get("class")
	if name == "" || className == "" {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "name and class are required")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	send := make(chan outboundMessage[any], sendBuffer)
	push := func(msgType string, payload any) {
		select {
		case send <- outboundMessage[any]{Type: msgType, Payload: payload}:
		case <-ctx.Done():
		}
	}

	engine := session.New(s.session,
		session.WithClock(s.clock),
		session.WithLogger(s.logger.With("player", name, "class", className)),
		session.WithObserver(func(u session.Update) {
			msgType, payload := translateUpdate(u)
			push(msgType, payload)
		}),
		session.WithNotifier(notify.Func(func(cue notify.Sound) {
			push(msgSound, soundPayload{Cue: string(cue)})
		})),
	)

	cfg := engine.Config()
	push(msgStarted, startedPayload{
		SessionID:     engine.ID(),
		Name:          name,
		ClassName:     className,
		DurationSec:   int(cfg.GameDuration / time.Second),
		QuestionSec:   int(cfg.QuestionLimit / time.Second),
		StartingLives: cfg.StartingLives,
	})

	stop := make(chan struct{})
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop(ctx, cancel, conn, send, stop)
	}()

	go s.readLoop(ctx, cancel, conn, engine, push)

	if err := engine.Run(ctx); err != nil {
		s.logger.Info("game abandoned", "session_id", engine.ID(), "error", err)
	}
	if sum := engine.Summary(); sum != nil {
		s.saveResult(name, className, *sum, push)
	}

	close(stop)
	<-writerDone
}

func (s *Server) saveResult(name, className string, sum session.Summary, push func(string, any)) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	res, err := s.scores.Submit(ctx, name, className, sum.FinalScore)
	if err != nil {
		push(msgError, errorPayload{Message: "failed to save score"})
		return
	}
	push(msgSaved, res)
}

// writeLoop drains send. After stop closes it flushes what is queued and
// says goodbye.
func (s *Server) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, send <-chan outboundMessage[any], stop <-chan struct{}) {
	write := func(msg outboundMessage[any]) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Debug("websocket write failed", "type", msg.Type, "error", err)
			cancel()
			return false
		}
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-send:
			if !write(msg) {
				return
			}
		case <-stop:
			for {
				select {
				case msg := <-send:
					if !write(msg) {
						return
					}
				default:
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"),
						time.Now().Add(closeTimeout))
					return
				}
			}
		}
	}
}

// readLoop forwards player input to the engine until the connection drops.
// A dropped connection abandons the game.
func (s *Server) readLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, engine *session.Engine, push func(string, any)) {
	defer cancel()

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		switch msg.Type {
		case msgAnswer:
			var p answerPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil || p.Value == nil {
				push(msgError, errorPayload{Message: "answer needs a numeric value"})
				continue
			}
			if p.Index == nil {
				push(msgError, errorPayload{Message: "answer needs the question index"})
				continue
			}
			engine.Submit(*p.Index, *p.Value)
		case msgQuit:
			engine.Quit()
		default:
			push(msgError, errorPayload{Message: "unknown message type: " + msg.Type})
		}
	}
}

func translateUpdate(u session.Update) (string, any) {
	switch u := u.(type) {
	case session.QuestionUpdate:
		return msgQuestion, questionPayload{
			Index:        u.Index,
			Text:         u.Problem.Text(),
			Minuend:      u.Problem.Minuend,
			Subtrahend:   u.Problem.Subtrahend,
			Options:      u.Problem.Options[:],
			Difficulty:   string(u.Difficulty),
			LimitMs:      u.Limit.Milliseconds(),
			statePayload: stateOf(u.State),
		}
	case session.OutcomeUpdate:
		out := u.Outcome
		p := outcomePayload{
			Index:        out.Index,
			Correct:      out.Correct,
			TimedOut:     out.TimedOut,
			Answer:       out.Problem.Answer,
			Points:       out.Points,
			Label:        string(out.Label),
			ElapsedMs:    out.Elapsed.Milliseconds(),
			statePayload: stateOf(u.State),
		}
		if !out.TimedOut {
			chosen := out.Chosen
			p.Chosen = &chosen
		}
		return msgOutcome, p
	case session.TickUpdate:
		return msgTick, tickPayload{Remaining: u.Remaining, LowTime: u.LowTime}
	case session.EndedUpdate:
		sum := u.Summary
		return msgEnded, endedPayload{
			SessionID:    sum.SessionID,
			FinalScore:   sum.FinalScore,
			CorrectCount: sum.CorrectCount,
			Answered:     sum.Answered,
			Accuracy:     sum.Accuracy(),
			Reason:       string(sum.Reason),
			DurationMs:   sum.Duration.Milliseconds(),
		}
	default:
		return msgError, errorPayload{Message: "unknown update"}
	}
}

func stateOf(st session.State) statePayload {
	return statePayload{
		Score:            st.Score,
		Lives:            st.Lives,
		Combo:            st.Combo,
		SecondsRemaining: st.SecondsRemaining,
	}
}
