package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/config"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/roster"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/session"
)

type testEnv struct {
	server *Server
	scores *leaderboard.Service
	clock  *clockwork.FakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, config.Default().Server)
}

func newTestEnvWithConfig(t *testing.T, cfg config.ServerConfig) *testEnv {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scores := leaderboard.NewService(leaderboard.NewMemoryStore(), logger).WithClock(clock)

	srv := NewServer(cfg, Deps{
		Scores: scores,
		Roster: roster.Static{
			"1 AMANAH":  {"ALI", "SITI"},
			"2 BESTARI": {"CHONG"},
		},
		Session: session.DefaultConfig(),
		Logger:  logger,
	})
	return &testEnv{server: srv, scores: scores, clock: clock}
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seed(t *testing.T, name, class string, score int) {
	t.Helper()
	_, err := e.scores.Submit(context.Background(), name, class, score)
	require.NoError(t, err)
	e.clock.Advance(time.Minute)
}

type envelope[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data"`
	Error   *apiError `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]string](t, rec)
	assert.True(t, got.Success)
	assert.Equal(t, "healthy", got.Data["status"])
	assert.Equal(t, "2025-03-10T08:00:00Z", got.Data["time"])
}

func TestSubmitScore(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/scores/", submitScoreRequest{Name: " ali ", ClassName: "1 AMANAH", Score: 95})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[leaderboard.SubmitResult](t, rec)
	assert.True(t, first.Data.Saved)
	assert.Equal(t, "ALI", first.Data.Record.Name)
	assert.Equal(t, 1, first.Data.Rank)

	rec = env.do(t, http.MethodPost, "/api/v1/scores/", submitScoreRequest{Name: "ALI", ClassName: "1 AMANAH", Score: 40})
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[leaderboard.SubmitResult](t, rec)
	assert.False(t, second.Data.Saved)
	assert.Equal(t, 95, second.Data.Best)
}

func TestSubmitScore_Invalid(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/scores/", submitScoreRequest{Name: "", ClassName: "1 AMANAH", Score: 10})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	got := decode[any](t, rec)
	assert.False(t, got.Success)
	require.NotNil(t, got.Error)
	assert.Equal(t, "invalid_record", got.Error.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scores/", strings.NewReader("{not json"))
	raw := httptest.NewRecorder()
	env.server.Router().ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
	assert.Contains(t, raw.Body.String(), "invalid_request")
}

func TestListScores(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "ALI", "1 AMANAH", 50)
	env.seed(t, "SITI", "1 AMANAH", 80)
	env.seed(t, "CHONG", "2 BESTARI", 120)

	rec := env.do(t, http.MethodGet, "/api/v1/scores/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[[]leaderboard.Record](t, rec)
	require.Len(t, all.Data, 3)
	assert.Equal(t, "CHONG", all.Data[0].Name)

	rec = env.do(t, http.MethodGet, "/api/v1/scores/?class=1+AMANAH", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	class := decode[[]leaderboard.Record](t, rec)
	require.Len(t, class.Data, 2)
	assert.Equal(t, "SITI", class.Data[0].Name)
	assert.Equal(t, "ALI", class.Data[1].Name)
}

func TestListScores_EmptyIsArray(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/v1/scores/?class=9+TIADA", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestChampion(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/leaderboard/champion", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	env.seed(t, "ALI", "1 AMANAH", 70)
	env.seed(t, "CHONG", "2 BESTARI", 70)

	rec = env.do(t, http.MethodGet, "/api/v1/leaderboard/champion", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[leaderboard.Record](t, rec)
	// Equal scores go to whoever got there first.
	assert.Equal(t, "ALI", got.Data.Name)
}

func TestReport(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "ALI", "1 AMANAH", 50)
	env.seed(t, "CHONG", "2 BESTARI", 120)

	t.Run("json", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/report", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[leaderboard.Report](t, rec)
		assert.Equal(t, 2, got.Data.Players)
		require.Len(t, got.Data.School, 2)
		assert.Equal(t, "CHONG", got.Data.School[0].Name)
		assert.Len(t, got.Data.Classes, 2)
	})

	t.Run("csv", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/report?format=csv", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		rows, err := csv.NewReader(rec.Body).ReadAll()
		require.NoError(t, err)
		require.NotEmpty(t, rows)
		assert.Equal(t, []string{"scope", "rank", "class", "name", "score", "timestamp"}, rows[0])
	})

	t.Run("text", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/report?format=text", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "LAPORAN PENCAPAIAN JUARA TOLAK")
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/report?format=pdf", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestClasses(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "CHONG", "2 BESTARI", 120)

	rec := env.do(t, http.MethodGet, "/api/v1/classes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[classesResponse](t, rec)
	assert.Equal(t, []string{"ALI", "SITI"}, got.Data.Roster["1 AMANAH"])
	assert.Equal(t, []string{"2 BESTARI"}, got.Data.Scored)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/scores/", nil)
	req.Header.Set("Origin", "http://sekolah.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	env.server.Router().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
