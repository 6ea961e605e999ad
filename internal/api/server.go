// Package api serves the score board over HTTP and runs browser games
// over WebSocket.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/config"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/roster"
	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/session"
)

// Deps are the services the API exposes.
type Deps struct {
	Scores  *leaderboard.Service
	Roster  roster.Directory
	Session session.Config
	// Clock drives the per-connection game engines. Nil uses the wall clock.
	Clock  clockwork.Clock
	Logger *slog.Logger
}

// Server represents the HTTP API server.
type Server struct {
	config   config.ServerConfig
	router   *chi.Mux
	scores   *leaderboard.Service
	roster   roster.Directory
	session  session.Config
	clock    clockwork.Clock
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a new API server.
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	s := &Server{
		config:  cfg,
		scores:  deps.Scores,
		roster:  deps.Roster,
		session: deps.Session,
		clock:   deps.Clock,
		logger:  deps.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.upgrader.CheckOrigin = s.checkOrigin
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.roster == nil {
		s.roster = roster.Static{}
	}
	s.setupRouter()
	return s
}

// checkOrigin admits a WebSocket handshake from a listed origin. Requests
// without an Origin header come from non-browser clients and are allowed.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.config.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range s.config.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	s.logger.Warn("websocket origin rejected", "origin", origin)
	return false
}

// Router returns the configured router.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware.
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	// A game lasts longer than any request timeout.
	r.Get("/ws/play", s.handlePlay)

	r.Group(func(r chi.Router) {
		timeout := s.config.RequestTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		r.Use(middleware.Timeout(timeout))

		r.Route("/api/v1", func(r chi.Router) {
			r.Route("/scores", func(r chi.Router) {
				r.Get("/", s.handleListScores)
				r.Post("/", s.handleSubmitScore)
			})
			r.Get("/leaderboard/champion", s.handleChampion)
			r.Get("/report", s.handleReport)
			r.Get("/classes", s.handleClasses)
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
