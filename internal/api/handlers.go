package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/g-99215544-beep/JuaraTolakSKSA/internal/leaderboard"
)

// Response helpers

type apiResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to encode error response", "error", err)
	}
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   s.clock.Now().UTC().Format(time.RFC3339),
	})
}

// Score handlers

type submitScoreRequest struct {
	Name      string `json:"name"`
	ClassName string `json:"className"`
	Score     int    `json:"score"`
}

func (s *Server) handleListScores(w http.ResponseWriter, r *http.Request) {
	records, err := s.scores.Standings(r.Context(), r.URL.Query().Get("class"))
	if err != nil {
		s.logger.Error("failed to list scores", "error", err)
		s.respondError(w, http.StatusInternalServerError, "internal_error", "failed to list scores")
		return
	}
	if records == nil {
		records = []leaderboard.Record{}
	}
	s.respondJSON(w, http.StatusOK, records)
}

func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var req submitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	res, err := s.scores.Submit(r.Context(), req.Name, req.ClassName, req.Score)
	if errors.Is(err, leaderboard.ErrInvalidRecord) {
		s.respondError(w, http.StatusBadRequest, "invalid_record", err.Error())
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "internal_error", "failed to save score")
		return
	}

	status := http.StatusOK
	if res.Saved {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, res)
}

func (s *Server) handleChampion(w http.ResponseWriter, r *http.Request) {
	champ, err := s.scores.Champion(r.Context())
	if errors.Is(err, leaderboard.ErrNoScores) {
		s.respondError(w, http.StatusNotFound, "not_found", "no scores recorded yet")
		return
	}
	if err != nil {
		s.logger.Error("failed to load champion", "error", err)
		s.respondError(w, http.StatusInternalServerError, "internal_error", "failed to load champion")
		return
	}
	s.respondJSON(w, http.StatusOK, champ)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.scores.Report(r.Context())
	if err != nil {
		s.logger.Error("failed to build report", "error", err)
		s.respondError(w, http.StatusInternalServerError, "internal_error", "failed to build report")
		return
	}

	switch r.URL.Query().Get("format") {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="laporan-juara-tolak.csv"`)
		err = rep.WriteCSV(w)
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		err = rep.WriteText(w)
	case "", "json":
		s.respondJSON(w, http.StatusOK, rep)
	default:
		s.respondError(w, http.StatusBadRequest, "invalid_format", "format must be json, csv or text")
	}
	if err != nil {
		s.logger.Error("failed to write report", "error", err)
	}
}

type classesResponse struct {
	Roster map[string][]string `json:"roster"`
	Scored []string            `json:"scored"`
}

func (s *Server) handleClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := s.roster.LoadClasses(r.Context())
	if err != nil {
		s.logger.Error("failed to load roster", "error", err)
		s.respondError(w, http.StatusBadGateway, "roster_unavailable", "failed to load class list")
		return
	}
	scored, err := s.scores.Classes(r.Context())
	if err != nil {
		s.logger.Error("failed to list scored classes", "error", err)
		s.respondError(w, http.StatusInternalServerError, "internal_error", "failed to list classes")
		return
	}
	if classes == nil {
		classes = map[string][]string{}
	}
	if scored == nil {
		scored = []string{}
	}
	s.respondJSON(w, http.StatusOK, classesResponse{Roster: classes, Scored: scored})
}
