package httpserver

import (
	"io"
	"net/http"

	"github.com/lutefd/cricket-api/internal/domain/matches"
	"github.com/lutefd/cricket-api/internal/scorer"
)

const maxBallPayload = 16 << 10

func (s *Server) handleStartMatch(w http.ResponseWriter, r *http.Request) {
	match, err := s.managedMatch(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var toss scorer.Toss
	if err := decodeJSON(r, &toss); err != nil {
		s.writeError(w, r, err)
		return
	}
	started, err := s.scorer.StartMatch(r.Context(), match.ID, toss)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, started)
}

func (s *Server) handleRecordBall(w http.ResponseWriter, r *http.Request) {
	match, err := s.managedMatch(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBallPayload))
	if err != nil {
		s.writeError(w, r, badRequest("read body: %v", err))
		return
	}
	var payload matches.Ball
	if err := validatePayload(s.balls, raw, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}

	ball, err := s.scorer.RecordBall(r.Context(), match.ID, payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	board, err := s.scorer.Scoreboard(r.Context(), match.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ball": ball, "scoreboard": board})
}

func (s *Server) handleUndoBall(w http.ResponseWriter, r *http.Request) {
	match, err := s.managedMatch(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ball, err := s.scorer.UndoLastBall(r.Context(), match.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	board, err := s.scorer.Scoreboard(r.Context(), match.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ball": ball, "scoreboard": board})
}

func (s *Server) handleAbandon(w http.ResponseWriter, r *http.Request) {
	match, err := s.managedMatch(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	abandoned, err := s.scorer.Abandon(r.Context(), match.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, abandoned)
}
