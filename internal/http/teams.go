package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/stats"
	"github.com/lutefd/cricket-api/internal/domain/teams"
	"github.com/lutefd/cricket-api/internal/storage/postgres"
)

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	includeDeleted := r.URL.Query().Get("includeDeleted") == "true"
	items, err := s.store.ListTeams(r.Context(), includeDeleted)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"teams": items})
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	p, err := s.principal(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var payload teams.Team
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		s.writeError(w, r, badRequest("name is required"))
		return
	}
	if payload.ID == uuid.Nil {
		payload.ID = uuid.New()
	}
	now := s.now()
	payload.OrganizerID = &p.UserID
	payload.CreatedAt = now
	payload.UpdatedAt = now
	payload.DeletedAt = nil

	if err := s.store.CreateTeam(r.Context(), payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, payload)
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	team, err := s.store.GetTeam(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	record, err := s.store.GetTeamStats(r.Context(), id)
	if errors.Is(err, postgres.ErrNotFound) {
		record = stats.TeamStats{TeamID: id}
	} else if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"team": team, "stats": record})
}

func (s *Server) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.SoftDeleteTeam(r.Context(), id, s.now()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTeamPlayers(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.store.GetTeam(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := s.store.ListPlayersByTeam(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": items})
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var payload teams.Player
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		s.writeError(w, r, badRequest("name is required"))
		return
	}
	if !payload.Role.Valid() {
		s.writeError(w, r, badRequest("invalid role %q", payload.Role))
		return
	}
	if payload.TeamID != nil {
		if _, err := s.store.GetTeam(r.Context(), *payload.TeamID); err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				err = badRequest("team %s does not exist", *payload.TeamID)
			}
			s.writeError(w, r, err)
			return
		}
	}
	// A linked account gets a users row so the player dashboard can find it.
	if payload.UserID != nil {
		if err := s.store.LinkUser(r.Context(), *payload.UserID); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if payload.ID == uuid.Nil {
		payload.ID = uuid.New()
	}
	now := s.now()
	payload.CreatedAt = now
	payload.UpdatedAt = now
	payload.DeletedAt = nil

	if err := s.store.CreatePlayer(r.Context(), payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, payload)
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	player, err := s.store.GetPlayer(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	career, err := s.store.GetPlayerStats(r.Context(), id)
	if errors.Is(err, postgres.ErrNotFound) {
		career = stats.PlayerStats{PlayerID: id}
	} else if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"player": player, "stats": career})
}
