package httpserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/auth"
	"github.com/lutefd/cricket-api/internal/domain/scoring"
	domainsync "github.com/lutefd/cricket-api/internal/domain/sync"
)

func (s *Server) handleSyncPush(w http.ResponseWriter, r *http.Request) {
	p, err := s.principal(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var payload domainsync.PushRequest
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}

	// Check every ball before writing anything so a bad batch leaves no trace.
	for _, item := range payload.Balls {
		if item.ID == uuid.Nil || item.MatchID == uuid.Nil || item.InningsID == uuid.Nil {
			s.writeError(w, r, badRequest("ball id, matchId and inningsId are required"))
			return
		}
		if item.IsDeleted() {
			continue
		}
		if err := scoring.ValidateBall(item); err != nil {
			s.writeError(w, r, badRequest("ball %s: %v", item.ID, err))
			return
		}
	}
	touched := payload.MatchIDs()
	for _, matchID := range touched {
		match, err := s.store.GetMatch(r.Context(), matchID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if !canManage(p, match) {
			s.writeError(w, r, auth.ErrForbidden)
			return
		}
	}
	if err := s.scorer.CheckBalls(r.Context(), payload.Balls); err != nil {
		s.writeError(w, r, err)
		return
	}

	response := domainsync.PushResponse{}

	for _, item := range payload.Teams {
		if item.OrganizerID == nil {
			item.OrganizerID = &p.UserID
		} else if err := s.store.LinkUser(r.Context(), *item.OrganizerID); err != nil {
			s.writeError(w, r, err)
			return
		}
		decision, err := s.store.UpsertTeamByUpdatedAt(r.Context(), item)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		response.Teams.Apply(decision)
	}

	for _, item := range payload.Players {
		if !item.Role.Valid() {
			s.writeError(w, r, badRequest("player %s: invalid role %q", item.ID, item.Role))
			return
		}
		if item.UserID != nil {
			if err := s.store.LinkUser(r.Context(), *item.UserID); err != nil {
				s.writeError(w, r, err)
				return
			}
		}
		decision, err := s.store.UpsertPlayerByUpdatedAt(r.Context(), item)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		response.Players.Apply(decision)
	}

	changed := map[uuid.UUID]bool{}
	for _, item := range payload.Balls {
		decision, err := s.store.UpsertBallByUpdatedAt(r.Context(), item)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		response.Balls.Apply(decision)
		if decision.Changed() {
			changed[item.MatchID] = true
		}
	}

	for _, matchID := range touched {
		if !changed[matchID] {
			continue
		}
		if _, err := s.scorer.RebuildMatch(r.Context(), matchID); err != nil {
			s.writeError(w, r, err)
			return
		}
		response.RebuiltMatches++
	}

	response.ServerTimestamp = s.now()
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleSyncPull(w http.ResponseWriter, r *http.Request) {
	updatedAfterRaw := r.URL.Query().Get("updatedAfter")
	if updatedAfterRaw == "" {
		s.writeError(w, r, badRequest("updatedAfter is required"))
		return
	}
	updatedAfter, err := time.Parse(time.RFC3339, updatedAfterRaw)
	if err != nil {
		s.writeError(w, r, badRequest("updatedAfter must be RFC3339"))
		return
	}

	changes, err := s.store.PullChanges(r.Context(), updatedAfter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, changes)
}
