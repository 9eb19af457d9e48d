package httpserver

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lutefd/cricket-api/internal/domain/matches"
	"github.com/lutefd/cricket-api/internal/storage/postgres"
)

func (s *Server) handleListFollows(w http.ResponseWriter, r *http.Request) {
	p, err := s.principal(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := s.store.ListFollows(r.Context(), p.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"follows": items})
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	p, err := s.principal(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var payload matches.Follow
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !payload.TargetType.Valid() {
		s.writeError(w, r, badRequest("invalid targetType %q", payload.TargetType))
		return
	}
	if err := s.followTargetExists(r, payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	payload.UserID = p.UserID
	payload.CreatedAt = s.now()
	if err := s.store.Follow(r.Context(), payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, payload)
}

func (s *Server) followTargetExists(r *http.Request, f matches.Follow) error {
	var err error
	switch f.TargetType {
	case matches.FollowTeam:
		_, err = s.store.GetTeam(r.Context(), f.TargetID)
	case matches.FollowPlayer:
		_, err = s.store.GetPlayer(r.Context(), f.TargetID)
	}
	if errors.Is(err, postgres.ErrNotFound) {
		return badRequest("%s %s does not exist", f.TargetType, f.TargetID)
	}
	return err
}

func (s *Server) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	p, err := s.principal(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	target := matches.FollowTarget(mux.Vars(r)["type"])
	if !target.Valid() {
		s.writeError(w, r, badRequest("invalid target type %q", target))
		return
	}
	targetID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Unfollow(r.Context(), p.UserID, target, targetID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
