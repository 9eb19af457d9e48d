package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/auth"
	"github.com/lutefd/cricket-api/internal/domain/matches"
	"github.com/lutefd/cricket-api/internal/storage/postgres"
)

const (
	defaultMatchLimit = 50
	maxMatchLimit     = 200
)

func (s *Server) handleListTournaments(w http.ResponseWriter, r *http.Request) {
	organizerID, err := queryUUID(r, "organizerId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := s.store.ListTournaments(r.Context(), organizerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tournaments": items})
}

func (s *Server) handleCreateTournament(w http.ResponseWriter, r *http.Request) {
	p, err := s.principal(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var payload matches.Tournament
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		s.writeError(w, r, badRequest("name is required"))
		return
	}
	if payload.OversLimit < 0 {
		s.writeError(w, r, badRequest("oversLimit must be positive"))
		return
	}
	if payload.OversLimit == 0 {
		payload.OversLimit = matches.DefaultOversLimit
	}
	if payload.EndsOn != nil && payload.EndsOn.Before(payload.StartsOn) {
		s.writeError(w, r, badRequest("endsOn is before startsOn"))
		return
	}
	if payload.ID == uuid.Nil {
		payload.ID = uuid.New()
	}
	now := s.now()
	payload.OrganizerID = p.UserID
	payload.CreatedAt = now
	payload.UpdatedAt = now
	payload.DeletedAt = nil

	if err := s.store.CreateTournament(r.Context(), payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, payload)
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tournament, err := s.store.GetTournament(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rows, err := s.store.ListTournamentStandings(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tournament": tournament, "standings": rows})
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := matches.Filter{Limit: defaultMatchLimit}
	if raw := q.Get("status"); raw != "" {
		status := matches.Status(raw)
		switch status {
		case matches.StatusScheduled, matches.StatusLive, matches.StatusCompleted, matches.StatusAbandoned:
			filter.Status = status
		default:
			s.writeError(w, r, badRequest("invalid status %q", raw))
			return
		}
	}
	var err error
	if filter.TeamID, err = queryUUID(r, "teamId"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if filter.TournamentID, err = queryUUID(r, "tournamentId"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, r, badRequest("invalid limit %q", raw))
			return
		}
		filter.Limit = min(parsed, maxMatchLimit)
	}

	items, err := s.store.ListMatches(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": items})
}

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	p, err := s.principal(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var payload matches.Match
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	if payload.HomeTeamID == uuid.Nil || payload.AwayTeamID == uuid.Nil {
		s.writeError(w, r, badRequest("homeTeamId and awayTeamId are required"))
		return
	}
	if payload.HomeTeamID == payload.AwayTeamID {
		s.writeError(w, r, badRequest("a team cannot play itself"))
		return
	}
	if payload.ScheduledAt.IsZero() {
		s.writeError(w, r, badRequest("scheduledAt is required"))
		return
	}
	if payload.OversLimit < 0 || payload.MaxWickets < 0 {
		s.writeError(w, r, badRequest("oversLimit and maxWickets must be positive"))
		return
	}
	for _, teamID := range []uuid.UUID{payload.HomeTeamID, payload.AwayTeamID} {
		team, err := s.store.GetTeam(r.Context(), teamID)
		if errors.Is(err, postgres.ErrNotFound) || (err == nil && team.IsDeleted()) {
			s.writeError(w, r, badRequest("team %s does not exist", teamID))
			return
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if payload.TournamentID != nil {
		tournament, err := s.store.GetTournament(r.Context(), *payload.TournamentID)
		if errors.Is(err, postgres.ErrNotFound) {
			s.writeError(w, r, badRequest("tournament %s does not exist", *payload.TournamentID))
			return
		}
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if payload.OversLimit == 0 {
			payload.OversLimit = tournament.OversLimit
		}
	}

	if payload.ID == uuid.Nil {
		payload.ID = uuid.New()
	}
	now := s.now()
	payload.OrganizerID = &p.UserID
	payload.Status = matches.StatusScheduled
	payload.TossWinnerID = nil
	payload.TossDecision = nil
	payload.WinnerTeamID = nil
	payload.ResultSummary = nil
	payload.CreatedAt = now
	payload.UpdatedAt = now
	payload.DeletedAt = nil
	payload = payload.WithDefaults()

	if err := s.store.CreateMatch(r.Context(), payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	// Fixtures show up in the table with zero played.
	if payload.TournamentID != nil {
		if err := s.projection.RecomputeTournament(r.Context(), *payload.TournamentID); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, payload)
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	match, err := s.store.GetMatch(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	innings, err := s.store.ListInningsByMatch(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"match": match, "innings": innings})
}

func (s *Server) handleScorecard(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	board, err := s.scorer.Scoreboard(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// managedMatch loads the match in the path and checks the caller may score it.
func (s *Server) managedMatch(r *http.Request) (matches.Match, error) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		return matches.Match{}, auth.ErrUnauthenticated
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		return matches.Match{}, err
	}
	match, err := s.store.GetMatch(r.Context(), id)
	if err != nil {
		return matches.Match{}, err
	}
	if !canManage(p, match) {
		return matches.Match{}, auth.ErrForbidden
	}
	return match, nil
}
