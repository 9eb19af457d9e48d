package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/lutefd/cricket-api/internal/auth"
	"github.com/lutefd/cricket-api/internal/dashboard"
	"github.com/lutefd/cricket-api/internal/domain/matches"
	"github.com/lutefd/cricket-api/internal/domain/stats"
	domainsync "github.com/lutefd/cricket-api/internal/domain/sync"
	"github.com/lutefd/cricket-api/internal/domain/teams"
	"github.com/lutefd/cricket-api/internal/live"
	"github.com/lutefd/cricket-api/internal/metrics"
	"github.com/lutefd/cricket-api/internal/projections"
	"github.com/lutefd/cricket-api/internal/scorer"
	"github.com/lutefd/cricket-api/internal/telemetry"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
)

// Store is the subset of the postgres store the handlers read and write directly.
type Store interface {
	Ping(ctx context.Context) error
	EnsureUser(ctx context.Context, id uuid.UUID, role string) error
	LinkUser(ctx context.Context, id uuid.UUID) error

	CreateTeam(ctx context.Context, v teams.Team) error
	GetTeam(ctx context.Context, id uuid.UUID) (teams.Team, error)
	ListTeams(ctx context.Context, includeDeleted bool) ([]teams.Team, error)
	SoftDeleteTeam(ctx context.Context, id uuid.UUID, at time.Time) error
	UpsertTeamByUpdatedAt(ctx context.Context, v teams.Team) (domainsync.MergeDecision, error)
	GetTeamStats(ctx context.Context, teamID uuid.UUID) (stats.TeamStats, error)

	CreatePlayer(ctx context.Context, v teams.Player) error
	GetPlayer(ctx context.Context, id uuid.UUID) (teams.Player, error)
	ListPlayersByTeam(ctx context.Context, teamID uuid.UUID) ([]teams.Player, error)
	UpsertPlayerByUpdatedAt(ctx context.Context, v teams.Player) (domainsync.MergeDecision, error)
	GetPlayerStats(ctx context.Context, playerID uuid.UUID) (stats.PlayerStats, error)

	CreateTournament(ctx context.Context, v matches.Tournament) error
	GetTournament(ctx context.Context, id uuid.UUID) (matches.Tournament, error)
	ListTournaments(ctx context.Context, organizerID *uuid.UUID) ([]matches.Tournament, error)
	ListTournamentStandings(ctx context.Context, tournamentID uuid.UUID) ([]stats.StandingRow, error)

	CreateMatch(ctx context.Context, v matches.Match) error
	GetMatch(ctx context.Context, id uuid.UUID) (matches.Match, error)
	ListMatches(ctx context.Context, f matches.Filter) ([]matches.Match, error)
	ListInningsByMatch(ctx context.Context, matchID uuid.UUID) ([]matches.Innings, error)

	Follow(ctx context.Context, v matches.Follow) error
	Unfollow(ctx context.Context, userID uuid.UUID, target matches.FollowTarget, targetID uuid.UUID) error
	ListFollows(ctx context.Context, userID uuid.UUID) ([]matches.Follow, error)

	UpsertBallByUpdatedAt(ctx context.Context, v matches.Ball) (domainsync.MergeDecision, error)
	PullChanges(ctx context.Context, since time.Time) (domainsync.PullResponse, error)
}

type Dependencies struct {
	Store       Store
	Scorer      *scorer.Service
	Projections *projections.Service
	Dashboard   *dashboard.Service
	Hub         *live.Hub
	Metrics     *metrics.Recorder
	Verifier    *auth.Verifier
	Logger      *zap.Logger
}

type Server struct {
	store       Store
	scorer      *scorer.Service
	projection  *projections.Service
	dashboard   *dashboard.Service
	hub         *live.Hub
	metrics     *metrics.Recorder
	auth        auth.Middleware
	log         *zap.Logger
	balls       *jsonschema.Schema
	now         func() time.Time
	sseInterval time.Duration
}

func NewServer(deps Dependencies) (*Server, error) {
	schema, err := compileSchema(ballSchema)
	if err != nil {
		return nil, fmt.Errorf("ball schema: %w", err)
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		store:       deps.Store,
		scorer:      deps.Scorer,
		projection:  deps.Projections,
		dashboard:   deps.Dashboard,
		hub:         deps.Hub,
		metrics:     deps.Metrics,
		auth:        auth.NewMiddleware(deps.Verifier, "/healthz"),
		log:         log,
		balls:       schema,
		now:         func() time.Time { return time.Now().UTC() },
		sseInterval: 15 * time.Second,
	}, nil
}

func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(telemetry.Middleware(routeTemplate), accessLog(s.log, s.metrics), s.auth.Guard)

	staff := auth.RequireRole(auth.RoleOrganizer, auth.RoleAdmin)
	admin := auth.RequireRole(auth.RoleAdmin)
	handle := func(path string, h http.HandlerFunc, method string, guards ...func(http.Handler) http.Handler) {
		var handler http.Handler = h
		for i := len(guards) - 1; i >= 0; i-- {
			handler = guards[i](handler)
		}
		r.Handle(path, handler).Methods(method)
	}

	handle("/healthz", s.handleHealth, http.MethodGet)
	handle("/v1/dashboard", s.handleDashboard, http.MethodGet)

	handle("/v1/teams", s.handleListTeams, http.MethodGet)
	handle("/v1/teams", s.handleCreateTeam, http.MethodPost, staff)
	handle("/v1/teams/{id}", s.handleGetTeam, http.MethodGet)
	handle("/v1/teams/{id}", s.handleDeleteTeam, http.MethodDelete, admin)
	handle("/v1/teams/{id}/players", s.handleListTeamPlayers, http.MethodGet)
	handle("/v1/players", s.handleCreatePlayer, http.MethodPost, staff)
	handle("/v1/players/{id}", s.handleGetPlayer, http.MethodGet)

	handle("/v1/tournaments", s.handleListTournaments, http.MethodGet)
	handle("/v1/tournaments", s.handleCreateTournament, http.MethodPost, staff)
	handle("/v1/tournaments/{id}/standings", s.handleStandings, http.MethodGet)

	handle("/v1/matches", s.handleListMatches, http.MethodGet)
	handle("/v1/matches", s.handleCreateMatch, http.MethodPost, staff)
	handle("/v1/matches/{id}", s.handleGetMatch, http.MethodGet)
	handle("/v1/matches/{id}/scorecard", s.handleScorecard, http.MethodGet)
	handle("/v1/matches/{id}/live", s.handleLive, http.MethodGet)
	handle("/v1/matches/{id}/start", s.handleStartMatch, http.MethodPost, staff)
	handle("/v1/matches/{id}/balls", s.handleRecordBall, http.MethodPost, staff)
	handle("/v1/matches/{id}/balls/last", s.handleUndoBall, http.MethodDelete, staff)
	handle("/v1/matches/{id}/abandon", s.handleAbandon, http.MethodPost, staff)

	handle("/v1/follows", s.handleListFollows, http.MethodGet)
	handle("/v1/follows", s.handleFollow, http.MethodPost)
	handle("/v1/follows/{type}/{id}", s.handleUnfollow, http.MethodDelete)

	handle("/v1/sync/push", s.handleSyncPush, http.MethodPost, staff)
	handle("/v1/sync/pull", s.handleSyncPull, http.MethodGet, staff)

	handle("/v1/admin/metrics", s.handleMetrics, http.MethodGet, admin)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.PrincipalFromContext(r.Context())
	d, err := s.dashboard.Build(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	var snapshot metrics.Snapshot
	if s.metrics != nil {
		snapshot = s.metrics.Snapshot()
	}
	var dropped uint64
	if s.hub != nil {
		dropped = s.hub.Dropped()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"requests":           snapshot,
		"liveUpdatesDropped": dropped,
	})
}

// principal returns the caller and records them in the users table, which
// organizer and follow rows reference.
func (s *Server) principal(ctx context.Context) (auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return auth.Principal{}, auth.ErrUnauthenticated
	}
	if err := s.store.EnsureUser(ctx, p.UserID, string(p.Role)); err != nil {
		return auth.Principal{}, err
	}
	return p, nil
}

// canManage reports whether the caller may score or edit a match.
func canManage(p auth.Principal, m matches.Match) bool {
	if p.Role == auth.RoleAdmin {
		return true
	}
	return p.Role == auth.RoleOrganizer && m.OrganizerID != nil && *m.OrganizerID == p.UserID
}
