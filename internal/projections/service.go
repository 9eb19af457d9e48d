package projections

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
	"github.com/lutefd/cricket-api/internal/domain/stats"
	"github.com/lutefd/cricket-api/internal/domain/teams"
	"github.com/lutefd/cricket-api/internal/events"
	"go.uber.org/zap"
)

type Store interface {
	GetMatch(ctx context.Context, id uuid.UUID) (matches.Match, error)
	ListMatches(ctx context.Context, f matches.Filter) ([]matches.Match, error)
	ListBallsByMatch(ctx context.Context, matchID uuid.UUID) ([]matches.Ball, error)
	ListInningsByMatchIDs(ctx context.Context, matchIDs []uuid.UUID) (map[uuid.UUID][]matches.Innings, error)
	ListInningsBallsForPlayer(ctx context.Context, playerID uuid.UUID) ([]stats.InningsBalls, error)
	ListTeamsByIDs(ctx context.Context, ids []uuid.UUID) ([]teams.Team, error)
	UpsertPlayerStats(ctx context.Context, v stats.PlayerStats) error
	UpsertTeamStats(ctx context.Context, v stats.TeamStats) error
	ReplaceTournamentStandings(ctx context.Context, tournamentID uuid.UUID, rows []stats.StandingRow) error
}

type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

// Register recomputes aggregates whenever a match finishes, or loses its result again.
func (s *Service) Register(bus *events.Bus) {
	bus.Subscribe(events.MatchCompleted, s.handleFinished)
	bus.Subscribe(events.MatchAbandoned, s.handleFinished)
	bus.Subscribe(events.MatchReopened, s.handleFinished)
}

func (s *Service) handleFinished(ctx context.Context, e events.Event) error {
	return s.RecomputeMatch(ctx, e.MatchID)
}

// RecomputeMatch refreshes everything a finished match feeds into: its
// players' careers, both teams' records and the tournament table.
func (s *Service) RecomputeMatch(ctx context.Context, matchID uuid.UUID) error {
	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if err := s.RecomputeMatchPlayers(ctx, matchID); err != nil {
		return fmt.Errorf("recompute players: %w", err)
	}
	for _, teamID := range []uuid.UUID{m.HomeTeamID, m.AwayTeamID} {
		if err := s.RecomputeTeam(ctx, teamID); err != nil {
			return fmt.Errorf("recompute team %s: %w", teamID, err)
		}
	}
	if m.TournamentID != nil {
		if err := s.RecomputeTournament(ctx, *m.TournamentID); err != nil {
			return fmt.Errorf("recompute tournament %s: %w", *m.TournamentID, err)
		}
	}
	s.log.Debug("projections refreshed", zap.String("match_id", matchID.String()))
	return nil
}

func (s *Service) RecomputeMatchPlayers(ctx context.Context, matchID uuid.UUID) error {
	balls, err := s.store.ListBallsByMatch(ctx, matchID)
	if err != nil {
		return err
	}
	for _, playerID := range participants(balls) {
		if err := s.RecomputePlayer(ctx, playerID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) RecomputePlayer(ctx context.Context, playerID uuid.UUID) error {
	items, err := s.store.ListInningsBallsForPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	return s.store.UpsertPlayerStats(ctx, stats.BuildPlayerStats(playerID, items))
}

func (s *Service) RecomputeTeam(ctx context.Context, teamID uuid.UUID) error {
	items, err := s.store.ListMatches(ctx, matches.Filter{
		TeamID:   &teamID,
		Statuses: []matches.Status{matches.StatusCompleted, matches.StatusAbandoned},
	})
	if err != nil {
		return err
	}
	return s.store.UpsertTeamStats(ctx, stats.TeamRecord(teamID, items))
}

func (s *Service) RecomputeTournament(ctx context.Context, tournamentID uuid.UUID) error {
	items, err := s.store.ListMatches(ctx, matches.Filter{TournamentID: &tournamentID})
	if err != nil {
		return err
	}

	matchIDs := make([]uuid.UUID, 0, len(items))
	teamIDs := make([]uuid.UUID, 0)
	seen := map[uuid.UUID]struct{}{}
	for _, m := range items {
		matchIDs = append(matchIDs, m.ID)
		for _, id := range []uuid.UUID{m.HomeTeamID, m.AwayTeamID} {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			teamIDs = append(teamIDs, id)
		}
	}

	inningsByMatch, err := s.store.ListInningsByMatchIDs(ctx, matchIDs)
	if err != nil {
		return err
	}
	teamList, err := s.store.ListTeamsByIDs(ctx, teamIDs)
	if err != nil {
		return err
	}

	records := make([]stats.MatchRecord, 0, len(items))
	for _, m := range items {
		records = append(records, stats.MatchRecord{Match: m, Innings: inningsByMatch[m.ID]})
	}
	return s.store.ReplaceTournamentStandings(ctx, tournamentID, stats.BuildStandings(teamList, records))
}

// participants lists every player who batted, bowled or was dismissed, in order of appearance.
func participants(balls []matches.Ball) []uuid.UUID {
	seen := map[uuid.UUID]struct{}{}
	out := make([]uuid.UUID, 0)
	add := func(id *uuid.UUID) {
		if id == nil || *id == uuid.Nil {
			return
		}
		if _, ok := seen[*id]; ok {
			return
		}
		seen[*id] = struct{}{}
		out = append(out, *id)
	}
	for _, b := range balls {
		if b.IsDeleted() {
			continue
		}
		add(&b.BatterID)
		add(b.NonStrikerID)
		add(&b.BowlerID)
		add(b.DismissedPlayerID)
	}
	return out
}
