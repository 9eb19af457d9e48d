package dashboard

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/auth"
	"github.com/lutefd/cricket-api/internal/domain/matches"
	"github.com/lutefd/cricket-api/internal/domain/stats"
	"github.com/lutefd/cricket-api/internal/domain/teams"
	"github.com/lutefd/cricket-api/internal/storage/postgres"
	"golang.org/x/sync/errgroup"
)

const listLimit = 10

type Store interface {
	ListFollows(ctx context.Context, userID uuid.UUID) ([]matches.Follow, error)
	ListTeamsByIDs(ctx context.Context, ids []uuid.UUID) ([]teams.Team, error)
	ListPlayersByIDs(ctx context.Context, ids []uuid.UUID) ([]teams.Player, error)
	ListMatches(ctx context.Context, f matches.Filter) ([]matches.Match, error)
	ListTournaments(ctx context.Context, organizerID *uuid.UUID) ([]matches.Tournament, error)
	GetPlayerByUser(ctx context.Context, userID uuid.UUID) (teams.Player, error)
	GetPlayerStats(ctx context.Context, playerID uuid.UUID) (stats.PlayerStats, error)
	CountEntities(ctx context.Context) (postgres.Counts, error)
}

type FanView struct {
	FollowedTeams   []teams.Team    `json:"followedTeams"`
	FollowedPlayers []teams.Player  `json:"followedPlayers"`
	LiveMatches     []matches.Match `json:"liveMatches"`
	UpcomingMatches []matches.Match `json:"upcomingMatches"`
}

type OrganizerView struct {
	Tournaments     []matches.Tournament `json:"tournaments"`
	LiveMatches     []matches.Match      `json:"liveMatches"`
	UpcomingMatches []matches.Match      `json:"upcomingMatches"`
}

type PlayerView struct {
	Player          *teams.Player      `json:"player,omitempty"`
	Stats           *stats.PlayerStats `json:"stats,omitempty"`
	UpcomingMatches []matches.Match    `json:"upcomingMatches"`
}

type AdminView struct {
	Counts      postgres.Counts `json:"counts"`
	LiveMatches []matches.Match `json:"liveMatches"`
}

// Dashboard carries exactly one populated view, chosen by the caller's role.
type Dashboard struct {
	Role      auth.Role      `json:"role"`
	Fan       *FanView       `json:"fan,omitempty"`
	Organizer *OrganizerView `json:"organizer,omitempty"`
	Player    *PlayerView    `json:"player,omitempty"`
	Admin     *AdminView     `json:"admin,omitempty"`
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Build(ctx context.Context, p auth.Principal) (Dashboard, error) {
	out := Dashboard{Role: p.Role}
	var err error
	switch p.Role {
	case auth.RoleFan:
		out.Fan, err = s.fan(ctx, p.UserID)
	case auth.RoleOrganizer:
		out.Organizer, err = s.organizer(ctx, p.UserID)
	case auth.RolePlayer:
		out.Player, err = s.player(ctx, p.UserID)
	case auth.RoleAdmin:
		out.Admin, err = s.admin(ctx)
	default:
		return Dashboard{}, auth.ErrForbidden
	}
	if err != nil {
		return Dashboard{}, err
	}
	return out, nil
}

func (s *Service) fan(ctx context.Context, userID uuid.UUID) (*FanView, error) {
	follows, err := s.store.ListFollows(ctx, userID)
	if err != nil {
		return nil, err
	}
	var teamIDs, playerIDs []uuid.UUID
	for _, f := range follows {
		switch f.TargetType {
		case matches.FollowTeam:
			teamIDs = append(teamIDs, f.TargetID)
		case matches.FollowPlayer:
			playerIDs = append(playerIDs, f.TargetID)
		}
	}

	view := &FanView{
		FollowedTeams:   []teams.Team{},
		FollowedPlayers: []teams.Player{},
		LiveMatches:     []matches.Match{},
		UpcomingMatches: []matches.Match{},
	}
	g, gctx := errgroup.WithContext(ctx)
	if len(teamIDs) > 0 {
		g.Go(func() (err error) {
			view.FollowedTeams, err = s.store.ListTeamsByIDs(gctx, teamIDs)
			return err
		})
		g.Go(func() (err error) {
			view.LiveMatches, err = s.store.ListMatches(gctx, matches.Filter{Status: matches.StatusLive, TeamIDs: teamIDs, Limit: listLimit})
			return err
		})
		g.Go(func() (err error) {
			view.UpcomingMatches, err = s.store.ListMatches(gctx, matches.Filter{Status: matches.StatusScheduled, TeamIDs: teamIDs, Limit: listLimit})
			return err
		})
	}
	if len(playerIDs) > 0 {
		g.Go(func() (err error) {
			view.FollowedPlayers, err = s.store.ListPlayersByIDs(gctx, playerIDs)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *Service) organizer(ctx context.Context, userID uuid.UUID) (*OrganizerView, error) {
	view := &OrganizerView{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.Tournaments, err = s.store.ListTournaments(gctx, &userID)
		return err
	})
	g.Go(func() (err error) {
		view.LiveMatches, err = s.store.ListMatches(gctx, matches.Filter{Status: matches.StatusLive, OrganizerID: &userID})
		return err
	})
	g.Go(func() (err error) {
		view.UpcomingMatches, err = s.store.ListMatches(gctx, matches.Filter{Status: matches.StatusScheduled, OrganizerID: &userID, Limit: listLimit})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *Service) player(ctx context.Context, userID uuid.UUID) (*PlayerView, error) {
	view := &PlayerView{UpcomingMatches: []matches.Match{}}
	player, err := s.store.GetPlayerByUser(ctx, userID)
	if errors.Is(err, postgres.ErrNotFound) {
		return view, nil
	}
	if err != nil {
		return nil, err
	}
	view.Player = &player

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, err := s.store.GetPlayerStats(gctx, player.ID)
		if errors.Is(err, postgres.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		view.Stats = &st
		return nil
	})
	if player.TeamID != nil {
		g.Go(func() (err error) {
			view.UpcomingMatches, err = s.store.ListMatches(gctx, matches.Filter{Status: matches.StatusScheduled, TeamID: player.TeamID, Limit: listLimit})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *Service) admin(ctx context.Context) (*AdminView, error) {
	view := &AdminView{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.Counts, err = s.store.CountEntities(gctx)
		return err
	})
	g.Go(func() (err error) {
		view.LiveMatches, err = s.store.ListMatches(gctx, matches.Filter{Status: matches.StatusLive})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}
