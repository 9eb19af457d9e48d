package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/auth"
	"github.com/lutefd/cricket-api/internal/domain/matches"
	"github.com/lutefd/cricket-api/internal/domain/stats"
	"github.com/lutefd/cricket-api/internal/domain/teams"
	"github.com/lutefd/cricket-api/internal/storage/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dashboardStoreMock struct {
	follows     []matches.Follow
	teams       []teams.Team
	players     []teams.Player
	byStatus    map[matches.Status][]matches.Match
	tournaments []matches.Tournament
	player      *teams.Player
	stats       *stats.PlayerStats
	counts      postgres.Counts
	failMatches error
}

func (m *dashboardStoreMock) ListFollows(context.Context, uuid.UUID) ([]matches.Follow, error) {
	return m.follows, nil
}

func (m *dashboardStoreMock) ListTeamsByIDs(context.Context, []uuid.UUID) ([]teams.Team, error) {
	return m.teams, nil
}

func (m *dashboardStoreMock) ListPlayersByIDs(context.Context, []uuid.UUID) ([]teams.Player, error) {
	return m.players, nil
}

func (m *dashboardStoreMock) ListMatches(_ context.Context, f matches.Filter) ([]matches.Match, error) {
	if m.failMatches != nil {
		return nil, m.failMatches
	}
	return m.byStatus[f.Status], nil
}

func (m *dashboardStoreMock) ListTournaments(context.Context, *uuid.UUID) ([]matches.Tournament, error) {
	return m.tournaments, nil
}

func (m *dashboardStoreMock) GetPlayerByUser(context.Context, uuid.UUID) (teams.Player, error) {
	if m.player == nil {
		return teams.Player{}, postgres.ErrNotFound
	}
	return *m.player, nil
}

func (m *dashboardStoreMock) GetPlayerStats(context.Context, uuid.UUID) (stats.PlayerStats, error) {
	if m.stats == nil {
		return stats.PlayerStats{}, postgres.ErrNotFound
	}
	return *m.stats, nil
}

func (m *dashboardStoreMock) CountEntities(context.Context) (postgres.Counts, error) {
	return m.counts, nil
}

func TestFanDashboard(t *testing.T) {
	team := teams.Team{ID: uuid.New(), Name: "Harbour"}
	live := matches.Match{ID: uuid.New(), HomeTeamID: team.ID, Status: matches.StatusLive}
	store := &dashboardStoreMock{
		follows:  []matches.Follow{{TargetType: matches.FollowTeam, TargetID: team.ID}},
		teams:    []teams.Team{team},
		byStatus: map[matches.Status][]matches.Match{matches.StatusLive: {live}},
	}

	d, err := NewService(store).Build(context.Background(), auth.Principal{UserID: uuid.New(), Role: auth.RoleFan})
	require.NoError(t, err)
	require.NotNil(t, d.Fan)
	assert.Nil(t, d.Admin)
	assert.Equal(t, []teams.Team{team}, d.Fan.FollowedTeams)
	assert.Equal(t, []matches.Match{live}, d.Fan.LiveMatches)
	assert.Empty(t, d.Fan.FollowedPlayers)
}

func TestFanWithoutFollowsGetsEmptyLists(t *testing.T) {
	d, err := NewService(&dashboardStoreMock{}).Build(context.Background(), auth.Principal{UserID: uuid.New(), Role: auth.RoleFan})
	require.NoError(t, err)
	assert.NotNil(t, d.Fan.LiveMatches)
	assert.Empty(t, d.Fan.LiveMatches)
}

func TestPlayerDashboardWithoutLinkedProfile(t *testing.T) {
	d, err := NewService(&dashboardStoreMock{}).Build(context.Background(), auth.Principal{UserID: uuid.New(), Role: auth.RolePlayer})
	require.NoError(t, err)
	require.NotNil(t, d.Player)
	assert.Nil(t, d.Player.Player)
	assert.Nil(t, d.Player.Stats)
}

func TestPlayerDashboardWithStats(t *testing.T) {
	teamID := uuid.New()
	player := teams.Player{ID: uuid.New(), TeamID: &teamID, Name: "R. Iyer"}
	st := stats.PlayerStats{PlayerID: player.ID, Matches: 3}
	store := &dashboardStoreMock{player: &player, stats: &st}

	d, err := NewService(store).Build(context.Background(), auth.Principal{UserID: uuid.New(), Role: auth.RolePlayer})
	require.NoError(t, err)
	require.NotNil(t, d.Player.Stats)
	assert.Equal(t, 3, d.Player.Stats.Matches)
}

func TestAdminDashboardPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewService(&dashboardStoreMock{failMatches: boom}).Build(context.Background(), auth.Principal{Role: auth.RoleAdmin})
	require.ErrorIs(t, err, boom)
}

func TestOrganizerDashboard(t *testing.T) {
	tournament := matches.Tournament{ID: uuid.New(), Name: "Spring Cup"}
	store := &dashboardStoreMock{tournaments: []matches.Tournament{tournament}}
	d, err := NewService(store).Build(context.Background(), auth.Principal{UserID: uuid.New(), Role: auth.RoleOrganizer})
	require.NoError(t, err)
	assert.Equal(t, []matches.Tournament{tournament}, d.Organizer.Tournaments)
}
