package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
	"github.com/lutefd/cricket-api/internal/domain/stats"
	"github.com/lutefd/cricket-api/internal/domain/teams"
	"github.com/lutefd/cricket-api/internal/events"
)

var errNotFound = errors.New("not found")

type projectionStoreMock struct {
	matches        []matches.Match
	balls          map[uuid.UUID][]matches.Ball
	innings        map[uuid.UUID][]matches.Innings
	teams          []teams.Team
	playerInnings  map[uuid.UUID][]stats.InningsBalls
	lastFilter     matches.Filter
	playerStats    map[uuid.UUID]stats.PlayerStats
	teamStats      map[uuid.UUID]stats.TeamStats
	standings      []stats.StandingRow
	standingsOwner uuid.UUID
}

func (m *projectionStoreMock) GetMatch(_ context.Context, id uuid.UUID) (matches.Match, error) {
	for _, item := range m.matches {
		if item.ID == id {
			return item, nil
		}
	}
	return matches.Match{}, errNotFound
}

func (m *projectionStoreMock) ListMatches(_ context.Context, f matches.Filter) ([]matches.Match, error) {
	m.lastFilter = f
	out := make([]matches.Match, 0)
	for _, item := range m.matches {
		if f.TeamID != nil && !item.Involves(*f.TeamID) {
			continue
		}
		if f.TournamentID != nil && (item.TournamentID == nil || *item.TournamentID != *f.TournamentID) {
			continue
		}
		if len(f.Statuses) > 0 && !hasStatus(f.Statuses, item.Status) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func hasStatus(statuses []matches.Status, s matches.Status) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

func (m *projectionStoreMock) ListBallsByMatch(_ context.Context, matchID uuid.UUID) ([]matches.Ball, error) {
	return m.balls[matchID], nil
}

func (m *projectionStoreMock) ListInningsByMatchIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]matches.Innings, error) {
	out := make(map[uuid.UUID][]matches.Innings, len(ids))
	for _, id := range ids {
		out[id] = m.innings[id]
	}
	return out, nil
}

func (m *projectionStoreMock) ListInningsBallsForPlayer(_ context.Context, playerID uuid.UUID) ([]stats.InningsBalls, error) {
	return m.playerInnings[playerID], nil
}

func (m *projectionStoreMock) ListTeamsByIDs(_ context.Context, _ []uuid.UUID) ([]teams.Team, error) {
	return m.teams, nil
}

func (m *projectionStoreMock) UpsertPlayerStats(_ context.Context, v stats.PlayerStats) error {
	if m.playerStats == nil {
		m.playerStats = make(map[uuid.UUID]stats.PlayerStats)
	}
	m.playerStats[v.PlayerID] = v
	return nil
}

func (m *projectionStoreMock) UpsertTeamStats(_ context.Context, v stats.TeamStats) error {
	if m.teamStats == nil {
		m.teamStats = make(map[uuid.UUID]stats.TeamStats)
	}
	m.teamStats[v.TeamID] = v
	return nil
}

func (m *projectionStoreMock) ReplaceTournamentStandings(_ context.Context, tournamentID uuid.UUID, rows []stats.StandingRow) error {
	m.standingsOwner = tournamentID
	m.standings = rows
	return nil
}

func TestMatchCompletedRecomputesPlayersTeamsAndStandings(t *testing.T) {
	tournamentID := uuid.New()
	home := teams.Team{ID: uuid.New(), Name: "Harbour"}
	away := teams.Team{ID: uuid.New(), Name: "Valley"}
	batter, nonStriker, bowler := uuid.New(), uuid.New(), uuid.New()
	base := time.Date(2026, 4, 4, 10, 0, 0, 0, time.UTC)

	winner := home.ID
	match := matches.Match{
		ID:           uuid.New(),
		TournamentID: &tournamentID,
		HomeTeamID:   home.ID,
		AwayTeamID:   away.ID,
		ScheduledAt:  base,
		OversLimit:   1,
		MaxWickets:   10,
		Status:       matches.StatusCompleted,
		WinnerTeamID: &winner,
	}
	first := matches.Innings{ID: uuid.New(), MatchID: match.ID, Number: 1, BattingTeamID: home.ID, BowlingTeamID: away.ID, Runs: 12, LegalBalls: 6, Completed: true}
	second := matches.Innings{ID: uuid.New(), MatchID: match.ID, Number: 2, BattingTeamID: away.ID, BowlingTeamID: home.ID, Runs: 6, LegalBalls: 6, Completed: true}

	balls := make([]matches.Ball, 0, 6)
	for i := 0; i < 6; i++ {
		balls = append(balls, matches.Ball{
			ID:           uuid.New(),
			InningsID:    first.ID,
			MatchID:      match.ID,
			Sequence:     i + 1,
			BatterID:     batter,
			NonStrikerID: &nonStriker,
			BowlerID:     bowler,
			RunsOffBat:   2,
		})
	}

	store := &projectionStoreMock{
		matches: []matches.Match{match},
		balls:   map[uuid.UUID][]matches.Ball{match.ID: balls},
		innings: map[uuid.UUID][]matches.Innings{match.ID: {first, second}},
		teams:   []teams.Team{home, away},
		playerInnings: map[uuid.UUID][]stats.InningsBalls{
			batter: {{InningsID: first.ID, MatchID: match.ID, PlayedAt: base, Balls: balls}},
			bowler: {{InningsID: first.ID, MatchID: match.ID, PlayedAt: base, Balls: balls}},
		},
	}

	bus := events.NewBus()
	NewService(store, nil).Register(bus)
	if err := bus.Publish(context.Background(), events.Event{Name: events.MatchCompleted, MatchID: match.ID}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(store.playerStats) != 3 {
		t.Fatalf("expected stats for 3 players, got %d", len(store.playerStats))
	}
	if got := store.playerStats[batter].Batting.Runs; got != 12 {
		t.Fatalf("expected batter runs 12, got %d", got)
	}
	if got := store.playerStats[bowler].Bowling.Overs; got != "1.0" {
		t.Fatalf("expected bowler overs 1.0, got %s", got)
	}
	if got := store.playerStats[nonStriker].Matches; got != 0 {
		t.Fatalf("expected non-striker without career data to have 0 matches, got %d", got)
	}

	if got := store.teamStats[home.ID]; got.Won != 1 || got.Form != "W" {
		t.Fatalf("unexpected home team stats: %+v", got)
	}
	if got := store.teamStats[away.ID]; got.Lost != 1 || got.Form != "L" {
		t.Fatalf("unexpected away team stats: %+v", got)
	}

	if store.standingsOwner != tournamentID {
		t.Fatalf("standings written for %s", store.standingsOwner)
	}
	if len(store.standings) != 2 || store.standings[0].TeamID != home.ID || store.standings[0].Points != 2 {
		t.Fatalf("unexpected standings: %+v", store.standings)
	}
}

func TestMatchReopenedDropsTheResultFromTeamRecords(t *testing.T) {
	home, away := uuid.New(), uuid.New()
	match := matches.Match{
		ID:          uuid.New(),
		HomeTeamID:  home,
		AwayTeamID:  away,
		ScheduledAt: time.Date(2026, 5, 9, 13, 0, 0, 0, time.UTC),
		Status:      matches.StatusLive,
	}
	store := &projectionStoreMock{
		matches: []matches.Match{match},
		teamStats: map[uuid.UUID]stats.TeamStats{
			home: {TeamID: home, Played: 1, Won: 1, WinRate: 1, Form: "W"},
			away: {TeamID: away, Played: 1, Lost: 1, Form: "L"},
		},
	}

	bus := events.NewBus()
	NewService(store, nil).Register(bus)
	if err := bus.Publish(context.Background(), events.Event{Name: events.MatchReopened, MatchID: match.ID}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	for _, id := range []uuid.UUID{home, away} {
		if got := store.teamStats[id]; got.Played != 0 || got.Won != 0 || got.Lost != 0 || got.Form != "" {
			t.Fatalf("expected reopened match to leave no record for %s, got %+v", id, got)
		}
	}
}

func TestRecomputeTeamOnlyAsksForFinishedMatches(t *testing.T) {
	store := &projectionStoreMock{}
	teamID := uuid.New()
	if err := NewService(store, nil).RecomputeTeam(context.Background(), teamID); err != nil {
		t.Fatalf("recompute team: %v", err)
	}
	if len(store.lastFilter.Statuses) != 2 {
		t.Fatalf("expected finished statuses filter, got %+v", store.lastFilter.Statuses)
	}
	if got := store.teamStats[teamID]; got.Played != 0 || got.WinRate != 0 {
		t.Fatalf("expected empty record, got %+v", got)
	}
}

func TestParticipantsSkipsDeletedBalls(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	deletedAt := time.Now()
	got := participants([]matches.Ball{
		{BatterID: a, BowlerID: b},
		{BatterID: c, BowlerID: b, DeletedAt: &deletedAt},
		{BatterID: b, BowlerID: a},
	})
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("unexpected participants: %v", got)
	}
}
