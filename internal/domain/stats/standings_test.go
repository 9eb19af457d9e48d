package stats

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
	"github.com/lutefd/cricket-api/internal/domain/teams"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completed(home, away uuid.UUID, winner *uuid.UUID, innings ...matches.Innings) MatchRecord {
	m := matches.Match{
		ID:           uuid.New(),
		HomeTeamID:   home,
		AwayTeamID:   away,
		OversLimit:   20,
		MaxWickets:   10,
		Status:       matches.StatusCompleted,
		WinnerTeamID: winner,
	}
	return MatchRecord{Match: m, Innings: innings}
}

func innings(batting, bowling uuid.UUID, runs, wickets, balls int) matches.Innings {
	return matches.Innings{BattingTeamID: batting, BowlingTeamID: bowling, Runs: runs, Wickets: wickets, LegalBalls: balls, Completed: true}
}

func TestBuildStandings(t *testing.T) {
	a := teams.Team{ID: uuid.New(), Name: "Avengers"}
	b := teams.Team{ID: uuid.New(), Name: "Blasters"}
	c := teams.Team{ID: uuid.New(), Name: "Chargers"}
	d := teams.Team{ID: uuid.New(), Name: "Dragons"}

	records := []MatchRecord{
		// A 160/5 (20) beats B 140/10 (18.0): B charged full 20 overs.
		completed(a.ID, b.ID, &a.ID,
			innings(a.ID, b.ID, 160, 5, 120),
			innings(b.ID, a.ID, 140, 10, 108),
		),
		// C 120/8 (20) loses to A 121/2 (15.0).
		completed(c.ID, a.ID, &a.ID,
			innings(c.ID, a.ID, 120, 8, 120),
			innings(a.ID, c.ID, 121, 2, 90),
		),
		// B and C tie on 150.
		completed(b.ID, c.ID, nil,
			innings(b.ID, c.ID, 150, 6, 120),
			innings(c.ID, b.ID, 150, 9, 120),
		),
		{Match: matches.Match{ID: uuid.New(), HomeTeamID: a.ID, AwayTeamID: c.ID, Status: matches.StatusAbandoned}},
		{Match: matches.Match{ID: uuid.New(), HomeTeamID: b.ID, AwayTeamID: c.ID, Status: matches.StatusLive}},
	}

	table := BuildStandings([]teams.Team{a, b, c, d}, records)
	require.Len(t, table, 4)

	top := table[0]
	assert.Equal(t, a.ID, top.TeamID)
	assert.Equal(t, 1, top.Position)
	assert.Equal(t, 3, top.Played)
	assert.Equal(t, 2, top.Won)
	assert.Equal(t, 1, top.NoResult)
	assert.Equal(t, 5, top.Points)
	assert.Equal(t, 281, top.RunsFor)
	assert.Equal(t, 210, top.BallsFaced)
	assert.Equal(t, 260, top.RunsAgainst)
	assert.Equal(t, 240, top.BallsBowled)
	// 281/35 - 260/40 = 8.0286 - 6.5
	assert.Equal(t, 1.53, top.NetRunRate)

	// C has 2 points (tie + no result), B has 1 point (tie).
	assert.Equal(t, c.ID, table[1].TeamID)
	assert.Equal(t, 2, table[1].Points)
	assert.Equal(t, b.ID, table[2].TeamID)
	assert.Equal(t, 1, table[2].Points)
	assert.Equal(t, 20*6+20*6, table[2].BallsFaced)

	last := table[3]
	assert.Equal(t, "Dragons", last.TeamName)
	assert.Zero(t, last.Played)
	assert.Zero(t, last.NetRunRate)
}

func TestBuildStandingsBreaksTiesByNetRunRateThenName(t *testing.T) {
	a := teams.Team{ID: uuid.New(), Name: "Zebras"}
	b := teams.Team{ID: uuid.New(), Name: "Yaks"}
	c := teams.Team{ID: uuid.New(), Name: "Ants"}
	d := teams.Team{ID: uuid.New(), Name: "Bees"}

	records := []MatchRecord{
		completed(a.ID, c.ID, &a.ID, innings(a.ID, c.ID, 200, 2, 120), innings(c.ID, a.ID, 100, 10, 60)),
		completed(b.ID, d.ID, &b.ID, innings(b.ID, d.ID, 150, 2, 120), innings(d.ID, b.ID, 149, 3, 120)),
	}
	table := BuildStandings([]teams.Team{a, b, c, d}, records)

	order := make([]string, 0, len(table))
	for _, row := range table {
		order = append(order, row.TeamName)
	}
	assert.Equal(t, []string{"Zebras", "Yaks", "Bees", "Ants"}, order)
}
