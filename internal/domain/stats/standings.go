package stats

import (
	"sort"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
	"github.com/lutefd/cricket-api/internal/domain/scoring"
	"github.com/lutefd/cricket-api/internal/domain/teams"
)

const (
	pointsWin      = 2
	pointsTie      = 1
	pointsNoResult = 1
)

type MatchRecord struct {
	Match   matches.Match
	Innings []matches.Innings
}

// BuildStandings builds a points table from finished matches. Teams without a
// finished match are still listed. Ordering is points, net run rate, wins, then name.
func BuildStandings(teamList []teams.Team, records []MatchRecord) []StandingRow {
	rows := make(map[uuid.UUID]*StandingRow, len(teamList))
	row := func(id uuid.UUID) *StandingRow {
		if r, ok := rows[id]; ok {
			return r
		}
		r := &StandingRow{TeamID: id, TeamName: id.String()}
		rows[id] = r
		return r
	}
	for _, t := range teamList {
		row(t.ID).TeamName = t.Name
	}

	for _, rec := range records {
		m := rec.Match.WithDefaults()
		if !m.IsFinished() || m.DeletedAt != nil {
			continue
		}
		home, away := row(m.HomeTeamID), row(m.AwayTeamID)
		home.Played++
		away.Played++

		if m.Status == matches.StatusAbandoned {
			home.NoResult++
			away.NoResult++
			home.Points += pointsNoResult
			away.Points += pointsNoResult
			continue
		}

		switch {
		case m.WinnerTeamID == nil:
			home.Tied++
			away.Tied++
			home.Points += pointsTie
			away.Points += pointsTie
		case *m.WinnerTeamID == m.HomeTeamID:
			home.Won++
			away.Lost++
			home.Points += pointsWin
		default:
			away.Won++
			home.Lost++
			away.Points += pointsWin
		}

		for _, inn := range rec.Innings {
			balls := inn.LegalBalls
			// An all-out side is charged its full quota of overs.
			if inn.Wickets >= m.MaxWickets {
				balls = m.OversLimit * scoring.BallsPerOver
			}
			batting, bowling := row(inn.BattingTeamID), row(inn.BowlingTeamID)
			batting.RunsFor += inn.Runs
			batting.BallsFaced += balls
			bowling.RunsAgainst += inn.Runs
			bowling.BallsBowled += balls
		}
	}

	out := make([]StandingRow, 0, len(rows))
	for _, r := range rows {
		r.NetRunRate = NetRunRate(r.RunsFor, r.BallsFaced, r.RunsAgainst, r.BallsBowled)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.NetRunRate != b.NetRunRate {
			return a.NetRunRate > b.NetRunRate
		}
		if a.Won != b.Won {
			return a.Won > b.Won
		}
		return a.TeamName < b.TeamName
	})
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

func NetRunRate(runsFor, ballsFaced, runsAgainst, ballsBowled int) float64 {
	return scoring.Round(scoring.RunRate(runsFor, ballsFaced) - scoring.RunRate(runsAgainst, ballsBowled))
}
