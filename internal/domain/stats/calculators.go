package stats

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
)

const formLength = 5

// WinRate over decided matches: wins / (played - no result).
func WinRate(won, played, noResult int) float64 {
	decided := played - noResult
	if decided <= 0 {
		return 0
	}
	return float64(won) / float64(decided)
}

// TeamRecord summarises a team's finished matches. Form lists the most recent
// results first: W, L, T or N (no result).
func TeamRecord(teamID uuid.UUID, items []matches.Match) TeamStats {
	finished := make([]matches.Match, 0, len(items))
	for _, m := range items {
		if m.IsFinished() && m.Involves(teamID) && m.DeletedAt == nil {
			finished = append(finished, m)
		}
	}
	sort.Slice(finished, func(i, j int) bool { return finished[i].ScheduledAt.After(finished[j].ScheduledAt) })

	out := TeamStats{TeamID: teamID}
	form := make([]byte, 0, formLength)
	for _, m := range finished {
		out.Played++
		var mark byte
		switch {
		case m.Status == matches.StatusAbandoned:
			out.NoResult++
			mark = 'N'
		case m.WinnerTeamID == nil:
			out.Tied++
			mark = 'T'
		case *m.WinnerTeamID == teamID:
			out.Won++
			mark = 'W'
		default:
			out.Lost++
			mark = 'L'
		}
		if len(form) < formLength {
			form = append(form, mark)
		}
	}
	out.WinRate = Round(WinRate(out.Won, out.Played, out.NoResult))
	out.Form = string(form)
	out.LastCalculatedAt = time.Now().UTC()
	return out
}

func Round(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func linearRegressionSlope(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumX2 float64
	n := float64(len(x))
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
	}
	denominator := (n * sumX2) - (sumX * sumX)
	if denominator == 0 {
		return 0
	}
	return ((n * sumXY) - (sumX * sumY)) / denominator
}
