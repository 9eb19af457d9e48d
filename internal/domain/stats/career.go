package stats

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
	"github.com/lutefd/cricket-api/internal/domain/scoring"
)

// InningsBalls carries the deliveries of one innings together with when it was played.
type InningsBalls struct {
	InningsID uuid.UUID
	MatchID   uuid.UUID
	PlayedAt  time.Time
	Balls     []matches.Ball
}

func chronological(items []InningsBalls) []InningsBalls {
	sorted := append([]InningsBalls(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].PlayedAt.Before(sorted[j].PlayedAt) })
	return sorted
}

func CareerBatting(playerID uuid.UUID, items []InningsBalls) BattingRecord {
	var out BattingRecord
	outs := 0
	for _, inn := range chronological(items) {
		entry, ok := findBatting(scoring.BuildBattingCard(inn.Balls), playerID)
		if !ok {
			continue
		}
		out.Innings++
		out.Runs += entry.Runs
		out.Balls += entry.Balls
		out.Fours += entry.Fours
		out.Sixes += entry.Sixes
		if entry.Out {
			outs++
		} else {
			out.NotOuts++
		}
		if entry.Runs > out.Highest || (entry.Runs == out.Highest && !entry.Out) {
			out.Highest = entry.Runs
			out.HighestNotOut = !entry.Out
		}
		switch {
		case entry.Runs >= 100:
			out.Hundreds++
		case entry.Runs >= 50:
			out.Fifties++
		}
	}
	out.Average = scoring.Round(scoring.Average(out.Runs, outs))
	out.StrikeRate = scoring.Round(scoring.StrikeRate(out.Runs, out.Balls))
	return out
}

func CareerBowling(playerID uuid.UUID, items []InningsBalls) BowlingRecord {
	var out BowlingRecord
	for _, inn := range chronological(items) {
		entry, ok := findBowling(scoring.BuildBowlingCard(inn.Balls), playerID)
		if !ok {
			continue
		}
		out.Innings++
		out.LegalBalls += entry.LegalBalls
		out.Runs += entry.Runs
		out.Wickets += entry.Wickets
		out.Maidens += entry.Maidens
		if out.Innings == 1 || entry.Wickets > out.BestWickets ||
			(entry.Wickets == out.BestWickets && entry.Runs < out.BestRuns) {
			out.BestWickets = entry.Wickets
			out.BestRuns = entry.Runs
		}
	}
	out.Overs = scoring.FormatOvers(out.LegalBalls)
	out.Economy = scoring.Round(scoring.Economy(out.Runs, out.LegalBalls))
	out.Average = scoring.Round(scoring.Average(out.Runs, out.Wickets))
	if out.Wickets > 0 {
		out.StrikeRate = scoring.Round(float64(out.LegalBalls) / float64(out.Wickets))
	}
	return out
}

// FormSlope is the trend of runs per batting innings in playing order; positive means improving.
func FormSlope(playerID uuid.UUID, items []InningsBalls) float64 {
	x := make([]float64, 0, len(items))
	y := make([]float64, 0, len(items))
	for _, inn := range chronological(items) {
		entry, ok := findBatting(scoring.BuildBattingCard(inn.Balls), playerID)
		if !ok {
			continue
		}
		x = append(x, float64(len(x)))
		y = append(y, float64(entry.Runs))
	}
	return Round(linearRegressionSlope(x, y))
}

func BuildPlayerStats(playerID uuid.UUID, items []InningsBalls) PlayerStats {
	seen := map[uuid.UUID]struct{}{}
	for _, inn := range items {
		if involves(inn.Balls, playerID) {
			seen[inn.MatchID] = struct{}{}
		}
	}
	return PlayerStats{
		PlayerID:         playerID,
		Matches:          len(seen),
		Batting:          CareerBatting(playerID, items),
		Bowling:          CareerBowling(playerID, items),
		FormSlope:        FormSlope(playerID, items),
		LastCalculatedAt: time.Now().UTC(),
	}
}

func involves(balls []matches.Ball, playerID uuid.UUID) bool {
	for _, b := range balls {
		if b.IsDeleted() {
			continue
		}
		if b.BatterID == playerID || b.BowlerID == playerID {
			return true
		}
		if b.NonStrikerID != nil && *b.NonStrikerID == playerID {
			return true
		}
	}
	return false
}

func findBatting(card []scoring.BattingEntry, playerID uuid.UUID) (scoring.BattingEntry, bool) {
	for _, e := range card {
		if e.PlayerID == playerID {
			return e, true
		}
	}
	return scoring.BattingEntry{}, false
}

func findBowling(card []scoring.BowlingEntry, playerID uuid.UUID) (scoring.BowlingEntry, bool) {
	for _, e := range card {
		if e.PlayerID == playerID {
			return e, true
		}
	}
	return scoring.BowlingEntry{}, false
}
