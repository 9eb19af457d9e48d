package scoring

import (
	"sort"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
)

type BattingEntry struct {
	PlayerID   uuid.UUID              `json:"playerId"`
	Runs       int                    `json:"runs"`
	Balls      int                    `json:"balls"`
	Fours      int                    `json:"fours"`
	Sixes      int                    `json:"sixes"`
	StrikeRate float64                `json:"strikeRate"`
	Out        bool                   `json:"out"`
	Dismissal  *matches.DismissalKind `json:"dismissal,omitempty"`
	BowlerID   *uuid.UUID             `json:"bowlerId,omitempty"`
	FielderID  *uuid.UUID             `json:"fielderId,omitempty"`
}

type BowlingEntry struct {
	PlayerID   uuid.UUID `json:"playerId"`
	LegalBalls int       `json:"legalBalls"`
	Overs      string    `json:"overs"`
	Maidens    int       `json:"maidens"`
	Runs       int       `json:"runs"`
	Wickets    int       `json:"wickets"`
	Economy    float64   `json:"economy"`
	Wides      int       `json:"wides"`
	NoBalls    int       `json:"noBalls"`
}

type FallOfWicket struct {
	Wicket   int       `json:"wicket"`
	Runs     int       `json:"runs"`
	Overs    string    `json:"overs"`
	PlayerID uuid.UUID `json:"playerId"`
}

// BuildBattingCard lists batters in order of appearance.
func BuildBattingCard(balls []matches.Ball) []BattingEntry {
	index := map[uuid.UUID]int{}
	out := make([]BattingEntry, 0)
	entry := func(id uuid.UUID) *BattingEntry {
		if i, ok := index[id]; ok {
			return &out[i]
		}
		index[id] = len(out)
		out = append(out, BattingEntry{PlayerID: id})
		return &out[len(out)-1]
	}

	for _, b := range SortedLive(balls) {
		batter := entry(b.BatterID)
		batter.Runs += b.RunsOffBat
		if b.FacedByBatter() {
			batter.Balls++
		}
		switch b.RunsOffBat {
		case 4:
			batter.Fours++
		case 6:
			batter.Sixes++
		}
		if b.NonStrikerID != nil {
			entry(*b.NonStrikerID)
		}
		kind, ok := b.Dismissal()
		if !ok || b.DismissedPlayerID == nil {
			continue
		}
		dismissed := entry(*b.DismissedPlayerID)
		dismissed.Out = kind.CountsAsOut()
		k := kind
		dismissed.Dismissal = &k
		if kind.CreditsBowler() {
			bowler := b.BowlerID
			dismissed.BowlerID = &bowler
		}
		dismissed.FielderID = b.FielderID
	}

	for i := range out {
		out[i].StrikeRate = Round(StrikeRate(out[i].Runs, out[i].Balls))
	}
	return out
}

// BuildBowlingCard lists bowlers in order of first delivery.
func BuildBowlingCard(balls []matches.Ball) []BowlingEntry {
	type overKey struct {
		over   int
		bowler uuid.UUID
	}
	type overTally struct {
		legal int
		runs  int
	}
	index := map[uuid.UUID]int{}
	out := make([]BowlingEntry, 0)
	overs := map[overKey]*overTally{}

	for _, b := range SortedLive(balls) {
		i, ok := index[b.BowlerID]
		if !ok {
			i = len(out)
			index[b.BowlerID] = i
			out = append(out, BowlingEntry{PlayerID: b.BowlerID})
		}
		e := &out[i]
		e.Runs += b.BowlerRuns()
		if b.IsLegal() {
			e.LegalBalls++
		}
		switch b.ExtraType {
		case matches.ExtraWide:
			e.Wides += b.Extras
		case matches.ExtraNoBall:
			e.NoBalls += b.Extras
		}
		if b.WicketForBowler() {
			e.Wickets++
		}

		key := overKey{over: b.Over, bowler: b.BowlerID}
		tally, ok := overs[key]
		if !ok {
			tally = &overTally{}
			overs[key] = tally
		}
		tally.runs += b.BowlerRuns()
		if b.IsLegal() {
			tally.legal++
		}
	}

	for key, tally := range overs {
		if tally.legal == BallsPerOver && tally.runs == 0 {
			out[index[key.bowler]].Maidens++
		}
	}
	for i := range out {
		out[i].Overs = FormatOvers(out[i].LegalBalls)
		out[i].Economy = Round(Economy(out[i].Runs, out[i].LegalBalls))
	}
	return out
}

func FallOfWickets(balls []matches.Ball) []FallOfWicket {
	out := make([]FallOfWicket, 0)
	var runs, legal int
	for _, b := range SortedLive(balls) {
		runs += b.TotalRuns()
		if b.IsLegal() {
			legal++
		}
		if !b.CostsWicket() || b.DismissedPlayerID == nil {
			continue
		}
		out = append(out, FallOfWicket{
			Wicket:   len(out) + 1,
			Runs:     runs,
			Overs:    FormatOvers(legal),
			PlayerID: *b.DismissedPlayerID,
		})
	}
	return out
}

// TopScorer returns the batting entry with the most runs, fewest balls on ties.
func TopScorer(card []BattingEntry) (BattingEntry, bool) {
	if len(card) == 0 {
		return BattingEntry{}, false
	}
	sorted := append([]BattingEntry(nil), card...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Runs == sorted[j].Runs {
			return sorted[i].Balls < sorted[j].Balls
		}
		return sorted[i].Runs > sorted[j].Runs
	})
	return sorted[0], true
}
