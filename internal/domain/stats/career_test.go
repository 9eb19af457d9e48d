package stats

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
)

func delivery(seq int, batter, bowler uuid.UUID, runs int) matches.Ball {
	return matches.Ball{ID: uuid.New(), Sequence: seq, Over: (seq - 1) / 6, BatterID: batter, BowlerID: bowler, RunsOffBat: runs}
}

func dismissed(b matches.Ball, kind matches.DismissalKind) matches.Ball {
	b.IsWicket = true
	b.DismissalKind = &kind
	p := b.BatterID
	b.DismissedPlayerID = &p
	return b
}

func TestCareerBattingAndBowling(t *testing.T) {
	player := uuid.New()
	rival := uuid.New()
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	// Innings 1: player bats, scores 52 off 12 and is caught.
	inn1 := make([]matches.Ball, 0, 13)
	for i := 1; i <= 8; i++ {
		inn1 = append(inn1, delivery(i, player, rival, 6))
	}
	inn1 = append(inn1, delivery(9, player, rival, 4), delivery(10, player, rival, 0), delivery(11, player, rival, 0))
	inn1 = append(inn1, dismissed(delivery(12, player, rival, 0), matches.DismissalCaught))

	// Innings 2: player bats 10 not out off 5.
	inn2 := []matches.Ball{
		delivery(1, player, rival, 4),
		delivery(2, player, rival, 4),
		delivery(3, player, rival, 2),
		delivery(4, player, rival, 0),
		delivery(5, player, rival, 0),
	}

	// Innings 3: player bowls one maiden with a wicket, then an over for 12.
	inn3 := make([]matches.Ball, 0, 12)
	for i := 1; i <= 5; i++ {
		inn3 = append(inn3, delivery(i, rival, player, 0))
	}
	inn3 = append(inn3, dismissed(delivery(6, rival, player, 0), matches.DismissalBowled))
	for i := 7; i <= 12; i++ {
		inn3 = append(inn3, delivery(i, rival, player, 2))
	}

	items := []InningsBalls{
		{InningsID: uuid.New(), MatchID: uuid.New(), PlayedAt: base.AddDate(0, 0, 7), Balls: inn2},
		{InningsID: uuid.New(), MatchID: uuid.New(), PlayedAt: base, Balls: inn1},
		{InningsID: uuid.New(), MatchID: uuid.New(), PlayedAt: base.AddDate(0, 0, 14), Balls: inn3},
	}

	batting := CareerBatting(player, items)
	if batting.Innings != 2 || batting.Runs != 62 || batting.Balls != 17 {
		t.Fatalf("unexpected batting totals: %+v", batting)
	}
	if batting.NotOuts != 1 || batting.Highest != 52 || batting.HighestNotOut {
		t.Fatalf("unexpected highest/not outs: %+v", batting)
	}
	if batting.Fifties != 1 || batting.Hundreds != 0 {
		t.Fatalf("unexpected milestones: %+v", batting)
	}
	if batting.Average != 62 {
		t.Fatalf("expected average 62, got %.2f", batting.Average)
	}
	if batting.StrikeRate != 364.71 {
		t.Fatalf("expected strike rate 364.71, got %.2f", batting.StrikeRate)
	}
	if batting.Sixes != 8 || batting.Fours != 3 {
		t.Fatalf("unexpected boundaries: %+v", batting)
	}

	bowling := CareerBowling(player, items)
	if bowling.Innings != 1 || bowling.Overs != "2.0" || bowling.Runs != 12 {
		t.Fatalf("unexpected bowling totals: %+v", bowling)
	}
	if bowling.Wickets != 1 || bowling.Maidens != 1 {
		t.Fatalf("unexpected wickets/maidens: %+v", bowling)
	}
	if bowling.Economy != 6 || bowling.Average != 12 || bowling.StrikeRate != 12 {
		t.Fatalf("unexpected bowling rates: %+v", bowling)
	}
	if bowling.BestWickets != 1 || bowling.BestRuns != 12 {
		t.Fatalf("unexpected best figures: %d/%d", bowling.BestWickets, bowling.BestRuns)
	}

	stats := BuildPlayerStats(player, items)
	if stats.Matches != 3 {
		t.Fatalf("expected 3 matches, got %d", stats.Matches)
	}
	if stats.FormSlope >= 0 {
		t.Fatalf("expected falling form after 52 then 10, got %.4f", stats.FormSlope)
	}
}
