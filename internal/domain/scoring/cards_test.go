package scoring

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
)

func TestBuildBattingCard(t *testing.T) {
	bb := newBuilder()
	opener := bb.batter
	partner := bb.other
	next := uuid.New()

	balls := []matches.Ball{
		bb.ball(4),
		bb.ball(0, wide(1)),
		bb.ball(6),
		bb.ball(1),
		bb.ball(0, out(matches.DismissalCaught, opener)),
	}
	bb.batter = next
	balls = append(balls, bb.ball(2))

	card := BuildBattingCard(balls)
	if len(card) != 3 {
		t.Fatalf("expected 3 batters, got %d", len(card))
	}

	caught := matches.DismissalCaught
	bowler := bb.bowler
	want := []BattingEntry{
		{PlayerID: opener, Runs: 11, Balls: 4, Fours: 1, Sixes: 1, StrikeRate: 275, Out: true, Dismissal: &caught, BowlerID: &bowler},
		{PlayerID: partner},
		{PlayerID: next, Runs: 2, Balls: 1, StrikeRate: 200},
	}
	if diff := cmp.Diff(want, card); diff != "" {
		t.Fatalf("unexpected batting card (-want +got):\n%s", diff)
	}
}

func TestBuildBattingCardRunOutNonStriker(t *testing.T) {
	bb := newBuilder()
	balls := []matches.Ball{bb.ball(1, out(matches.DismissalRunOut, bb.other))}

	card := BuildBattingCard(balls)
	if len(card) != 2 {
		t.Fatalf("expected 2 batters, got %d", len(card))
	}
	if card[0].Out {
		t.Fatalf("striker should not be out")
	}
	if !card[1].Out || card[1].BowlerID != nil {
		t.Fatalf("expected non-striker run out without bowler credit, got %+v", card[1])
	}
}

func TestBuildBowlingCardCountsMaidensAndEconomy(t *testing.T) {
	bb := newBuilder()
	balls := make([]matches.Ball, 0, 14)
	for i := 0; i < 5; i++ {
		balls = append(balls, bb.ball(0))
	}
	balls = append(balls, bb.ball(0, legBye(1)))
	balls = append(balls, bb.ball(0, out(matches.DismissalBowled, bb.batter)))
	balls = append(balls, bb.ball(0, wide(1)))
	balls = append(balls, bb.ball(4))
	balls = append(balls, bb.ball(2, noBall(1)))

	card := BuildBowlingCard(balls)
	if len(card) != 1 {
		t.Fatalf("expected one bowler, got %d", len(card))
	}
	got := card[0]
	if got.Maidens != 1 {
		t.Fatalf("expected 1 maiden (leg byes are not charged), got %d", got.Maidens)
	}
	if got.LegalBalls != 8 || got.Overs != "1.2" {
		t.Fatalf("expected 1.2 overs, got %s (%d balls)", got.Overs, got.LegalBalls)
	}
	if got.Runs != 8 {
		t.Fatalf("expected 8 runs conceded, got %d", got.Runs)
	}
	if got.Wickets != 1 {
		t.Fatalf("expected 1 wicket, got %d", got.Wickets)
	}
	if got.Economy != 6 {
		t.Fatalf("expected economy 6, got %.2f", got.Economy)
	}
	if got.Wides != 1 || got.NoBalls != 1 {
		t.Fatalf("unexpected extras: wides=%d noBalls=%d", got.Wides, got.NoBalls)
	}
}

func TestFallOfWickets(t *testing.T) {
	bb := newBuilder()
	first := bb.batter
	balls := []matches.Ball{
		bb.ball(4),
		bb.ball(0, out(matches.DismissalLBW, first)),
	}
	bb.batter = uuid.New()
	balls = append(balls, bb.ball(1), bb.ball(0, out(matches.DismissalRunOut, bb.batter)))

	fow := FallOfWickets(balls)
	if len(fow) != 2 {
		t.Fatalf("expected 2 wickets, got %d", len(fow))
	}
	if fow[0].Runs != 4 || fow[0].Overs != "0.2" || fow[0].PlayerID != first {
		t.Fatalf("unexpected first wicket: %+v", fow[0])
	}
	if fow[1].Wicket != 2 || fow[1].Runs != 5 || fow[1].Overs != "0.4" {
		t.Fatalf("unexpected second wicket: %+v", fow[1])
	}
}

func TestTopScorer(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	top, ok := TopScorer([]BattingEntry{{PlayerID: a, Runs: 30, Balls: 25}, {PlayerID: b, Runs: 30, Balls: 20}})
	if !ok || top.PlayerID != b {
		t.Fatalf("expected quicker batter on equal runs")
	}
	if _, ok := TopScorer(nil); ok {
		t.Fatalf("expected no top scorer for empty card")
	}
}
