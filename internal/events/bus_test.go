package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBusDeliversScoreUpdateToSubscribersOfThatName(t *testing.T) {
	bus := NewBus()
	matchID := uuid.New()
	var seen []string

	bus.Subscribe(ScoreUpdated, func(_ context.Context, e Event) error {
		seen = append(seen, "live:"+e.MatchID.String())
		return nil
	})
	bus.Subscribe(ScoreUpdated, func(_ context.Context, e Event) error {
		seen = append(seen, "dashboard:"+e.MatchID.String())
		return nil
	})
	bus.Subscribe(MatchCompleted, func(_ context.Context, _ Event) error {
		seen = append(seen, "projections")
		return nil
	})

	err := bus.Publish(context.Background(), Event{Name: ScoreUpdated, MatchID: matchID, Payload: 42})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	want := []string{"live:" + matchID.String(), "dashboard:" + matchID.String()}
	if len(seen) != len(want) || seen[0] != want[0] || seen[1] != want[1] {
		t.Fatalf("got deliveries %v, want %v", seen, want)
	}
}

func TestBusPublishRunsEveryHandlerAndJoinsErrors(t *testing.T) {
	bus := NewBus()
	var calledThird bool
	first := errors.New("live fan-out failed")
	second := errors.New("standings failed")

	bus.Subscribe(MatchCompleted, func(_ context.Context, _ Event) error { return first })
	bus.Subscribe(MatchCompleted, func(_ context.Context, _ Event) error { return second })
	bus.Subscribe(MatchCompleted, func(_ context.Context, _ Event) error {
		calledThird = true
		return nil
	})

	err := bus.Publish(context.Background(), Event{Name: MatchCompleted})
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Fatalf("expected both handler errors, got %v", err)
	}
	if !calledThird {
		t.Fatalf("expected third handler to run after failures")
	}
}

func TestBusPublishStampsTime(t *testing.T) {
	bus := NewBus()
	fixed := time.Date(2026, 6, 1, 15, 30, 0, 0, time.UTC)
	bus.now = func() time.Time { return fixed }

	var got []time.Time
	bus.Subscribe(MatchStarted, func(_ context.Context, e Event) error {
		got = append(got, e.At)
		return nil
	})

	explicit := fixed.Add(-time.Hour)
	_ = bus.Publish(context.Background(), Event{Name: MatchStarted})
	_ = bus.Publish(context.Background(), Event{Name: MatchStarted, At: explicit})

	if len(got) != 2 || !got[0].Equal(fixed) || !got[1].Equal(explicit) {
		t.Fatalf("unexpected event times %v", got)
	}
}

func TestBusPublishWithoutSubscribers(t *testing.T) {
	if err := NewBus().Publish(context.Background(), Event{Name: MatchStarted}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
