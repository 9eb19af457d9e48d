// Package events carries match lifecycle notifications between the scorer and
// its read-side consumers (live fan-out, persisted aggregates).
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	MatchStarted   = "MatchStarted"
	ScoreUpdated   = "ScoreUpdated"
	MatchCompleted = "MatchCompleted"
	MatchAbandoned = "MatchAbandoned"
	// MatchReopened follows a correction that takes away a completed match's result.
	MatchReopened = "MatchReopened"
)

type Event struct {
	Name    string
	MatchID uuid.UUID
	Payload any
	At      time.Time
}

type Handler func(context.Context, Event) error

// Bus dispatches events synchronously, in subscription order. Every handler
// sees every event even when an earlier one fails.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	now      func() time.Time
}

func NewBus() *Bus {
	return &Bus{
		handlers: map[string][]Handler{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (b *Bus) Subscribe(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], handler)
}

// Publish stamps the event time when unset and returns the joined handler errors.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = b.now()
	}
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[e.Name]...)
	b.mu.RUnlock()

	var errs []error
	for i, handler := range handlers {
		if err := handler(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("%s handler %d: %w", e.Name, i, err))
		}
	}
	return errors.Join(errs...)
}
