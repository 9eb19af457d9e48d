// Package live fans score changes out to connected spectators.
package live

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/events"
)

type Update struct {
	MatchID uuid.UUID `json:"matchId"`
	Event   string    `json:"event"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

type subscriber struct {
	ch chan Update
}

// Hub keeps one buffered channel per subscriber. Publish never blocks; a
// subscriber whose buffer is full misses the update.
type Hub struct {
	mu      sync.RWMutex
	buffer  int
	subs    map[uuid.UUID]map[*subscriber]struct{}
	done    chan struct{}
	closed  bool
	dropped atomic.Uint64
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		buffer: buffer,
		subs:   make(map[uuid.UUID]map[*subscriber]struct{}),
		done:   make(chan struct{}),
	}
}

// Subscribe returns a channel of updates for one match. The channel is closed
// when ctx ends or the hub is closed.
func (h *Hub) Subscribe(ctx context.Context, matchID uuid.UUID) <-chan Update {
	sub := &subscriber{ch: make(chan Update, h.buffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.ch)
		return sub.ch
	}
	if h.subs[matchID] == nil {
		h.subs[matchID] = make(map[*subscriber]struct{})
	}
	h.subs[matchID][sub] = struct{}{}
	h.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			h.remove(matchID, sub)
		case <-h.done:
		}
	}()
	return sub.ch
}

func (h *Hub) remove(matchID uuid.UUID, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[matchID]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	close(sub.ch)
	if len(set) == 0 {
		delete(h.subs, matchID)
	}
}

func (h *Hub) Publish(u Update) {
	if u.At.IsZero() {
		u.At = time.Now().UTC()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[u.MatchID] {
		select {
		case sub.ch <- u:
		default:
			h.dropped.Add(1)
		}
	}
}

func (h *Hub) Subscribers(matchID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[matchID])
}

// Dropped counts updates discarded for slow subscribers.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
	for matchID, set := range h.subs {
		for sub := range set {
			close(sub.ch)
		}
		delete(h.subs, matchID)
	}
}

// Register forwards match events from the bus to subscribers.
func (h *Hub) Register(bus *events.Bus) {
	forward := func(_ context.Context, e events.Event) error {
		h.Publish(Update{MatchID: e.MatchID, Event: e.Name, Payload: e.Payload, At: e.At})
		return nil
	}
	for _, name := range []string{events.MatchStarted, events.ScoreUpdated, events.MatchCompleted, events.MatchAbandoned, events.MatchReopened} {
		bus.Subscribe(name, forward)
	}
}
