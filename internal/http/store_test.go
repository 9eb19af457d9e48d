package httpserver

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
	"github.com/lutefd/cricket-api/internal/domain/stats"
	domainsync "github.com/lutefd/cricket-api/internal/domain/sync"
	"github.com/lutefd/cricket-api/internal/domain/teams"
	"github.com/lutefd/cricket-api/internal/storage/postgres"
)

// memStore backs both the handlers and the scorer in router tests. Methods the
// tests never reach fall through to the nil embedded interface.
type memStore struct {
	Store

	mu          sync.Mutex
	pingErr     error
	users       map[uuid.UUID]string
	teams       map[uuid.UUID]teams.Team
	players     map[uuid.UUID]teams.Player
	tournaments map[uuid.UUID]matches.Tournament
	matches     map[uuid.UUID]matches.Match
	innings     []matches.Innings
	balls       []matches.Ball
	follows     []matches.Follow
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[uuid.UUID]string{},
		teams:       map[uuid.UUID]teams.Team{},
		players:     map[uuid.UUID]teams.Player{},
		tournaments: map[uuid.UUID]matches.Tournament{},
		matches:     map[uuid.UUID]matches.Match{},
	}
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

func (m *memStore) EnsureUser(_ context.Context, id uuid.UUID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id] = role
	return nil
}

func (m *memStore) LinkUser(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		m.users[id] = "player"
	}
	return nil
}

func (m *memStore) CreateTeam(_ context.Context, v teams.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teams[v.ID] = v
	return nil
}

func (m *memStore) GetTeam(_ context.Context, id uuid.UUID) (teams.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.teams[id]
	if !ok {
		return teams.Team{}, postgres.ErrNotFound
	}
	return v, nil
}

func (m *memStore) GetTeamStats(context.Context, uuid.UUID) (stats.TeamStats, error) {
	return stats.TeamStats{}, postgres.ErrNotFound
}

func (m *memStore) UpsertTeamByUpdatedAt(_ context.Context, v teams.Team) (domainsync.MergeDecision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.teams[v.ID]
	if !ok {
		m.teams[v.ID] = v
		return domainsync.DecisionInsert, nil
	}
	decision := domainsync.ResolveByUpdatedAt(domainsync.TeamVersion(v), domainsync.TeamVersion(stored))
	if decision == domainsync.DecisionUpdate {
		m.teams[v.ID] = v
	}
	return decision, nil
}

func (m *memStore) CreatePlayer(_ context.Context, v teams.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[v.ID] = v
	return nil
}

func (m *memStore) GetPlayer(_ context.Context, id uuid.UUID) (teams.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.players[id]
	if !ok {
		return teams.Player{}, postgres.ErrNotFound
	}
	return v, nil
}

func (m *memStore) CreateMatch(_ context.Context, v matches.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches[v.ID] = v
	return nil
}

func (m *memStore) GetMatch(_ context.Context, id uuid.UUID) (matches.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.matches[id]
	if !ok {
		return matches.Match{}, postgres.ErrNotFound
	}
	return v, nil
}

func (m *memStore) UpdateMatch(_ context.Context, v matches.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches[v.ID] = v
	return nil
}

func (m *memStore) ListMatches(_ context.Context, f matches.Filter) ([]matches.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []matches.Match{}
	for _, v := range m.matches {
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		if f.TeamID != nil && !v.Involves(*f.TeamID) {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memStore) CreateInnings(_ context.Context, v matches.Innings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.innings = append(m.innings, v)
	return nil
}

func (m *memStore) ListInningsByMatch(_ context.Context, matchID uuid.UUID) ([]matches.Innings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []matches.Innings{}
	for _, v := range m.innings {
		if v.MatchID == matchID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (m *memStore) UpdateInningsTotals(_ context.Context, v matches.Innings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.innings {
		if m.innings[i].ID == v.ID {
			m.innings[i] = v
			return nil
		}
	}
	return postgres.ErrNotFound
}

func (m *memStore) DeleteInnings(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.innings {
		if m.innings[i].ID == id {
			m.innings = append(m.innings[:i], m.innings[i+1:]...)
			return nil
		}
	}
	return postgres.ErrNotFound
}

func (m *memStore) InsertBall(_ context.Context, v matches.Ball) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sequenceTaken(v) {
		return matches.ErrSequenceTaken
	}
	m.balls = append(m.balls, v)
	return nil
}

// sequenceTaken mirrors the unique (innings_id, sequence) index. Callers hold mu.
func (m *memStore) sequenceTaken(v matches.Ball) bool {
	for _, b := range m.balls {
		if b.ID != v.ID && b.InningsID == v.InningsID && b.Sequence == v.Sequence {
			return true
		}
	}
	return false
}

func (m *memStore) ListBallsByInnings(_ context.Context, inningsID uuid.UUID) ([]matches.Ball, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []matches.Ball{}
	for _, v := range m.balls {
		if v.InningsID == inningsID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memStore) SoftDeleteBall(_ context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.balls {
		if m.balls[i].ID == id {
			m.balls[i].DeletedAt = &at
			m.balls[i].UpdatedAt = at
			return nil
		}
	}
	return postgres.ErrNotFound
}

func (m *memStore) UpsertBallByUpdatedAt(_ context.Context, v matches.Ball) (domainsync.MergeDecision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.balls {
		if m.balls[i].ID == v.ID {
			decision := domainsync.ResolveByUpdatedAt(domainsync.BallVersion(v), domainsync.BallVersion(m.balls[i]))
			if decision != domainsync.DecisionUpdate {
				return decision, nil
			}
			if m.balls[i].InningsID != v.InningsID || m.balls[i].MatchID != v.MatchID {
				return domainsync.DecisionIgnore, matches.ErrBallMoved
			}
			if m.sequenceTaken(v) {
				return domainsync.DecisionIgnore, matches.ErrSequenceTaken
			}
			m.balls[i] = v
			return decision, nil
		}
	}
	if m.sequenceTaken(v) {
		return domainsync.DecisionIgnore, matches.ErrSequenceTaken
	}
	m.balls = append(m.balls, v)
	return domainsync.DecisionInsert, nil
}

func (m *memStore) Follow(_ context.Context, v matches.Follow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.follows = append(m.follows, v)
	return nil
}

func (m *memStore) ListFollows(_ context.Context, userID uuid.UUID) ([]matches.Follow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []matches.Follow{}
	for _, v := range m.follows {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}
