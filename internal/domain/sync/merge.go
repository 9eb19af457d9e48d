package sync

import (
	"time"

	"github.com/lutefd/cricket-api/internal/domain/matches"
	"github.com/lutefd/cricket-api/internal/domain/teams"
)

type MergeDecision string

const (
	DecisionInsert MergeDecision = "insert"
	DecisionUpdate MergeDecision = "update"
	DecisionIgnore MergeDecision = "ignore"
)

// Version is the last-write-wins clock of a synced row. The zero Version
// stands for a row the server has never stored.
type Version struct {
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (v Version) Exists() bool {
	return !v.UpdatedAt.IsZero()
}

func TeamVersion(t teams.Team) Version {
	return Version{UpdatedAt: t.UpdatedAt, DeletedAt: t.DeletedAt}
}

func PlayerVersion(p teams.Player) Version {
	return Version{UpdatedAt: p.UpdatedAt, DeletedAt: p.DeletedAt}
}

func BallVersion(b matches.Ball) Version {
	return Version{UpdatedAt: b.UpdatedAt, DeletedAt: b.DeletedAt}
}

// ResolveByUpdatedAt is last-write-wins on updated_at. A tombstone older than
// the stored deletion never replaces it.
func ResolveByUpdatedAt(incoming, stored Version) MergeDecision {
	switch {
	case !stored.Exists():
		return DecisionInsert
	case !incoming.UpdatedAt.After(stored.UpdatedAt):
		return DecisionIgnore
	case incoming.DeletedAt != nil && stored.DeletedAt != nil && incoming.DeletedAt.Before(*stored.DeletedAt):
		return DecisionIgnore
	default:
		return DecisionUpdate
	}
}

// Changed reports whether a decision touched storage.
func (d MergeDecision) Changed() bool {
	return d == DecisionInsert || d == DecisionUpdate
}
