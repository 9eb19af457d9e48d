package sync

import (
	"time"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
	"github.com/lutefd/cricket-api/internal/domain/teams"
)

// PushRequest carries rows recorded on an offline scoring device.
type PushRequest struct {
	Teams   []teams.Team   `json:"teams"`
	Players []teams.Player `json:"players"`
	Balls   []matches.Ball `json:"balls"`
}

// MatchIDs lists the matches touched by pushed balls in first-seen order.
func (r PushRequest) MatchIDs() []uuid.UUID {
	seen := map[uuid.UUID]bool{}
	ids := make([]uuid.UUID, 0)
	for _, b := range r.Balls {
		if !seen[b.MatchID] {
			seen[b.MatchID] = true
			ids = append(ids, b.MatchID)
		}
	}
	return ids
}

type EntityCounts struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Ignored  int `json:"ignored"`
}

func (c *EntityCounts) Apply(d MergeDecision) {
	switch d {
	case DecisionInsert:
		c.Inserted++
	case DecisionUpdate:
		c.Updated++
	default:
		c.Ignored++
	}
}

type PushResponse struct {
	Teams           EntityCounts `json:"teams"`
	Players         EntityCounts `json:"players"`
	Balls           EntityCounts `json:"balls"`
	RebuiltMatches  int          `json:"rebuiltMatches"`
	ServerTimestamp time.Time    `json:"serverTimestamp"`
}

type PullResponse struct {
	Teams   []teams.Team   `json:"teams"`
	Players []teams.Player `json:"players"`
	Balls   []matches.Ball `json:"balls"`
}
