package scorer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
	"github.com/lutefd/cricket-api/internal/domain/scoring"
	domainsync "github.com/lutefd/cricket-api/internal/domain/sync"
)

// CheckBalls vets deliveries that arrive outside RecordBall, such as an
// offline scorer's sync batch, before any of them is written. Every ball must
// sit in an innings of its own match, that match must accept corrections, and
// once merged with the stored rows no delivery may follow the end of its
// innings.
func (s *Service) CheckBalls(ctx context.Context, balls []matches.Ball) error {
	byMatch := make(map[uuid.UUID][]matches.Ball)
	order := make([]uuid.UUID, 0)
	for _, b := range balls {
		if _, ok := byMatch[b.MatchID]; !ok {
			order = append(order, b.MatchID)
		}
		byMatch[b.MatchID] = append(byMatch[b.MatchID], b)
	}
	for _, matchID := range order {
		if err := s.checkMatchBalls(ctx, matchID, byMatch[matchID]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) checkMatchBalls(ctx context.Context, matchID uuid.UUID, incoming []matches.Ball) error {
	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if !m.AcceptsCorrections() {
		return fmt.Errorf("%w: match %s is %s", ErrMatchNotLive, matchID, m.Status)
	}
	inningsList, err := s.store.ListInningsByMatch(ctx, matchID)
	if err != nil {
		return err
	}

	index := make(map[uuid.UUID]int, len(inningsList))
	merged := make([]map[uuid.UUID]matches.Ball, len(inningsList))
	owner := make(map[uuid.UUID]int)
	for i, inn := range inningsList {
		index[inn.ID] = i
		stored, err := s.store.ListBallsByInnings(ctx, inn.ID)
		if err != nil {
			return err
		}
		merged[i] = make(map[uuid.UUID]matches.Ball, len(stored)+len(incoming))
		for _, b := range stored {
			merged[i][b.ID] = b
			owner[b.ID] = i
		}
	}

	for _, b := range incoming {
		i, ok := index[b.InningsID]
		if !ok {
			return fmt.Errorf("%w: innings %s is not part of match %s", ErrForeignInnings, b.InningsID, matchID)
		}
		if j, seen := owner[b.ID]; seen && j != i {
			return fmt.Errorf("%w: ball %s", matches.ErrBallMoved, b.ID)
		}
		var stored domainsync.Version
		if current, seen := merged[i][b.ID]; seen {
			stored = domainsync.BallVersion(current)
		}
		if domainsync.ResolveByUpdatedAt(domainsync.BallVersion(b), stored) == domainsync.DecisionIgnore {
			continue
		}
		merged[i][b.ID] = b
		owner[b.ID] = i
	}

	rules := scoring.RulesFor(m)
	var first scoring.InningsState
	for i, inn := range inningsList {
		rows := make([]matches.Ball, 0, len(merged[i]))
		taken := make(map[int]uuid.UUID, len(merged[i]))
		for _, b := range merged[i] {
			if other, dup := taken[b.Sequence]; dup {
				return fmt.Errorf("%w: balls %s and %s share sequence %d", matches.ErrSequenceTaken, other, b.ID, b.Sequence)
			}
			taken[b.Sequence] = b.ID
			rows = append(rows, b)
		}

		target := 0
		if inn.Number == 2 {
			if len(scoring.SortedLive(rows)) > 0 && !first.Complete() {
				return fmt.Errorf("%w: second innings has deliveries before the first is over", scoring.ErrInningsNotOpen)
			}
			target = scoring.TargetFor(first)
		}
		state, err := scoring.ReplayChecked(rules, target, rows)
		if err != nil {
			return fmt.Errorf("innings %d: %w", inn.Number, err)
		}
		if inn.Number == 1 {
			first = state
		}
	}
	return nil
}
