package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
	"github.com/lutefd/cricket-api/internal/domain/stats"
	"github.com/lutefd/cricket-api/internal/domain/sync"
)

const ballSequenceKey = "balls_innings_seq_key"

const ballColumns = `id, innings_id, match_id, sequence, over_number, ball_in_over, batter_id, non_striker_id,
	bowler_id, runs_off_bat, extras, extra_type, is_wicket, dismissal_kind, dismissed_player_id, fielder_id,
	commentary, created_at, updated_at, deleted_at`

func scanBall(row scanner) (matches.Ball, error) {
	var v matches.Ball
	err := row.Scan(
		&v.ID, &v.InningsID, &v.MatchID, &v.Sequence, &v.Over, &v.BallInOver, &v.BatterID, &v.NonStrikerID,
		&v.BowlerID, &v.RunsOffBat, &v.Extras, &v.ExtraType, &v.IsWicket, &v.DismissalKind, &v.DismissedPlayerID, &v.FielderID,
		&v.Commentary, &v.CreatedAt, &v.UpdatedAt, &v.DeletedAt,
	)
	return v, err
}

// InsertBall fails with matches.ErrSequenceTaken when the innings already has
// a row, tombstoned or not, at that sequence.
func (s *Store) InsertBall(ctx context.Context, v matches.Ball) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO balls (`+ballColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`, v.ID, v.InningsID, v.MatchID, v.Sequence, v.Over, v.BallInOver, v.BatterID, v.NonStrikerID,
		v.BowlerID, v.RunsOffBat, v.Extras, v.ExtraType, v.IsWicket, v.DismissalKind, v.DismissedPlayerID, v.FielderID,
		v.Commentary, v.CreatedAt, v.UpdatedAt, v.DeletedAt)
	if isUniqueViolation(err, ballSequenceKey) {
		return fmt.Errorf("%w: innings %s sequence %d", matches.ErrSequenceTaken, v.InningsID, v.Sequence)
	}
	return err
}

// ListBallsByInnings returns every row, tombstones included, in sequence order.
func (s *Store) ListBallsByInnings(ctx context.Context, inningsID uuid.UUID) ([]matches.Ball, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+ballColumns+` FROM balls WHERE innings_id = $1 ORDER BY sequence ASC`, inningsID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanBall)
}

func (s *Store) ListBallsByMatch(ctx context.Context, matchID uuid.UUID) ([]matches.Ball, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+ballColumns+` FROM balls
		WHERE match_id = $1 AND deleted_at IS NULL
		ORDER BY innings_id, sequence ASC
	`, matchID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanBall)
}

func (s *Store) SoftDeleteBall(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE balls SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpsertBallByUpdatedAt(ctx context.Context, incoming matches.Ball) (sync.MergeDecision, error) {
	stored, err := s.storedVersion(ctx, "balls", incoming.ID)
	if err != nil {
		return sync.DecisionIgnore, err
	}
	decision := sync.ResolveByUpdatedAt(sync.BallVersion(incoming), stored)
	switch decision {
	case sync.DecisionIgnore:
		return decision, nil
	case sync.DecisionInsert:
		return decision, s.InsertBall(ctx, incoming)
	}
	// A delivery keeps the innings it was first recorded in.
	tag, err := s.pool.Exec(ctx, `
		UPDATE balls SET
			sequence = $4, over_number = $5, ball_in_over = $6,
			batter_id = $7, non_striker_id = $8, bowler_id = $9, runs_off_bat = $10, extras = $11,
			extra_type = $12, is_wicket = $13, dismissal_kind = $14, dismissed_player_id = $15,
			fielder_id = $16, commentary = $17, created_at = $18, updated_at = $19, deleted_at = $20
		WHERE id = $1 AND innings_id = $2 AND match_id = $3
	`, incoming.ID, incoming.InningsID, incoming.MatchID, incoming.Sequence, incoming.Over, incoming.BallInOver,
		incoming.BatterID, incoming.NonStrikerID, incoming.BowlerID, incoming.RunsOffBat, incoming.Extras,
		incoming.ExtraType, incoming.IsWicket, incoming.DismissalKind, incoming.DismissedPlayerID,
		incoming.FielderID, incoming.Commentary, incoming.CreatedAt, incoming.UpdatedAt, incoming.DeletedAt)
	if isUniqueViolation(err, ballSequenceKey) {
		return sync.DecisionIgnore, fmt.Errorf("%w: innings %s sequence %d", matches.ErrSequenceTaken, incoming.InningsID, incoming.Sequence)
	}
	if err != nil {
		return sync.DecisionIgnore, err
	}
	if tag.RowsAffected() == 0 {
		return sync.DecisionIgnore, fmt.Errorf("%w: ball %s", matches.ErrBallMoved, incoming.ID)
	}
	return decision, nil
}

// ListInningsBallsForPlayer loads every innings the player took part in, keyed by when the match was played.
func (s *Store) ListInningsBallsForPlayer(ctx context.Context, playerID uuid.UUID) ([]stats.InningsBalls, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT i.id, i.match_id, m.scheduled_at
		FROM innings i
		JOIN matches m ON m.id = i.match_id
		WHERE m.deleted_at IS NULL
		  AND m.status <> 'abandoned'
		  AND EXISTS (
			SELECT 1 FROM balls b
			WHERE b.innings_id = i.id AND b.deleted_at IS NULL
			  AND (b.batter_id = $1 OR b.bowler_id = $1 OR b.non_striker_id = $1 OR b.dismissed_player_id = $1)
		  )
		ORDER BY m.scheduled_at ASC, i.number ASC
	`, playerID)
	if err != nil {
		return nil, err
	}
	items, err := collect(rows, func(row scanner) (stats.InningsBalls, error) {
		var v stats.InningsBalls
		err := row.Scan(&v.InningsID, &v.MatchID, &v.PlayedAt)
		return v, err
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.InningsID)
	}
	rows, err = s.pool.Query(ctx, `
		SELECT `+ballColumns+` FROM balls
		WHERE innings_id = ANY($1) AND deleted_at IS NULL
		ORDER BY sequence ASC
	`, ids)
	if err != nil {
		return nil, err
	}
	balls, err := collect(rows, scanBall)
	if err != nil {
		return nil, err
	}
	byInnings := make(map[uuid.UUID][]matches.Ball, len(items))
	for _, b := range balls {
		byInnings[b.InningsID] = append(byInnings[b.InningsID], b)
	}
	for i := range items {
		items[i].Balls = byInnings[items[i].InningsID]
	}
	return items, nil
}
