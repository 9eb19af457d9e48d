package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
)

func (s *Store) Follow(ctx context.Context, v matches.Follow) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO follows (user_id, target_type, target_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, target_type, target_id) DO NOTHING
	`, v.UserID, v.TargetType, v.TargetID, v.CreatedAt)
	return err
}

func (s *Store) Unfollow(ctx context.Context, userID uuid.UUID, target matches.FollowTarget, targetID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM follows WHERE user_id = $1 AND target_type = $2 AND target_id = $3
	`, userID, target, targetID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListFollows(ctx context.Context, userID uuid.UUID) ([]matches.Follow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, target_type, target_id, created_at
		FROM follows WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(row scanner) (matches.Follow, error) {
		var v matches.Follow
		err := row.Scan(&v.UserID, &v.TargetType, &v.TargetID, &v.CreatedAt)
		return v, err
	})
}
