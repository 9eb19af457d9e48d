package postgres

import (
	"context"
	"time"

	"github.com/lutefd/cricket-api/internal/domain/sync"
)

// PullChanges returns every team, player and ball touched after since, tombstones included.
func (s *Store) PullChanges(ctx context.Context, since time.Time) (sync.PullResponse, error) {
	var out sync.PullResponse

	rows, err := s.pool.Query(ctx, `SELECT `+teamColumns+` FROM teams WHERE updated_at > $1 ORDER BY updated_at ASC`, since)
	if err != nil {
		return out, err
	}
	if out.Teams, err = collect(rows, scanTeam); err != nil {
		return out, err
	}

	rows, err = s.pool.Query(ctx, `SELECT `+playerColumns+` FROM players WHERE updated_at > $1 ORDER BY updated_at ASC`, since)
	if err != nil {
		return out, err
	}
	if out.Players, err = collect(rows, scanPlayer); err != nil {
		return out, err
	}

	rows, err = s.pool.Query(ctx, `SELECT `+ballColumns+` FROM balls WHERE updated_at > $1 ORDER BY updated_at ASC`, since)
	if err != nil {
		return out, err
	}
	if out.Balls, err = collect(rows, scanBall); err != nil {
		return out, err
	}
	return out, nil
}
