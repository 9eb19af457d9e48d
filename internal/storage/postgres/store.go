package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lutefd/cricket-api/internal/domain/sync"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Exec runs raw SQL, used by the migrate command.
func (s *Store) Exec(ctx context.Context, sql string) error {
	_, err := s.pool.Exec(ctx, sql)
	return err
}

func (s *Store) EnsureUser(ctx context.Context, id uuid.UUID, role string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, role, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET role = EXCLUDED.role
	`, id, role)
	return err
}

// LinkUser makes sure a user row exists for a player profile without touching an existing role.
func (s *Store) LinkUser(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, role, created_at)
		VALUES ($1, 'player', now())
		ON CONFLICT (id) DO NOTHING
	`, id)
	return err
}

type Counts struct {
	Teams       int `json:"teams"`
	Players     int `json:"players"`
	Tournaments int `json:"tournaments"`
	Matches     int `json:"matches"`
	LiveMatches int `json:"liveMatches"`
	Users       int `json:"users"`
}

func (s *Store) CountEntities(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM teams WHERE deleted_at IS NULL),
			(SELECT count(*) FROM players WHERE deleted_at IS NULL),
			(SELECT count(*) FROM tournaments WHERE deleted_at IS NULL),
			(SELECT count(*) FROM matches WHERE deleted_at IS NULL),
			(SELECT count(*) FROM matches WHERE deleted_at IS NULL AND status = 'live'),
			(SELECT count(*) FROM users)
	`).Scan(&c.Teams, &c.Players, &c.Tournaments, &c.Matches, &c.LiveMatches, &c.Users)
	return c, err
}

type scanner interface {
	Scan(dest ...any) error
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

const uniqueViolation = "23505"

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraint
}

func collect[T any](rows pgx.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()
	items := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

// storedVersion reads the sync clock of a row; a missing row yields the zero Version.
func (s *Store) storedVersion(ctx context.Context, table string, id uuid.UUID) (sync.Version, error) {
	var v sync.Version
	err := s.pool.QueryRow(ctx, `SELECT updated_at, deleted_at FROM `+table+` WHERE id = $1`, id).Scan(&v.UpdatedAt, &v.DeletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return sync.Version{}, nil
	}
	return v, err
}
