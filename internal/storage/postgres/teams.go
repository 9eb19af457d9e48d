package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/sync"
	"github.com/lutefd/cricket-api/internal/domain/teams"
)

const teamColumns = `id, name, short_name, home_ground, organizer_id, created_at, updated_at, deleted_at`

const playerColumns = `id, team_id, user_id, name, role, batting_style, bowling_style, jersey_number, created_at, updated_at, deleted_at`

func scanTeam(row scanner) (teams.Team, error) {
	var v teams.Team
	err := row.Scan(&v.ID, &v.Name, &v.ShortName, &v.HomeGround, &v.OrganizerID, &v.CreatedAt, &v.UpdatedAt, &v.DeletedAt)
	return v, err
}

func scanPlayer(row scanner) (teams.Player, error) {
	var v teams.Player
	err := row.Scan(&v.ID, &v.TeamID, &v.UserID, &v.Name, &v.Role, &v.BattingStyle, &v.BowlingStyle, &v.JerseyNumber, &v.CreatedAt, &v.UpdatedAt, &v.DeletedAt)
	return v, err
}

func (s *Store) CreateTeam(ctx context.Context, v teams.Team) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO teams (`+teamColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, v.ID, v.Name, v.ShortName, v.HomeGround, v.OrganizerID, v.CreatedAt, v.UpdatedAt, v.DeletedAt)
	return err
}

func (s *Store) GetTeam(ctx context.Context, id uuid.UUID) (teams.Team, error) {
	v, err := scanTeam(s.pool.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
	if err != nil {
		return teams.Team{}, notFound(err)
	}
	return v, nil
}

func (s *Store) ListTeams(ctx context.Context, includeDeleted bool) ([]teams.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams`
	if !includeDeleted {
		query += ` WHERE deleted_at IS NULL`
	}
	query += ` ORDER BY lower(name) ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTeam)
}

func (s *Store) ListTeamsByIDs(ctx context.Context, ids []uuid.UUID) ([]teams.Team, error) {
	if len(ids) == 0 {
		return []teams.Team{}, nil
	}
	rows, err := s.pool.Query(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = ANY($1) ORDER BY lower(name) ASC`, ids)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTeam)
}

func (s *Store) SoftDeleteTeam(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE teams SET deleted_at = $2, updated_at = $2
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

func (s *Store) UpsertTeamByUpdatedAt(ctx context.Context, incoming teams.Team) (sync.MergeDecision, error) {
	stored, err := s.storedVersion(ctx, "teams", incoming.ID)
	if err != nil {
		return sync.DecisionIgnore, err
	}
	decision := sync.ResolveByUpdatedAt(sync.TeamVersion(incoming), stored)
	switch decision {
	case sync.DecisionIgnore:
		return decision, nil
	case sync.DecisionInsert:
		return decision, s.CreateTeam(ctx, incoming)
	}
	_, err = s.pool.Exec(ctx, `
		UPDATE teams SET
			name = $2, short_name = $3, home_ground = $4, organizer_id = $5,
			created_at = $6, updated_at = $7, deleted_at = $8
		WHERE id = $1
	`, incoming.ID, incoming.Name, incoming.ShortName, incoming.HomeGround, incoming.OrganizerID,
		incoming.CreatedAt, incoming.UpdatedAt, incoming.DeletedAt)
	return decision, err
}

func (s *Store) CreatePlayer(ctx context.Context, v teams.Player) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO players (`+playerColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, v.ID, v.TeamID, v.UserID, v.Name, v.Role, v.BattingStyle, v.BowlingStyle, v.JerseyNumber, v.CreatedAt, v.UpdatedAt, v.DeletedAt)
	return err
}

func (s *Store) GetPlayer(ctx context.Context, id uuid.UUID) (teams.Player, error) {
	v, err := scanPlayer(s.pool.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id))
	if err != nil {
		return teams.Player{}, notFound(err)
	}
	return v, nil
}

func (s *Store) GetPlayerByUser(ctx context.Context, userID uuid.UUID) (teams.Player, error) {
	v, err := scanPlayer(s.pool.QueryRow(ctx, `
		SELECT `+playerColumns+` FROM players WHERE user_id = $1 AND deleted_at IS NULL
	`, userID))
	if err != nil {
		return teams.Player{}, notFound(err)
	}
	return v, nil
}

func (s *Store) ListPlayersByTeam(ctx context.Context, teamID uuid.UUID) ([]teams.Player, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+playerColumns+` FROM players
		WHERE team_id = $1 AND deleted_at IS NULL
		ORDER BY lower(name) ASC
	`, teamID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPlayer)
}

func (s *Store) ListPlayersByIDs(ctx context.Context, ids []uuid.UUID) ([]teams.Player, error) {
	if len(ids) == 0 {
		return []teams.Player{}, nil
	}
	rows, err := s.pool.Query(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPlayer)
}

func (s *Store) UpsertPlayerByUpdatedAt(ctx context.Context, incoming teams.Player) (sync.MergeDecision, error) {
	stored, err := s.storedVersion(ctx, "players", incoming.ID)
	if err != nil {
		return sync.DecisionIgnore, err
	}
	decision := sync.ResolveByUpdatedAt(sync.PlayerVersion(incoming), stored)
	switch decision {
	case sync.DecisionIgnore:
		return decision, nil
	case sync.DecisionInsert:
		return decision, s.CreatePlayer(ctx, incoming)
	}
	_, err = s.pool.Exec(ctx, `
		UPDATE players SET
			team_id = $2, user_id = $3, name = $4, role = $5, batting_style = $6,
			bowling_style = $7, jersey_number = $8, created_at = $9, updated_at = $10, deleted_at = $11
		WHERE id = $1
	`, incoming.ID, incoming.TeamID, incoming.UserID, incoming.Name, incoming.Role, incoming.BattingStyle,
		incoming.BowlingStyle, incoming.JerseyNumber, incoming.CreatedAt, incoming.UpdatedAt, incoming.DeletedAt)
	return decision, err
}
