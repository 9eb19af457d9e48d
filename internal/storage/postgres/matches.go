package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
)

const tournamentColumns = `id, name, organizer_id, overs_limit, starts_on, ends_on, created_at, updated_at, deleted_at`

const matchColumns = `id, tournament_id, organizer_id, home_team_id, away_team_id, venue, scheduled_at,
	overs_limit, max_wickets, status, toss_winner_id, toss_decision, winner_team_id, result_summary,
	created_at, updated_at, deleted_at`

const inningsColumns = `id, match_id, number, batting_team_id, bowling_team_id, runs, wickets, legal_balls,
	extras, target, completed, created_at, updated_at`

func scanTournament(row scanner) (matches.Tournament, error) {
	var v matches.Tournament
	err := row.Scan(&v.ID, &v.Name, &v.OrganizerID, &v.OversLimit, &v.StartsOn, &v.EndsOn, &v.CreatedAt, &v.UpdatedAt, &v.DeletedAt)
	return v, err
}

func scanMatch(row scanner) (matches.Match, error) {
	var v matches.Match
	err := row.Scan(
		&v.ID, &v.TournamentID, &v.OrganizerID, &v.HomeTeamID, &v.AwayTeamID, &v.Venue, &v.ScheduledAt,
		&v.OversLimit, &v.MaxWickets, &v.Status, &v.TossWinnerID, &v.TossDecision, &v.WinnerTeamID, &v.ResultSummary,
		&v.CreatedAt, &v.UpdatedAt, &v.DeletedAt,
	)
	return v, err
}

func scanInnings(row scanner) (matches.Innings, error) {
	var v matches.Innings
	err := row.Scan(
		&v.ID, &v.MatchID, &v.Number, &v.BattingTeamID, &v.BowlingTeamID, &v.Runs, &v.Wickets, &v.LegalBalls,
		&v.Extras, &v.Target, &v.Completed, &v.CreatedAt, &v.UpdatedAt,
	)
	return v, err
}

func (s *Store) CreateTournament(ctx context.Context, v matches.Tournament) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tournaments (`+tournamentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, v.ID, v.Name, v.OrganizerID, v.OversLimit, v.StartsOn, v.EndsOn, v.CreatedAt, v.UpdatedAt, v.DeletedAt)
	return err
}

func (s *Store) GetTournament(ctx context.Context, id uuid.UUID) (matches.Tournament, error) {
	v, err := scanTournament(s.pool.QueryRow(ctx, `SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1 AND deleted_at IS NULL`, id))
	if err != nil {
		return matches.Tournament{}, notFound(err)
	}
	return v, nil
}

func (s *Store) ListTournaments(ctx context.Context, organizerID *uuid.UUID) ([]matches.Tournament, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+tournamentColumns+` FROM tournaments
		WHERE deleted_at IS NULL AND ($1::uuid IS NULL OR organizer_id = $1)
		ORDER BY starts_on DESC
	`, organizerID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTournament)
}

func (s *Store) CreateMatch(ctx context.Context, v matches.Match) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO matches (`+matchColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`, v.ID, v.TournamentID, v.OrganizerID, v.HomeTeamID, v.AwayTeamID, v.Venue, v.ScheduledAt,
		v.OversLimit, v.MaxWickets, v.Status, v.TossWinnerID, v.TossDecision, v.WinnerTeamID, v.ResultSummary,
		v.CreatedAt, v.UpdatedAt, v.DeletedAt)
	return err
}

func (s *Store) GetMatch(ctx context.Context, id uuid.UUID) (matches.Match, error) {
	v, err := scanMatch(s.pool.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1 AND deleted_at IS NULL`, id))
	if err != nil {
		return matches.Match{}, notFound(err)
	}
	return v, nil
}

func (s *Store) ListMatches(ctx context.Context, f matches.Filter) ([]matches.Match, error) {
	where := []string{"deleted_at IS NULL"}
	args := make([]any, 0, 6)
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if len(f.Statuses) > 0 {
		names := make([]string, 0, len(f.Statuses))
		for _, st := range f.Statuses {
			names = append(names, string(st))
		}
		add("status = ANY($%d)", names)
	}
	if f.TeamID != nil {
		args = append(args, *f.TeamID)
		n := len(args)
		where = append(where, fmt.Sprintf("(home_team_id = $%d OR away_team_id = $%d)", n, n))
	}
	if f.TournamentID != nil {
		add("tournament_id = $%d", *f.TournamentID)
	}
	if f.OrganizerID != nil {
		add("organizer_id = $%d", *f.OrganizerID)
	}
	if len(f.TeamIDs) > 0 {
		args = append(args, f.TeamIDs)
		n := len(args)
		where = append(where, fmt.Sprintf("(home_team_id = ANY($%d) OR away_team_id = ANY($%d))", n, n))
	}

	order := "scheduled_at DESC"
	if f.Status == matches.StatusScheduled {
		order = "scheduled_at ASC"
	}
	query := `SELECT ` + matchColumns + ` FROM matches WHERE ` + strings.Join(where, " AND ") + ` ORDER BY ` + order
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanMatch)
}

func (s *Store) UpdateMatch(ctx context.Context, v matches.Match) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE matches SET
			status = $2, toss_winner_id = $3, toss_decision = $4, winner_team_id = $5,
			result_summary = $6, updated_at = $7
		WHERE id = $1
	`, v.ID, v.Status, v.TossWinnerID, v.TossDecision, v.WinnerTeamID, v.ResultSummary, v.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateInnings(ctx context.Context, v matches.Innings) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO innings (`+inningsColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, v.ID, v.MatchID, v.Number, v.BattingTeamID, v.BowlingTeamID, v.Runs, v.Wickets, v.LegalBalls,
		v.Extras, v.Target, v.Completed, v.CreatedAt, v.UpdatedAt)
	return err
}

func (s *Store) ListInningsByMatch(ctx context.Context, matchID uuid.UUID) ([]matches.Innings, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+inningsColumns+` FROM innings WHERE match_id = $1 ORDER BY number ASC`, matchID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanInnings)
}

func (s *Store) ListInningsByMatchIDs(ctx context.Context, matchIDs []uuid.UUID) (map[uuid.UUID][]matches.Innings, error) {
	out := make(map[uuid.UUID][]matches.Innings, len(matchIDs))
	if len(matchIDs) == 0 {
		return out, nil
	}
	rows, err := s.pool.Query(ctx, `SELECT `+inningsColumns+` FROM innings WHERE match_id = ANY($1) ORDER BY match_id, number ASC`, matchIDs)
	if err != nil {
		return nil, err
	}
	items, err := collect(rows, scanInnings)
	if err != nil {
		return nil, err
	}
	for _, inn := range items {
		out[inn.MatchID] = append(out[inn.MatchID], inn)
	}
	return out, nil
}

func (s *Store) UpdateInningsTotals(ctx context.Context, v matches.Innings) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE innings SET
			runs = $2, wickets = $3, legal_balls = $4, extras = $5, target = $6, completed = $7, updated_at = $8
		WHERE id = $1
	`, v.ID, v.Runs, v.Wickets, v.LegalBalls, v.Extras, v.Target, v.Completed, v.UpdatedAt)
	return err
}

// DeleteInnings removes an innings row along with any soft-deleted balls still pointing at it.
func (s *Store) DeleteInnings(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM balls WHERE innings_id = $1 AND deleted_at IS NOT NULL`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM innings WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
