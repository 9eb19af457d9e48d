package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/stats"
)

func (s *Store) UpsertPlayerStats(ctx context.Context, v stats.PlayerStats) error {
	batting, err := json.Marshal(v.Batting)
	if err != nil {
		return err
	}
	bowling, err := json.Marshal(v.Bowling)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO player_stats (player_id, matches, batting, bowling, form_slope, last_calculated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (player_id) DO UPDATE SET
			matches = EXCLUDED.matches,
			batting = EXCLUDED.batting,
			bowling = EXCLUDED.bowling,
			form_slope = EXCLUDED.form_slope,
			last_calculated_at = EXCLUDED.last_calculated_at
	`, v.PlayerID, v.Matches, batting, bowling, v.FormSlope, v.LastCalculatedAt)
	return err
}

func (s *Store) GetPlayerStats(ctx context.Context, playerID uuid.UUID) (stats.PlayerStats, error) {
	var v stats.PlayerStats
	var batting, bowling []byte
	err := s.pool.QueryRow(ctx, `
		SELECT player_id, matches, batting, bowling, form_slope, last_calculated_at
		FROM player_stats WHERE player_id = $1
	`, playerID).Scan(&v.PlayerID, &v.Matches, &batting, &bowling, &v.FormSlope, &v.LastCalculatedAt)
	if err != nil {
		return stats.PlayerStats{}, notFound(err)
	}
	if err := json.Unmarshal(batting, &v.Batting); err != nil {
		return stats.PlayerStats{}, err
	}
	if err := json.Unmarshal(bowling, &v.Bowling); err != nil {
		return stats.PlayerStats{}, err
	}
	return v, nil
}

func (s *Store) UpsertTeamStats(ctx context.Context, v stats.TeamStats) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO team_stats (team_id, played, won, lost, tied, no_result, win_rate, form, last_calculated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (team_id) DO UPDATE SET
			played = EXCLUDED.played,
			won = EXCLUDED.won,
			lost = EXCLUDED.lost,
			tied = EXCLUDED.tied,
			no_result = EXCLUDED.no_result,
			win_rate = EXCLUDED.win_rate,
			form = EXCLUDED.form,
			last_calculated_at = EXCLUDED.last_calculated_at
	`, v.TeamID, v.Played, v.Won, v.Lost, v.Tied, v.NoResult, v.WinRate, v.Form, v.LastCalculatedAt)
	return err
}

func (s *Store) GetTeamStats(ctx context.Context, teamID uuid.UUID) (stats.TeamStats, error) {
	var v stats.TeamStats
	err := s.pool.QueryRow(ctx, `
		SELECT team_id, played, won, lost, tied, no_result, win_rate, form, last_calculated_at
		FROM team_stats WHERE team_id = $1
	`, teamID).Scan(&v.TeamID, &v.Played, &v.Won, &v.Lost, &v.Tied, &v.NoResult, &v.WinRate, &v.Form, &v.LastCalculatedAt)
	if err != nil {
		return stats.TeamStats{}, notFound(err)
	}
	return v, nil
}

// ReplaceTournamentStandings swaps the whole table in one transaction so readers never see a partial table.
func (s *Store) ReplaceTournamentStandings(ctx context.Context, tournamentID uuid.UUID, rows []stats.StandingRow) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM tournament_standings WHERE tournament_id = $1`, tournamentID); err != nil {
		return err
	}
	for _, r := range rows {
		_, err := tx.Exec(ctx, `
			INSERT INTO tournament_standings (
				tournament_id, team_id, position, played, won, lost, tied, no_result, points,
				runs_for, balls_faced, runs_against, balls_bowled, net_run_rate
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		`, tournamentID, r.TeamID, r.Position, r.Played, r.Won, r.Lost, r.Tied, r.NoResult, r.Points,
			r.RunsFor, r.BallsFaced, r.RunsAgainst, r.BallsBowled, r.NetRunRate)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) ListTournamentStandings(ctx context.Context, tournamentID uuid.UUID) ([]stats.StandingRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ts.position, ts.team_id, t.name, ts.played, ts.won, ts.lost, ts.tied, ts.no_result, ts.points,
			ts.runs_for, ts.balls_faced, ts.runs_against, ts.balls_bowled, ts.net_run_rate
		FROM tournament_standings ts
		JOIN teams t ON t.id = ts.team_id
		WHERE ts.tournament_id = $1
		ORDER BY ts.position ASC
	`, tournamentID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(row scanner) (stats.StandingRow, error) {
		var r stats.StandingRow
		err := row.Scan(&r.Position, &r.TeamID, &r.TeamName, &r.Played, &r.Won, &r.Lost, &r.Tied, &r.NoResult, &r.Points,
			&r.RunsFor, &r.BallsFaced, &r.RunsAgainst, &r.BallsBowled, &r.NetRunRate)
		return r, err
	})
}
