package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/lutefd/cricket-api/internal/domain/matches"
	"github.com/lutefd/cricket-api/internal/domain/scoring"
	"github.com/lutefd/cricket-api/internal/scorer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type execRecorder struct {
	statements []string
	failOn     int
}

func (e *execRecorder) Exec(_ context.Context, sql string) error {
	e.statements = append(e.statements, sql)
	if e.failOn > 0 && len(e.statements) == e.failOn {
		return errors.New("syntax error")
	}
	return nil
}

func writeMigrations(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"0002_standings.up.sql":   "CREATE TABLE b ();",
		"0001_init.up.sql":        "CREATE TABLE a ();",
		"0001_init.down.sql":      "DROP TABLE a;",
		"nested/0003_more.up.sql": "CREATE TABLE c ();",
		"README.md":               "notes",
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return dir
}

func TestListUpMigrationsSortsUpFilesOnly(t *testing.T) {
	dir := writeMigrations(t)

	files, err := listUpMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "0001_init.up.sql"),
		filepath.Join(dir, "0002_standings.up.sql"),
		filepath.Join(dir, "nested/0003_more.up.sql"),
	}, files)
}

func TestApplyMigrations(t *testing.T) {
	dir := writeMigrations(t)

	db := &execRecorder{}
	n, err := applyMigrations(context.Background(), db, dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"CREATE TABLE a ();", "CREATE TABLE b ();", "CREATE TABLE c ();"}, db.statements)

	failing := &execRecorder{failOn: 2}
	_, err = applyMigrations(context.Background(), failing, dir, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0002_standings.up.sql")
	assert.Len(t, failing.statements, 2)
}

func TestApplyMigrationsMissingDir(t *testing.T) {
	_, err := applyMigrations(context.Background(), &execRecorder{}, filepath.Join(t.TempDir(), "nope"), zap.NewNop())
	assert.Error(t, err)
}

func TestPrintScorecard(t *testing.T) {
	home, away := uuid.New(), uuid.New()
	batter, bowler := uuid.New(), uuid.New()
	caught := matches.DismissalCaught
	summary := "Harbour Gulls won by 7 runs"
	board := scorer.Scoreboard{
		HomeTeamID:    home,
		AwayTeamID:    away,
		Status:        matches.StatusCompleted,
		ResultSummary: &summary,
		Innings: []scorer.InningsScore{{
			Number:        1,
			BattingTeamID: home,
			Runs:          12,
			Wickets:       1,
			Overs:         "1.0",
			RunRate:       12,
			Extras:        scoring.ExtrasBreakdown{Wides: 1},
			Batting: []scoring.BattingEntry{
				{PlayerID: batter, Runs: 11, Balls: 6, Fours: 1, Sixes: 1, StrikeRate: 183.33, Out: true, Dismissal: &caught},
			},
			Bowling: []scoring.BowlingEntry{
				{PlayerID: bowler, Overs: "1.0", Runs: 12, Wickets: 1, Economy: 12},
			},
		}},
	}
	names := map[uuid.UUID]string{home: "Harbour Gulls", away: "Ridge Hawks", batter: "Ana Costa"}

	var buf bytes.Buffer
	require.NoError(t, printScorecard(&buf, board, names))
	out := buf.String()

	assert.Contains(t, out, "Harbour Gulls v Ridge Hawks [completed]")
	assert.Contains(t, out, summary)
	assert.Contains(t, out, "Innings 1: Harbour Gulls 12/1 (1.0 ov) RR 12.00")
	assert.Contains(t, out, "Ana Costa (caught)")
	assert.Contains(t, out, "183.33")
	assert.Contains(t, out, bowler.String()[:8], "unknown players fall back to a short id")
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"migrate", "seed", "scorecard"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	migrate, _, err := root.Find([]string{"migrate"})
	require.NoError(t, err)
	assert.NotNil(t, migrate.Flags().Lookup("dir"))
	assert.NotNil(t, root.PersistentFlags().Lookup("database-url"))
}
