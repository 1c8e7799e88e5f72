package predictionlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourusername/gamblebot/internal/models"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS prediction_log (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id         TEXT    NOT NULL,
	timestamp      TEXT    NOT NULL,
	season         INTEGER NOT NULL,
	week           INTEGER NOT NULL,
	prop           TEXT    NOT NULL,
	player_id      TEXT    NOT NULL DEFAULT '',
	player         TEXT    NOT NULL,
	team           TEXT    NOT NULL DEFAULT '',
	position       TEXT    NOT NULL DEFAULT '',
	book           TEXT    NOT NULL DEFAULT '',
	market         TEXT    NOT NULL DEFAULT '',
	line           REAL,
	american       INTEGER NOT NULL,
	decimal        REAL    NOT NULL,
	implied_prob   REAL    NOT NULL,
	model_prob     REAL    NOT NULL,
	recent_usage   REAL    NOT NULL,
	edge           REAL    NOT NULL,
	kelly_full     REAL    NOT NULL,
	stake_fraction REAL    NOT NULL,
	stake_amount   TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS prediction_log_week_idx ON prediction_log (season, week, prop);`

// SQLiteStore keeps the log in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		path = "prediction_log.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create prediction log dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init prediction log schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, entries []models.PredictionLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin prediction log insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO prediction_log (
		run_id, timestamp, season, week, prop, player_id, player, team, position, book, market, line,
		american, decimal, implied_prob, model_prob, recent_usage, edge, kelly_full, stake_fraction, stake_amount
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare prediction log insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		var line sql.NullFloat64
		if e.Line != nil {
			line = sql.NullFloat64{Float64: *e.Line, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			e.RunID.String(), e.Timestamp.UTC().Format(time.RFC3339Nano), e.Season, e.Week, string(e.Prop),
			e.PlayerID, e.Player, e.Team, e.Position, e.Book, e.Market, line,
			e.American, e.Decimal, e.ImpliedProb, e.ModelProb, e.RecentUsage,
			e.Edge, e.KellyFull, e.StakeFraction, e.StakeAmount.StringFixed(2),
		); err != nil {
			return fmt.Errorf("insert prediction log entry: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Load(ctx context.Context, season, week int, prop models.Prop) ([]models.PredictionLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		run_id, timestamp, player_id, player, team, position, book, market, line,
		american, decimal, implied_prob, model_prob, recent_usage, edge, kelly_full, stake_fraction, stake_amount
		FROM prediction_log WHERE season = ? AND week = ? AND prop = ? ORDER BY id`,
		season, week, string(prop))
	if err != nil {
		return nil, fmt.Errorf("query prediction log: %w", err)
	}
	defer rows.Close()

	var out []models.PredictionLogEntry
	for rows.Next() {
		var (
			runID, ts, amount string
			line              sql.NullFloat64
		)
		e := models.PredictionLogEntry{Season: season, Week: week, Prop: prop}
		if err := rows.Scan(&runID, &ts, &e.PlayerID, &e.Player, &e.Team, &e.Position, &e.Book, &e.Market, &line,
			&e.American, &e.Decimal, &e.ImpliedProb, &e.ModelProb, &e.RecentUsage,
			&e.Edge, &e.KellyFull, &e.StakeFraction, &amount); err != nil {
			return nil, fmt.Errorf("scan prediction log entry: %w", err)
		}
		if id, err := uuid.Parse(runID); err == nil {
			e.RunID = id
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Timestamp = t
		}
		if line.Valid {
			l := line.Float64
			e.Line = &l
		}
		if d, err := decimal.NewFromString(amount); err == nil {
			e.StakeAmount = d
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
