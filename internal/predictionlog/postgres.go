package predictionlog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/yourusername/gamblebot/internal/database"
	"github.com/yourusername/gamblebot/internal/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS prediction_log (
	id             BIGSERIAL PRIMARY KEY,
	run_id         UUID             NOT NULL,
	"timestamp"    TIMESTAMPTZ      NOT NULL,
	season         INTEGER          NOT NULL,
	week           INTEGER          NOT NULL,
	prop           TEXT             NOT NULL,
	player_id      TEXT             NOT NULL DEFAULT '',
	player         TEXT             NOT NULL,
	team           TEXT             NOT NULL DEFAULT '',
	"position"     TEXT             NOT NULL DEFAULT '',
	book           TEXT             NOT NULL DEFAULT '',
	market         TEXT             NOT NULL DEFAULT '',
	line           DOUBLE PRECISION,
	american       INTEGER          NOT NULL,
	"decimal"      DOUBLE PRECISION NOT NULL,
	implied_prob   DOUBLE PRECISION NOT NULL,
	model_prob     DOUBLE PRECISION NOT NULL,
	recent_usage   DOUBLE PRECISION NOT NULL,
	edge           DOUBLE PRECISION NOT NULL,
	kelly_full     DOUBLE PRECISION NOT NULL,
	stake_fraction DOUBLE PRECISION NOT NULL,
	stake_amount   NUMERIC(14, 2)   NOT NULL
);
CREATE INDEX IF NOT EXISTS prediction_log_week_idx ON prediction_log (season, week, prop);
`

// PostgresStore keeps the log in a prediction_log table.
type PostgresStore struct {
	db *database.DB
}

// OpenPostgres connects to dsn and creates the table if needed.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := database.NewDB(ctx, dsn, database.DefaultPoolConfig())
	if err != nil {
		return nil, err
	}
	s, err := NewPostgresStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStore uses an existing pool.
func NewPostgresStore(ctx context.Context, db *database.DB) (*PostgresStore, error) {
	if _, err := db.GetPool().Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to create prediction_log table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// DB exposes the pool for health checks.
func (s *PostgresStore) DB() *database.DB {
	return s.db
}

// Append bulk-inserts entries with COPY in one transaction.
func (s *PostgresStore) Append(ctx context.Context, entries []models.PredictionLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([][]any, len(entries))
	for i, e := range entries {
		rows[i] = []any{
			e.RunID, e.Timestamp, e.Season, e.Week, string(e.Prop),
			e.PlayerID, e.Player, e.Team, e.Position, e.Book, e.Market, e.Line,
			e.American, e.Decimal, e.ImpliedProb, e.ModelProb, e.RecentUsage,
			e.Edge, e.KellyFull, e.StakeFraction, numeric(e.StakeAmount),
		}
	}

	// A short copy rolls back so a run is logged whole or not at all.
	return s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		count, err := tx.CopyFrom(ctx, pgx.Identifier{"prediction_log"}, Columns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("failed to append prediction log entries: %w", err)
		}
		if count != int64(len(entries)) {
			return fmt.Errorf("inserted %d rows, expected %d", count, len(entries))
		}
		return nil
	})
}

// Load returns the entries for season, week and prop in insertion order.
func (s *PostgresStore) Load(ctx context.Context, season, week int, prop models.Prop) ([]models.PredictionLogEntry, error) {
	query := `
		SELECT run_id, "timestamp", season, week, prop, player_id, player, team, "position",
		       book, market, line, american, "decimal", implied_prob, model_prob, recent_usage,
		       edge, kelly_full, stake_fraction, stake_amount
		FROM prediction_log
		WHERE season = $1 AND week = $2 AND prop = $3
		ORDER BY id
	`

	rows, err := s.db.GetPool().Query(ctx, query, season, week, string(prop))
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction log: %w", err)
	}
	defer rows.Close()

	var out []models.PredictionLogEntry
	for rows.Next() {
		var (
			e      models.PredictionLogEntry
			p      string
			amount pgtype.Numeric
		)
		if err := rows.Scan(
			&e.RunID, &e.Timestamp, &e.Season, &e.Week, &p, &e.PlayerID, &e.Player, &e.Team, &e.Position,
			&e.Book, &e.Market, &e.Line, &e.American, &e.Decimal, &e.ImpliedProb, &e.ModelProb, &e.RecentUsage,
			&e.Edge, &e.KellyFull, &e.StakeFraction, &amount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan prediction log entry: %w", err)
		}
		e.Prop = models.Prop(p)
		if amount.Valid {
			e.StakeAmount = decimal.NewFromBigInt(amount.Int, amount.Exp)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prediction log: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

func numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}
