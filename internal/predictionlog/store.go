// Package predictionlog keeps an append-only record of every priced
// recommendation so it can be scored once the week's games are played.
package predictionlog

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourusername/gamblebot/internal/config"
	"github.com/yourusername/gamblebot/internal/models"
	"github.com/yourusername/gamblebot/internal/odds"
	"github.com/yourusername/gamblebot/internal/table"
)

// Store appends and reads prediction log entries. Prior entries are never
// rewritten; duplicates are tolerated.
type Store interface {
	Append(ctx context.Context, entries []models.PredictionLogEntry) error
	Load(ctx context.Context, season, week int, prop models.Prop) ([]models.PredictionLogEntry, error)
	Close() error
}

// Columns is the flat layout shared by every backend.
var Columns = []string{
	"run_id", "timestamp", "season", "week", "prop",
	"player_id", "player", "team", "position", "book", "market", "line",
	"american", "decimal", "implied_prob", "model_prob", "recent_usage",
	"edge", "kelly_full", "stake_fraction", "stake_amount",
}

// Open returns the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.PredictionLogConfig) (Store, error) {
	switch cfg.Driver {
	case "", "csv":
		return NewCSVStore(cfg.Path), nil
	case "sqlite":
		return OpenSQLite(ctx, cfg.Path)
	case "postgres":
		return OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown prediction log driver %q", cfg.Driver)
	}
}

// Entries stamps ranked records with run metadata.
func Entries(runID uuid.UUID, season, week int, prop models.Prop, at time.Time, records []models.EdgeRecord) []models.PredictionLogEntry {
	out := make([]models.PredictionLogEntry, 0, len(records))
	for _, r := range records {
		out = append(out, models.PredictionLogEntry{
			EdgeRecord: r,
			RunID:      runID,
			Season:     season,
			Week:       week,
			Prop:       prop,
			Timestamp:  at.UTC(),
		})
	}
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func record(e models.PredictionLogEntry) []string {
	line := ""
	if e.Line != nil {
		line = formatFloat(*e.Line)
	}
	return []string{
		e.RunID.String(),
		e.Timestamp.UTC().Format(time.RFC3339Nano),
		strconv.Itoa(e.Season),
		strconv.Itoa(e.Week),
		string(e.Prop),
		e.PlayerID,
		e.Player,
		e.Team,
		e.Position,
		e.Book,
		e.Market,
		line,
		strconv.Itoa(e.American),
		formatFloat(e.Decimal),
		formatFloat(e.ImpliedProb),
		formatFloat(e.ModelProb),
		formatFloat(e.RecentUsage),
		formatFloat(e.Edge),
		formatFloat(e.KellyFull),
		formatFloat(e.StakeFraction),
		e.StakeAmount.StringFixed(2),
	}
}

// fromTable decodes rows written with Columns, keeping those matching the
// season, week and prop. Rows without a prop column predate sack support and
// are touchdown predictions. Older logs carry an American "odds" column and
// "stake_units" instead of the price and stake columns; those are converted.
func fromTable(t *table.Table, season, week int, prop models.Prop) ([]models.PredictionLogEntry, error) {
	col := make(map[string]int, len(Columns))
	for _, name := range Columns {
		i, ok := t.Resolve(table.NewSlot(name, name))
		if !ok {
			i = -1
		}
		col[name] = i
	}
	for _, legacy := range []string{"odds", "stake_units"} {
		i, ok := t.Resolve(table.NewSlot(legacy, legacy))
		if !ok {
			i = -1
		}
		col[legacy] = i
	}
	for _, required := range []string{"season", "week", "player"} {
		if col[required] < 0 {
			return nil, &models.MissingColumnError{Field: required, Tried: []string{required}, Available: t.Columns}
		}
	}

	var out []models.PredictionLogEntry
	for r := 0; r < t.Len(); r++ {
		if t.Int(r, col["season"]) != season || t.Int(r, col["week"]) != week {
			continue
		}
		rowProp := models.PropTwoPlusTD
		if s := t.String(r, col["prop"]); s != "" {
			p, err := models.ParseProp(s)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", r+1, err)
			}
			rowProp = p
		}
		if rowProp != prop {
			continue
		}

		e := models.PredictionLogEntry{Season: season, Week: week, Prop: rowProp}
		if id, err := uuid.Parse(t.String(r, col["run_id"])); err == nil {
			e.RunID = id
		}
		if ts, err := time.Parse(time.RFC3339Nano, t.String(r, col["timestamp"])); err == nil {
			e.Timestamp = ts
		}
		e.PlayerID = t.String(r, col["player_id"])
		e.Player = t.String(r, col["player"])
		e.Team = t.String(r, col["team"])
		e.Position = t.String(r, col["position"])
		e.Book = t.String(r, col["book"])
		e.Market = t.String(r, col["market"])
		if s := t.String(r, col["line"]); s != "" {
			line := t.Float(r, col["line"])
			e.Line = &line
		}
		e.American = t.Int(r, col["american"])
		e.Decimal = t.Float(r, col["decimal"])
		e.ImpliedProb = t.Float(r, col["implied_prob"])
		e.ModelProb = t.Float(r, col["model_prob"])
		e.RecentUsage = t.Float(r, col["recent_usage"])
		e.Edge = t.Float(r, col["edge"])
		e.KellyFull = t.Float(r, col["kelly_full"])
		e.StakeFraction = t.Float(r, col["stake_fraction"])
		if amount, err := decimal.NewFromString(t.String(r, col["stake_amount"])); err == nil {
			e.StakeAmount = amount
		}
		if e.American == 0 && col["odds"] >= 0 {
			e.American = t.Int(r, col["odds"])
		}
		if e.Decimal == 0 && e.American != 0 {
			e.Decimal = odds.AmericanToDecimal(float64(e.American))
		}
		if e.ImpliedProb == 0 && e.American != 0 {
			e.ImpliedProb = odds.AmericanToImplied(float64(e.American))
		}
		if e.StakeAmount.IsZero() && col["stake_units"] >= 0 {
			if units, err := decimal.NewFromString(t.String(r, col["stake_units"])); err == nil {
				e.StakeAmount = units
			}
		}
		out = append(out, e)
	}
	return out, nil
}
