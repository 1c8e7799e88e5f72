// Package fallback loads season stats through an ordered list of
// strategies, reporting which one produced the data.
package fallback

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/gamblebot/internal/datasource"
	"github.com/yourusername/gamblebot/internal/logger"
	"github.com/yourusername/gamblebot/internal/metrics"
	"github.com/yourusername/gamblebot/internal/table"
)

// StrategyNone is reported when every strategy came up empty.
const StrategyNone = "none"

// ErrTryNext tells the chain to move on to the next strategy.
var ErrTryNext = errors.New("try next strategy")

// Loaded is a strategy's usable result.
type Loaded struct {
	Table  *table.Table
	Season int
}

// Strategy is one way of obtaining stats for a season and week.
type Strategy interface {
	Name() string
	Load(ctx context.Context, season, week int) (Loaded, error)
}

// Result is what the chain produced and how.
type Result struct {
	Table    *table.Table
	Strategy string
	Season   int
	Degraded bool
	Warnings []string
}

// Chain tries strategies in order. The first is the primary; anything else
// that answers is a degraded result.
type Chain struct {
	strategies []Strategy
	schema     []string
	runLog     *logger.RunLogger
	logger     *logrus.Entry
}

// NewChain creates a chain. schema is the column set of the empty table
// returned when nothing works.
func NewChain(log *logrus.Logger, schema []string, strategies ...Strategy) *Chain {
	if log == nil {
		log = logger.Discard()
	}
	return &Chain{
		strategies: strategies,
		schema:     schema,
		runLog:     logger.NewRunLogger(log),
		logger:     log.WithField("component", "fallback"),
	}
}

// Load runs the strategies. It only fails on context cancellation; when no
// strategy produces rows the result is an empty table with strategy "none".
func (c *Chain) Load(ctx context.Context, season, week int) (*Result, error) {
	var warnings []string

	for i, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		loaded, err := s.Load(ctx, season, week)
		if err == nil && (loaded.Table == nil || loaded.Table.IsEmpty()) {
			err = ErrTryNext
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			if !skippable(err) {
				c.logger.WithError(err).WithField("strategy", s.Name()).Warn("Stats strategy failed")
			}
			warnings = append(warnings, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}

		res := &Result{
			Table:    loaded.Table,
			Strategy: s.Name(),
			Season:   loaded.Season,
			Degraded: i > 0,
			Warnings: warnings,
		}
		if res.Degraded {
			msg := fmt.Sprintf("stats for season %d week %d unavailable; using %s (season %d)", season, week, s.Name(), loaded.Season)
			res.Warnings = append(res.Warnings, msg)
			metrics.RecordStatsFallback(s.Name())
			c.runLog.LogFallback(s.Name(), season, loaded.Season, msg)
		}
		return res, nil
	}

	msg := fmt.Sprintf("no stats available for season %d week %d", season, week)
	c.logger.WithField("season", season).Warn(msg)
	metrics.RecordStatsFallback(StrategyNone)
	return &Result{
		Table:    table.Empty(c.schema...),
		Strategy: StrategyNone,
		Season:   season,
		Degraded: true,
		Warnings: append(warnings, msg),
	}, nil
}

func skippable(err error) bool {
	return errors.Is(err, ErrTryNext) || errors.Is(err, datasource.ErrUpstreamUnavailable)
}
