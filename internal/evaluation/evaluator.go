package evaluation

import (
	"context"
	"fmt"

	"github.com/yourusername/gamblebot/internal/features"
	"github.com/yourusername/gamblebot/internal/identity"
	"github.com/yourusername/gamblebot/internal/logger"
	"github.com/yourusername/gamblebot/internal/metrics"
	"github.com/yourusername/gamblebot/internal/models"
	"github.com/yourusername/gamblebot/internal/table"
)

// EntryLoader reads logged predictions.
type EntryLoader interface {
	Load(ctx context.Context, season, week int, prop models.Prop) ([]models.PredictionLogEntry, error)
}

// StatsLoader returns a season's weekly stats table for prop: the offensive
// weekly feed for touchdowns, the defensive feed for sacks.
type StatsLoader func(ctx context.Context, season int, prop models.Prop) (*table.Table, error)

// Result is an evaluation run's output.
type Result struct {
	Rows    []Scored
	Summary Summary
}

// Evaluator scores a week's logged predictions.
type Evaluator struct {
	entries   EntryLoader
	stats     StatsLoader
	normalize identity.Normalizer
	log       *logger.RunLogger
}

// NewEvaluator builds an Evaluator. A nil normalizer uses identity.CleanName.
func NewEvaluator(entries EntryLoader, stats StatsLoader, normalize identity.Normalizer, log *logger.RunLogger) *Evaluator {
	return &Evaluator{entries: entries, stats: stats, normalize: identity.Or(normalize), log: log}
}

// Evaluate loads the week's entries and outcomes and scores them. An empty
// log yields an empty result.
func (e *Evaluator) Evaluate(ctx context.Context, season, week int, prop models.Prop) (*Result, error) {
	entries, err := e.entries.Load(ctx, season, week, prop)
	if err != nil {
		return nil, fmt.Errorf("failed to load prediction log: %w", err)
	}
	if len(entries) == 0 {
		return &Result{Summary: Summarize(nil)}, nil
	}

	t, err := e.stats(ctx, season, prop)
	if err != nil {
		return nil, fmt.Errorf("failed to load week %d outcomes: %w", week, err)
	}
	stats, err := features.ParseWeekly(t)
	if err != nil {
		return nil, err
	}

	outcomes := Outcomes(features.FilterWeek(stats, week), prop, e.normalize)
	rows, summary := Score(entries, outcomes, prop, e.normalize)

	metrics.UpdateEvaluation(string(prop), summary.HitRate, summary.ROI, summary.Brier)
	if e.log != nil {
		e.log.LogEvaluation(string(prop), season, week, summary.N, summary.Hits, summary.ROI, summary.Brier)
	}
	return &Result{Rows: rows, Summary: summary}, nil
}
