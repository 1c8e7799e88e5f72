package main

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/gamblebot/internal/datasource"
	"github.com/yourusername/gamblebot/internal/models"
	"github.com/yourusername/gamblebot/internal/predictionlog"
	"github.com/yourusername/gamblebot/internal/probability"
	"github.com/yourusername/gamblebot/internal/service"
	"github.com/yourusername/gamblebot/internal/staking"
)

// app holds the dependencies of one command invocation.
type app struct {
	sources *datasource.Sources
	store   predictionlog.Store
	reports *service.ReportService
}

// newApp wires feeds, the prediction log and the report service.
func newApp(ctx context.Context, withLog bool) (*app, error) {
	cacheTTL := time.Duration(-1)
	if noCache {
		cacheTTL = 0
	}
	sources := datasource.NewFactory(cfg, log).NewSources(cacheTTL)

	opts := []service.Option{service.WithModel(modelFromConfig())}
	a := &app{sources: sources}
	if withLog {
		store, err := predictionlog.Open(ctx, cfg.PredictionLog)
		if err != nil {
			sources.Close()
			return nil, err
		}
		a.store = store
		opts = append(opts, service.WithPredictionLog(store, cfg.PredictionLog.Driver))
	}
	a.reports = service.NewReportService(sources.NFLVerse, sources.Odds, log, opts...)
	return a, nil
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.WithError(err).Warn("Failed to close prediction log")
		}
	}
	if err := a.sources.Close(); err != nil {
		log.WithError(err).Warn("Failed to close feed client")
	}
}

func modelFromConfig() probability.Model {
	m := cfg.Model
	return probability.Model{
		PseudoGames:    m.PseudoGames,
		PseudoSnaps:    m.PseudoSnaps,
		TDPriorFloor:   m.TDPriorFloor,
		TDPriorCeil:    m.TDPriorCeil,
		SackPriorFloor: m.SackPriorFloor,
		TouchdownCap:   m.TouchdownCap,
		SackCap:        m.SackCap,
	}
}

func stakingParams(kellyFraction, unitSize float64) staking.Params {
	return staking.Params{
		KellyFraction: kellyFraction,
		UnitSize:      decimal.NewFromFloat(unitSize),
	}
}

func defaultPositions(prop models.Prop) []string {
	if prop == models.PropOnePlusSack {
		return cfg.Filters.SackPositions
	}
	return cfg.Filters.TouchdownPositions
}

// splitList accepts repeated and comma-separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
