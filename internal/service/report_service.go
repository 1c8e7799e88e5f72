// Package service runs the weekly report pipeline: stats, features,
// probabilities, filters, odds, pricing and the prediction log.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gamblebot/internal/datasource"
	"github.com/yourusername/gamblebot/internal/fallback"
	"github.com/yourusername/gamblebot/internal/features"
	"github.com/yourusername/gamblebot/internal/filters"
	"github.com/yourusername/gamblebot/internal/identity"
	"github.com/yourusername/gamblebot/internal/logger"
	"github.com/yourusername/gamblebot/internal/metrics"
	"github.com/yourusername/gamblebot/internal/models"
	"github.com/yourusername/gamblebot/internal/odds"
	"github.com/yourusername/gamblebot/internal/predictionlog"
	"github.com/yourusername/gamblebot/internal/probability"
	"github.com/yourusername/gamblebot/internal/staking"
	"github.com/yourusername/gamblebot/internal/table"
)

// StatsSource serves the season-level stats feeds.
type StatsSource interface {
	Weekly(ctx context.Context, season int) (*table.Table, error)
	Defense(ctx context.Context, season int) (*table.Table, error)
	Team(ctx context.Context, season int) (*table.Table, error)
	Injuries(ctx context.Context, season int) (*table.Table, error)
	PlayByPlay(ctx context.Context, season int) (*table.Table, error)
}

// OddsSource serves a week's prop prices.
type OddsSource interface {
	FetchQuotes(ctx context.Context, prop models.Prop, season, week int, books []string) (*datasource.OddsFeed, error)
}

// PredictionAppender records priced rows.
type PredictionAppender interface {
	Append(ctx context.Context, entries []models.PredictionLogEntry) error
}

// ReportRequest holds every knob of a report run.
type ReportRequest struct {
	Prop   models.Prop
	Season int
	Week   int
	Top    int
	Books  []string

	Staking        staking.Params
	Positions      []string
	MinUsage       float64
	ExcludeInjured bool
	RecentWindow   int
	Lookback       int

	LogPredictions bool
}

// Validate checks the request before any feed is touched.
func (r ReportRequest) Validate() error {
	if _, err := models.ParseProp(string(r.Prop)); err != nil {
		return err
	}
	if r.Season < 1999 {
		return fmt.Errorf("season %d is out of range", r.Season)
	}
	if r.Week < 1 || r.Week > 22 {
		return fmt.Errorf("week %d is out of range", r.Week)
	}
	if r.Staking.KellyFraction < 0 || r.Staking.KellyFraction > 1 {
		return fmt.Errorf("kelly fraction %.3f must be within [0, 1]", r.Staking.KellyFraction)
	}
	if r.Staking.UnitSize.IsNegative() {
		return fmt.Errorf("unit size must not be negative")
	}
	return nil
}

// StatsDiagnostics describes where the stats came from.
type StatsDiagnostics struct {
	Strategy string   `json:"strategy"`
	Season   int      `json:"season"`
	Degraded bool     `json:"degraded"`
	Warnings []string `json:"warnings,omitempty"`
	Players  int      `json:"players"`
	Eligible int      `json:"eligible"`
}

// Report is a ranked, priced set of recommendations.
type Report struct {
	RunID        uuid.UUID           `json:"run_id"`
	Prop         models.Prop         `json:"prop"`
	Season       int                 `json:"season"`
	Week         int                 `json:"week"`
	Rows         []models.EdgeRecord `json:"rows"`
	Stats        StatsDiagnostics    `json:"stats"`
	Events       int                 `json:"events"`
	Quotes       int                 `json:"quotes"`
	FeedFailures int                 `json:"feed_failures"`
	Warnings     []string            `json:"warnings,omitempty"`
	Logged       int                 `json:"logged"`
	GeneratedAt  time.Time           `json:"generated_at"`
}

// ReportService generates reports.
type ReportService struct {
	stats       StatsSource
	odds        OddsSource
	predictions PredictionAppender
	logDriver   string
	model       probability.Model
	normalize   identity.Normalizer
	logger      *logrus.Logger
	runLog      *logger.RunLogger
	now         func() time.Time
}

// Option customises a ReportService.
type Option func(*ReportService)

// WithPredictionLog appends every report's rows to store. driver labels the
// logged-entries metric.
func WithPredictionLog(store PredictionAppender, driver string) Option {
	return func(s *ReportService) {
		s.predictions = store
		s.logDriver = driver
	}
}

// WithModel replaces the default model constants.
func WithModel(m probability.Model) Option {
	return func(s *ReportService) { s.model = m }
}

// WithNormalizer replaces identity.CleanName as the join key.
func WithNormalizer(n identity.Normalizer) Option {
	return func(s *ReportService) { s.normalize = identity.Or(n) }
}

// WithClock fixes the time source.
func WithClock(now func() time.Time) Option {
	return func(s *ReportService) { s.now = now }
}

// NewReportService creates a report service.
func NewReportService(stats StatsSource, oddsSource OddsSource, log *logrus.Logger, opts ...Option) *ReportService {
	if log == nil {
		log = logger.Discard()
	}
	s := &ReportService{
		stats:     stats,
		odds:      oddsSource,
		model:     probability.DefaultModel(),
		normalize: identity.CleanName,
		logger:    log,
		runLog:    logger.NewRunLogger(log),
		now:       time.Now,
		logDriver: "csv",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate runs the full pipeline. Missing stats or prices give an empty
// report with warnings rather than an error; a stats feed without a player
// column and odds authentication problems are errors.
func (s *ReportService) Generate(ctx context.Context, req ReportRequest) (*Report, error) {
	start := s.now()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	prop, _ := models.ParseProp(string(req.Prop))
	req.Prop = prop

	report := &Report{
		RunID:  uuid.New(),
		Prop:   prop,
		Season: req.Season,
		Week:   req.Week,
	}
	log := s.logger.WithFields(logrus.Fields{
		"run_id": report.RunID.String(),
		"prop":   string(prop),
		"season": req.Season,
		"week":   req.Week,
	})
	log.Info("Generating report")

	feats, opponents, err := s.loadFeatures(ctx, req, report)
	if err != nil {
		metrics.RecordReportRun(string(prop), "error", s.now().Sub(start).Seconds(), 0)
		return nil, err
	}

	feed, err := s.odds.FetchQuotes(ctx, prop, req.Season, req.Week, req.Books)
	switch {
	case err == nil:
	case errors.Is(err, datasource.ErrUpstreamUnavailable):
		report.Warnings = append(report.Warnings, fmt.Sprintf("odds unavailable: %v", err))
		feed = &datasource.OddsFeed{}
	default:
		metrics.RecordReportRun(string(prop), "error", s.now().Sub(start).Seconds(), 0)
		return nil, fmt.Errorf("failed to fetch odds: %w", err)
	}
	report.Events = feed.Events
	report.FeedFailures = len(feed.Failures)
	if report.FeedFailures > 0 {
		report.Warnings = append(report.Warnings, fmt.Sprintf("%d odds requests failed and were skipped", report.FeedFailures))
	}

	if prop == models.PropOnePlusSack {
		feats = features.AttachOpponents(feats, odds.Matchups(feed.Quotes), opponents)
	}
	probs := s.probabilities(ctx, req, feats, report)

	quotes := odds.Normalize(feed.Quotes, s.normalize)
	report.Quotes = len(quotes)

	records := staking.Join(probs, quotes, s.normalize, req.Staking)
	report.Rows = staking.Rank(records, req.Top)
	report.GeneratedAt = s.now().UTC()

	if req.LogPredictions && s.predictions != nil && len(report.Rows) > 0 {
		entries := predictionlog.Entries(report.RunID, req.Season, req.Week, prop, report.GeneratedAt, report.Rows)
		if err := s.predictions.Append(ctx, entries); err != nil {
			log.WithError(err).Error("Failed to append to prediction log")
			report.Warnings = append(report.Warnings, fmt.Sprintf("prediction log not updated: %v", err))
		} else {
			report.Logged = len(entries)
			metrics.RecordPredictionsLogged(s.logDriver, len(entries))
			s.runLog.LogPredictionsAppended(report.RunID.String(), s.logDriver, len(entries))
		}
	}

	outcome := "ok"
	if len(report.Rows) == 0 {
		outcome = "empty"
	}
	elapsed := s.now().Sub(start)
	metrics.RecordReportRun(string(prop), outcome, elapsed.Seconds(), len(report.Rows))
	s.runLog.LogReportRun(report.RunID.String(), string(prop), req.Season, req.Week,
		report.Stats.Eligible, report.Quotes, len(report.Rows), report.Stats.Strategy, elapsed)

	return report, nil
}

// loadFeatures loads stats through the fallback chain and aggregates them. Sack
// reports also get the opponent profiles.
func (s *ReportService) loadFeatures(ctx context.Context, req ReportRequest, report *Report) ([]models.PlayerFeatures, features.OpponentContext, error) {
	primaryFeed := s.stats.Weekly
	if req.Prop == models.PropOnePlusSack {
		primaryFeed = s.stats.Defense
	}

	chain := fallback.NewChain(s.logger, features.PlayByPlayColumns,
		fallback.Primary(primaryFeed),
		fallback.PriorSeasons(primaryFeed, req.Lookback),
		fallback.PlayByPlay(s.stats.PlayByPlay),
	)
	opponents := features.DefaultOpponentContext()
	res, err := chain.Load(ctx, req.Season, req.Week)
	if err != nil {
		return nil, opponents, fmt.Errorf("failed to load stats: %w", err)
	}
	report.Stats = StatsDiagnostics{
		Strategy: res.Strategy,
		Season:   res.Season,
		Degraded: res.Degraded,
		Warnings: res.Warnings,
	}
	if res.Degraded {
		report.Warnings = append(report.Warnings, res.Warnings[len(res.Warnings)-1])
	}

	window := req.RecentWindow
	if window <= 0 {
		window = features.DefaultRecentWindow
	}

	var feats []models.PlayerFeatures
	if req.Prop == models.PropOnePlusSack {
		opponents = s.opponents(ctx, req, report)
		feats, err = features.SackFeatures(res.Table, opponents, window)
	} else {
		feats, err = features.TouchdownFeatures(res.Table, window)
	}
	if err != nil {
		return nil, opponents, fmt.Errorf("failed to build %s features: %w", req.Prop, err)
	}
	report.Stats.Players = len(feats)
	return feats, opponents, nil
}

// probabilities scores features and applies the request's filters.
func (s *ReportService) probabilities(ctx context.Context, req ReportRequest, feats []models.PlayerFeatures, report *Report) []models.ModelProbability {
	probs := s.model.Score(req.Prop, feats)
	probs = filters.Apply(probs, filters.Options{
		Positions:      req.Positions,
		MinUsage:       req.MinUsage,
		ExcludeInjured: req.ExcludeInjured,
		Normalize:      s.normalize,
	}, s.injuries(ctx, req, report))
	report.Stats.Eligible = len(probs)
	return probs
}

// opponents builds pass-protection profiles from the most recent completed
// season with team stats, searching back as far as the stats lookback, and
// falls back to league constants.
func (s *ReportService) opponents(ctx context.Context, req ReportRequest, report *Report) features.OpponentContext {
	lookback := req.Lookback
	if lookback <= 0 {
		lookback = fallback.DefaultLookback
	}

	var lastErr error
	for season := req.Season - 1; season >= req.Season-lookback; season-- {
		t, err := s.stats.Team(ctx, season)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if t.IsEmpty() {
			continue
		}
		opp, err := features.TeamContexts(t)
		if err != nil {
			lastErr = err
			continue
		}
		s.logger.WithFields(logrus.Fields{"season": season, "teams": len(opp.Teams)}).Debug("Loaded opponent context")
		return opp
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no team stats within %d seasons before %d", lookback, req.Season)
	}
	report.Warnings = append(report.Warnings, fmt.Sprintf("team context unavailable, using league averages: %v", lastErr))
	return features.DefaultOpponentContext()
}

func (s *ReportService) injuries(ctx context.Context, req ReportRequest, report *Report) []models.InjuryStatus {
	if !req.ExcludeInjured {
		return nil
	}
	t, err := s.stats.Injuries(ctx, req.Season)
	if err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("injury report unavailable: %v", err))
		return nil
	}
	return filters.ParseInjuries(t, req.Week)
}
