package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// RunLogger records report runs and the degradations that happened during
// them as structured events.
type RunLogger struct {
	*logrus.Entry
}

// NewRunLogger creates a new run logger.
func NewRunLogger(baseLogger *logrus.Logger) *RunLogger {
	return &RunLogger{
		Entry: baseLogger.WithField("component", "run"),
	}
}

// LogReportRun logs a completed report run.
func (rl *RunLogger) LogReportRun(runID, prop string, season, week, players, quotes, rows int, statsStrategy string, elapsed time.Duration) {
	rl.WithFields(logrus.Fields{
		"run_id":         runID,
		"prop":           prop,
		"season":         season,
		"week":           week,
		"players":        players,
		"quotes":         quotes,
		"rows":           rows,
		"stats_strategy": statsStrategy,
		"elapsed_ms":     elapsed.Milliseconds(),
	}).Info("Report run completed")
}

// LogFallback logs a substitution of the requested stats.
func (rl *RunLogger) LogFallback(strategy string, requestedSeason, usedSeason int, reason string) {
	rl.WithFields(logrus.Fields{
		"strategy":         strategy,
		"requested_season": requestedSeason,
		"used_season":      usedSeason,
		"reason":           reason,
	}).Warn("Stats fallback used")
}

// LogFeedFailure logs an odds feed item that was skipped.
func (rl *RunLogger) LogFeedFailure(eventID, market string, status int, err error) {
	rl.WithFields(logrus.Fields{
		"event_id": eventID,
		"market":   market,
		"status":   status,
	}).WithError(err).Warn("Odds feed item skipped")
}

// LogPredictionsAppended logs a write to the prediction log.
func (rl *RunLogger) LogPredictionsAppended(runID, driver string, count int) {
	rl.WithFields(logrus.Fields{
		"run_id": runID,
		"driver": driver,
		"count":  count,
	}).Info("Predictions logged")
}

// LogEvaluation logs an evaluation summary.
func (rl *RunLogger) LogEvaluation(prop string, season, week, n, hits int, roi, brier float64) {
	rl.WithFields(logrus.Fields{
		"prop":   prop,
		"season": season,
		"week":   week,
		"n":      n,
		"hits":   hits,
		"roi":    roi,
		"brier":  brier,
	}).Info("Evaluation completed")
}
