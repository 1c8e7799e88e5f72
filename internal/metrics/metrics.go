// Package metrics provides the Prometheus registry for gamblebot.
package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gamblebot"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ReportRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "report_runs_total",
		Help:      "Total number of report runs by prop and outcome",
	}, []string{"prop", "outcome"})
	EdgeRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "edge_records_total",
		Help:      "Total number of priced edge records by prop",
	}, []string{"prop"})
	OddsFeedFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "odds_feed_failures_total",
		Help:      "Odds feed event/market requests skipped after a failure",
	}, []string{"market"})
	StatsFallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_fallback_total",
		Help:      "Stats loads served by a non-primary strategy",
	}, []string{"strategy"})
	PredictionsLoggedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_logged_total",
		Help:      "Entries appended to the prediction log by driver",
	}, []string{"driver"})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of feed client circuit breaker trips",
	})
)

// Gauge metrics
var (
	HTTPCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_cache_hit_ratio",
		Help:      "Hit ratio of the feed response cache",
	})
	EvaluationHitRate = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "evaluation_hit_rate",
		Help:      "Hit rate of the last evaluated week",
	}, []string{"prop"})
	EvaluationROI = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "evaluation_roi",
		Help:      "Return on stake of the last evaluated week",
	}, []string{"prop"})
	EvaluationBrier = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "evaluation_brier",
		Help:      "Brier score of the last evaluated week",
	}, []string{"prop"})
)

// Histogram metrics
var (
	ReportDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_duration_seconds",
		Help:      "Duration of report runs in seconds",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ReportRunsTotal)
		registry.MustRegister(EdgeRecordsTotal)
		registry.MustRegister(OddsFeedFailuresTotal)
		registry.MustRegister(StatsFallbackTotal)
		registry.MustRegister(PredictionsLoggedTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		registry.MustRegister(HTTPCacheHitRatio)
		registry.MustRegister(EvaluationHitRate)
		registry.MustRegister(EvaluationROI)
		registry.MustRegister(EvaluationBrier)

		registry.MustRegister(ReportDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, GetRegistry()); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// RecordReportRun records a finished report run.
func RecordReportRun(prop, outcome string, durationSeconds float64, records int) {
	ReportRunsTotal.WithLabelValues(prop, outcome).Inc()
	ReportDuration.Observe(durationSeconds)
	EdgeRecordsTotal.WithLabelValues(prop).Add(float64(records))
}

// RecordOddsFeedFailure records a skipped odds request.
func RecordOddsFeedFailure(market string) {
	OddsFeedFailuresTotal.WithLabelValues(market).Inc()
}

// RecordStatsFallback records a non-primary stats load.
func RecordStatsFallback(strategy string) {
	StatsFallbackTotal.WithLabelValues(strategy).Inc()
}

// RecordPredictionsLogged records prediction log appends.
func RecordPredictionsLogged(driver string, count int) {
	PredictionsLoggedTotal.WithLabelValues(driver).Add(float64(count))
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}

// UpdateCacheHitRatio updates the feed cache hit ratio gauge.
func UpdateCacheHitRatio(ratio float64) {
	HTTPCacheHitRatio.Set(ratio)
}

// UpdateEvaluation publishes an evaluation summary.
func UpdateEvaluation(prop string, hitRate, roi, brier float64) {
	EvaluationHitRate.WithLabelValues(prop).Set(hitRate)
	EvaluationROI.WithLabelValues(prop).Set(roi)
	EvaluationBrier.WithLabelValues(prop).Set(brier)
}
