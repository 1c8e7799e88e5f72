package health

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gamblebot/internal/metrics"
)

type stubLog struct{ err error }

func (p stubLog) Ping(context.Context) error { return p.err }

type stubSchedule struct {
	running bool
	next    time.Time
	last    time.Time
	lastErr error
}

func (s stubSchedule) IsRunning() bool             { return s.running }
func (s stubSchedule) NextRun() time.Time          { return s.next }
func (s stubSchedule) LastRun() (time.Time, error) { return s.last, s.lastErr }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func readiness(t *testing.T, rec *httptest.ResponseRecorder) Readiness {
	t.Helper()
	var r Readiness
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	return r
}

func TestHealthAndLive(t *testing.T) {
	s := NewServer(Config{Service: "gamblebot", Version: "1.0.0", Commit: "abc123"})
	s.now = func() time.Time { return time.Date(2024, 9, 10, 14, 0, 0, 0, time.UTC) }
	h := s.Handler()

	rec := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	var info BuildInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "gamblebot", info.Service)
	assert.Equal(t, "1.0.0", info.Version)
	assert.Equal(t, "abc123", info.Commit)
	assert.Equal(t, 2024, info.Time.Year())

	rec = get(t, h, "/live")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyFollowsScheduler(t *testing.T) {
	next := time.Date(2024, 9, 17, 14, 0, 0, 0, time.UTC)
	sched := stubSchedule{next: next}

	rec := get(t, NewServer(Config{Schedule: sched}).Handler(), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "not ready before the scheduler starts")
	assert.Equal(t, "stopped", readiness(t, rec).Scheduler)

	sched.running = true
	rec = get(t, NewServer(Config{Schedule: sched, PredictionLog: stubLog{}}).Handler(), "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)

	r := readiness(t, rec)
	assert.True(t, r.Ready)
	assert.Equal(t, "running", r.Scheduler)
	require.NotNil(t, r.NextReport)
	assert.True(t, next.Equal(*r.NextReport))
	assert.Nil(t, r.LastReport, "no report has run yet")
	assert.Equal(t, "ok", r.PredictionLog)
}

func TestReadyPredictionLogUnreachable(t *testing.T) {
	s := NewServer(Config{PredictionLog: stubLog{err: errors.New("connection refused")}})

	rec := get(t, s.Handler(), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, readiness(t, rec).PredictionLog, "connection refused")
}

func TestReadyReportsLastRunFailure(t *testing.T) {
	at := time.Date(2024, 9, 19, 14, 0, 0, 0, time.UTC)
	s := NewServer(Config{Schedule: stubSchedule{running: true, last: at, lastErr: errors.New("odds feed down")}})

	rec := get(t, s.Handler(), "/ready")
	assert.Equal(t, http.StatusOK, rec.Code, "a failed report does not fail readiness")

	r := readiness(t, rec)
	require.NotNil(t, r.LastReport)
	assert.True(t, at.Equal(*r.LastReport))
	assert.Equal(t, "odds feed down", r.LastReportError)
}

func TestStartRejectsBusyPort(t *testing.T) {
	busy := httptest.NewServer(http.NotFoundHandler())
	defer busy.Close()
	_, port, err := net.SplitHostPort(busy.Listener.Addr().String())
	require.NoError(t, err)

	err = NewServer(Config{Port: port}).Start(context.Background())
	assert.Error(t, err)
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.RecordStatsFallback("prior_seasons")

	rec := get(t, NewServer(Config{}).Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gamblebot_stats_fallback_total")
}
