// Package health serves the schedule mode's liveness, readiness and metrics
// endpoints.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gamblebot/internal/logger"
	"github.com/yourusername/gamblebot/internal/metrics"
)

// DefaultPort is used when neither Config.Port nor HEALTH_PORT is set.
const DefaultPort = "9102"

// LogPinger reaches the prediction log backend.
type LogPinger interface {
	Ping(ctx context.Context) error
}

// Schedule is the scheduler state reported on /ready.
type Schedule interface {
	IsRunning() bool
	NextRun() time.Time
	LastRun() (time.Time, error)
}

// Config wires the server.
type Config struct {
	Service string
	Version string
	Commit  string
	Port    string
	Logger  *logrus.Logger
	// PredictionLog is pinged on /ready when the log lives in a database.
	PredictionLog LogPinger
	Schedule      Schedule
}

// BuildInfo is the /health body.
type BuildInfo struct {
	Service string    `json:"service"`
	Version string    `json:"version,omitempty"`
	Commit  string    `json:"commit,omitempty"`
	Time    time.Time `json:"time"`
}

// Readiness is the /ready body. A failed last report is reported but does not
// make the process unready; the next cron tick retries.
type Readiness struct {
	Ready           bool       `json:"ready"`
	Service         string     `json:"service"`
	Scheduler       string     `json:"scheduler,omitempty"`
	NextReport      *time.Time `json:"next_report,omitempty"`
	LastReport      *time.Time `json:"last_report,omitempty"`
	LastReportError string     `json:"last_report_error,omitempty"`
	PredictionLog   string     `json:"prediction_log,omitempty"`
}

// Server serves /health, /live, /ready and /metrics.
type Server struct {
	cfg    Config
	log    *logrus.Entry
	now    func() time.Time
	server *http.Server
}

// NewServer builds a server; call Start to listen.
func NewServer(cfg Config) *Server {
	if cfg.Port == "" {
		cfg.Port = os.Getenv("HEALTH_PORT")
	}
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	base := cfg.Logger
	if base == nil {
		base = logger.Discard()
	}
	return &Server{
		cfg: cfg,
		log: base.WithField("component", "health"),
		now: time.Now,
	}
}

// Handler returns the endpoint mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

// Start binds the port and serves until ctx ends. A port that cannot be bound
// is returned as an error.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.cfg.Port)
	if err != nil {
		return err
	}
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	s.log.WithField("addr", ln.Addr().String()).Info("Serving health and metrics")

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("Health endpoint stopped")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.log.WithError(err).Warn("Health endpoint shutdown")
		}
	}()
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, BuildInfo{
		Service: s.cfg.Service,
		Version: s.cfg.Version,
		Commit:  s.cfg.Commit,
		Time:    s.now().UTC(),
	})
}

// Readiness evaluates the scheduler and the prediction log.
func (s *Server) Readiness(ctx context.Context) Readiness {
	r := Readiness{Ready: true, Service: s.cfg.Service}

	if sched := s.cfg.Schedule; sched != nil {
		r.Scheduler = "stopped"
		if sched.IsRunning() {
			r.Scheduler = "running"
			if next := sched.NextRun(); !next.IsZero() {
				next = next.UTC()
				r.NextReport = &next
			}
		} else {
			r.Ready = false
		}
		if at, err := sched.LastRun(); !at.IsZero() {
			at = at.UTC()
			r.LastReport = &at
			if err != nil {
				r.LastReportError = err.Error()
			}
		}
	}

	if s.cfg.PredictionLog != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		r.PredictionLog = "ok"
		if err := s.cfg.PredictionLog.Ping(pingCtx); err != nil {
			r.PredictionLog = "unreachable: " + err.Error()
			r.Ready = false
		}
	}
	return r
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ready := s.Readiness(r.Context())
	status := http.StatusOK
	if !ready.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, ready)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
