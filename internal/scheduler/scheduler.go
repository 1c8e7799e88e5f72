// Package scheduler runs the weekly report on a cron expression.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gamblebot/internal/odds"
	"github.com/yourusername/gamblebot/internal/service"
)

// ErrOffSeason is returned when the clock is past the regular season.
var ErrOffSeason = errors.New("no regular-season week in progress")

// ReportRunner generates a report.
type ReportRunner interface {
	Generate(ctx context.Context, req service.ReportRequest) (*service.Report, error)
}

// ReportHandler receives every scheduled report.
type ReportHandler func(*service.Report)

// Scheduler manages scheduled report jobs
type Scheduler struct {
	cron       *cron.Cron
	runner     ReportRunner
	logger     *logrus.Entry
	onReport   ReportHandler
	now        func() time.Time
	jobTimeout time.Duration

	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
	lastRun   time.Time
	lastErr   error
}

// NewScheduler creates a new scheduler. onReport may be nil.
func NewScheduler(runner ReportRunner, logger *logrus.Logger, onReport ReportHandler) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		runner:     runner,
		logger:     logger.WithField("component", "scheduler"),
		onReport:   onReport,
		now:        time.Now,
		jobTimeout: 30 * time.Minute,
		jobIDs:     make([]cron.EntryID, 0),
	}
}

// Week returns the season and week to report on at t.
func Week(t time.Time) (season, week int, err error) {
	season = odds.SeasonFor(t)
	week, ok := odds.WeekFor(season, t)
	if !ok {
		return season, week, fmt.Errorf("%w: season %d ended", ErrOffSeason, season)
	}
	return season, week, nil
}

// ScheduleWeeklyReport runs template on cronExpression with season and week
// taken from the clock at run time.
func (s *Scheduler) ScheduleWeeklyReport(cronExpression string, template service.ReportRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		if _, err := s.RunOnce(ctx, template); err != nil && !errors.Is(err, ErrOffSeason) {
			s.logger.WithError(err).Error("Scheduled report failed")
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"cron": cronExpression,
		"prop": string(template.Prop),
	}).Info("Scheduled weekly report")
	return nil
}

// RunOnce generates the report for the current week.
func (s *Scheduler) RunOnce(ctx context.Context, template service.ReportRequest) (*service.Report, error) {
	now := s.now()
	season, week, err := Week(now)
	if err != nil {
		s.logger.WithField("date", now.Format("2006-01-02")).Info("Skipping report outside the regular season")
		s.record(now, err)
		return nil, err
	}

	req := template
	req.Season, req.Week = season, week
	s.logger.WithFields(logrus.Fields{"season": season, "week": week}).Info("Starting scheduled report")

	report, err := s.runner.Generate(ctx, req)
	s.record(now, err)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"run_id": report.RunID.String(),
		"rows":   len(report.Rows),
	}).Info("Scheduled report completed")

	if s.onReport != nil {
		s.onReport(report)
	}
	return report, nil
}

func (s *Scheduler) record(at time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRun = at
	s.lastErr = err
}

// LastRun returns when the last job ran and its error.
func (s *Scheduler) LastRun() (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun, s.lastErr
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop waits for running jobs and stops the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled job run
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}
	var next time.Time
	for _, id := range s.jobIDs {
		entry := s.cron.Entry(id)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}
