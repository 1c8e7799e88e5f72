package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gamblebot/internal/logger"
	"github.com/yourusername/gamblebot/internal/models"
	"github.com/yourusername/gamblebot/internal/service"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Generate(ctx context.Context, req service.ReportRequest) (*service.Report, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*service.Report)
	return r, args.Error(1)
}

func TestWeek(t *testing.T) {
	tests := []struct {
		name   string
		at     time.Time
		season int
		week   int
		err    bool
	}{
		{"preseason counts as week 1", time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC), 2024, 1, false},
		{"opening thursday", time.Date(2024, 9, 5, 14, 0, 0, 0, time.UTC), 2024, 1, false},
		{"week 3 thursday", time.Date(2024, 9, 19, 14, 0, 0, 0, time.UTC), 2024, 3, false},
		{"january belongs to prior season", time.Date(2025, 1, 2, 14, 0, 0, 0, time.UTC), 2024, 18, false},
		{"after week 18", time.Date(2025, 2, 6, 14, 0, 0, 0, time.UTC), 2024, 18, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			season, week, err := Week(tt.at)
			assert.Equal(t, tt.season, season)
			assert.Equal(t, tt.week, week)
			if tt.err {
				assert.ErrorIs(t, err, ErrOffSeason)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRunOnceFillsSeasonAndWeek(t *testing.T) {
	runner := new(mockRunner)
	template := service.ReportRequest{Prop: models.PropTwoPlusTD, Top: 10}

	want := template
	want.Season, want.Week = 2024, 3
	report := &service.Report{Season: 2024, Week: 3}
	runner.On("Generate", mock.Anything, want).Return(report, nil)

	var handled *service.Report
	s := NewScheduler(runner, logger.Discard(), func(r *service.Report) { handled = r })
	s.now = func() time.Time { return time.Date(2024, 9, 19, 14, 0, 0, 0, time.UTC) }

	got, err := s.RunOnce(context.Background(), template)
	require.NoError(t, err)
	runner.AssertExpectations(t)
	assert.Same(t, report, got)
	assert.Same(t, report, handled)

	at, lastErr := s.LastRun()
	assert.Equal(t, 2024, at.Year())
	assert.NoError(t, lastErr)
}

func TestRunOnceOffSeason(t *testing.T) {
	runner := new(mockRunner)
	s := NewScheduler(runner, logger.Discard(), nil)
	s.now = func() time.Time { return time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC) }

	_, err := s.RunOnce(context.Background(), service.ReportRequest{Prop: models.PropTwoPlusTD})
	assert.ErrorIs(t, err, ErrOffSeason)
	runner.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestRunOnceRecordsFailure(t *testing.T) {
	runner := new(mockRunner)
	boom := errors.New("odds feed down")
	runner.On("Generate", mock.Anything, mock.Anything).Return(nil, boom)

	s := NewScheduler(runner, logger.Discard(), nil)
	s.now = func() time.Time { return time.Date(2024, 10, 3, 14, 0, 0, 0, time.UTC) }

	_, err := s.RunOnce(context.Background(), service.ReportRequest{Prop: models.PropOnePlusSack})
	assert.ErrorIs(t, err, boom)
	_, lastErr := s.LastRun()
	assert.ErrorIs(t, lastErr, boom)
}

func TestScheduleLifecycle(t *testing.T) {
	s := NewScheduler(new(mockRunner), logger.Discard(), nil)

	assert.Error(t, s.Start(), "no jobs scheduled")
	assert.Error(t, s.ScheduleWeeklyReport("not a cron", service.ReportRequest{}))
	require.NoError(t, s.ScheduleWeeklyReport("0 14 * * 4", service.ReportRequest{Prop: models.PropTwoPlusTD}))

	require.NoError(t, s.Start())
	defer s.Stop()
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.Error(t, s.ScheduleWeeklyReport("0 14 * * 4", service.ReportRequest{}))

	next := s.NextRun()
	assert.Equal(t, time.Thursday, next.Weekday())
	assert.Equal(t, 14, next.Hour())
}
