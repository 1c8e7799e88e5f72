package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gamblebot/internal/config"
	"github.com/yourusername/gamblebot/internal/health"
	"github.com/yourusername/gamblebot/internal/models"
	"github.com/yourusername/gamblebot/internal/predictionlog"
	"github.com/yourusername/gamblebot/internal/report"
	"github.com/yourusername/gamblebot/internal/scheduler"
	"github.com/yourusername/gamblebot/internal/service"
)

func newScheduleCmd() *cobra.Command {
	var (
		cronExpr   string
		port       string
		now        bool
		outputHTML string
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the weekly report on a cron schedule",
		Long: `Generates the current week's report on a cron schedule (UTC) until
interrupted. Serves /health, /ready, /live and /metrics while running.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(cmd, cronExpr, port, now, outputHTML)
		},
	}
	cmd.Flags().StringVar(&cronExpr, "cron", "", "Cron expression (default from config, then "+config.DefaultCron+")")
	cmd.Flags().StringVar(&port, "port", "", "Health server port (default $HEALTH_PORT or 9102)")
	cmd.Flags().BoolVar(&now, "now", false, "Also run once immediately")
	cmd.Flags().StringVar(&outputHTML, "html", "", "Rewrite this HTML file after every run")
	return cmd
}

func runSchedule(cmd *cobra.Command, cronExpr, port string, runNow bool, outputHTML string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cronExpr == "" {
		cronExpr = cfg.Scheduler.Cron
	}
	if cronExpr == "" {
		cronExpr = config.DefaultCron
	}
	prop := models.PropTwoPlusTD
	if cfg.Scheduler.Prop != "" {
		p, err := models.ParseProp(cfg.Scheduler.Prop)
		if err != nil {
			return err
		}
		prop = p
	}

	a, err := newApp(ctx, cfg.PredictionLog.Enabled)
	if err != nil {
		return err
	}
	defer a.Close()

	template := service.ReportRequest{
		Prop:           prop,
		Top:            cfg.Staking.Top,
		Books:          cfg.Sources.OddsAPI.Books,
		Staking:        stakingParams(cfg.Staking.KellyFraction, cfg.Staking.UnitSize),
		Positions:      defaultPositions(prop),
		MinUsage:       cfg.Filters.MinUsage,
		ExcludeInjured: cfg.Filters.ExcludeInjured,
		RecentWindow:   cfg.Model.RecentWindow,
		Lookback:       cfg.Model.LookbackSeasons,
		LogPredictions: cfg.PredictionLog.Enabled,
	}

	onReport := func(rep *service.Report) {
		if outputHTML != "" {
			page := report.Page{
				Title:       propTitle(rep.Prop) + " edges",
				GeneratedAt: rep.GeneratedAt,
				Warnings:    rep.Warnings,
				Rows:        rep.Rows,
			}
			if err := report.ExportHTML(outputHTML, page); err != nil {
				log.WithError(err).Error("Failed to write HTML report")
			}
		}
		for _, w := range rep.Warnings {
			log.WithField("run_id", rep.RunID.String()).Warn(w)
		}
		if err := writeMetrics(); err != nil {
			log.WithError(err).Warn("Failed to write metrics")
		}
	}

	sched := scheduler.NewScheduler(a.reports, log, onReport)
	if err := sched.ScheduleWeeklyReport(cronExpr, template); err != nil {
		return err
	}

	hcfg := health.Config{
		Service:  cfg.App.Name,
		Version:  Version,
		Commit:   GitCommit,
		Port:     port,
		Logger:   log,
		Schedule: sched,
	}
	if pg, ok := a.store.(*predictionlog.PostgresStore); ok {
		hcfg.PredictionLog = pg.DB()
	}
	srv := health.NewServer(hcfg)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	log.WithFields(logrus.Fields{
		"cron":     cronExpr,
		"prop":     string(prop),
		"next_run": sched.NextRun().Format("2006-01-02 15:04 MST"),
	}).Info("Scheduler running")

	if runNow {
		if _, err := sched.RunOnce(ctx, template); err != nil && !errors.Is(err, scheduler.ErrOffSeason) {
			log.WithError(err).Error("Initial report failed")
		}
	}

	<-ctx.Done()
	log.Info("Shutting down scheduler")
	return nil
}
