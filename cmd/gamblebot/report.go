package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/gamblebot/internal/models"
	"github.com/yourusername/gamblebot/internal/report"
	"github.com/yourusername/gamblebot/internal/service"
)

type reportFlags struct {
	season, week, top int
	books             []string
	kellyFraction     float64
	unitSize          float64
	positions         []string
	minUsage          float64
	excludeInjured    bool
	prop              string
	csvPath, htmlPath string
	noLog             bool
}

func newReportCmd() *cobra.Command {
	f := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Rank a week's player props by edge",
		Example: `  gamblebot report --season 2024 --week 3
  gamblebot report --season 2024 --week 3 --prop sack --books draftkings,fanduel --html week3.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.season, "season", 0, "Season year, e.g. 2024")
	flags.IntVar(&f.week, "week", 0, "Week number")
	flags.IntVar(&f.top, "top", -1, "Number of rows to keep (default from config, 0 keeps all)")
	flags.StringSliceVar(&f.books, "books", nil, "Bookmakers to include (default from config, empty means all)")
	flags.Float64Var(&f.kellyFraction, "kelly-fraction", 0, "Fraction of full Kelly to stake (default from config)")
	flags.Float64Var(&f.unitSize, "unit-size", 0, "Bankroll unit the stake fraction applies to (default from config)")
	flags.StringSliceVar(&f.positions, "positions", nil, "Positions to keep (default from config)")
	flags.Float64Var(&f.minUsage, "min-usage", -1, "Minimum recent opportunities per game (default from config)")
	flags.BoolVar(&f.excludeInjured, "exclude-injured", false, "Drop players listed out, doubtful, IR and similar (default from config)")
	flags.StringVar(&f.prop, "prop", "td", "Prop to price: td or sack")
	flags.StringVar(&f.csvPath, "csv", "", "Also write the report to this CSV file")
	flags.StringVar(&f.htmlPath, "html", "", "Also write the report to this HTML file")
	flags.BoolVar(&f.noLog, "no-log", false, "Do not append rows to the prediction log")
	_ = cmd.MarkFlagRequired("season")
	_ = cmd.MarkFlagRequired("week")
	return cmd
}

func (f *reportFlags) request(cmd *cobra.Command) (service.ReportRequest, error) {
	prop, err := models.ParseProp(f.prop)
	if err != nil {
		return service.ReportRequest{}, err
	}

	kelly, unit := cfg.Staking.KellyFraction, cfg.Staking.UnitSize
	if cmd.Flags().Changed("kelly-fraction") {
		kelly = f.kellyFraction
	}
	if cmd.Flags().Changed("unit-size") {
		unit = f.unitSize
	}
	top := cfg.Staking.Top
	if f.top >= 0 {
		top = f.top
	}
	books := cfg.Sources.OddsAPI.Books
	if cmd.Flags().Changed("books") {
		books = splitList(f.books)
	}
	positions := defaultPositions(prop)
	if cmd.Flags().Changed("positions") {
		positions = splitList(f.positions)
	}
	minUsage := cfg.Filters.MinUsage
	if f.minUsage >= 0 {
		minUsage = f.minUsage
	}
	excludeInjured := cfg.Filters.ExcludeInjured
	if cmd.Flags().Changed("exclude-injured") {
		excludeInjured = f.excludeInjured
	}

	return service.ReportRequest{
		Prop:           prop,
		Season:         f.season,
		Week:           f.week,
		Top:            top,
		Books:          books,
		Staking:        stakingParams(kelly, unit),
		Positions:      positions,
		MinUsage:       minUsage,
		ExcludeInjured: excludeInjured,
		RecentWindow:   cfg.Model.RecentWindow,
		Lookback:       cfg.Model.LookbackSeasons,
		LogPredictions: cfg.PredictionLog.Enabled && !f.noLog,
	}, nil
}

func runReport(cmd *cobra.Command, f *reportFlags) error {
	req, err := f.request(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, req.LogPredictions)
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.reports.Generate(ctx, req)
	if err != nil {
		return err
	}
	return writeReport(cmd, rep, f.csvPath, f.htmlPath)
}

func writeReport(cmd *cobra.Command, rep *service.Report, csvPath, htmlPath string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s edges, %d week %d (stats: %s %d)\n\n",
		propTitle(rep.Prop), rep.Season, rep.Week, rep.Stats.Strategy, rep.Stats.Season)
	if err := report.Render(out, rep.Rows); err != nil {
		return err
	}
	if err := report.RenderWarnings(cmd.ErrOrStderr(), rep.Warnings); err != nil {
		return err
	}

	if csvPath != "" {
		if err := report.ExportCSV(csvPath, rep.Rows); err != nil {
			return err
		}
	}
	if htmlPath != "" {
		page := report.Page{
			Title:       fmt.Sprintf("%s edges, %d week %d", propTitle(rep.Prop), rep.Season, rep.Week),
			GeneratedAt: rep.GeneratedAt,
			Warnings:    rep.Warnings,
			Rows:        rep.Rows,
		}
		if err := report.ExportHTML(htmlPath, page); err != nil {
			return err
		}
	}
	return nil
}

func propTitle(p models.Prop) string {
	if p == models.PropOnePlusSack {
		return "1+ sack"
	}
	return "2+ TD"
}
