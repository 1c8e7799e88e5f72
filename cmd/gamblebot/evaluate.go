package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yourusername/gamblebot/internal/evaluation"
	"github.com/yourusername/gamblebot/internal/logger"
	"github.com/yourusername/gamblebot/internal/models"
	"github.com/yourusername/gamblebot/internal/report"
	"github.com/yourusername/gamblebot/internal/table"
)

func newEvaluateCmd() *cobra.Command {
	var (
		season, week int
		prop         string
		detail       bool
	)
	cmd := &cobra.Command{
		Use:     "evaluate",
		Short:   "Score a week's logged predictions against actual results",
		Example: "  gamblebot evaluate --season 2024 --week 3 --prop td",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := models.ParseProp(prop)
			if err != nil {
				return err
			}
			return runEvaluate(cmd, season, week, p, detail)
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "Season year")
	cmd.Flags().IntVar(&week, "week", 0, "Week number")
	cmd.Flags().StringVar(&prop, "prop", "td", "Prop to score: td or sack")
	cmd.Flags().BoolVar(&detail, "detail", false, "Print every scored prediction")
	_ = cmd.MarkFlagRequired("season")
	_ = cmd.MarkFlagRequired("week")
	return cmd
}

func runEvaluate(cmd *cobra.Command, season, week int, prop models.Prop, detail bool) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	feed := a.sources.NFLVerse
	outcomes := func(ctx context.Context, season int, prop models.Prop) (*table.Table, error) {
		if prop == models.PropOnePlusSack {
			return feed.Defense(ctx, season)
		}
		return feed.Weekly(ctx, season)
	}

	ev := evaluation.NewEvaluator(a.store, outcomes, nil, logger.NewRunLogger(log))
	res, err := ev.Evaluate(ctx, season, week, prop)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := report.RenderSummary(out, prop, season, week, res.Summary); err != nil {
		return err
	}
	if detail {
		return report.RenderScored(out, res.Rows)
	}
	return nil
}
