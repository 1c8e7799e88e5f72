package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/gamblebot/internal/report"
	"github.com/yourusername/gamblebot/internal/staking"
	"github.com/yourusername/gamblebot/internal/table"
)

func newStakeCmd() *cobra.Command {
	var (
		kellyFraction, unitSize float64
		top                     int
		csvPath, htmlPath       string
	)
	cmd := &cobra.Command{
		Use:   "stake <file.csv>",
		Short: "Size stakes for an externally produced probability table",
		Long: `Reads a CSV with a player, a model probability and decimal or American
odds, prices each row and prints them ranked by edge.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kelly, unit := cfg.Staking.KellyFraction, cfg.Staking.UnitSize
			if cmd.Flags().Changed("kelly-fraction") {
				kelly = kellyFraction
			}
			if cmd.Flags().Changed("unit-size") {
				unit = unitSize
			}
			if top < 0 {
				top = cfg.Staking.Top
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			t, err := table.ReadCSV(f)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			records, err := staking.FromTable(t, stakingParams(kelly, unit))
			if err != nil {
				return err
			}
			records = staking.Rank(records, top)
			log.WithField("rows", len(records)).Debug("Priced external table")

			if err := report.Render(cmd.OutOrStdout(), records); err != nil {
				return err
			}
			if csvPath != "" {
				if err := report.ExportCSV(csvPath, records); err != nil {
					return err
				}
			}
			if htmlPath != "" {
				return report.ExportHTML(htmlPath, report.Page{Title: "Stakes for " + args[0], Rows: records})
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&kellyFraction, "kelly-fraction", 0, "Fraction of full Kelly to stake (default from config)")
	cmd.Flags().Float64Var(&unitSize, "unit-size", 0, "Bankroll unit (default from config)")
	cmd.Flags().IntVar(&top, "top", -1, "Number of rows to keep (default from config, 0 keeps all)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Also write the result to this CSV file")
	cmd.Flags().StringVar(&htmlPath, "html", "", "Also write the result to this HTML file")
	return cmd
}
