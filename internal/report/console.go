// Package report renders priced recommendations and evaluation summaries
// for the terminal and for export.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/yourusername/gamblebot/internal/evaluation"
	"github.com/yourusername/gamblebot/internal/models"
)

var consoleHeader = []string{"TEAM", "PLAYER", "POS", "BOOK", "ODDS", "MODEL", "IMPLIED", "EDGE", "STAKE"}

// Percent formats a probability with one decimal place.
func Percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// American formats a price with its sign.
func American(a int) string {
	if a > 0 {
		return fmt.Sprintf("+%d", a)
	}
	return fmt.Sprintf("%d", a)
}

// Render writes rows as an aligned table.
func Render(w io.Writer, rows []models.EdgeRecord) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No priced players.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(consoleHeader, "\t"))
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Team, r.Player, r.Position, r.Book, American(r.American),
			Percent(r.ModelProb), Percent(r.ImpliedProb), Percent(r.Edge), r.StakeAmount.StringFixed(2))
	}
	return tw.Flush()
}

// RenderWarnings lists degradations that happened during a run.
func RenderWarnings(w io.Writer, warnings []string) error {
	for _, msg := range warnings {
		if _, err := fmt.Fprintf(w, "warning: %s\n", msg); err != nil {
			return err
		}
	}
	return nil
}

// RenderSummary writes an evaluation summary.
func RenderSummary(w io.Writer, prop models.Prop, season, week int, s evaluation.Summary) error {
	if s.N == 0 {
		_, err := fmt.Fprintf(w, "No logged %s predictions for %d week %d.\n", prop, season, week)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Evaluation\t%s %d week %d\n", prop, season, week)
	fmt.Fprintf(tw, "Predictions\t%d\n", s.N)
	fmt.Fprintf(tw, "Hits\t%d (%s)\n", s.Hits, Percent(s.HitRate))
	fmt.Fprintf(tw, "Staked\t%s\n", s.TotalStake.StringFixed(2))
	fmt.Fprintf(tw, "Profit\t%s\n", s.TotalProfit.StringFixed(2))
	fmt.Fprintf(tw, "ROI\t%s\n", Percent(s.ROI))
	fmt.Fprintf(tw, "Brier\t%.4f\n", s.Brier)
	return tw.Flush()
}

// RenderScored writes per-prediction outcomes.
func RenderScored(w io.Writer, rows []evaluation.Scored) error {
	if len(rows) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYER\tBOOK\tODDS\tMODEL\tACTUAL\tHIT\tSTAKE\tPROFIT")
	for _, r := range rows {
		hit := "no"
		if r.Hit {
			hit = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%g\t%s\t%s\t%s\n",
			r.Player, r.Book, American(r.American), Percent(r.ModelProb), r.Actual, hit,
			r.StakeAmount.StringFixed(2), r.Profit.StringFixed(2))
	}
	return tw.Flush()
}
