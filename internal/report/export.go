package report

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/yourusername/gamblebot/internal/models"
)

// CSVColumns is the export layout.
var CSVColumns = []string{
	"team", "player", "player_id", "position", "book", "market", "line", "american", "decimal",
	"implied_prob", "model_prob", "recent_usage", "edge", "kelly_full", "stake_fraction", "stake_amount",
}

// WriteCSV writes rows with a header.
func WriteCSV(w io.Writer, rows []models.EdgeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVColumns); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
	for _, r := range rows {
		line := ""
		if r.Line != nil {
			line = strconv.FormatFloat(*r.Line, 'f', -1, 64)
		}
		if err := cw.Write([]string{
			r.Team, r.Player, r.PlayerID, r.Position, r.Book, r.Market, line,
			strconv.Itoa(r.American), f(r.Decimal), f(r.ImpliedProb), f(r.ModelProb), f(r.RecentUsage),
			f(r.Edge), f(r.KellyFull), f(r.StakeFraction), r.StakeAmount.StringFixed(2),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Page is the data behind an HTML export.
type Page struct {
	Title       string
	GeneratedAt time.Time
	Warnings    []string
	Rows        []models.EdgeRecord
}

var pageTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct":      Percent,
	"american": American,
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{- if not .GeneratedAt.IsZero}}
<p class="generated">Generated {{.GeneratedAt.Format "2006-01-02 15:04 MST"}}</p>
{{- end}}
{{- range .Warnings}}
<p class="warning">{{.}}</p>
{{- end}}
<table>
<thead><tr><th>Team</th><th>Player</th><th>Position</th><th>Book</th><th>Odds</th><th>Model</th><th>Implied</th><th>Edge</th><th>Stake</th></tr></thead>
<tbody>
{{- range .Rows}}
<tr><td>{{.Team}}</td><td>{{.Player}}</td><td>{{.Position}}</td><td>{{.Book}}</td><td>{{american .American}}</td><td>{{pct .ModelProb}}</td><td>{{pct .ImpliedProb}}</td><td>{{pct .Edge}}</td><td>{{.StakeAmount.StringFixed 2}}</td></tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`))

// WriteHTML renders page as a standalone document.
func WriteHTML(w io.Writer, page Page) error {
	return pageTemplate.Execute(w, page)
}

// ExportCSV writes rows to path, creating parent directories.
func ExportCSV(path string, rows []models.EdgeRecord) error {
	return writeFile(path, func(w io.Writer) error { return WriteCSV(w, rows) })
}

// ExportHTML writes page to path, creating parent directories.
func ExportHTML(path string, page Page) error {
	return writeFile(path, func(w io.Writer) error { return WriteHTML(w, page) })
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
