package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gamblebot/internal/evaluation"
	"github.com/yourusername/gamblebot/internal/models"
)

func sampleRows() []models.EdgeRecord {
	line := 1.5
	return []models.EdgeRecord{
		{
			Team: "BAL", Player: "Derrick Henry", Position: "RB", Book: "fanduel", Market: "player_tds_over", Line: &line,
			American: 1200, Decimal: 13, ImpliedProb: 0.0769, ModelProb: 0.128, Edge: 0.0511,
			KellyFull: 0.055, StakeFraction: 0.0138, StakeAmount: decimal.RequireFromString("1.38"),
		},
		{
			Team: "BAL", Player: "Zay <Flowers>", Position: "WR", Book: "draftkings",
			American: -500, Decimal: 1.2, ImpliedProb: 0.8333, ModelProb: 0.04, Edge: -0.7933, StakeAmount: decimal.Zero,
		},
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "+150", American(150))
	assert.Equal(t, "-200", American(-200))
	assert.Equal(t, "12.8%", Percent(0.128))
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleRows()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "TEAM"))
	assert.Contains(t, lines[1], "Derrick Henry")
	assert.Contains(t, lines[1], "+1200")
	assert.Contains(t, lines[1], "12.8%")
	assert.Contains(t, lines[1], "1.38")
	assert.Contains(t, lines[2], "-500")
	assert.Contains(t, lines[2], "0.00")

	buf.Reset()
	require.NoError(t, Render(&buf, nil))
	assert.Equal(t, "No priced players.\n", buf.String())
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	s := evaluation.Summary{
		N: 4, Hits: 1, HitRate: 0.25,
		TotalStake: decimal.NewFromInt(20), TotalProfit: decimal.RequireFromString("-4.5"),
		ROI: -0.225, Brier: 0.1234,
	}
	require.NoError(t, RenderSummary(&buf, models.PropTwoPlusTD, 2024, 3, s))
	out := buf.String()
	assert.Contains(t, out, "two_plus_td 2024 week 3")
	assert.Contains(t, out, "1 (25.0%)")
	assert.Contains(t, out, "-4.50")
	assert.Contains(t, out, "-22.5%")
	assert.Contains(t, out, "0.1234")

	buf.Reset()
	require.NoError(t, RenderSummary(&buf, models.PropOnePlusSack, 2024, 3, evaluation.Summary{}))
	assert.Contains(t, buf.String(), "No logged one_plus_sack predictions")
}

func TestRenderScoredAndWarnings(t *testing.T) {
	var buf bytes.Buffer
	rows := []evaluation.Scored{{
		PredictionLogEntry: models.PredictionLogEntry{EdgeRecord: sampleRows()[0]},
		Actual:             2, Hit: true, Profit: decimal.RequireFromString("16.56"),
	}}
	require.NoError(t, RenderScored(&buf, rows))
	assert.Contains(t, buf.String(), "yes")
	assert.Contains(t, buf.String(), "16.56")

	buf.Reset()
	require.NoError(t, RenderWarnings(&buf, []string{"using prior_seasons"}))
	assert.Equal(t, "warning: using prior_seasons\n", buf.String())
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, CSVColumns, records[0])
	assert.Equal(t, "Derrick Henry", records[1][1])
	assert.Equal(t, "1.5", records[1][6])
	assert.Equal(t, "1200", records[1][7])
	assert.Equal(t, "1.38", records[1][15])
	assert.Equal(t, "", records[2][6])
}

func TestExportHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.html")
	page := Page{
		Title:       "2+ TD edges, 2024 week 3",
		GeneratedAt: time.Date(2024, 9, 19, 12, 0, 0, 0, time.UTC),
		Warnings:    []string{"odds unavailable for 1 event"},
		Rows:        sampleRows(),
	}
	require.NoError(t, ExportHTML(path, page))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)

	assert.Equal(t, page.Title, doc.Find("h1").Text())
	assert.Equal(t, 1, doc.Find("p.warning").Length())
	assert.Equal(t, 9, doc.Find("thead th").Length())

	rows := doc.Find("tbody tr")
	require.Equal(t, 2, rows.Length())
	first := rows.First().Find("td")
	assert.Equal(t, "Derrick Henry", first.Eq(1).Text())
	assert.Equal(t, "+1200", first.Eq(4).Text())
	assert.Equal(t, "1.38", first.Eq(8).Text())
	assert.Equal(t, "Zay <Flowers>", rows.Eq(1).Find("td").Eq(1).Text(), "names are escaped")
}

func TestExportCSVCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "report.csv")
	require.NoError(t, ExportCSV(path, sampleRows()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "team,player"))
}
