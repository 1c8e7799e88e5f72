package filters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gamblebot/internal/models"
	"github.com/yourusername/gamblebot/internal/table"
)

func prob(name, pos string, usage float64) models.ModelProbability {
	return models.ModelProbability{PlayerFeatures: models.PlayerFeatures{Player: name, Position: pos, RecentUsage: usage}}
}

func names(probs []models.ModelProbability) []string {
	out := make([]string, 0, len(probs))
	for _, p := range probs {
		out = append(out, p.Player)
	}
	return out
}

func TestExcluded(t *testing.T) {
	for _, s := range []string{"Out", " doubtful ", "IR", "Injured Reserve", "questionable - inactive", "NFI", "suspended", "PUP"} {
		assert.True(t, Excluded(s), s)
	}
	for _, s := range []string{"questionable", "probable", "", "healthy"} {
		assert.False(t, Excluded(s), s)
	}
}

func TestApplyPositions(t *testing.T) {
	probs := []models.ModelProbability{
		prob("Henry", "rb", 20), prob("Allen", "QB", 10), prob("Kelce", "TE", 7), prob("Unknown", "", 9),
	}

	got := Apply(probs, Options{Positions: []string{"RB", "te"}}, nil)
	assert.Equal(t, []string{"Henry", "Kelce", "Unknown"}, names(got))

	got = Apply(probs, Options{Positions: []string{"RB,WR"}}, nil)
	assert.Equal(t, []string{"Henry", "Unknown"}, names(got))

	assert.Len(t, Apply(probs, Options{}, nil), 4)
}

func TestApplyMinUsage(t *testing.T) {
	probs := []models.ModelProbability{prob("A", "RB", 2.9), prob("B", "RB", 3), prob("C", "RB", 10)}
	got := Apply(probs, Options{MinUsage: DefaultMinUsage}, nil)
	assert.Equal(t, []string{"B", "C"}, names(got))
}

func TestApplyInjuries(t *testing.T) {
	probs := []models.ModelProbability{prob("A.J. Brown", "WR", 8), prob("Derrick Henry", "RB", 20), prob("Travis Kelce", "TE", 7)}
	injuries := []models.InjuryStatus{
		{Player: "AJ Brown", Status: "out"},
		{Player: "Travis Kelce", Status: "questionable"},
	}

	got := Apply(probs, Options{ExcludeInjured: true}, injuries)
	assert.Equal(t, []string{"Derrick Henry", "Travis Kelce"}, names(got))

	got = Apply(probs, Options{ExcludeInjured: false}, injuries)
	assert.Len(t, got, 3)
}

func TestParseInjuries(t *testing.T) {
	doc := `season,week,full_name,report_status,practice_status
2024,3,Derrick Henry,Questionable,Limited
2024,3,Derrick Henry,Out,DNP
2024,3,Travis Kelce,,Full
2024,4,Travis Kelce,Out,DNP
2024,3,Zay Flowers,Doubtful,DNP
`
	tbl, err := table.ReadCSV(strings.NewReader(doc))
	require.NoError(t, err)

	got := ParseInjuries(tbl, 3)
	require.Len(t, got, 3)
	assert.Equal(t, models.InjuryStatus{Player: "Derrick Henry", Status: "out"}, got[0])
	assert.Equal(t, models.InjuryStatus{Player: "Travis Kelce", Status: ""}, got[1])
	assert.Equal(t, "doubtful", got[2].Status)
}

func TestParseInjuriesPrefersGSISStatus(t *testing.T) {
	tbl, err := table.ReadCSV(strings.NewReader("player_name,gsis_status,report_status\nX,Inactive,Questionable\n"))
	require.NoError(t, err)

	got := ParseInjuries(tbl, 1)
	require.Len(t, got, 1)
	assert.Equal(t, "inactive", got[0].Status, "no week column keeps every row")
}

func TestParseInjuriesMissingColumns(t *testing.T) {
	tbl, err := table.ReadCSV(strings.NewReader("name,status\nX,Out\n"))
	require.NoError(t, err)
	assert.Empty(t, ParseInjuries(tbl, 1))

	tbl, err = table.ReadCSV(strings.NewReader("player,notes\nX,hamstring\n"))
	require.NoError(t, err)
	assert.Empty(t, ParseInjuries(tbl, 1))

	assert.Empty(t, ParseInjuries(nil, 1))
}
