package staking

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gamblebot/internal/models"
	"github.com/yourusername/gamblebot/internal/odds"
	"github.com/yourusername/gamblebot/internal/probability"
	"github.com/yourusername/gamblebot/internal/table"
)

func quote(player string, american int) models.OddsQuote {
	return models.OddsQuote{
		Player:      player,
		Book:        "draftkings",
		American:    american,
		ImpliedProb: odds.AmericanToImplied(float64(american)),
		Market:      odds.MarketTDsOver,
	}
}

func TestKelly(t *testing.T) {
	assert.InDelta(t, 0.2, Kelly(0.6, 2.0), 1e-9)
	assert.InDelta(t, -0.2, Kelly(0.4, 2.0), 1e-9)
	assert.Equal(t, 0.0, Kelly(0.5, 1.0), "no payout")
	assert.Equal(t, 0.0, Kelly(math.NaN(), 2.0))
	assert.Less(t, Kelly(0, 3.0), 0.0, "p is clamped, not rejected")
}

func TestStakeNeverNegative(t *testing.T) {
	params := DefaultParams()
	for _, american := range []int{-500, -200, -110, 100, 150, 400, 1200} {
		implied := odds.AmericanToImplied(float64(american))
		for _, p := range []float64{0, implied / 2, implied} {
			rec := Price(models.ModelProbability{Probability: p}, quote("x", american), params)
			assert.Equal(t, 0.0, rec.StakeFraction, "p=%v american=%v", p, american)
			assert.True(t, rec.StakeAmount.IsZero())
		}
	}
}

func TestPrice(t *testing.T) {
	line := 1.5
	q := quote("Travis Kelce", 150)
	q.Line = &line

	rec := Price(models.ModelProbability{
		PlayerFeatures: models.PlayerFeatures{Player: "Travis Kelce", Team: "KC", Position: "TE", RecentUsage: 7},
		Probability:    0.5,
	}, q, Params{KellyFraction: 0.5, UnitSize: decimal.NewFromInt(200)})

	assert.Equal(t, 2.5, rec.Decimal)
	assert.InDelta(t, 0.4, rec.ImpliedProb, 1e-12)
	assert.InDelta(t, 0.1, rec.Edge, 1e-12)
	assert.InDelta(t, 1.0/6.0, rec.KellyFull, 1e-9)
	assert.InDelta(t, 1.0/12.0, rec.StakeFraction, 1e-9)
	assert.Equal(t, "16.67", rec.StakeAmount.StringFixed(2))
	assert.Equal(t, &line, rec.Line)
	assert.Equal(t, 7.0, rec.RecentUsage)
	assert.True(t, rec.HasPositiveEdge())
}

func TestTwoPlayerScenario(t *testing.T) {
	feats := []models.PlayerFeatures{
		{Player: "Player A", Team: "KC", Position: "RB", Games: 10, MeanRate: 1.0},
		{Player: "Player B", Team: "BUF", Position: "WR", Games: 10, MeanRate: 0.2},
	}
	probs := probability.DefaultModel().Touchdowns(feats)
	require.Len(t, probs, 2)
	assert.InDelta(t, 0.264241, probs[0].RawProbability, 1e-6)
	assert.Less(t, probs[0].Probability, probs[0].RawProbability, "shrunk toward the prior")

	quotes := []models.OddsQuote{quote("player a", 800), quote("PLAYER B", -500)}
	recs := Rank(Join(probs, quotes, nil, DefaultParams()), 0)
	require.Len(t, recs, 2)

	a, b := recs[0], recs[1]
	assert.Equal(t, "Player A", a.Player)
	assert.Greater(t, a.Edge, 0.0)
	assert.Greater(t, a.StakeFraction, 0.0)
	assert.True(t, a.StakeAmount.IsPositive())

	assert.Equal(t, "Player B", b.Player)
	assert.Less(t, b.Edge, 0.0)
	assert.Equal(t, 0.0, b.StakeFraction)
	assert.True(t, b.StakeAmount.IsZero())

	// At +150 the shrunk probability sits well below the 0.4 break-even.
	short := Join(probs[:1], []models.OddsQuote{quote("Player A", 150)}, nil, DefaultParams())
	require.Len(t, short, 1)
	assert.Less(t, short[0].Edge, 0.0)
	assert.Equal(t, 0.0, short[0].StakeFraction)
}

func TestJoinDropsUnmatched(t *testing.T) {
	probs := []models.ModelProbability{
		{PlayerFeatures: models.PlayerFeatures{Player: "A.J. Brown"}, Probability: 0.2},
		{PlayerFeatures: models.PlayerFeatures{Player: "Nobody"}, Probability: 0.2},
	}
	recs := Join(probs, []models.OddsQuote{quote("AJ Brown", 300)}, nil, DefaultParams())
	require.Len(t, recs, 1)
	assert.Equal(t, "A.J. Brown", recs[0].Player)
}

func TestRank(t *testing.T) {
	recs := []models.EdgeRecord{{Player: "a", Edge: 0.01}, {Player: "b", Edge: 0.2}, {Player: "c", Edge: -0.1}, {Player: "d", Edge: 0.05}}

	top := Rank(recs, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].Player)
	assert.Equal(t, "d", top[1].Player)
	assert.Equal(t, "a", recs[0].Player, "input untouched")
	assert.Len(t, Rank(recs, 0), 4)
}

func TestFromTable(t *testing.T) {
	doc := "player,team,p_model,american\nTravis Kelce,KC,0.5,150\nDerrick Henry,BAL,0.1,-200\n"
	tbl, err := table.ReadCSV(strings.NewReader(doc))
	require.NoError(t, err)

	recs, err := FromTable(tbl, DefaultParams())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 150, recs[0].American)
	assert.Equal(t, 2.5, recs[0].Decimal)
	assert.InDelta(t, 0.1, recs[0].Edge, 1e-9)
	assert.Greater(t, recs[0].StakeFraction, 0.0)
	assert.Equal(t, 0.0, recs[1].StakeFraction)
}

func TestFromTablePrefersDecimal(t *testing.T) {
	tbl, err := table.ReadCSV(strings.NewReader("name,prob,decimal,odds\nX,0.3,4.0,150\n"))
	require.NoError(t, err)

	recs, err := FromTable(tbl, DefaultParams())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 4.0, recs[0].Decimal)
	assert.InDelta(t, 0.25, recs[0].ImpliedProb, 1e-12)
}

func TestFromTableMissingColumns(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"no player", "who,p_model,american\nX,0.3,150\n", "player"},
		{"no probability", "player,american\nX,150\n", "probability"},
		{"no odds", "player,p_model\nX,0.3\n", "odds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := table.ReadCSV(strings.NewReader(tt.doc))
			require.NoError(t, err)

			_, err = FromTable(tbl, DefaultParams())
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrMissingColumn))

			var mc *models.MissingColumnError
			require.True(t, errors.As(err, &mc))
			assert.Equal(t, tt.field, mc.Field)
			assert.NotEmpty(t, mc.Tried)
		})
	}
}
