package probability

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gamblebot/internal/models"
)

func TestAtLeastTwo(t *testing.T) {
	assert.Equal(t, 0.0, AtLeastTwo(0))
	assert.InDelta(t, 1-2*math.Exp(-1), AtLeastTwo(1), 1e-12)
	assert.InDelta(t, 0.264241, AtLeastTwo(1), 1e-6)
	assert.Equal(t, 0.0, AtLeastTwo(-3), "negative rates are treated as zero")
	assert.Equal(t, 0.0, AtLeastTwo(math.NaN()))

	prev := -1.0
	for lambda := 0.0; lambda <= 10; lambda += 0.05 {
		p := AtLeastTwo(lambda)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.Less(t, p, 1.0)
		assert.Greater(t, p, prev, "monotone at lambda=%v", lambda)
		prev = p
	}
}

func TestAtLeastOne(t *testing.T) {
	assert.Equal(t, 0.0, AtLeastOne(0))
	assert.InDelta(t, 1-math.Exp(-0.5), AtLeastOne(0.5), 1e-12)
	assert.Greater(t, AtLeastOne(0.6), AtLeastOne(0.5))
}

func TestWeight(t *testing.T) {
	assert.Equal(t, 0.0, Weight(0, 8))
	assert.InDelta(t, 0.5, Weight(8, 8), 1e-12)
	assert.Equal(t, 1.0, Weight(3, 0))
}

func TestTouchdownPriorClamp(t *testing.T) {
	m := DefaultModel()

	assert.Equal(t, 0.002, m.TouchdownPrior(nil))
	assert.Equal(t, 0.002, m.TouchdownPrior([]models.PlayerFeatures{{Games: 100, Hits: 0}}))
	assert.Equal(t, 0.05, m.TouchdownPrior([]models.PlayerFeatures{{Games: 10, Hits: 5}}))
	assert.InDelta(t, 0.03, m.TouchdownPrior([]models.PlayerFeatures{
		{Games: 50, Hits: 2}, {Games: 50, Hits: 1},
	}), 1e-12)
}

func TestTouchdownsShrinkage(t *testing.T) {
	m := DefaultModel()
	feats := []models.PlayerFeatures{
		{Player: "A", Games: 10, Hits: 1, MeanRate: 1.0},
		{Player: "B", Games: 10, Hits: 0, MeanRate: 0.2},
	}
	probs := m.Touchdowns(feats)
	require.Len(t, probs, 2)

	p0 := m.TouchdownPrior(feats)
	assert.InDelta(t, 0.05, p0, 1e-12)

	a := probs[0]
	w := 10.0 / 18.0
	assert.Equal(t, models.PropTwoPlusTD, a.Prop)
	assert.InDelta(t, w, a.Weight, 1e-12)
	assert.InDelta(t, w*AtLeastTwo(1)+(1-w)*p0, a.Probability, 1e-12)
	assert.Greater(t, probs[0].Probability, probs[1].Probability)
}

func TestTouchdownsConvergence(t *testing.T) {
	m := DefaultModel()
	prior := []models.PlayerFeatures{{Games: 1000, Hits: 20}}

	huge := m.Touchdowns(append(prior, models.PlayerFeatures{Games: 1_000_000, MeanRate: 0.5}))[1]
	assert.InDelta(t, AtLeastTwo(0.5), huge.Probability, 1e-4, "large samples trust the Poisson estimate")

	none := m.Touchdowns(append(prior, models.PlayerFeatures{Games: 0, MeanRate: 3}))[1]
	assert.InDelta(t, none.Prior, none.Probability, 1e-12, "empty samples fall back to the prior")
}

func TestTouchdownsCap(t *testing.T) {
	m := DefaultModel()
	probs := m.Touchdowns([]models.PlayerFeatures{{Games: 100, Hits: 3, MeanRate: 4}})
	require.Len(t, probs, 1)
	assert.Equal(t, 0.30, probs[0].Probability)

	for _, lambda := range []float64{0, 0.01, 0.3, 1, 2, 8} {
		p := m.Touchdowns([]models.PlayerFeatures{{Games: 12, Hits: 1, MeanRate: lambda}})[0]
		assert.GreaterOrEqual(t, p.Probability, 0.0)
		assert.LessOrEqual(t, p.Probability, models.PropTwoPlusTD.Cap())
		assert.Greater(t, p.Probability, 0.0, "bounded away from zero by the prior")
	}
}

func TestSackRate(t *testing.T) {
	f := models.PlayerFeatures{
		Games:               4,
		Snaps:               120,
		PressuresPerGame:    6,
		WinRate:             0.2,
		OppDropbacksPerGame: 35,
		OppSackRate:         0.07,
	}
	// 6 pressures over 30 snaps per game
	assert.InDelta(t, 0.2*0.2*35*0.07, SackRate(f), 1e-12)

	f.Snaps = 0
	assert.InDelta(t, 6*0.2*35*0.07, SackRate(f), 1e-12, "snaps floor at one")
}

func TestSacks(t *testing.T) {
	m := DefaultModel()
	feats := []models.PlayerFeatures{
		{Player: "Edge", Games: 10, Snaps: 350, PressuresPerGame: 6, WinRate: 0.25, OppDropbacksPerGame: 38, OppSackRate: 0.08},
		{Player: "Backup", Games: 3, Snaps: 20, PressuresPerGame: 1, WinRate: 0.1, OppDropbacksPerGame: 35, OppSackRate: 0.07},
	}
	probs := m.Sacks(feats)
	require.Len(t, probs, 2)

	p0 := (probs[0].RawProbability + probs[1].RawProbability) / 2
	for _, p := range probs {
		assert.Equal(t, models.PropOnePlusSack, p.Prop)
		assert.InDelta(t, p0, p.Prior, 1e-12)
		assert.LessOrEqual(t, p.Probability, 0.95)
	}
	assert.InDelta(t, 350.0/550.0, probs[0].Weight, 1e-12)
	assert.InDelta(t, 20.0/220.0, probs[1].Weight, 1e-12)
	assert.Greater(t, probs[0].Probability, probs[1].Probability)
}

func TestSacksWithoutPassRushDetail(t *testing.T) {
	m := DefaultModel()
	// Rows rebuilt from play-by-play carry no win rate, so every lambda is zero.
	feats := []models.PlayerFeatures{
		{Player: "A", Games: 6, Snaps: 180, PressuresPerGame: 3, OppDropbacksPerGame: 35, OppSackRate: 0.07},
		{Player: "B", Games: 6, Snaps: 5000, PressuresPerGame: 2, OppDropbacksPerGame: 35, OppSackRate: 0.07},
		{Player: "C"},
	}
	for _, p := range m.Sacks(feats) {
		assert.Zero(t, p.Lambda, p.Player)
		assert.Equal(t, m.SackPriorFloor, p.Prior, p.Player)
		assert.Greater(t, p.Probability, 0.0, p.Player)
		assert.Less(t, p.Probability, 1.0, p.Player)
	}
}

func TestSackPriorFloor(t *testing.T) {
	m := DefaultModel()
	assert.Equal(t, 0.02, m.SackPrior(nil))
	assert.Equal(t, 0.02, m.SackPrior([]float64{0, 0.01}))
	assert.InDelta(t, 0.2, m.SackPrior([]float64{0.1, 0.3}), 1e-12)
}

func TestScoreDispatch(t *testing.T) {
	m := DefaultModel()
	feats := []models.PlayerFeatures{{Games: 5, MeanRate: 0.5}}
	assert.Equal(t, models.PropOnePlusSack, m.Score(models.PropOnePlusSack, feats)[0].Prop)
	assert.Equal(t, models.PropTwoPlusTD, m.Score(models.PropTwoPlusTD, feats)[0].Prop)
}
