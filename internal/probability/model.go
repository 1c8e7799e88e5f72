package probability

import (
	"github.com/yourusername/gamblebot/internal/models"
)

// Model holds the prior strengths and plausibility bands of both props.
type Model struct {
	PseudoGames    float64
	PseudoSnaps    float64
	TDPriorFloor   float64
	TDPriorCeil    float64
	SackPriorFloor float64
	TouchdownCap   float64
	SackCap        float64
}

// DefaultModel returns the calibrated constants.
func DefaultModel() Model {
	return Model{
		PseudoGames:    8,
		PseudoSnaps:    200,
		TDPriorFloor:   0.002,
		TDPriorCeil:    0.05,
		SackPriorFloor: 0.02,
		TouchdownCap:   models.PropTwoPlusTD.Cap(),
		SackCap:        models.PropOnePlusSack.Cap(),
	}
}

// TouchdownPrior is the league rate of two-touchdown games, clamped to the
// configured band.
func (m Model) TouchdownPrior(feats []models.PlayerFeatures) float64 {
	var hits, games int
	for _, f := range feats {
		hits += f.Hits
		games += f.Games
	}
	p0 := 0.0
	if games > 0 {
		p0 = float64(hits) / float64(games)
	}
	if p0 < m.TDPriorFloor {
		return m.TDPriorFloor
	}
	if p0 > m.TDPriorCeil {
		return m.TDPriorCeil
	}
	return p0
}

// Touchdowns scores every player for 2+ touchdowns.
func (m Model) Touchdowns(feats []models.PlayerFeatures) []models.ModelProbability {
	p0 := m.TouchdownPrior(feats)
	out := make([]models.ModelProbability, 0, len(feats))
	for _, f := range feats {
		raw := AtLeastTwo(f.MeanRate)
		w := Weight(float64(f.Games), m.PseudoGames)
		out = append(out, models.ModelProbability{
			PlayerFeatures: f,
			Prop:           models.PropTwoPlusTD,
			Lambda:         sanitizeRate(f.MeanRate),
			RawProbability: raw,
			Prior:          p0,
			Weight:         w,
			Probability:    Clip(Shrink(raw, p0, w), m.TouchdownCap),
		})
	}
	return out
}

// SackRate is the expected sacks per game implied by a defender's pass rush
// and the opponent's protection.
func SackRate(f models.PlayerFeatures) float64 {
	snaps := f.SnapsPerGame()
	if snaps < 1 {
		snaps = 1
	}
	pressureRate := f.PressuresPerGame / snaps
	return sanitizeRate(pressureRate * f.WinRate * f.OppDropbacksPerGame * f.OppSackRate)
}

// SackPrior is the mean raw probability across defenders, floored so a feed
// without pass-rush detail still prices every defender above zero.
func (m Model) SackPrior(raws []float64) float64 {
	var sum float64
	for _, r := range raws {
		sum += r
	}
	p0 := 0.0
	if len(raws) > 0 {
		p0 = sum / float64(len(raws))
	}
	if p0 < m.SackPriorFloor {
		return m.SackPriorFloor
	}
	return p0
}

// Sacks scores every defender for 1+ sack.
func (m Model) Sacks(feats []models.PlayerFeatures) []models.ModelProbability {
	raws := make([]float64, len(feats))
	lambdas := make([]float64, len(feats))
	for i, f := range feats {
		lambdas[i] = SackRate(f)
		raws[i] = AtLeastOne(lambdas[i])
	}
	p0 := m.SackPrior(raws)

	out := make([]models.ModelProbability, 0, len(feats))
	for i, f := range feats {
		w := Weight(f.Snaps, m.PseudoSnaps)
		out = append(out, models.ModelProbability{
			PlayerFeatures: f,
			Prop:           models.PropOnePlusSack,
			Lambda:         lambdas[i],
			RawProbability: raws[i],
			Prior:          p0,
			Weight:         w,
			Probability:    Clip(Shrink(raws[i], p0, w), m.SackCap),
		})
	}
	return out
}

// Score dispatches on prop.
func (m Model) Score(prop models.Prop, feats []models.PlayerFeatures) []models.ModelProbability {
	if prop == models.PropOnePlusSack {
		return m.Sacks(feats)
	}
	return m.Touchdowns(feats)
}
