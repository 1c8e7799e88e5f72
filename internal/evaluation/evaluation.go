// Package evaluation scores logged predictions against what actually
// happened in the games.
package evaluation

import (
	"github.com/shopspring/decimal"
	"github.com/yourusername/gamblebot/internal/identity"
	"github.com/yourusername/gamblebot/internal/models"
)

// Scored is a logged prediction with its realised outcome.
type Scored struct {
	models.PredictionLogEntry
	Actual float64         `json:"actual"`
	Hit    bool            `json:"hit"`
	Profit decimal.Decimal `json:"profit"`
	Brier  float64         `json:"brier"`
}

// Summary aggregates scored predictions.
type Summary struct {
	N           int             `json:"n"`
	Hits        int             `json:"hits"`
	HitRate     float64         `json:"hit_rate"`
	TotalStake  decimal.Decimal `json:"total_stake"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	ROI         float64         `json:"roi"`
	Brier       float64         `json:"brier"`
}

// Outcomes sums each player's realised count for prop, keyed by normalised
// name: touchdowns for touchdown props, sacks for sack props.
func Outcomes(stats []models.PlayerWeekStat, prop models.Prop, normalize identity.Normalizer) map[string]float64 {
	normalize = identity.Or(normalize)
	out := make(map[string]float64, len(stats))
	for _, s := range stats {
		key := normalize(s.Player)
		if key == "" {
			continue
		}
		if prop == models.PropOnePlusSack {
			out[key] += s.Sacks
		} else {
			out[key] += float64(s.Touchdowns())
		}
	}
	return out
}

// Score joins entries with realised counts. Players missing from outcomes
// scored zero.
func Score(entries []models.PredictionLogEntry, outcomes map[string]float64, prop models.Prop, normalize identity.Normalizer) ([]Scored, Summary) {
	normalize = identity.Or(normalize)
	threshold := float64(prop.Threshold())

	scored := make([]Scored, 0, len(entries))
	for _, e := range entries {
		actual := outcomes[normalize(e.Player)]
		hit := actual >= threshold

		profit := e.StakeAmount.Neg()
		if hit {
			profit = e.StakeAmount.Mul(decimal.NewFromFloat(e.Decimal).Sub(decimal.NewFromInt(1)))
		}

		outcome := 0.0
		if hit {
			outcome = 1
		}
		diff := e.ModelProb - outcome

		scored = append(scored, Scored{
			PredictionLogEntry: e,
			Actual:             actual,
			Hit:                hit,
			Profit:             profit.Round(2),
			Brier:              diff * diff,
		})
	}
	return scored, Summarize(scored)
}

// Summarize aggregates scored rows. ROI is zero when nothing was staked.
func Summarize(scored []Scored) Summary {
	s := Summary{N: len(scored), TotalStake: decimal.Zero, TotalProfit: decimal.Zero}
	if s.N == 0 {
		return s
	}

	var brier float64
	for _, r := range scored {
		if r.Hit {
			s.Hits++
		}
		s.TotalStake = s.TotalStake.Add(r.StakeAmount)
		s.TotalProfit = s.TotalProfit.Add(r.Profit)
		brier += r.Brier
	}

	s.HitRate = float64(s.Hits) / float64(s.N)
	s.Brier = brier / float64(s.N)
	if s.TotalStake.IsPositive() {
		s.ROI = s.TotalProfit.Div(s.TotalStake).InexactFloat64()
	}
	return s
}
