package staking

import (
	"sort"

	"github.com/yourusername/gamblebot/internal/identity"
	"github.com/yourusername/gamblebot/internal/models"
	"github.com/yourusername/gamblebot/internal/odds"
)

// Price builds the edge record for one player and quote.
func Price(prob models.ModelProbability, quote models.OddsQuote, params Params) models.EdgeRecord {
	dec := odds.AmericanToDecimal(float64(quote.American))
	implied := quote.ImpliedProb
	if implied == 0 {
		implied = odds.AmericanToImplied(float64(quote.American))
	}

	rec := models.EdgeRecord{
		PlayerID:    prob.PlayerID,
		Player:      prob.Player,
		Team:        prob.Team,
		Position:    prob.Position,
		Book:        quote.Book,
		Market:      quote.Market,
		Line:        quote.Line,
		American:    quote.American,
		Decimal:     dec,
		ImpliedProb: implied,
		ModelProb:   prob.Probability,
		RecentUsage: prob.RecentUsage,
		Edge:        prob.Probability - implied,
	}
	fillStake(&rec, params)
	return rec
}

// fillStake sizes a record. A non-positive edge never stakes, even when
// rounding leaves Kelly a hair above zero.
func fillStake(rec *models.EdgeRecord, params Params) {
	rec.KellyFull = Kelly(rec.ModelProb, rec.Decimal)
	rec.StakeFraction = 0
	if rec.Edge > 0 {
		rec.StakeFraction = StakeFraction(rec.KellyFull, params.KellyFraction)
	}
	rec.StakeAmount = StakeAmount(rec.StakeFraction, params.UnitSize)
}

// Join inner-joins probabilities and quotes on the normalised player name.
// Quotes should already be deduplicated; when they are not, the last quote
// for a player wins.
func Join(probs []models.ModelProbability, quotes []models.OddsQuote, normalize identity.Normalizer, params Params) []models.EdgeRecord {
	normalize = identity.Or(normalize)

	byName := make(map[string]models.OddsQuote, len(quotes))
	for _, q := range quotes {
		if key := normalize(q.Player); key != "" {
			byName[key] = q
		}
	}

	out := make([]models.EdgeRecord, 0, len(probs))
	for _, p := range probs {
		q, ok := byName[normalize(p.Player)]
		if !ok {
			continue
		}
		out = append(out, Price(p, q, params))
	}
	return out
}

// Rank orders records by edge, best first, and keeps the top n. A
// non-positive n keeps everything.
func Rank(records []models.EdgeRecord, n int) []models.EdgeRecord {
	out := append([]models.EdgeRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Edge > out[j].Edge
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
