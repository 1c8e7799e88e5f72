package odds

import (
	"github.com/yourusername/gamblebot/internal/identity"
	"github.com/yourusername/gamblebot/internal/models"
)

// Quote builds an OddsQuote from a raw outcome. It returns false when the
// outcome has no price, prices the Under side, is not the requested line or
// names no player.
func Quote(prop models.Prop, market string, o Outcome) (models.OddsQuote, bool) {
	price, ok := o.Price()
	if !ok || IsUnder(o) {
		return models.OddsQuote{}, false
	}
	eligible, line := Eligible(prop, market, o)
	if !eligible {
		return models.OddsQuote{}, false
	}
	player, ok := PlayerName(o)
	if !ok {
		return models.OddsQuote{}, false
	}
	return models.OddsQuote{
		Player:      player,
		American:    int(price),
		ImpliedProb: AmericanToImplied(price),
		Line:        line,
		Market:      market,
	}, true
}

// Normalize keeps one quote per player: the one with the lowest implied
// probability, i.e. the best price for the bettor. Ties keep the earlier
// quote. Output follows the first appearance of each player.
func Normalize(quotes []models.OddsQuote, normalize identity.Normalizer) []models.OddsQuote {
	normalize = identity.Or(normalize)

	best := make(map[string]int, len(quotes))
	var out []models.OddsQuote
	for _, q := range quotes {
		key := normalize(q.Player)
		if key == "" {
			continue
		}
		i, seen := best[key]
		if !seen {
			best[key] = len(out)
			out = append(out, q)
			continue
		}
		if q.ImpliedProb < out[i].ImpliedProb {
			out[i] = q
		}
	}
	return out
}
