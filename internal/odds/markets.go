package odds

import (
	"math"
	"strings"

	"github.com/yourusername/gamblebot/internal/models"
)

// Candidate markets per prop, in the order they are tried for each event.
const (
	MarketTDsOver      = "player_tds_over"
	MarketTDsAlternate = "player_rush_reception_tds_alternate"
	MarketSacksOver    = "player_sacks_over"
	MarketSacks        = "player_sacks"
)

// Markets returns the candidate market keys for prop.
func Markets(prop models.Prop) []string {
	if prop == models.PropOnePlusSack {
		return []string{MarketSacksOver, MarketSacks}
	}
	return []string{MarketTDsOver, MarketTDsAlternate}
}

// MarketMatches reports whether a bookmaker market key belongs to the
// requested candidate market. Sack books use several key spellings.
func MarketMatches(prop models.Prop, requested, key string) bool {
	if prop == models.PropOnePlusSack {
		return strings.Contains(key, "sack")
	}
	return key == requested
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// TwoPlusTD reports whether an outcome prices exactly the 2+ touchdown line,
// returning the line when one is present. Over markets accept 1.5 <= N < 2.5;
// the alternate market accepts N within 0.01 of 2.0.
func TwoPlusTD(market string, o Outcome) (bool, *float64) {
	point, ok := o.Point()
	if ok {
		line := point
		if market == MarketTDsOver {
			return line >= 1.5 && line < 2.5, &line
		}
		return math.Abs(line-2.0) < 0.01, &line
	}

	desc := o.descriptionText()
	if market == MarketTDsOver {
		return containsAny(desc, "1.5", "2+", "two or more"), nil
	}
	return containsAny(desc, "2+", "2 or more", "two or more"), nil
}

// OneSack reports whether an outcome prices the 1+ sack line
// (0.45 <= N <= 1.05).
func OneSack(_ string, o Outcome) (bool, *float64) {
	if point, ok := o.Point(); ok {
		line := point
		return line >= 0.45 && line <= 1.05, &line
	}
	return containsAny(o.descriptionText(), "1+", "1 or more", "one or more"), nil
}

// Eligible dispatches on prop.
func Eligible(prop models.Prop, market string, o Outcome) (bool, *float64) {
	if prop == models.PropOnePlusSack {
		return OneSack(market, o)
	}
	return TwoPlusTD(market, o)
}
