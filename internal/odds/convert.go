// Package odds converts sportsbook prices and reduces raw bookmaker outcomes
// to one canonical quote per player.
package odds

import "math"

// AmericanToDecimal converts American odds to decimal odds. Values inside
// (-100, 100) are not real prices and map to 1.0.
func AmericanToDecimal(american float64) float64 {
	switch {
	case american >= 100:
		return 1 + american/100
	case american <= -100:
		return 1 + 100/math.Abs(american)
	default:
		return 1
	}
}

// AmericanToImplied converts American odds to the zero-margin implied
// probability.
func AmericanToImplied(american float64) float64 {
	if american > 0 {
		return 100 / (american + 100)
	}
	a := math.Abs(american)
	if a == 0 {
		return 0
	}
	return a / (a + 100)
}

// DecimalToImplied is 1/d for d > 1 and 0 otherwise.
func DecimalToImplied(d float64) float64 {
	if d <= 1 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}
	return 1 / d
}
