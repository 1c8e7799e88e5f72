// Package staking prices model probabilities against market quotes and sizes
// stakes with fractional Kelly.
package staking

import (
	"math"

	"github.com/shopspring/decimal"
)

const probEpsilon = 1e-9

// Params are the sizing knobs of a run.
type Params struct {
	KellyFraction float64
	UnitSize      decimal.Decimal
}

// DefaultParams is quarter Kelly on a 100 unit bankroll.
func DefaultParams() Params {
	return Params{KellyFraction: 0.25, UnitSize: decimal.NewFromInt(100)}
}

// Kelly returns the full-Kelly fraction f = (b·p - q) / b for decimal odds d,
// with b = d - 1. A degenerate price (b = 0) yields 0.
func Kelly(p, d float64) float64 {
	if math.IsNaN(p) || math.IsNaN(d) {
		return 0
	}
	p = math.Min(math.Max(p, probEpsilon), 1-probEpsilon)
	b := d - 1
	if b <= 0 {
		return 0
	}
	f := (b*p - (1 - p)) / b
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// StakeFraction scales full Kelly and floors it at zero.
func StakeFraction(fullKelly, kellyFraction float64) float64 {
	if fullKelly <= 0 || kellyFraction <= 0 {
		return 0
	}
	return kellyFraction * fullKelly
}

// StakeAmount converts a bankroll fraction into units.
func StakeAmount(fraction float64, unit decimal.Decimal) decimal.Decimal {
	if fraction <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(fraction).Mul(unit).Round(2)
}
