package models

import (
	"fmt"
	"strings"
)

// Prop identifies the wager a probability refers to.
type Prop string

const (
	PropTwoPlusTD   Prop = "two_plus_td"
	PropOnePlusSack Prop = "one_plus_sack"
)

// Threshold is the count a player must reach for the prop to hit.
func (p Prop) Threshold() int {
	if p == PropOnePlusSack {
		return 1
	}
	return 2
}

// Cap is the upper plausibility bound on a model probability for the prop.
func (p Prop) Cap() float64 {
	if p == PropOnePlusSack {
		return 0.95
	}
	return 0.30
}

// ParseProp accepts the CLI spellings as well as the canonical names.
func ParseProp(s string) (Prop, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "td", "tds", "2td", "two_plus_td":
		return PropTwoPlusTD, nil
	case "sack", "sacks", "one_plus_sack":
		return PropOnePlusSack, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProp, s)
	}
}
