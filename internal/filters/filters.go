// Package filters narrows scored players to plausible bets: the right
// positions, enough recent usage, and not ruled out by injury.
package filters

import (
	"strings"

	"github.com/yourusername/gamblebot/internal/identity"
	"github.com/yourusername/gamblebot/internal/models"
)

// DefaultMinUsage is the default trailing opportunities threshold.
const DefaultMinUsage = 3.0

var excludedStatuses = map[string]bool{
	"out":                          true,
	"doubtful":                     true,
	"inactive":                     true,
	"questionable - inactive":      true,
	"ir":                           true,
	"injured reserve":              true,
	"pup":                          true,
	"physically unable to perform": true,
	"nfi":                          true,
	"non-football injury":          true,
	"suspended":                    true,
}

// Excluded reports whether an injury status rules a player out.
func Excluded(status string) bool {
	return excludedStatuses[strings.ToLower(strings.TrimSpace(status))]
}

// Options selects which filters run.
type Options struct {
	// Positions to keep, case-insensitive. Empty keeps all. Players whose
	// position is unknown are kept.
	Positions []string
	MinUsage  float64
	// ExcludeInjured drops players whose status is in the excluded set.
	ExcludeInjured bool
	Normalize      identity.Normalizer
}

// Apply returns the players that pass every enabled filter, in input order.
func Apply(probs []models.ModelProbability, opts Options, injuries []models.InjuryStatus) []models.ModelProbability {
	keep := positionSet(opts.Positions)
	normalize := identity.Or(opts.Normalize)

	ruledOut := make(map[string]bool)
	if opts.ExcludeInjured {
		for _, inj := range injuries {
			if Excluded(inj.Status) {
				ruledOut[normalize(inj.Player)] = true
			}
		}
	}

	out := make([]models.ModelProbability, 0, len(probs))
	for _, p := range probs {
		if len(keep) > 0 && p.Position != "" && !keep[strings.ToUpper(strings.TrimSpace(p.Position))] {
			continue
		}
		if p.RecentUsage < opts.MinUsage {
			continue
		}
		if ruledOut[normalize(p.Player)] {
			continue
		}
		out = append(out, p)
	}
	return out
}

func positionSet(positions []string) map[string]bool {
	keep := make(map[string]bool, len(positions))
	for _, pos := range positions {
		for _, p := range strings.Split(pos, ",") {
			if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
				keep[p] = true
			}
		}
	}
	return keep
}
