package staking

import (
	"github.com/yourusername/gamblebot/internal/features"
	"github.com/yourusername/gamblebot/internal/models"
	"github.com/yourusername/gamblebot/internal/odds"
	"github.com/yourusername/gamblebot/internal/table"
)

var (
	probSlot     = table.NewSlot("probability", "model_prob", "p_model", "probability", "prob", "p", "p_two_td")
	decimalSlot  = table.NewSlot("decimal odds", "decimal", "decimal_odds")
	americanSlot = table.NewSlot("odds", "american", "odds", "american_odds", "price")
	oddsSlot     = table.NewSlot("odds", "decimal", "decimal_odds", "american", "odds", "american_odds", "price")
	bookSlot     = table.NewSlot("book", "book", "bookmaker", "sportsbook")
	usageSlot    = table.NewSlot("recent usage", "recent_usage", "usage")
)

// FromTable prices a table produced outside the model. It needs a player, a
// probability and either decimal or American odds.
func FromTable(t *table.Table, params Params) ([]models.EdgeRecord, error) {
	playerCol, err := t.MustResolve(features.PlayerSlot)
	if err != nil {
		return nil, err
	}
	probCol, err := t.MustResolve(probSlot)
	if err != nil {
		return nil, err
	}
	decCol, hasDecimal := t.Resolve(decimalSlot)
	amCol, hasAmerican := t.Resolve(americanSlot)
	if !hasDecimal && !hasAmerican {
		_, err := t.MustResolve(oddsSlot)
		return nil, err
	}

	idCol, _ := t.Resolve(features.PlayerIDSlot)
	teamCol, _ := t.Resolve(features.TeamSlot)
	posCol, _ := t.Resolve(features.PositionSlot)
	bookCol, _ := t.Resolve(bookSlot)
	usageCol, _ := t.Resolve(usageSlot)

	out := make([]models.EdgeRecord, 0, t.Len())
	for i := range t.Rows {
		player := t.String(i, playerCol)
		if player == "" {
			continue
		}

		rec := models.EdgeRecord{
			PlayerID:    t.String(i, idCol),
			Player:      player,
			Team:        t.String(i, teamCol),
			Position:    t.String(i, posCol),
			Book:        t.String(i, bookCol),
			ModelProb:   t.Float(i, probCol),
			RecentUsage: t.Float(i, usageCol),
		}
		if hasDecimal && t.Float(i, decCol) > 0 {
			rec.Decimal = t.Float(i, decCol)
		} else if hasAmerican {
			rec.American = t.Int(i, amCol)
			rec.Decimal = odds.AmericanToDecimal(float64(rec.American))
		}
		rec.ImpliedProb = odds.DecimalToImplied(rec.Decimal)
		rec.Edge = rec.ModelProb - rec.ImpliedProb
		fillStake(&rec, params)
		out = append(out, rec)
	}
	return out, nil
}
