package features

import (
	"github.com/yourusername/gamblebot/internal/models"
	"github.com/yourusername/gamblebot/internal/table"
)

// League-average pass protection used when an opponent has no data.
const (
	LeagueDropbacksPerGame = 35.0
	LeagueSackRate         = 0.07
	TeamPseudoGames        = 8.0
)

var (
	teamDropbacksSlot = table.NewSlot("dropbacks", "dropbacks", "qb_dropback", "qb_dropbacks")
	teamAttemptsSlot  = table.NewSlot("pass_attempts", "pass_attempts", "attempts", "passing_attempts")
	teamSacksSlot     = table.NewSlot("sacks_allowed", "sacks_allowed", "sacks_suffered", "sacks")
)

// OpponentContext holds every team's shrunk pass-protection profile plus the
// league profile used for unknown teams.
type OpponentContext struct {
	Teams  map[string]models.TeamContext
	League models.TeamContext
}

// DefaultOpponentContext has no team data; every lookup returns the league
// constants.
func DefaultOpponentContext() OpponentContext {
	return OpponentContext{
		League: models.TeamContext{DropbacksPerGame: LeagueDropbacksPerGame, SackRate: LeagueSackRate},
	}
}

// For returns the profile of team, or the league profile when unknown.
func (c OpponentContext) For(team string) models.TeamContext {
	if tc, ok := c.Teams[team]; ok {
		return tc
	}
	league := c.League
	if league.DropbacksPerGame == 0 && league.SackRate == 0 {
		league = DefaultOpponentContext().League
	}
	league.Team = team
	return league
}

type teamTotals struct {
	weeks     map[int]struct{}
	dropbacks float64
	sacks     float64
}

// TeamContexts builds opponent profiles from team-week rows (typically the
// prior season). Each team's dropbacks per game and sack rate are shrunk
// toward the league mean with weight games/(games+8).
func TeamContexts(t *table.Table) (OpponentContext, error) {
	ctx := DefaultOpponentContext()
	if t.IsEmpty() {
		return ctx, nil
	}
	teamCol, err := t.MustResolve(TeamSlot)
	if err != nil {
		return ctx, err
	}
	weekCol, _ := t.Resolve(WeekSlot)
	dropCol, hasDropbacks := t.Resolve(teamDropbacksSlot)
	attCol, _ := t.Resolve(teamAttemptsSlot)
	sackCol, _ := t.Resolve(teamSacksSlot)

	totals := make(map[string]*teamTotals)
	var order []string
	for r := 0; r < t.Len(); r++ {
		team := t.String(r, teamCol)
		if team == "" {
			continue
		}
		tt, ok := totals[team]
		if !ok {
			tt = &teamTotals{weeks: make(map[int]struct{})}
			totals[team] = tt
			order = append(order, team)
		}
		week := r + 1
		if weekCol >= 0 {
			week = t.Int(r, weekCol)
		}
		tt.weeks[week] = struct{}{}
		sacks := t.Float(r, sackCol)
		if hasDropbacks {
			tt.dropbacks += t.Float(r, dropCol)
		} else {
			tt.dropbacks += t.Float(r, attCol) + sacks
		}
		tt.sacks += sacks
	}

	var leagueGames, leagueDropbacks, leagueSacks float64
	for _, tt := range totals {
		leagueGames += float64(len(tt.weeks))
		leagueDropbacks += tt.dropbacks
		leagueSacks += tt.sacks
	}
	if leagueGames > 0 && leagueDropbacks > 0 {
		ctx.League.DropbacksPerGame = leagueDropbacks / leagueGames
		ctx.League.SackRate = leagueSacks / leagueDropbacks
	}

	ctx.Teams = make(map[string]models.TeamContext, len(totals))
	for _, team := range order {
		tt := totals[team]
		games := float64(len(tt.weeks))
		rawDPG := ctx.League.DropbacksPerGame
		rawRate := ctx.League.SackRate
		if games > 0 {
			rawDPG = tt.dropbacks / games
		}
		if tt.dropbacks > 0 {
			rawRate = tt.sacks / tt.dropbacks
		}
		w := games / (games + TeamPseudoGames)
		ctx.Teams[team] = models.TeamContext{
			Team:             team,
			Games:            len(tt.weeks),
			DropbacksPerGame: w*rawDPG + (1-w)*ctx.League.DropbacksPerGame,
			SackRate:         w*rawRate + (1-w)*ctx.League.SackRate,
		}
	}
	return ctx, nil
}
