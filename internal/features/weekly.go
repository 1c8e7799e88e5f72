// Package features rolls weekly player rows into per-player model inputs.
package features

import (
	"github.com/yourusername/gamblebot/internal/models"
	"github.com/yourusername/gamblebot/internal/table"
)

// ParseWeekly converts a weekly stats table into PlayerWeekStat rows. The
// player column is the only required field; every numeric field defaults to
// zero. Without a week column each row counts as its own game.
func ParseWeekly(t *table.Table) ([]models.PlayerWeekStat, error) {
	playerCol, err := t.MustResolve(PlayerSlot)
	if err != nil {
		return nil, err
	}

	col := func(slot table.Slot) int {
		i, _ := t.Resolve(slot)
		return i
	}
	var (
		idCol     = col(PlayerIDSlot)
		teamCol   = col(TeamSlot)
		posCol    = col(PositionSlot)
		oppCol    = col(OpponentSlot)
		seasonCol = col(SeasonSlot)
		weekCol   = col(WeekSlot)
		rushTD    = col(RushTDSlot)
		recTD     = col(RecTDSlot)
		rushAtt   = col(RushAttSlot)
		targets   = col(TargetsSlot)
		sacks     = col(SacksSlot)
		snaps     = col(SnapsSlot)
		pressures = col(PressuresSlot)
		winRate   = col(WinRateSlot)
	)

	stats := make([]models.PlayerWeekStat, 0, t.Len())
	for r := 0; r < t.Len(); r++ {
		name := t.String(r, playerCol)
		if name == "" {
			continue
		}
		week := r + 1
		if weekCol >= 0 {
			week = t.Int(r, weekCol)
		}
		stats = append(stats, models.PlayerWeekStat{
			PlayerID:        t.String(r, idCol),
			Player:          name,
			Team:            t.String(r, teamCol),
			Position:        t.String(r, posCol),
			Opponent:        t.String(r, oppCol),
			Season:          t.Int(r, seasonCol),
			Week:            week,
			RushingAttempts: t.Float(r, rushAtt),
			Targets:         t.Float(r, targets),
			RushingTDs:      t.Float(r, rushTD),
			ReceivingTDs:    t.Float(r, recTD),
			Sacks:           t.Float(r, sacks),
			PassRushSnaps:   t.Float(r, snaps),
			Pressures:       t.Float(r, pressures),
			PassRushWinRate: t.Float(r, winRate),
		})
	}
	return stats, nil
}

// FilterWeek keeps the rows for one week.
func FilterWeek(stats []models.PlayerWeekStat, week int) []models.PlayerWeekStat {
	out := make([]models.PlayerWeekStat, 0)
	for _, s := range stats {
		if s.Week == week {
			out = append(out, s)
		}
	}
	return out
}

// BeforeWeek keeps the rows of weeks strictly before week. Tables without a
// week column, and non-positive weeks, pass through unchanged.
func BeforeWeek(t *table.Table, week int) *table.Table {
	weekCol, ok := t.Resolve(WeekSlot)
	if !ok || week <= 0 {
		return t
	}
	return t.Filter(func(r int) bool {
		w := t.Int(r, weekCol)
		return w > 0 && w < week
	})
}
