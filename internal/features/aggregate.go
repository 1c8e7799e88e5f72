package features

import (
	"sort"

	"github.com/yourusername/gamblebot/internal/models"
	"github.com/yourusername/gamblebot/internal/table"
)

// DefaultRecentWindow is the trailing number of games averaged for usage.
const DefaultRecentWindow = 4

type groupKey struct {
	player   string
	team     string
	position string
}

type group struct {
	key  groupKey
	id   string
	rows []models.PlayerWeekStat
}

// groupRows buckets rows by (player, team, position), sorted by key.
func groupRows(stats []models.PlayerWeekStat) []*group {
	byKey := make(map[groupKey]*group)
	for _, s := range stats {
		k := groupKey{player: s.Player, team: s.Team, position: s.Position}
		g, ok := byKey[k]
		if !ok {
			g = &group{key: k}
			byKey[k] = g
		}
		if g.id == "" {
			g.id = s.PlayerID
		}
		g.rows = append(g.rows, s)
	}

	groups := make([]*group, 0, len(byKey))
	for _, g := range byKey {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i].key, groups[j].key
		if a.player != b.player {
			return a.player < b.player
		}
		if a.team != b.team {
			return a.team < b.team
		}
		return a.position < b.position
	})
	return groups
}

func distinctWeeks(rows []models.PlayerWeekStat) int {
	seen := make(map[int]struct{}, len(rows))
	for _, r := range rows {
		seen[r.Week] = struct{}{}
	}
	return len(seen)
}

// recentUsage computes, per player name, the trailing rolling mean of usage
// at the player's latest week. Windows shorter than window use whatever rows
// exist, down to one.
func recentUsage(stats []models.PlayerWeekStat, window int, usage func(models.PlayerWeekStat) float64) map[string]float64 {
	if window < 1 {
		window = 1
	}
	byPlayer := make(map[string][]models.PlayerWeekStat)
	for _, s := range stats {
		byPlayer[s.Player] = append(byPlayer[s.Player], s)
	}

	out := make(map[string]float64, len(byPlayer))
	for player, rows := range byPlayer {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Week < rows[j].Week })
		start := len(rows) - window
		if start < 0 {
			start = 0
		}
		var sum float64
		for _, r := range rows[start:] {
			sum += usage(r)
		}
		out[player] = sum / float64(len(rows)-start)
	}
	return out
}

// defensiveOnly reports whether a row carries pass-rush activity and nothing
// on offense, as play-by-play rebuilds emit for sackers.
func defensiveOnly(r models.PlayerWeekStat) bool {
	if r.Opportunities() > 0 || r.Touchdowns() > 0 {
		return false
	}
	return r.Sacks > 0 || r.RushOpportunities() > 0
}

// Touchdowns aggregates weekly rows into touchdown-model features. Rows with
// only defensive activity are skipped so sackers never enter the prior.
func Touchdowns(stats []models.PlayerWeekStat, window int) []models.PlayerFeatures {
	offense := make([]models.PlayerWeekStat, 0, len(stats))
	for _, r := range stats {
		if !defensiveOnly(r) {
			offense = append(offense, r)
		}
	}
	stats = offense
	usage := recentUsage(stats, window, models.PlayerWeekStat.Opportunities)

	var out []models.PlayerFeatures
	for _, g := range groupRows(stats) {
		var hits, total int
		for _, r := range g.rows {
			tds := r.Touchdowns()
			total += tds
			if tds >= models.PropTwoPlusTD.Threshold() {
				hits++
			}
		}
		out = append(out, models.PlayerFeatures{
			PlayerID:    g.id,
			Player:      g.key.player,
			Team:        g.key.team,
			Position:    g.key.position,
			Games:       distinctWeeks(g.rows),
			Hits:        hits,
			MeanRate:    float64(total) / float64(len(g.rows)),
			RecentUsage: usage[g.key.player],
		})
	}
	return out
}

// TouchdownFeatures parses a weekly table and aggregates it. A missing
// player column is returned as a MissingColumn error.
func TouchdownFeatures(t *table.Table, window int) ([]models.PlayerFeatures, error) {
	stats, err := ParseWeekly(t)
	if err != nil {
		return nil, err
	}
	return Touchdowns(stats, window), nil
}

// Sacks aggregates defender rows into pass-rush features and attaches the
// shrunk profile of each defender's most recent opponent. AttachOpponents
// replaces it with the opponent of the week being priced once known.
func Sacks(stats []models.PlayerWeekStat, opponents OpponentContext, window int) []models.PlayerFeatures {
	usage := recentUsage(stats, window, models.PlayerWeekStat.RushOpportunities)

	var out []models.PlayerFeatures
	for _, g := range groupRows(stats) {
		var (
			hits                    int
			sacks, snaps, pressures float64
			winRate                 float64
			latestWeek              = -1
			opponent                string
		)
		for _, r := range g.rows {
			sacks += r.Sacks
			if r.Sacks >= float64(models.PropOnePlusSack.Threshold()) {
				hits++
			}
			snaps += r.PassRushSnaps
			pressures += r.Pressures
			winRate += r.PassRushWinRate
			if r.Week >= latestWeek {
				latestWeek = r.Week
				opponent = r.Opponent
			}
		}
		games := distinctWeeks(g.rows)
		opp := opponents.For(opponent)
		out = append(out, models.PlayerFeatures{
			PlayerID:            g.id,
			Player:              g.key.player,
			Team:                g.key.team,
			Position:            g.key.position,
			Games:               games,
			Hits:                hits,
			MeanRate:            sacks / float64(len(g.rows)),
			RecentUsage:         usage[g.key.player],
			Snaps:               snaps,
			PressuresPerGame:    pressures / float64(games),
			WinRate:             winRate / float64(len(g.rows)),
			Opponent:            opponent,
			OppDropbacksPerGame: opp.DropbacksPerGame,
			OppSackRate:         opp.SackRate,
		})
	}
	return out
}

// AttachOpponents sets each defender's opponent from matchups (team to
// opponent) and looks up its profile. Defenders whose team has no matchup keep
// their current opponent.
func AttachOpponents(feats []models.PlayerFeatures, matchups map[string]string, opponents OpponentContext) []models.PlayerFeatures {
	out := make([]models.PlayerFeatures, len(feats))
	for i, f := range feats {
		if opp, ok := matchups[f.Team]; ok {
			tc := opponents.For(opp)
			f.Opponent = opp
			f.OppDropbacksPerGame = tc.DropbacksPerGame
			f.OppSackRate = tc.SackRate
		}
		out[i] = f
	}
	return out
}

// SackFeatures parses a defender weekly table and aggregates it.
func SackFeatures(t *table.Table, opponents OpponentContext, window int) ([]models.PlayerFeatures, error) {
	stats, err := ParseWeekly(t)
	if err != nil {
		return nil, err
	}
	return Sacks(stats, opponents, window), nil
}
