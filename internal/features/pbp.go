package features

import (
	"sort"
	"strconv"

	"github.com/yourusername/gamblebot/internal/table"
)

var (
	pbpRusherSlot      = table.NewSlot("rusher", "rusher_player_name", "rusher")
	pbpRusherIDSlot    = table.NewSlot("rusher_id", "rusher_player_id", "rusher_id")
	pbpReceiverSlot    = table.NewSlot("receiver", "receiver_player_name", "receiver")
	pbpReceiverIDSlot  = table.NewSlot("receiver_id", "receiver_player_id", "receiver_id")
	pbpTDPlayerSlot    = table.NewSlot("td_player", "td_player_name")
	pbpTouchdownSlot   = table.NewSlot("touchdown", "touchdown")
	pbpRushAttemptSlot = table.NewSlot("rush_attempt", "rush_attempt")
	pbpPassAttemptSlot = table.NewSlot("pass_attempt", "pass_attempt")
	pbpPossessionSlot  = table.NewSlot("posteam", "posteam")
	pbpDefenseSlot     = table.NewSlot("defteam", "defteam")
	pbpSackerSlot      = table.NewSlot("sack_player", "sack_player_name")
	pbpHalfSack1Slot   = table.NewSlot("half_sack_1", "half_sack_1_player_name")
	pbpHalfSack2Slot   = table.NewSlot("half_sack_2", "half_sack_2_player_name")
)

// PlayByPlayColumns is the schema of tables built by WeeklyFromPlayByPlay.
var PlayByPlayColumns = []string{
	"season", "week", "player_id", "player_display_name", "recent_team", "opponent_team",
	"position", "carries", "targets", "rushing_tds", "receiving_tds", "def_sacks",
}

type pbpKey struct {
	season int
	week   int
	player string
	team   string
}

type pbpLine struct {
	id       string
	opponent string
	carries  float64
	targets  float64
	rushTDs  float64
	recTDs   float64
	sacks    float64
}

// WeeklyFromPlayByPlay rebuilds weekly player rows from play-level data:
// carries, targets and rushing/receiving touchdowns for ball carriers, and
// sacks (halves counted as 0.5) for defenders. Positions are unknown and
// left blank.
func WeeklyFromPlayByPlay(t *table.Table) (*table.Table, error) {
	weekCol, err := t.MustResolve(WeekSlot)
	if err != nil {
		return nil, err
	}
	rusherCol, err := t.MustResolve(pbpRusherSlot)
	if err != nil {
		return nil, err
	}

	col := func(slot table.Slot) int {
		i, _ := t.Resolve(slot)
		return i
	}
	var (
		seasonCol  = col(SeasonSlot)
		rusherID   = col(pbpRusherIDSlot)
		receiver   = col(pbpReceiverSlot)
		receiverID = col(pbpReceiverIDSlot)
		tdPlayer   = col(pbpTDPlayerSlot)
		touchdown  = col(pbpTouchdownSlot)
		rushAtt    = col(pbpRushAttemptSlot)
		passAtt    = col(pbpPassAttemptSlot)
		posteam    = col(pbpPossessionSlot)
		defteam    = col(pbpDefenseSlot)
		sacker     = col(pbpSackerSlot)
		halfSack1  = col(pbpHalfSack1Slot)
		halfSack2  = col(pbpHalfSack2Slot)
	)

	lines := make(map[pbpKey]*pbpLine)
	line := func(season, week int, player, team, opponent, id string) *pbpLine {
		k := pbpKey{season: season, week: week, player: player, team: team}
		l, ok := lines[k]
		if !ok {
			l = &pbpLine{opponent: opponent}
			lines[k] = l
		}
		if l.id == "" {
			l.id = id
		}
		return l
	}

	for r := 0; r < t.Len(); r++ {
		season, week := t.Int(r, seasonCol), t.Int(r, weekCol)
		if week <= 0 {
			continue
		}
		off, def := t.String(r, posteam), t.String(r, defteam)

		rusher := t.String(r, rusherCol)
		catcher := t.String(r, receiver)
		scorer := ""
		if t.Float(r, touchdown) > 0 {
			scorer = t.String(r, tdPlayer)
		}

		if rusher != "" {
			l := line(season, week, rusher, off, def, t.String(r, rusherID))
			if rushAtt < 0 || t.Float(r, rushAtt) > 0 {
				l.carries++
			}
			if scorer == rusher {
				l.rushTDs++
			}
		}
		if catcher != "" {
			l := line(season, week, catcher, off, def, t.String(r, receiverID))
			if passAtt < 0 || t.Float(r, passAtt) > 0 {
				l.targets++
			}
			if scorer == catcher && scorer != rusher {
				l.recTDs++
			}
		}

		if name := t.String(r, sacker); name != "" {
			line(season, week, name, def, off, "").sacks++
		}
		for _, c := range []int{halfSack1, halfSack2} {
			if name := t.String(r, c); name != "" {
				line(season, week, name, def, off, "").sacks += 0.5
			}
		}
	}

	keys := make([]pbpKey, 0, len(lines))
	for k := range lines {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.season != b.season {
			return a.season < b.season
		}
		if a.week != b.week {
			return a.week < b.week
		}
		if a.player != b.player {
			return a.player < b.player
		}
		return a.team < b.team
	})

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		l := lines[k]
		rows = append(rows, []string{
			strconv.Itoa(k.season), strconv.Itoa(k.week), l.id, k.player, k.team, l.opponent, "",
			formatCount(l.carries), formatCount(l.targets), formatCount(l.rushTDs), formatCount(l.recTDs), formatCount(l.sacks),
		})
	}
	return table.New(append([]string(nil), PlayByPlayColumns...), rows), nil
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
