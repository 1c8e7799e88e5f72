package filters

import (
	"strings"

	"github.com/yourusername/gamblebot/internal/models"
	"github.com/yourusername/gamblebot/internal/table"
)

var (
	injuryNameSlot   = table.NewSlot("player", "player_name", "player", "full_name")
	injuryStatusSlot = table.NewSlot("status", "gsis_status", "report_status", "injury_status", "status")
	injuryWeekSlot   = table.NewSlot("week", "week")
)

// pessimism orders statuses from most to least severe. Unlisted statuses
// rank after all of them.
var pessimism = []string{
	"suspended", "ir", "injured reserve", "pup", "physically unable to perform",
	"nfi", "non-football injury", "out", "inactive", "questionable - inactive",
	"doubtful", "questionable", "probable", "cleared", "healthy", "",
}

var pessimismRank = func() map[string]int {
	m := make(map[string]int, len(pessimism))
	for i, s := range pessimism {
		m[s] = i
	}
	return m
}()

func rank(status string) int {
	if r, ok := pessimismRank[status]; ok {
		return r
	}
	return len(pessimism)
}

// ParseInjuries reads a season injury report and returns one status per
// player for week, keeping the most pessimistic when a player is listed more
// than once. Statuses are lower-cased. A report without a recognisable name
// or status column yields no entries.
func ParseInjuries(t *table.Table, week int) []models.InjuryStatus {
	if t == nil {
		return nil
	}
	nameCol, ok := t.Resolve(injuryNameSlot)
	if !ok {
		return nil
	}
	statusCol, ok := t.Resolve(injuryStatusSlot)
	if !ok {
		return nil
	}
	weekCol, hasWeek := t.Resolve(injuryWeekSlot)

	index := make(map[string]int)
	var out []models.InjuryStatus
	for r := 0; r < t.Len(); r++ {
		if hasWeek && t.Int(r, weekCol) != week {
			continue
		}
		name := t.String(r, nameCol)
		if name == "" {
			continue
		}
		status := strings.ToLower(t.String(r, statusCol))

		if i, seen := index[name]; seen {
			if rank(status) < rank(out[i].Status) {
				out[i].Status = status
			}
			continue
		}
		index[name] = len(out)
		out = append(out, models.InjuryStatus{Player: name, Status: status})
	}
	return out
}
