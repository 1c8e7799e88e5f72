package odds

import (
	"strings"

	"github.com/yourusername/gamblebot/internal/models"
)

// teamAbbreviations maps bookmaker team names to the abbreviations used by
// the stats feeds.
var teamAbbreviations = map[string]string{
	"arizona cardinals":     "ARI",
	"atlanta falcons":       "ATL",
	"baltimore ravens":      "BAL",
	"buffalo bills":         "BUF",
	"carolina panthers":     "CAR",
	"chicago bears":         "CHI",
	"cincinnati bengals":    "CIN",
	"cleveland browns":      "CLE",
	"dallas cowboys":        "DAL",
	"denver broncos":        "DEN",
	"detroit lions":         "DET",
	"green bay packers":     "GB",
	"houston texans":        "HOU",
	"indianapolis colts":    "IND",
	"jacksonville jaguars":  "JAX",
	"kansas city chiefs":    "KC",
	"las vegas raiders":     "LV",
	"los angeles chargers":  "LAC",
	"los angeles rams":      "LA",
	"miami dolphins":        "MIA",
	"minnesota vikings":     "MIN",
	"new england patriots":  "NE",
	"new orleans saints":    "NO",
	"new york giants":       "NYG",
	"new york jets":         "NYJ",
	"philadelphia eagles":   "PHI",
	"pittsburgh steelers":   "PIT",
	"san francisco 49ers":   "SF",
	"seattle seahawks":      "SEA",
	"tampa bay buccaneers":  "TB",
	"tennessee titans":      "TEN",
	"washington commanders": "WAS",
}

// TeamAbbreviation returns the stats-feed abbreviation of a bookmaker team
// name, or "" when unknown. Abbreviations pass through unchanged.
func TeamAbbreviation(name string) string {
	name = strings.TrimSpace(name)
	if abbr, ok := teamAbbreviations[strings.ToLower(name)]; ok {
		return abbr
	}
	upper := strings.ToUpper(name)
	for _, abbr := range teamAbbreviations {
		if abbr == upper {
			return abbr
		}
	}
	return ""
}

// Matchups maps each team with a priced event to its opponent.
func Matchups(quotes []models.OddsQuote) map[string]string {
	out := make(map[string]string)
	for _, q := range quotes {
		home, away := TeamAbbreviation(q.HomeTeam), TeamAbbreviation(q.AwayTeam)
		if home == "" || away == "" {
			continue
		}
		out[home] = away
		out[away] = home
	}
	return out
}
