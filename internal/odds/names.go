package odds

import (
	"regexp"
	"strings"
)

var (
	playerThenSide = regexp.MustCompile(`(?i)^(.+?)\s+(?:over|under)\b.*$`)
	sideThenDash   = regexp.MustCompile(`(?i)^(?:over|under)\b.*?[-–]\s*(.+)$`)
	sideThenParen  = regexp.MustCompile(`(?i)^(?:over|under)\b.*?\((.+)\)$`)
	sideThenName   = regexp.MustCompile(`(?i)^(?:over|under)\b.*?\s([A-Za-z][A-Za-z .'\-]+)$`)

	nameLayouts = []*regexp.Regexp{playerThenSide, sideThenDash, sideThenParen, sideThenName}
)

// nameFields are checked in order: structured participant fields first, then
// free text.
var nameFields = []string{"participant", "player", "description", "label", "name"}

// PlayerName extracts the player from an outcome. Text such as
// "Patrick Mahomes Over 1.5", "Over 1.5 - Patrick Mahomes",
// "Over 1.5 (Patrick Mahomes)" and "Over 1.5 Patrick Mahomes" is parsed;
// any other text is taken as the name itself. Bare "Over"/"Under" labels are
// skipped.
func PlayerName(o Outcome) (string, bool) {
	for _, field := range nameFields {
		text := o.Text(field)
		if text == "" {
			continue
		}
		switch strings.ToLower(text) {
		case "over", "under":
			continue
		}
		for _, re := range nameLayouts {
			if m := re.FindStringSubmatch(text); m != nil {
				if name := strings.TrimSpace(m[1]); name != "" {
					return name, true
				}
			}
		}
		return text, true
	}
	return "", false
}
