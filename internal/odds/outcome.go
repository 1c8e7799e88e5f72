package odds

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Outcome is a raw bookmaker outcome. Books disagree on which keys carry the
// player, the line and the label, so it stays untyped until extraction.
type Outcome map[string]any

// Text returns a trimmed string field, or "" when absent or not a string.
func (o Outcome) Text(key string) string {
	s, ok := o[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// Number returns a numeric field, accepting JSON numbers and numeric strings.
func (o Outcome) Number(key string) (float64, bool) {
	switch v := o[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Price returns the American price.
func (o Outcome) Price() (float64, bool) {
	return o.Number("price")
}

// Point returns the line, if present.
func (o Outcome) Point() (float64, bool) {
	return o.Number("point")
}

// descriptionText joins the free-text fields, lower-cased.
func (o Outcome) descriptionText() string {
	var parts []string
	for _, k := range []string{"description", "label", "name"} {
		if s := o.Text(k); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// IsUnder reports whether the outcome is the Under side of a line.
func IsUnder(o Outcome) bool {
	if strings.EqualFold(o.Text("name"), "under") {
		return true
	}
	for _, k := range []string{"description", "label"} {
		if strings.HasPrefix(strings.ToLower(o.Text(k)), "under ") {
			return true
		}
	}
	return false
}
