// Package identity holds the player-name normalisation used to join rows
// from sources that share no stable player key.
package identity

import (
	"regexp"
	"strings"
)

// Normalizer maps a display name to a join key.
type Normalizer func(name string) string

var nonAlpha = regexp.MustCompile(`[^a-z]+`)

// CleanName lower-cases the name and strips everything that is not a letter,
// so "D.J. Moore" and "DJ Moore" share a key. Distinct players with the same
// letters collide; there is no fuzzy matching.
func CleanName(name string) string {
	return nonAlpha.ReplaceAllString(strings.ToLower(name), "")
}

// Or returns n, or CleanName when n is nil.
func Or(n Normalizer) Normalizer {
	if n == nil {
		return CleanName
	}
	return n
}
