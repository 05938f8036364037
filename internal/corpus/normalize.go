package corpus

import "strings"

// Normalize lowercases text and trims surrounding whitespace. Stored
// questions and incoming queries go through the same transform.
func Normalize(text string) string {
	return strings.TrimSpace(strings.ToLower(text))
}
