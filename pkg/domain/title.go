package domain

import "strings"

const (
	fallbackWords  = 3
	ellipsisMarker = "..."
)

// FallbackTitle builds a title from the first three words of text, adding an
// ellipsis when more words follow.
func FallbackTitle(text string) string {
	words := strings.Fields(text)
	if len(words) <= fallbackWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:fallbackWords], " ") + ellipsisMarker
}
