package imagemod

import "strings"

// clickbaitKeywords are first-pass markers of provocative on-frame text.
// Matching is case-insensitive substring search over OCR output and title.
var clickbaitKeywords = []string{
	"shocking",
	"you won't believe",
	"exposed",
	"breaking",
	"urgent",
	"banned",
	"they don't want you to know",
	"cover up",
	"cover-up",
	"leaked",
	"must watch",
	"before it's deleted",
	"the truth about",
	"what they're hiding",
	"gone wrong",
	"!!!",
	"충격",
	"긴급",
	"폭로",
	"경악",
	"단독",
}

// matchClickbait returns the keywords found in the text
func matchClickbait(text string) []string {
	lower := strings.ToLower(text)
	var hits []string
	for _, kw := range clickbaitKeywords {
		if strings.Contains(lower, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}
