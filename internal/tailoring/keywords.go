package tailoring

import (
	"strings"
	"unicode/utf8"
)

// minNaiveKeywordLen is the rune count a token must exceed to be kept by
// NaiveKeywords
const minNaiveKeywordLen = 3

// NaiveKeywords splits text on whitespace and keeps tokens longer than three
// characters, as written. It is the extraction fallback when no
// text-understanding service is available.
func NaiveKeywords(text string) []string {
	keywords := []string{}
	for _, tok := range strings.Fields(text) {
		if utf8.RuneCountInString(tok) > minNaiveKeywordLen {
			keywords = append(keywords, tok)
		}
	}
	return keywords
}

func cleanKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
