// Package extract turns fetched article markup into clean, bounded plain text.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars caps cleaned article text
const DefaultMaxChars = 8000

// boilerplate matches recurring non-article fragments. Patterns are applied
// in order to whitespace-normalized text.
var boilerplate = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(advertisement|sponsored content|sponsored)\b`),
	regexp.MustCompile(`(?i)\b(related|read more|see also):\s*`),
	regexp.MustCompile(`(?i)sign up for [^.]*newsletter[^.]*\.?`),
	regexp.MustCompile(`(?i)(©|\(c\)|copyright)\s*\d{4}[^.]*\.?`),
	regexp.MustCompile(`(?i)all rights reserved\.?`),
	regexp.MustCompile(`(?i)\b(terms of use|privacy policy|cookie policy)\b`),
}

var spaces = regexp.MustCompile(`\s+`)

// Clean strips boilerplate, collapses whitespace and truncates to maxChars
// runes. maxChars <= 0 disables truncation.
func Clean(text string, maxChars int) string {
	text = spaces.ReplaceAllString(text, " ")
	for _, re := range boilerplate {
		text = re.ReplaceAllString(text, " ")
	}
	text = strings.TrimSpace(spaces.ReplaceAllString(text, " "))
	return Truncate(text, maxChars)
}

// Truncate returns at most n runes of s
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
