package score

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// UnknownDateWeight applies when an article has no usable date
const UnknownDateWeight = 0.6

// RecentWindow is how close to today a claim's date must be for the claim to
// count as concerning recent events
const RecentWindow = 365 * 24 * time.Hour

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
}

// ParseDate reads the publication date formats search providers emit. It
// returns false for empty, "unknown" or unrecognised values.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "unknown") {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if len(s) > 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ageDays is whole days between t and now; future dates count as age 0
func ageDays(t, now time.Time) int {
	d := now.Sub(t)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

// TemporalWeight discounts an article by age. When the claim concerns recent
// events, age is penalised sharply (1.0/0.8/0.4/0.2 at 365/730/1825 days);
// otherwise gently (1.0/0.9/0.8/0.7 at 1825/3650/7300 days).
func TemporalWeight(published string, claimRecent bool, now time.Time) float64 {
	t, ok := ParseDate(published)
	if !ok {
		return UnknownDateWeight
	}
	age := ageDays(t, now)

	if claimRecent {
		switch {
		case age <= 365:
			return 1.0
		case age <= 730:
			return 0.8
		case age <= 1825:
			return 0.4
		}
		return 0.2
	}

	switch {
	case age <= 1825:
		return 1.0
	case age <= 3650:
		return 0.9
	case age <= 7300:
		return 0.8
	}
	return 0.7
}

var (
	isoDateInClaim = regexp.MustCompile(`\b(19|20)\d{2}-\d{2}-\d{2}\b`)
	yearInClaim    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	recentWords    = regexp.MustCompile(`(?i)\b(today|yesterday|tonight|this (week|month|year)|last (night|week|month)|currently|right now|latest|recently|breaking)\b`)
)

// ClaimDate finds the time a claim refers to: an explicit date, the latest
// year mentioned (taken as the end of that year, capped at now), or now for
// wording like "today" or "this week". ok is false when the claim carries no
// time reference at all.
func ClaimDate(claim string, now time.Time) (time.Time, bool) {
	if m := isoDateInClaim.FindString(claim); m != "" {
		if t, err := time.Parse("2006-01-02", m); err == nil {
			return t, true
		}
	}

	latest := 0
	for _, m := range yearInClaim.FindAllString(claim, -1) {
		if y, err := strconv.Atoi(m); err == nil && y > latest {
			latest = y
		}
	}
	if latest > 0 {
		end := time.Date(latest, time.December, 31, 0, 0, 0, 0, now.Location())
		if end.After(now) {
			end = now
		}
		return end, true
	}

	if recentWords.MatchString(claim) {
		return now, true
	}
	return time.Time{}, false
}

// ClaimRecent decides which temporal bracket applies to a judgment. A time
// reference in the claim decides for every article; without one, each
// article's own date stands in for it.
func ClaimRecent(claim, articleDate string, now time.Time) bool {
	ref, ok := ClaimDate(claim, now)
	if !ok {
		ref, ok = ParseDate(articleDate)
	}
	if !ok {
		return false
	}
	return now.Sub(ref) <= RecentWindow
}
