package score

import (
	"strings"
	"unicode"

	"github.com/ppiankov/verinews/internal/validate"
	"golang.org/x/net/publicsuffix"
)

// DefaultSourceWeight applies to any source not in the credibility table
const DefaultSourceWeight = 1.0

var sourceAliases = map[string]string{
	"apnews":                  "ap",
	"associatedpress":         "ap",
	"bbcnews":                 "bbc",
	"newyorktimes":            "nytimes",
	"nyt":                     "nytimes",
	"thenewyorktimes":         "nytimes",
	"thewashingtonpost":       "washingtonpost",
	"worldhealthorganization": "who",
	"sciencemag":              "science",
	"natgeo":                  "nationalgeographic",
}

// SourceName reduces a source string to the key used by the credibility
// table: "https://www.bbc.co.uk/news" and "BBC News" both become "bbc",
// "apnews.com" becomes "ap".
func SourceName(source string) string {
	s := strings.ToLower(strings.TrimSpace(source))
	if s == "" {
		return ""
	}

	if !strings.ContainsAny(s, " ") && strings.Contains(s, ".") {
		host := validate.HostOf(s)
		// Hosts under private suffixes (blogspot.com, github.io) are user
		// content and keep their full name, so they never match an outlet
		if _, icann := publicsuffix.PublicSuffix(host); icann {
			if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
				host = etld1
			}
			if i := strings.Index(host, "."); i > 0 {
				host = host[:i]
			}
		}
		s = host
	}

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if alias, ok := sourceAliases[name]; ok {
		return alias
	}
	return name
}

// SourceWeight looks up the credibility multiplier for source
func SourceWeight(credibility map[string]float64, source string) float64 {
	if w, ok := credibility[SourceName(source)]; ok {
		return w
	}
	return DefaultSourceWeight
}
