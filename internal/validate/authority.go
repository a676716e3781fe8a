package validate

import (
	"net/url"
	"strings"

	"github.com/ppiankov/verinews/internal/model"
)

// AuthorityClassifier decides whether a source belongs to a configured
// authoritative domain. A listed domain also covers its subdomains.
type AuthorityClassifier struct {
	domains []string
}

// NewAuthorityClassifier creates a classifier; nil config uses the defaults
func NewAuthorityClassifier(config *model.AuthorityConfig) *AuthorityClassifier {
	if config == nil {
		def := model.DefaultConfig().Authority
		config = &def
	}

	classifier := &AuthorityClassifier{}
	for _, d := range config.Domains {
		d = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www.")
		if d != "" {
			classifier.domains = append(classifier.domains, d)
		}
	}
	return classifier
}

// IsAuthoritative reports whether source (a domain, host or URL) matches an
// authoritative domain
func (a *AuthorityClassifier) IsAuthoritative(source string) bool {
	host := HostOf(source)
	if host == "" {
		return false
	}

	for _, d := range a.domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// Domains returns the configured domains
func (a *AuthorityClassifier) Domains() []string {
	return append([]string(nil), a.domains...)
}

// HostOf lower-cases source and reduces a URL to its host without "www."
// and port.
func HostOf(source string) string {
	s := strings.ToLower(strings.TrimSpace(source))
	if strings.Contains(s, "://") {
		if u, err := url.Parse(s); err == nil {
			s = u.Hostname()
		}
	} else if i := strings.IndexAny(s, "/:"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimPrefix(s, "www.")
}
