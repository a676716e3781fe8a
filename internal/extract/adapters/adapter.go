// Package adapters holds the per-site article extractors and the registry
// that picks one for a URL.
package adapters

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ppiankov/verinews/internal/extract"
	"go.uber.org/zap"
)

// Adapter extracts article text from a page of a particular site
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle reports whether this adapter understands pages at url
	CanHandle(url string) bool

	// Extract returns the raw article text of doc; cleaning happens in the registry
	Extract(doc *goquery.Document, url string) (string, error)
}

// Registry resolves an adapter per URL, falling back to the generic one
type Registry struct {
	adapters []Adapter
	generic  Adapter
	maxChars int
	logger   *zap.Logger
}

// NewRegistry creates a registry with the built-in site adapters
func NewRegistry(maxChars int, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxChars <= 0 {
		maxChars = extract.DefaultMaxChars
	}

	registry := &Registry{
		generic:  NewGenericAdapter(),
		maxChars: maxChars,
		logger:   logger,
	}

	registry.Register(NewBBCAdapter(registry.generic))
	registry.Register(NewCNNAdapter(registry.generic))

	return registry
}

// Register appends a site adapter; earlier registrations win
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// Resolve returns the adapter for url
func (r *Registry) Resolve(url string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(url) {
			return adapter
		}
	}
	return r.generic
}

// Extract returns cleaned article text for markup fetched from url. It never
// fails: parse errors, adapter errors and adapter panics all yield "".
func (r *Registry) Extract(markup, url string) (text string) {
	if len(markup) < minMarkup {
		return ""
	}

	adapter := r.Resolve(url)
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("extractor panicked",
				zap.String("url", url),
				zap.String("adapter", adapter.Name()),
				zap.String("panic", fmt.Sprint(rec)))
			text = ""
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		r.logger.Warn("parse markup failed", zap.String("url", url), zap.Error(err))
		return extract.Clean(extract.VisibleText(markup), r.maxChars)
	}

	raw, err := adapter.Extract(doc, url)
	if err != nil {
		r.logger.Warn("extraction failed",
			zap.String("url", url),
			zap.String("adapter", adapter.Name()),
			zap.Error(err))
		return ""
	}
	return extract.Clean(raw, r.maxChars)
}

// minMarkup is the shortest markup worth parsing
const minMarkup = 100

// hostMatches reports whether the URL's host contains pattern (e.g. "bbc.")
func hostMatches(rawURL, pattern string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(u.Hostname()), pattern)
}

// joinParagraphs concatenates the text of each selected node
func joinParagraphs(sel *goquery.Selection) string {
	var parts []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n")
}
