package adapters

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// GenericAdapter is the fallback adapter for unknown domains. It strips page
// chrome, then takes the first content container holding enough text.
type GenericAdapter struct{}

// NewGenericAdapter creates a new generic adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// Name returns the adapter name
func (a *GenericAdapter) Name() string {
	return "generic"
}

// CanHandle always returns true (fallback adapter)
func (a *GenericAdapter) CanHandle(url string) bool {
	return true
}

const (
	chromeTags    = "script, style, noscript, header, footer, nav, aside, form, iframe, button"
	chromeClasses = ".ad, .sidebar, .related, .comments, .newsletter, .social, .share"
	minContainer  = 200
)

var contentSelectors = []string{
	"article",
	"[itemprop='articleBody']",
	".article-content",
	".post-content",
	".entry-content",
	".story-body",
	".content-body",
	"main",
}

// Extract returns the text of the main content container or, failing that,
// the whole body.
func (a *GenericAdapter) Extract(doc *goquery.Document, url string) (string, error) {
	doc.Find(chromeTags).Remove()
	doc.Find(chromeClasses).Remove()

	for _, sel := range contentSelectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); len(text) > minContainer {
			return text, nil
		}
	}
	return strings.TrimSpace(doc.Find("body").Text()), nil
}
