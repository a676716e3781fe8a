package adapters

import (
	"github.com/PuerkitoBio/goquery"
)

// siteAdapter reads the paragraphs a known site marks up consistently and
// defers to fallback when the layout has changed and nothing matches.
type siteAdapter struct {
	name     string
	pattern  string
	selector string
	fallback Adapter
}

func (a *siteAdapter) Name() string { return a.name }

func (a *siteAdapter) CanHandle(url string) bool {
	return hostMatches(url, a.pattern)
}

func (a *siteAdapter) Extract(doc *goquery.Document, url string) (string, error) {
	if text := joinParagraphs(doc.Find(a.selector)); text != "" {
		return text, nil
	}
	return a.fallback.Extract(doc, url)
}

// NewBBCAdapter handles bbc.co.uk and bbc.com articles
func NewBBCAdapter(fallback Adapter) Adapter {
	return &siteAdapter{
		name:     "bbc",
		pattern:  "bbc.",
		selector: "article div[data-component='text-block']",
		fallback: fallback,
	}
}

// NewCNNAdapter handles cnn.com articles
func NewCNNAdapter(fallback Adapter) Adapter {
	return &siteAdapter{
		name:     "cnn",
		pattern:  "cnn.",
		selector: ".article__content p.paragraph",
		fallback: fallback,
	}
}
