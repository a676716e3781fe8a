package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Meta is page-level metadata used to backfill search results
type Meta struct {
	Title     string
	Published string // Raw value as found in the page
	SiteName  string
}

var publishedSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property='article:published_time']`, "content"},
	{`meta[name='article:published_time']`, "content"},
	{`meta[itemprop='datePublished']`, "content"},
	{`meta[name='pubdate']`, "content"},
	{`meta[name='date']`, "content"},
	{`time[datetime]`, "datetime"},
}

// Metadata reads title, publication date and site name from markup
func Metadata(markup string) Meta {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return Meta{}
	}

	var m Meta
	if v, ok := doc.Find(`meta[property='og:title']`).First().Attr("content"); ok {
		m.Title = strings.TrimSpace(v)
	}
	if m.Title == "" {
		m.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if v, ok := doc.Find(`meta[property='og:site_name']`).First().Attr("content"); ok {
		m.SiteName = strings.TrimSpace(v)
	}
	for _, ps := range publishedSelectors {
		if v, ok := doc.Find(ps.selector).First().Attr(ps.attr); ok && strings.TrimSpace(v) != "" {
			m.Published = strings.TrimSpace(v)
			break
		}
	}
	return m
}
