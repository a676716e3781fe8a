package model

// FetchStatus reports whether an article's page could be retrieved
type FetchStatus string

const (
	FetchSuccess FetchStatus = "success"
	FetchError   FetchStatus = "error"
	FetchUnknown FetchStatus = "unknown"
)

// EvidenceArticle is one search hit, optionally enriched with scraped page text
type EvidenceArticle struct {
	URL           string      `json:"url"`
	Title         string      `json:"title"`
	Snippet       string      `json:"snippet,omitempty"`
	Content       string      `json:"content,omitempty"`        // Cleaned article body, may be empty
	Source        string      `json:"source,omitempty"`         // Publisher domain or name (e.g., "reuters.com")
	PublishedDate string      `json:"published_date,omitempty"` // As reported upstream; unparsed
	Status        FetchStatus `json:"status,omitempty"`
	Error         string      `json:"error,omitempty"` // Fetch failure message when Status is error
}

// Text returns the best available body for judgment: content, else the snippet
func (a EvidenceArticle) Text() string {
	if a.Content != "" {
		return a.Content
	}
	return a.Snippet
}
