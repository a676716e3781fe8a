package adapters

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func longText(word string) string {
	return strings.TrimSpace(strings.Repeat(word+" ", 60))
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry(0, nil)

	tests := map[string]string{
		"https://www.bbc.co.uk/news/science-1":  "bbc",
		"https://www.bbc.com/news/world-2":      "bbc",
		"https://edition.cnn.com/2024/01/01/x":  "cnn",
		"https://www.reuters.com/world/story-3": "generic",
		"::not a url::":                         "generic",
	}
	for url, want := range tests {
		if got := r.Resolve(url).Name(); got != want {
			t.Errorf("Resolve(%q) = %s, want %s", url, got, want)
		}
	}
}

type hostAdapter struct {
	name string
	host string
}

func (a hostAdapter) Name() string { return a.name }

func (a hostAdapter) CanHandle(url string) bool { return strings.Contains(url, a.host) }

func (a hostAdapter) Extract(doc *goquery.Document, url string) (string, error) {
	return doc.Find("p").First().Text(), nil
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry(0, nil)
	r.Register(hostAdapter{name: "reuters", host: "reuters.com"})
	r.Register(hostAdapter{name: "bbc-override", host: "bbc.co.uk"})

	if got := r.Resolve("https://www.reuters.com/world/story").Name(); got != "reuters" {
		t.Errorf("Resolve(reuters) = %s, want reuters", got)
	}
	if got := r.Resolve("https://www.bbc.co.uk/news/1").Name(); got != "bbc" {
		t.Errorf("earlier registration should win, got %s", got)
	}
}

func TestGeneric_PrefersArticleContainer(t *testing.T) {
	markup := `<html><body>
<nav>Home News Sport</nav>
<div class="sidebar">Trending now</div>
<article><p>` + longText("evidence") + `</p><div class="share">Share this</div></article>
<footer>Footer links</footer>
</body></html>`

	got := NewRegistry(0, nil).Extract(markup, "https://example.com/story")
	if !strings.HasPrefix(got, "evidence evidence") {
		t.Fatalf("unexpected text: %q", got)
	}
	for _, unwanted := range []string{"Home News", "Trending", "Share this", "Footer"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("extracted text contains page chrome %q", unwanted)
		}
	}
}

func TestGeneric_FallsBackToBody(t *testing.T) {
	markup := `<html><body><div><p>A short note that is still worth reading for the claim at hand.</p></div><script>track()</script></body></html>`
	got := NewRegistry(0, nil).Extract(markup, "https://example.com/note")
	if got != "A short note that is still worth reading for the claim at hand." {
		t.Errorf("Extract() = %q", got)
	}
}

func TestRegistry_ShortMarkupIsEmpty(t *testing.T) {
	if got := NewRegistry(0, nil).Extract("<p>tiny</p>", "https://example.com"); got != "" {
		t.Errorf("expected empty text for tiny markup, got %q", got)
	}
}

func TestBBCAdapter(t *testing.T) {
	markup := `<html><body><article>
<div data-component="headline-block"><h1>Headline</h1></div>
<div data-component="text-block"><p>First paragraph.</p></div>
<div data-component="text-block"><p>Second paragraph.</p></div>
</article></body></html>`

	got := NewRegistry(0, nil).Extract(markup, "https://www.bbc.co.uk/news/1")
	if got != "First paragraph. Second paragraph." {
		t.Errorf("Extract() = %q", got)
	}
}

func TestCNNAdapter_FallsBackWhenLayoutChanges(t *testing.T) {
	markup := `<html><body><main><p>` + longText("fallback") + `</p></main></body></html>`
	got := NewRegistry(0, nil).Extract(markup, "https://edition.cnn.com/story")
	if !strings.HasPrefix(got, "fallback fallback") {
		t.Errorf("Extract() = %q", got)
	}
}

type panicAdapter struct{}

func (panicAdapter) Name() string { return "panic" }
func (panicAdapter) CanHandle(url string) bool { return strings.Contains(url, "boom") }
func (panicAdapter) Extract(*goquery.Document, string) (string, error) { panic("selector exploded") }

type failingAdapter struct{}

func (failingAdapter) Name() string { return "failing" }
func (failingAdapter) CanHandle(url string) bool { return strings.Contains(url, "fail") }
func (failingAdapter) Extract(*goquery.Document, string) (string, error) {
	return "", errors.New("layout not recognised")
}

func TestRegistry_ExtractorFailuresDegradeToEmpty(t *testing.T) {
	r := NewRegistry(0, nil)
	r.adapters = append([]Adapter{panicAdapter{}, failingAdapter{}}, r.adapters...)

	markup := `<html><body><article><p>` + longText("text") + `</p></article></body></html>`

	if got := r.Extract(markup, "https://boom.example/a"); got != "" {
		t.Errorf("panicking adapter: got %q, want empty", got)
	}
	if got := r.Extract(markup, "https://fail.example/a"); got != "" {
		t.Errorf("failing adapter: got %q, want empty", got)
	}
}

func TestRegistry_RespectsMaxChars(t *testing.T) {
	markup := `<html><body><article><p>` + longText("abcdefghij") + `</p></article></body></html>`
	if got := NewRegistry(50, nil).Extract(markup, "https://example.com"); len(got) != 50 {
		t.Errorf("expected 50 chars, got %d", len(got))
	}
}
