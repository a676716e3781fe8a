package score

import (
	"testing"
	"time"

	"github.com/ppiankov/verinews/internal/model"
)

func TestTemporalWeight(t *testing.T) {
	tests := []struct {
		published string
		recent    bool
		want      float64
	}{
		{"", false, UnknownDateWeight},
		{"unknown", true, UnknownDateWeight},
		{"not a date", false, UnknownDateWeight},
		{"2025-01-01", true, 1.0},
		{"2023-12-01", true, 0.8},
		{"2021-06-01", true, 0.4},
		{"2015-01-01", true, 0.2},
		{"2024-01-01T08:30:00Z", false, 1.0},
		{"2018-01-01", false, 0.9},
		{"2015-01-01", false, 0.8},
		{"1990-01-01", false, 0.7},
		{"2026-01-01", true, 1.0},
	}

	for _, tt := range tests {
		got := TemporalWeight(tt.published, tt.recent, fixedNow)
		if got != tt.want {
			t.Errorf("TemporalWeight(%q, %v) = %v, want %v", tt.published, tt.recent, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{
		"2024-05-06",
		"2024-05-06T10:11:12Z",
		"2024-05-06T10:11:12+02:00",
		"2024-05-06 10:11:12",
		"Mon, 06 May 2024 10:11:12 GMT",
		"May 6, 2024",
		"2024-05-06T10:11:12.123456",
	} {
		got, ok := ParseDate(s)
		if !ok {
			t.Errorf("ParseDate(%q) failed", s)
			continue
		}
		if got.Year() != 2024 || got.Month() != time.May || got.Day() != 6 {
			t.Errorf("ParseDate(%q) = %v", s, got)
		}
	}

	if _, ok := ParseDate("yesterday-ish"); ok {
		t.Error("expected unparseable date to fail")
	}
}

func TestClaimDate(t *testing.T) {
	tests := []struct {
		claim string
		want  time.Time
		ok    bool
	}{
		{"The summit took place on 2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"Unemployment fell in 2019 and 2021", time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{"The election in 2025 was close", fixedNow, true},
		{"The president resigned today", fixedNow, true},
		{"Water boils at 100 degrees", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := ClaimDate(tt.claim, fixedNow)
		if ok != tt.ok || !got.Equal(tt.want) {
			t.Errorf("ClaimDate(%q) = %v, %v; want %v, %v", tt.claim, got, ok, tt.want, tt.ok)
		}
	}
}

func TestClaimRecent(t *testing.T) {
	if !ClaimRecent("The president resigned this week", "2001-01-01", fixedNow) {
		t.Error("time words in the claim should mark it recent regardless of the article")
	}
	if ClaimRecent("Unemployment fell in 2019", "2025-05-01", fixedNow) {
		t.Error("an old year in the claim should not be recent")
	}
	if !ClaimRecent("Unemployment fell", "2025-05-01", fixedNow) {
		t.Error("without a claim date the article date decides")
	}
	if ClaimRecent("Unemployment fell", "", fixedNow) {
		t.Error("no date anywhere should not be recent")
	}
}

func TestSourceName(t *testing.T) {
	tests := map[string]string{
		"https://www.bbc.co.uk/news/world": "bbc",
		"BBC News":                         "bbc",
		"apnews.com":                       "ap",
		"Associated Press":                 "ap",
		"Reuters":                          "reuters",
		"edition.cnn.com":                  "cnn",
		"The New York Times":               "nytimes",
		"nasa.gov":                         "nasa",
		"reuters.blogspot.com":             "reutersblogspotcom",
		"https://bbc.github.io/news":       "bbcgithubio",
		"":                                 "",
	}

	for in, want := range tests {
		if got := SourceName(in); got != want {
			t.Errorf("SourceName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSourceWeight(t *testing.T) {
	table := model.DefaultCredibility()
	if got := SourceWeight(table, "https://www.reuters.com/x"); got != 1.3 {
		t.Errorf("reuters weight = %v", got)
	}
	if got := SourceWeight(table, "unknown-blog.net"); got != DefaultSourceWeight {
		t.Errorf("unknown weight = %v", got)
	}
	for _, hosted := range []string{"reuters.blogspot.com", "bbc.github.io"} {
		if got := SourceWeight(table, hosted); got != DefaultSourceWeight {
			t.Errorf("%s weight = %v, want default", hosted, got)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := map[string]model.Category{
		"COVID vaccines cause autism":           model.CategoryHealth,
		"Elections were rigged":                 model.CategoryPolitics,
		"Apple released a new app":              model.CategoryTechnology,
		"NASA found water on Mars":              model.CategoryScience,
		"The stock market crashed":              model.CategoryFinance,
		"The Olympics were postponed":           model.CategorySports,
		"The movie broke box office records":    model.CategoryEntertainment,
		"Global  warming is accelerating":       model.CategoryEnvironment,
		"Paris is the capital of France":        model.CategoryGeneral,
		"She said the painting was stolen":      model.CategoryGeneral,
		"The senate vote will show the outcome": model.CategoryPolitics,
	}

	for claim, want := range tests {
		if got := Classify(claim); got != want {
			t.Errorf("Classify(%q) = %q, want %q", claim, got, want)
		}
	}
}
