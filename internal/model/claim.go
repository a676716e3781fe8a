package model

import (
	"math"
	"time"
)

// Claim represents a natural-language assertion submitted for verification
type Claim struct {
	ID          string    `json:"id,omitempty"`
	Text        string    `json:"text"`                  // The claim as submitted
	Verdict     Verdict   `json:"verdict,omitempty"`     // Final aggregated verdict
	Confidence  float64   `json:"confidence"`            // 0-100
	Explanation string    `json:"explanation,omitempty"` // Templated explanation of the verdict
	Conclusion  string    `json:"conclusion,omitempty"`  // Short user-facing conclusion
	Category    Category  `json:"category,omitempty"`    // Topical category of the claim text
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// Verdict is the aggregated outcome for a claim
type Verdict string

const (
	VerdictTrue      Verdict = "True"
	VerdictFalse     Verdict = "False"
	VerdictPartial   Verdict = "Partial"
	VerdictUncertain Verdict = "Uncertain"
)

// Category is the coarse topical label of a claim
type Category string

const (
	CategoryHealth        Category = "health"
	CategoryPolitics      Category = "politics"
	CategoryTechnology    Category = "technology"
	CategoryScience       Category = "science"
	CategoryFinance       Category = "finance"
	CategorySports        Category = "sports"
	CategoryEntertainment Category = "entertainment"
	CategoryEnvironment   Category = "environment"
	CategoryGeneral       Category = "general"
)

// ClampConfidence bounds a confidence value to [0, 100]. NaN maps to 0.
func ClampConfidence(c float64) float64 {
	if math.IsNaN(c) {
		return 0
	}
	return math.Max(0, math.Min(100, c))
}
