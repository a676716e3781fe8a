package model

import "strings"

// Support is a single source's stance on a claim
type Support string

const (
	SupportTrue    Support = "True"
	SupportFalse   Support = "False"
	SupportPartial Support = "Partial"
	SupportUnknown Support = "Unknown"
)

// ParseSupport normalizes free-form model output ("true", " PARTIAL ") to a Support.
// Anything unrecognized is Unknown.
func ParseSupport(s string) Support {
	s = strings.TrimSpace(s)
	if s == "" {
		return SupportUnknown
	}
	switch Support(strings.ToUpper(s[:1]) + strings.ToLower(s[1:])) {
	case SupportTrue:
		return SupportTrue
	case SupportFalse:
		return SupportFalse
	case SupportPartial:
		return SupportPartial
	}
	return SupportUnknown
}

// Score maps support to its numeric value in the weighted average
func (s Support) Score() float64 {
	switch s {
	case SupportTrue:
		return 1.0
	case SupportPartial:
		return 0.5
	}
	return 0
}

// SourceJudgment is the model's assessment of one article against the claim.
// The article fields are inlined when serialized.
type SourceJudgment struct {
	EvidenceArticle
	Relevant      bool    `json:"relevant"`
	Support       Support `json:"support"`
	Confidence    float64 `json:"confidence"` // 0-100
	Reason        string  `json:"reason"`
	Authoritative bool    `json:"authoritative"`
}

// WeightedJudgment is a judgment that survived filtering, with its weights attached
type WeightedJudgment struct {
	SourceJudgment
	TemporalWeight float64 `json:"temporal_weight"`
	SourceWeight   float64 `json:"source_weight"`
}

// Weight is the combined weight used in the weighted average
func (w WeightedJudgment) Weight() float64 {
	return w.SourceWeight * w.TemporalWeight
}
