package model

import "time"

// VerdictResult is the aggregator's output for one claim
type VerdictResult struct {
	Verdict     Verdict          `json:"verdict"`
	Confidence  float64          `json:"confidence"`
	Explanation string           `json:"explanation"`
	Conclusion  string           `json:"conclusion"`
	Category    Category         `json:"category"`
	Sources     []SourceJudgment `json:"sources"` // Full unfiltered input list
	Breakdown   Breakdown        `json:"breakdown"`
}

// Breakdown exposes the numbers behind a verdict so it can be audited
type Breakdown struct {
	Considered         int      `json:"considered"`          // Judgments past the relevance/confidence filter
	Excluded           int      `json:"excluded"`            // Judgments dropped by the filter
	TotalWeight        float64  `json:"total_weight"`        // Sum of sourceWeight*temporalWeight
	WeightedSupport    float64  `json:"weighted_support"`    // S in [0,1]
	WeightedConfidence float64  `json:"weighted_confidence"` // C in [0,100]
	Override           bool     `json:"override"`            // Authoritative source decided the verdict
	OverrideSource     string   `json:"override_source,omitempty"`
	Signals            []Signal `json:"signals,omitempty"`
}

// Signal is one transparent step of the aggregation with its inputs
type Signal struct {
	Type        SignalType             `json:"type"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SignalType classifies an aggregation signal
type SignalType string

const (
	SignalFilter        SignalType = "filter"         // Relevance/confidence filtering
	SignalOverride      SignalType = "override"       // Authoritative override fired
	SignalWeightedScore SignalType = "weighted_score" // Weighted average computed
	SignalCategory      SignalType = "category"       // Category classification
)

// Status of a pipeline run
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Timings records elapsed seconds per pipeline stage
type Timings struct {
	Search   float64 `json:"search"`
	Scraping float64 `json:"scraping"`
	Analysis float64 `json:"analysis"`
	Database float64 `json:"database"`
}

// Observe stores d (in seconds) under the named stage
func (t *Timings) Observe(stage string, d time.Duration) {
	s := d.Seconds()
	switch stage {
	case "search":
		t.Search = s
	case "scraping":
		t.Scraping = s
	case "analysis":
		t.Analysis = s
	case "database":
		t.Database = s
	}
}

// VerificationResult is the user-facing outcome of a full verification run
type VerificationResult struct {
	Status      string           `json:"status"` // success or error
	ClaimID     string           `json:"claim_id,omitempty"`
	Claim       string           `json:"claim"`
	Verdict     Verdict          `json:"verdict,omitempty"`
	Confidence  float64          `json:"confidence"`
	Explanation string           `json:"explanation,omitempty"`
	Conclusion  string           `json:"conclusion,omitempty"`
	Category    Category         `json:"category,omitempty"`
	Sources     []SourceJudgment `json:"sources"`
	Breakdown   *Breakdown       `json:"breakdown,omitempty"`
	Timings     Timings          `json:"timings"`
	Message     string           `json:"message,omitempty"`
	Error       string           `json:"error,omitempty"`
	CheckedAt   time.Time        `json:"checked_at"`
}
