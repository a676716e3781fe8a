package model

import (
	"time"

	"github.com/google/uuid"
)

// SourceRecord is the persisted form of an article; URL is unique
type SourceRecord struct {
	ID               uuid.UUID
	URL              string
	Domain           string
	Title            string
	Snippet          string
	Content          string
	PublishedDate    *time.Time
	SourceName       string
	CredibilityScore float64
	LastScrapedAt    time.Time
}

// ClaimRecord is the persisted form of a verified claim
type ClaimRecord struct {
	ID          uuid.UUID
	Text        string
	Verdict     Verdict
	Confidence  float64
	Explanation string
	Conclusion  string
	Category    Category
	CreatedAt   time.Time
}

// AnalysisRecord links a claim to one source with that source's judgment
type AnalysisRecord struct {
	ID           uuid.UUID
	ClaimID      uuid.UUID
	SourceID     uuid.UUID
	Support      Support
	Confidence   float64
	Reason       string
	AnalysisText string // First 500 characters of the analysed content
	CreatedAt    time.Time
}

// AnalysisTextLimit bounds AnalysisRecord.AnalysisText
const AnalysisTextLimit = 500
