package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ppiankov/verinews/internal/model"
)

// MemoryStore keeps records in process; used when no database is configured
// and in tests
type MemoryStore struct {
	mu       sync.RWMutex
	sources  map[string]model.SourceRecord // by URL
	claims   map[uuid.UUID]model.ClaimRecord
	analyses map[uuid.UUID][]model.AnalysisRecord // by claim
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sources:  make(map[string]model.SourceRecord),
		claims:   make(map[uuid.UUID]model.ClaimRecord),
		analyses: make(map[uuid.UUID][]model.AnalysisRecord),
	}
}

func (s *MemoryStore) UpsertSource(ctx context.Context, src model.SourceRecord) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, persistErr("upsert source", err)
	}
	if src.URL == "" {
		return uuid.Nil, persistErr("upsert source", fmt.Errorf("empty url"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	src = prepareSource(src)
	if existing, ok := s.sources[src.URL]; ok {
		src.ID = existing.ID
		if src.PublishedDate == nil {
			src.PublishedDate = existing.PublishedDate
		}
	}
	s.sources[src.URL] = src
	return src.ID, nil
}

// InsertClaimWithAnalyses validates every analysis before committing any of
// them, so a failure leaves the store unchanged
func (s *MemoryStore) InsertClaimWithAnalyses(ctx context.Context, claim model.ClaimRecord, analyses []model.AnalysisRecord) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, persistErr("insert claim", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	claim, analyses = prepareClaim(claim, analyses)
	if _, dup := s.claims[claim.ID]; dup {
		return uuid.Nil, persistErr("insert claim", fmt.Errorf("duplicate claim id %s", claim.ID))
	}

	known := make(map[uuid.UUID]bool, len(s.sources))
	for _, src := range s.sources {
		known[src.ID] = true
	}
	for _, a := range analyses {
		if !known[a.SourceID] {
			return uuid.Nil, persistErr("insert analysis", fmt.Errorf("unknown source id %s", a.SourceID))
		}
	}

	s.claims[claim.ID] = claim
	s.analyses[claim.ID] = analyses
	return claim.ID, nil
}

func (s *MemoryStore) Close() error { return nil }

// Claim returns a stored claim and its analyses
func (s *MemoryStore) Claim(id uuid.UUID) (model.ClaimRecord, []model.AnalysisRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.claims[id]
	return c, append([]model.AnalysisRecord(nil), s.analyses[id]...), ok
}

// Source returns the stored source for url
func (s *MemoryStore) Source(url string) (model.SourceRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, ok := s.sources[url]
	return src, ok
}

// Counts reports the number of stored sources and claims
func (s *MemoryStore) Counts() (sources, claims int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sources), len(s.claims)
}
