// Package store persists verified claims, their sources and the per-source
// analyses that link them.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/verinews/internal/model"
)

// ErrPersistence wraps every storage failure
var ErrPersistence = errors.New("persistence failed")

// RecordStore is the write side of the record store. UpsertSource returns
// the existing id when the URL was stored before. InsertClaimWithAnalyses
// writes the claim and all of its analyses atomically.
type RecordStore interface {
	UpsertSource(ctx context.Context, src model.SourceRecord) (uuid.UUID, error)
	InsertClaimWithAnalyses(ctx context.Context, claim model.ClaimRecord, analyses []model.AnalysisRecord) (uuid.UUID, error)
	Close() error
}

// Open connects to the configured store and applies the schema
func Open(ctx context.Context, cfg model.StoreConfig, logger *zap.Logger) (RecordStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch strings.ToLower(cfg.Driver) {
	case "", "memory":
		return NewMemoryStore(), nil
	case "postgres", "postgresql", "pgx":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("%w: postgres store requires a DSN (DATABASE_URL)", ErrPersistence)
		}
		return NewPostgresStore(ctx, cfg.DSN, logger)
	case "sqlite", "sqlite3":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "verinews.db"
		}
		return NewSQLiteStore(ctx, dsn, logger)
	}
	return nil, fmt.Errorf("%w: unknown store driver %q", ErrPersistence, cfg.Driver)
}

func persistErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// prepareClaim fills in ids and timestamps the caller left empty
func prepareClaim(claim model.ClaimRecord, analyses []model.AnalysisRecord) (model.ClaimRecord, []model.AnalysisRecord) {
	if claim.ID == uuid.Nil {
		claim.ID = uuid.New()
	}
	if claim.CreatedAt.IsZero() {
		claim.CreatedAt = nowUTC()
	}

	out := make([]model.AnalysisRecord, len(analyses))
	for i, a := range analyses {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = claim.CreatedAt
		}
		a.ClaimID = claim.ID
		if r := []rune(a.AnalysisText); len(r) > model.AnalysisTextLimit {
			a.AnalysisText = string(r[:model.AnalysisTextLimit])
		}
		out[i] = a
	}
	return claim, out
}

func prepareSource(src model.SourceRecord) model.SourceRecord {
	if src.ID == uuid.Nil {
		src.ID = uuid.New()
	}
	if src.LastScrapedAt.IsZero() {
		src.LastScrapedAt = nowUTC()
	}
	return src
}
