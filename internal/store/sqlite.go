package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/ppiankov/verinews/internal/model"
)

// SQLiteStore persists records in a local SQLite file
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path
func NewSQLiteStore(ctx context.Context, path string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", withPragmas(path))
	if err != nil {
		return nil, persistErr("open", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the tables when missing
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return persistErr("migrate", err)
		}
	}
	s.logger.Debug("sqlite schema ready")
	return nil
}

func (s *SQLiteStore) UpsertSource(ctx context.Context, src model.SourceRecord) (uuid.UUID, error) {
	src = prepareSource(src)

	var id uuid.UUID
	err := s.db.QueryRowContext(
		ctx, fmt.Sprintf(upsertSourceQuery, sqliteParams(10)),
		src.ID,
		src.URL,
		src.Domain,
		src.Title,
		src.Snippet,
		src.Content,
		src.PublishedDate,
		src.SourceName,
		src.CredibilityScore,
		src.LastScrapedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, persistErr("upsert source", err)
	}
	return id, nil
}

func (s *SQLiteStore) InsertClaimWithAnalyses(ctx context.Context, claim model.ClaimRecord, analyses []model.AnalysisRecord) (uuid.UUID, error) {
	claim, analyses = prepareClaim(claim, analyses)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, persistErr("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx, fmt.Sprintf(insertClaimQuery, sqliteParams(8)),
		claim.ID,
		claim.Text,
		string(claim.Verdict),
		claim.Confidence,
		claim.Explanation,
		claim.Conclusion,
		string(claim.Category),
		claim.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, persistErr("insert claim", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(insertAnalysisQuery, sqliteParams(8)))
	if err != nil {
		return uuid.Nil, persistErr("prepare analysis", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, a := range analyses {
		if _, err := stmt.ExecContext(ctx, a.ID, a.ClaimID, a.SourceID, string(a.Support), a.Confidence, a.Reason, a.AnalysisText, a.CreatedAt); err != nil {
			return uuid.Nil, persistErr("insert analysis", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, persistErr("commit", err)
	}
	return claim.ID, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// withPragmas enables foreign keys and a busy timeout on every connection
func withPragmas(path string) string {
	if strings.Contains(path, "_pragma=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func sqliteParams(n int) string {
	return params(n, func(int) string { return "?" })
}

func params(n int, placeholder func(i int) string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = placeholder(i + 1)
	}
	return strings.Join(parts, ", ")
}
