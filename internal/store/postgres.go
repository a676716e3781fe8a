package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ppiankov/verinews/internal/model"
)

// PostgresStore persists records with a pgx connection pool
type PostgresStore struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore connects to dsn and applies the schema
func NewPostgresStore(ctx context.Context, dsn string, logger *zap.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, persistErr("connect", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, persistErr("ping", err)
	}

	s := &PostgresStore{db: pool, logger: logger}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the tables when missing
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return persistErr("migrate", err)
		}
	}
	s.logger.Debug("postgres schema ready")
	return nil
}

func (s *PostgresStore) UpsertSource(ctx context.Context, src model.SourceRecord) (uuid.UUID, error) {
	src = prepareSource(src)

	var id uuid.UUID
	err := s.db.QueryRow(
		ctx, fmt.Sprintf(upsertSourceQuery, postgresParams(10)),
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

func (s *PostgresStore) InsertClaimWithAnalyses(ctx context.Context, claim model.ClaimRecord, analyses []model.AnalysisRecord) (uuid.UUID, error) {
	claim, analyses = prepareClaim(claim, analyses)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, persistErr("begin", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(
		ctx, fmt.Sprintf(insertClaimQuery, postgresParams(8)),
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

	batch := &pgx.Batch{}
	query := fmt.Sprintf(insertAnalysisQuery, postgresParams(8))
	for _, a := range analyses {
		batch.Queue(query, a.ID, a.ClaimID, a.SourceID, string(a.Support), a.Confidence, a.Reason, a.AnalysisText, a.CreatedAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return uuid.Nil, persistErr("insert analyses", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, persistErr("commit", err)
	}
	return claim.ID, nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

// postgresParams renders "$1, $2, … $n"
func postgresParams(n int) string {
	return params(n, func(i int) string { return fmt.Sprintf("$%d", i) })
}
