package store

import "time"

var nowUTC = func() time.Time { return time.Now().UTC() }

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS sources (
		id UUID PRIMARY KEY,
		url TEXT NOT NULL UNIQUE,
		domain TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		snippet TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		published_date TIMESTAMPTZ,
		source_name TEXT NOT NULL DEFAULT '',
		credibility_score DOUBLE PRECISION NOT NULL DEFAULT 1.0,
		last_scraped_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS claims (
		id UUID PRIMARY KEY,
		text TEXT NOT NULL,
		verdict TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		explanation TEXT NOT NULL DEFAULT '',
		conclusion TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT 'general',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS analyses (
		id UUID PRIMARY KEY,
		claim_id UUID NOT NULL REFERENCES claims(id) ON DELETE CASCADE,
		source_id UUID NOT NULL REFERENCES sources(id),
		support TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		analysis_text TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_analyses_claim_id ON analyses(claim_id)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS sources (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL UNIQUE,
		domain TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		snippet TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		published_date DATETIME,
		source_name TEXT NOT NULL DEFAULT '',
		credibility_score REAL NOT NULL DEFAULT 1.0,
		last_scraped_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS claims (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		verdict TEXT NOT NULL,
		confidence REAL NOT NULL,
		explanation TEXT NOT NULL DEFAULT '',
		conclusion TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT 'general',
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		claim_id TEXT NOT NULL REFERENCES claims(id) ON DELETE CASCADE,
		source_id TEXT NOT NULL REFERENCES sources(id),
		support TEXT NOT NULL,
		confidence REAL NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		analysis_text TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_analyses_claim_id ON analyses(claim_id)`,
}

const upsertSourceQuery = `
	INSERT INTO sources (
		id, url, domain, title, snippet, content, published_date,
		source_name, credibility_score, last_scraped_at
	) VALUES (%s)
	ON CONFLICT (url) DO UPDATE SET
		title = excluded.title,
		snippet = excluded.snippet,
		content = excluded.content,
		published_date = COALESCE(excluded.published_date, sources.published_date),
		source_name = excluded.source_name,
		credibility_score = excluded.credibility_score,
		last_scraped_at = excluded.last_scraped_at
	RETURNING id`

const insertClaimQuery = `
	INSERT INTO claims (
		id, text, verdict, confidence, explanation, conclusion, category, created_at
	) VALUES (%s)`

const insertAnalysisQuery = `
	INSERT INTO analyses (
		id, claim_id, source_id, support, confidence, reason, analysis_text, created_at
	) VALUES (%s)`
