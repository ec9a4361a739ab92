// Package db provides PostgreSQL storage for user profiles and resume uploads.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	user_id UUID PRIMARY KEY,
	full_name TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	experience INTEGER NOT NULL DEFAULT 0,
	skills JSONB NOT NULL DEFAULT '[]',
	education JSONB NOT NULL DEFAULT '[]',
	job_titles JSONB NOT NULL DEFAULT '[]',
	achievements JSONB NOT NULL DEFAULT '[]',
	certifications JSONB NOT NULL DEFAULT '[]',
	languages JSONB NOT NULL DEFAULT '[]',
	projects JSONB NOT NULL DEFAULT '[]',
	resume_parsing_method TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS resume_uploads (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL,
	filename TEXT NOT NULL,
	size_bytes BIGINT NOT NULL,
	parsed_data JSONB NOT NULL,
	normalized JSONB NOT NULL,
	parsing_method TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_resume_uploads_user_created
	ON resume_uploads (user_id, created_at DESC);
`

// EnsureSchema creates the tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
