package observability

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jonathan/jobmatch/internal/failure"
	"github.com/jonathan/jobmatch/internal/types"
)

const attemptEventsSchema = `
CREATE TABLE IF NOT EXISTS attempt_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	attempt_id TEXT NOT NULL,
	outcome TEXT NOT NULL,
	kind TEXT,
	parsing_method TEXT,
	duration_ms INTEGER NOT NULL,
	timestamp INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_attempt_events_ts ON attempt_events(timestamp);
`

// SQLiteStore persists events to a local sqlite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the database at path.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open telemetry db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, attemptEventsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create telemetry schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Write(ctx context.Context, events []Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO attempt_events
		(attempt_id, outcome, kind, parsing_method, duration_ms, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range events {
		if _, err := stmt.ExecContext(ctx, e.AttemptID, string(e.Outcome), string(e.Kind),
			string(e.ParsingMethod), e.DurationMs, e.Timestamp.UnixMicro()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert: %w", err)
		}
	}
	return tx.Commit()
}

// Recent returns up to limit events, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT attempt_id, outcome, kind, parsing_method, duration_ms, timestamp
		FROM attempt_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		var (
			e                     Event
			outcome, kind, method string
			ts                    int64
		)
		if err := rows.Scan(&e.AttemptID, &outcome, &kind, &method, &e.DurationMs, &ts); err != nil {
			return nil, err
		}
		e.Outcome = Outcome(outcome)
		e.Kind = failure.Kind(kind)
		e.ParsingMethod = types.ParsingMethod(method)
		e.Timestamp = time.UnixMicro(ts)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
