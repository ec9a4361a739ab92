package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/jobmatch/internal/types"
)

// SaveResumeUpload stores an extraction and returns its ID. A zero ID is
// replaced with a new one.
func (db *DB) SaveResumeUpload(ctx context.Context, u *ResumeUpload) (uuid.UUID, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	parsed := u.ParsedData
	if parsed == nil {
		parsed = map[string]any{}
	}
	parsedJSON, err := json.Marshal(parsed)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal parsed data: %w", err)
	}
	normalizedJSON, err := json.Marshal(u.Normalized)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal normalized profile: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO resume_uploads (id, user_id, filename, size_bytes, parsed_data, normalized, parsing_method)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		u.ID, u.UserID, u.FileName, u.SizeBytes, parsedJSON, normalizedJSON, string(u.ParsingMethod),
	).Scan(&u.CreatedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save resume upload: %w", err)
	}
	return u.ID, nil
}

// LatestResumeUpload returns the user's most recent extraction, or nil when
// there is none.
func (db *DB) LatestResumeUpload(ctx context.Context, userID uuid.UUID) (*ResumeUpload, error) {
	var (
		u                  ResumeUpload
		parsed, normalized []byte
		method             string
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, filename, size_bytes, parsed_data, normalized, parsing_method, created_at
		 FROM resume_uploads WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		userID,
	).Scan(&u.ID, &u.UserID, &u.FileName, &u.SizeBytes, &parsed, &normalized, &method, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest resume upload: %w", err)
	}

	if err := json.Unmarshal(parsed, &u.ParsedData); err != nil {
		return nil, fmt.Errorf("failed to decode parsed data: %w", err)
	}
	if err := json.Unmarshal(normalized, &u.Normalized); err != nil {
		return nil, fmt.Errorf("failed to decode normalized profile: %w", err)
	}
	u.ParsingMethod = types.ParsingMethod(method)
	return &u, nil
}
