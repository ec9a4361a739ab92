package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/jobmatch/internal/types"
)

// ResumeUpload is one stored extraction.
type ResumeUpload struct {
	ID            uuid.UUID              `json:"id"`
	UserID        uuid.UUID              `json:"user_id"`
	FileName      string                 `json:"filename"`
	SizeBytes     int64                  `json:"size_bytes"`
	ParsedData    map[string]any         `json:"parsed_data"`
	Normalized    types.CanonicalProfile `json:"normalized"`
	ParsingMethod types.ParsingMethod    `json:"parsing_method"`
	CreatedAt     time.Time              `json:"created_at"`
}

// encodeList marshals a slice as a JSON array; nil becomes [].
func encodeList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

// decodeList unmarshals a JSON array; NULL or empty input yields an empty slice.
func decodeList[T any](data []byte, column string) ([]T, error) {
	out := []T{}
	if len(data) == 0 || string(data) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", column, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// emptyProfileState is the profile of a user with no stored row.
func emptyProfileState() types.ProfileState {
	return types.ProfileState{
		Skills:         []string{},
		Education:      []types.Education{},
		JobTitles:      []string{},
		Achievements:   []string{},
		Certifications: []string{},
		Languages:      []string{},
		Projects:       []types.Project{},
	}
}
