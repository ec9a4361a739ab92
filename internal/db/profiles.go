package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/jobmatch/internal/types"
)

// GetProfile returns the user's profile. A user without a stored profile
// gets an empty one.
func (db *DB) GetProfile(ctx context.Context, userID uuid.UUID) (types.ProfileState, error) {
	var (
		state                                    types.ProfileState
		skills, education, jobTitles             []byte
		achievements, certs, languages, projects []byte
		method                                   string
	)
	err := db.pool.QueryRow(ctx,
		`SELECT full_name, bio, location, phone, experience,
		        skills, education, job_titles, achievements, certifications, languages, projects,
		        resume_parsing_method
		 FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&state.FullName, &state.Bio, &state.Location, &state.Phone, &state.Experience,
		&skills, &education, &jobTitles, &achievements, &certs, &languages, &projects, &method)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return emptyProfileState(), nil
		}
		return types.ProfileState{}, fmt.Errorf("failed to get profile: %w", err)
	}

	if state.Skills, err = decodeList[string](skills, "skills"); err != nil {
		return types.ProfileState{}, err
	}
	if state.Education, err = decodeList[types.Education](education, "education"); err != nil {
		return types.ProfileState{}, err
	}
	if state.JobTitles, err = decodeList[string](jobTitles, "job_titles"); err != nil {
		return types.ProfileState{}, err
	}
	if state.Achievements, err = decodeList[string](achievements, "achievements"); err != nil {
		return types.ProfileState{}, err
	}
	if state.Certifications, err = decodeList[string](certs, "certifications"); err != nil {
		return types.ProfileState{}, err
	}
	if state.Languages, err = decodeList[string](languages, "languages"); err != nil {
		return types.ProfileState{}, err
	}
	if state.Projects, err = decodeList[types.Project](projects, "projects"); err != nil {
		return types.ProfileState{}, err
	}
	if m, ok := types.ParseParsingMethod(method); ok {
		state.ResumeParsingMethod = m
	}
	return state, nil
}

// SaveProfile replaces the user's profile.
func (db *DB) SaveProfile(ctx context.Context, userID uuid.UUID, state types.ProfileState) error {
	lists := make([][]byte, 0, 7)
	for _, encode := range []func() ([]byte, error){
		func() ([]byte, error) { return encodeList(state.Skills) },
		func() ([]byte, error) { return encodeList(state.Education) },
		func() ([]byte, error) { return encodeList(state.JobTitles) },
		func() ([]byte, error) { return encodeList(state.Achievements) },
		func() ([]byte, error) { return encodeList(state.Certifications) },
		func() ([]byte, error) { return encodeList(state.Languages) },
		func() ([]byte, error) { return encodeList(state.Projects) },
	} {
		data, err := encode()
		if err != nil {
			return fmt.Errorf("failed to encode profile: %w", err)
		}
		lists = append(lists, data)
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, full_name, bio, location, phone, experience,
		                       skills, education, job_titles, achievements, certifications, languages, projects,
		                       resume_parsing_method)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (user_id) DO UPDATE SET
		   full_name = $2, bio = $3, location = $4, phone = $5, experience = $6,
		   skills = $7, education = $8, job_titles = $9, achievements = $10,
		   certifications = $11, languages = $12, projects = $13,
		   resume_parsing_method = $14, updated_at = NOW()`,
		userID, state.FullName, state.Bio, state.Location, state.Phone, state.Experience,
		lists[0], lists[1], lists[2], lists[3], lists[4], lists[5], lists[6],
		string(state.ResumeParsingMethod),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
