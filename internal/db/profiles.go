package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rohan/ai-counselor/internal/types"
)

// GetProfile loads the user's profile snapshot and onboarding step.
// A user with no profile row yet gets an empty profile at the first step.
func (db *DB) GetProfile(ctx context.Context, userID uuid.UUID) (types.Profile, string, error) {
	var (
		profile  types.Profile
		step     string
		academic []byte
		goal     []byte
		budget   []byte
		exams    []byte
	)

	err := db.pool.QueryRow(ctx,
		`SELECT onboarding_step, academic_background, study_goal, budget, exams_readiness
		 FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&step, &academic, &goal, &budget, &exams)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Profile{}, types.StepAcademicBackground, nil
		}
		return types.Profile{}, "", fmt.Errorf("failed to get profile: %w", err)
	}

	if err := decodeSection(academic, &profile.AcademicBackground); err != nil {
		return types.Profile{}, "", err
	}
	if err := decodeSection(goal, &profile.StudyGoal); err != nil {
		return types.Profile{}, "", err
	}
	if err := decodeSection(budget, &profile.Budget); err != nil {
		return types.Profile{}, "", err
	}
	if err := decodeSection(exams, &profile.ExamsReadiness); err != nil {
		return types.Profile{}, "", err
	}

	return profile, step, nil
}

// UpdateProfile upserts the provided sections and records the onboarding step.
func (db *DB) UpdateProfile(ctx context.Context, userID uuid.UUID, req types.UpdateProfileRequest, step string) error {
	academic, err := encodeSection(req.AcademicBackground)
	if err != nil {
		return err
	}
	goal, err := encodeSection(req.StudyGoal)
	if err != nil {
		return err
	}
	budget, err := encodeSection(req.Budget)
	if err != nil {
		return err
	}
	exams, err := encodeSection(req.ExamsReadiness)
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, onboarding_step, academic_background, study_goal, budget, exams_readiness)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE SET
			onboarding_step = $2,
			academic_background = COALESCE($3, profiles.academic_background),
			study_goal = COALESCE($4, profiles.study_goal),
			budget = COALESCE($5, profiles.budget),
			exams_readiness = COALESCE($6, profiles.exams_readiness),
			updated_at = NOW()`,
		userID, step, academic, goal, budget, exams,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func encodeSection(section any) ([]byte, error) {
	if section == nil {
		return nil, nil
	}
	// Typed nil pointers must also become SQL NULL.
	switch v := section.(type) {
	case *types.AcademicBackground:
		if v == nil {
			return nil, nil
		}
	case *types.StudyGoal:
		if v == nil {
			return nil, nil
		}
	case *types.Budget:
		if v == nil {
			return nil, nil
		}
	case *types.ExamsReadiness:
		if v == nil {
			return nil, nil
		}
	}
	data, err := json.Marshal(section)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile section: %w", err)
	}
	return data, nil
}

func decodeSection[T any](data []byte, dst **T) error {
	if len(data) == 0 {
		return nil
	}
	var section T
	if err := json.Unmarshal(data, &section); err != nil {
		return fmt.Errorf("failed to unmarshal profile section: %w", err)
	}
	*dst = &section
	return nil
}
