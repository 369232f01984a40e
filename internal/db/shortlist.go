package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/rohan/ai-counselor/internal/types"
)

// ReplaceShortlist swaps the user's unlocked shortlist for a freshly
// classified one. Locked entries survive reclassification.
func (db *DB) ReplaceShortlist(ctx context.Context, userID uuid.UUID, entries []types.ShortlistedUniversity) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin shortlist update: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM shortlisted_universities WHERE user_id = $1 AND is_locked = FALSE`,
		userID,
	); err != nil {
		return fmt.Errorf("failed to clear shortlist: %w", err)
	}

	for _, entry := range entries {
		var data []byte
		if entry.Insight != nil {
			data, err = json.Marshal(entry.Insight)
			if err != nil {
				return fmt.Errorf("failed to marshal insight: %w", err)
			}
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO shortlisted_universities (user_id, university_name, country, category, data)
			 VALUES ($1, $2, $3, $4, $5)`,
			userID, entry.Name, entry.Country, entry.Category, data,
		); err != nil {
			return fmt.Errorf("failed to insert shortlist entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit shortlist update: %w", err)
	}
	return nil
}

// ListShortlist returns the user's shortlist. When lockedOnly is set, only
// locked (final-choice) universities are returned.
func (db *DB) ListShortlist(ctx context.Context, userID uuid.UUID, lockedOnly bool) ([]types.ShortlistedUniversity, error) {
	query := `SELECT id, university_name, country, category, is_locked, data
		 FROM shortlisted_universities WHERE user_id = $1`
	if lockedOnly {
		query += ` AND is_locked = TRUE`
	}
	query += ` ORDER BY category, university_name`

	rows, err := db.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shortlist: %w", err)
	}
	defer rows.Close()

	entries := make([]types.ShortlistedUniversity, 0)
	for rows.Next() {
		var entry types.ShortlistedUniversity
		var id uuid.UUID
		var data []byte
		if err := rows.Scan(&id, &entry.Name, &entry.Country, &entry.Category, &entry.IsLocked, &data); err != nil {
			return nil, fmt.Errorf("failed to scan shortlist entry: %w", err)
		}
		entry.ID = id.String()
		if len(data) > 0 {
			var insight types.UniversityInsight
			if err := json.Unmarshal(data, &insight); err == nil {
				entry.Insight = &insight
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shortlist: %w", err)
	}
	return entries, nil
}

// LockUniversity marks a shortlist entry as a final choice. Returns false
// when the entry does not belong to the user.
func (db *DB) LockUniversity(ctx context.Context, userID, entryID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE shortlisted_universities SET is_locked = TRUE WHERE id = $1 AND user_id = $2`,
		entryID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to lock university: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
