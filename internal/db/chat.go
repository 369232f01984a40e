package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rohan/ai-counselor/internal/types"
)

// CreateChatSession starts a new conversation for the user.
func (db *DB) CreateChatSession(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO chat_sessions (user_id) VALUES ($1) RETURNING id`,
		userID,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create chat session: %w", err)
	}
	return id, nil
}

// SessionBelongsTo reports whether the session is owned by the user.
func (db *DB) SessionBelongsTo(ctx context.Context, sessionID, userID uuid.UUID) (bool, error) {
	var count int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM chat_sessions WHERE id = $1 AND user_id = $2`,
		sessionID, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check chat session: %w", err)
	}
	return count > 0, nil
}

// AppendChatMessage stores one turn of the conversation.
func (db *DB) AppendChatMessage(ctx context.Context, sessionID uuid.UUID, role, content string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO chat_messages (session_id, role, content) VALUES ($1, $2, $3)`,
		sessionID, role, content,
	)
	if err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	return nil
}

// ChatHistory returns the session's messages in chronological order.
func (db *DB) ChatHistory(ctx context.Context, sessionID uuid.UUID) ([]types.ChatTurn, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT role, content FROM chat_messages
		 WHERE session_id = $1 ORDER BY created_at, id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	defer rows.Close()

	history := make([]types.ChatTurn, 0)
	for rows.Next() {
		var turn types.ChatTurn
		if err := rows.Scan(&turn.Role, &turn.Content); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		history = append(history, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chat history: %w", err)
	}
	return history, nil
}
