package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rohan/ai-counselor/internal/types"
)

// ListTasks returns the user's tasks, newest first.
func (db *DB) ListTasks(ctx context.Context, userID uuid.UUID) ([]types.TaskItem, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, is_completed, task_type
		 FROM tasks WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]types.TaskItem, 0)
	for rows.Next() {
		var task types.TaskItem
		var id uuid.UUID
		if err := rows.Scan(&id, &task.Title, &task.Completed, &task.Type); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		task.ID = id.String()
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask inserts a new task and returns it.
func (db *DB) CreateTask(ctx context.Context, userID uuid.UUID, title, taskType string) (types.TaskItem, error) {
	if taskType == "" {
		taskType = types.TaskTypePersonal
	}

	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, task_type) VALUES ($1, $2, $3) RETURNING id`,
		userID, title, taskType,
	).Scan(&id)
	if err != nil {
		return types.TaskItem{}, fmt.Errorf("failed to create task: %w", err)
	}

	return types.TaskItem{ID: id.String(), Title: title, Type: taskType}, nil
}

// ToggleTask flips the completion flag. Returns false when the task does not
// belong to the user.
func (db *DB) ToggleTask(ctx context.Context, userID, taskID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE tasks SET is_completed = NOT is_completed WHERE id = $1 AND user_id = $2`,
		taskID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to toggle task: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CompleteTask marks a task completed. Returns false when the task does not
// belong to the user.
func (db *DB) CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE tasks SET is_completed = TRUE WHERE id = $1 AND user_id = $2`,
		taskID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to complete task: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteTask removes a task. Returns false when the task does not belong to
// the user.
func (db *DB) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		taskID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetTask loads a single task owned by the user.
func (db *DB) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*types.TaskItem, error) {
	var task types.TaskItem
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, is_completed, task_type FROM tasks WHERE id = $1 AND user_id = $2`,
		taskID, userID,
	).Scan(&id, &task.Title, &task.Completed, &task.Type)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	task.ID = id.String()
	return &task, nil
}
