package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateTask inserts a new task for owner and returns the stored row,
// including the generated id and timestamps.
func (s *Store) CreateTask(ctx context.Context, owner int64, fields TaskFields) (*Task, error) {
	now := time.Now().UTC()
	tags := NormalizeTags(fields.Tags)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (owner_id, title, description, priority, completed, display_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`, owner, fields.Title, fields.Description, string(fields.Priority), fields.Completed, fields.DisplayOrder, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read task id: %w", err)
	}
	if err := replaceTags(ctx, tx, id, tags); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit task insert: %w", err)
	}

	return &Task{
		ID:           id,
		OwnerID:      owner,
		Title:        fields.Title,
		Description:  fields.Description,
		Priority:     fields.Priority,
		Tags:         tags,
		Completed:    fields.Completed,
		DisplayOrder: fields.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// GetTask fetches a single task by id, regardless of owner. Callers
// enforce ownership; the store only reports what exists.
func (s *Store) GetTask(ctx context.Context, id int64) (*Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, priority, completed, display_order, created_at, updated_at
		FROM tasks WHERE id = ?;
	`, id)
	task, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	task.Tags, err = s.tagsFor(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ResolveByTitle finds the task whose title matches exactly, ignoring
// case, for owner. When several match, the most recently created wins.
func (s *Store) ResolveByTitle(ctx context.Context, owner int64, title string) (*Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, priority, completed, display_order, created_at, updated_at
		FROM tasks
		WHERE owner_id = ? AND LOWER(title) = LOWER(?)
		ORDER BY created_at DESC, id DESC
		LIMIT 1;
	`, owner, title)
	task, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	task.Tags, err = s.tagsFor(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ReplaceTask overwrites every mutable field of an existing task in one
// transaction and refreshes the updated timestamp.
func (s *Store) ReplaceTask(ctx context.Context, id int64, fields TaskFields) (*Task, error) {
	now := time.Now().UTC()
	tags := NormalizeTags(fields.Tags)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	task, err := scanTask(tx.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, priority, completed, display_order, created_at, updated_at
		FROM tasks WHERE id = ?;
	`, id))
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, priority = ?, completed = ?, display_order = ?, updated_at = ?
		WHERE id = ?;
	`, fields.Title, fields.Description, string(fields.Priority), fields.Completed, fields.DisplayOrder, now, id); err != nil {
		return nil, fmt.Errorf("replace task: %w", err)
	}
	if err := replaceTags(ctx, tx, id, tags); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit task replace: %w", err)
	}

	task.Title = fields.Title
	task.Description = fields.Description
	task.Priority = fields.Priority
	task.Tags = tags
	task.Completed = fields.Completed
	task.DisplayOrder = fields.DisplayOrder
	task.UpdatedAt = now
	return task, nil
}

// ToggleCompleted flips the completion flag. Callers that need an
// idempotent "mark complete" should patch completed=true instead.
func (s *Store) ToggleCompleted(ctx context.Context, id int64) (*Task, error) {
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	task, err := scanTask(tx.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, priority, completed, display_order, created_at, updated_at
		FROM tasks WHERE id = ?;
	`, id))
	if err != nil {
		return nil, err
	}

	task.Completed = !task.Completed
	task.UpdatedAt = now
	if _, err := tx.ExecContext(ctx, `
		UPDATE tasks SET completed = ?, updated_at = ? WHERE id = ?;
	`, task.Completed, now, id); err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}

	tags, err := tagsForTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	task.Tags = tags

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit task toggle: %w", err)
	}
	return task, nil
}

// PatchTask applies the non-nil fields of patch to an existing task and
// returns the updated row. The whole update commits in one transaction.
func (s *Store) PatchTask(ctx context.Context, id int64, patch TaskPatch) (*Task, error) {
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	task, err := scanTask(tx.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, priority, completed, display_order, created_at, updated_at
		FROM tasks WHERE id = ?;
	`, id))
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if patch.DisplayOrder != nil {
		task.DisplayOrder = *patch.DisplayOrder
	}
	task.UpdatedAt = now

	if _, err := tx.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, priority = ?, completed = ?, display_order = ?, updated_at = ?
		WHERE id = ?;
	`, task.Title, task.Description, string(task.Priority), task.Completed, task.DisplayOrder, now, id); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if patch.Tags != nil {
		task.Tags = NormalizeTags(patch.Tags)
		if err := replaceTags(ctx, tx, id, task.Tags); err != nil {
			return nil, err
		}
	} else {
		tags, err := tagsForTx(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		task.Tags = tags
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit task update: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task. The task_tags rows cascade with it.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func replaceTags(ctx context.Context, tx *sql.Tx, id int64, tags []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = ?;`, id); err != nil {
		return fmt.Errorf("clear task tags: %w", err)
	}
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx, `INSERT INTO task_tags (task_id, tag) VALUES (?, ?);`, id, tag); err != nil {
			return fmt.Errorf("insert task tag %q: %w", tag, err)
		}
	}
	return nil
}

func (s *Store) tagsFor(ctx context.Context, id int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tag FROM task_tags WHERE task_id = ? ORDER BY tag;`, id)
	if err != nil {
		return nil, fmt.Errorf("query task tags: %w", err)
	}
	defer rows.Close()
	return collectTags(rows)
}

func tagsForTx(ctx context.Context, tx *sql.Tx, id int64) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT tag FROM task_tags WHERE task_id = ? ORDER BY tag;`, id)
	if err != nil {
		return nil, fmt.Errorf("query task tags: %w", err)
	}
	defer rows.Close()
	return collectTags(rows)
}

func collectTags(rows *sql.Rows) ([]string, error) {
	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan task tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task tags: %w", err)
	}
	return tags, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	var (
		task     Task
		priority string
	)
	err := row.Scan(&task.ID, &task.OwnerID, &task.Title, &task.Description, &priority,
		&task.Completed, &task.DisplayOrder, &task.CreatedAt, &task.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	task.Priority = Priority(priority)
	return &task, nil
}
