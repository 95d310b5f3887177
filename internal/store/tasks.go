package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/syndic/internal/models"
)

const taskColumns = `id, title, description, status, priority, due_date, created_at`

// TaskRepo manages the to-do list.
type TaskRepo struct {
	db *DB
}

func scanTask(s rowScanner) (models.Task, error) {
	var (
		t                  models.Task
		description        sql.NullString
		status, priority   sql.NullString
		dueDate, createdAt sql.NullInt64
	)
	if err := s.Scan(&t.ID, &t.Title, &description, &status, &priority, &dueDate, &createdAt); err != nil {
		return models.Task{}, err
	}
	t.Description = description.String
	t.Status = models.TaskTodo
	if status.Valid {
		t.Status = models.TaskStatus(status.String)
	}
	t.Priority = models.PriorityMedium
	if priority.Valid {
		t.Priority = models.TaskPriority(priority.String)
	}
	t.DueDate = timePtr(dueDate)
	if createdAt.Valid {
		t.CreatedAt = fromUnix(createdAt.Int64)
	}
	return t, nil
}

func (r *TaskRepo) query(ctx context.Context, op, query string, args ...any) ([]models.Task, error) {
	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: %s: %w", op, err)
	}
	defer rows.Close()

	out := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("store: %s: %w", op, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetAll returns every task, newest first.
func (r *TaskRepo) GetAll(ctx context.Context) ([]models.Task, error) {
	return r.query(ctx, "list tasks",
		`SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC, id DESC`)
}

// GetByStatus returns the tasks in one status, newest first.
func (r *TaskRepo) GetByStatus(ctx context.Context, status models.TaskStatus) ([]models.Task, error) {
	return r.query(ctx, "tasks by status",
		`SELECT `+taskColumns+` FROM tasks WHERE status = ? ORDER BY created_at DESC, id DESC`, string(status))
}

// GetPending returns the tasks still to do.
func (r *TaskRepo) GetPending(ctx context.Context) ([]models.Task, error) {
	return r.GetByStatus(ctx, models.TaskTodo)
}

// GetByID returns the task or nil when it does not exist.
func (r *TaskRepo) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	t, err := scanTask(r.db.conn.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get task: %w", err)
	}
	return &t, nil
}

// Create inserts t stamped with the current time. Status defaults to TODO and
// priority to MEDIUM.
func (r *TaskRepo) Create(ctx context.Context, t models.Task) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	if t.Status == "" {
		t.Status = models.TaskTodo
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	res, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO tasks (title, description, status, priority, due_date, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		t.Title, nullString(t.Description), string(t.Status), string(t.Priority), nullUnix(t.DueDate), unixOf(r.db.Now()))
	if err != nil {
		return 0, fmt.Errorf("store: create task: %w", err)
	}
	return res.LastInsertId()
}

// Update merges the set fields of p.
func (r *TaskRepo) Update(ctx context.Context, id int64, p models.TaskPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	var a assignments
	if p.Title != nil {
		a.set("title", *p.Title)
	}
	if p.Description != nil {
		a.set("description", nullString(*p.Description))
	}
	if p.Status != nil {
		a.set("status", string(*p.Status))
	}
	if p.Priority != nil {
		a.set("priority", string(*p.Priority))
	}
	switch {
	case p.ClearDueDate:
		a.set("due_date", nil)
	case p.DueDate != nil:
		a.set("due_date", unixOf(*p.DueDate))
	}
	return a.apply(ctx, r.db, "tasks", id, "update task")
}

// ToggleStatus stores the opposite of current (TODO <-> DONE) and returns it.
// Any other current value leaves the task untouched and is returned as is.
func (r *TaskRepo) ToggleStatus(ctx context.Context, id int64, current models.TaskStatus) (models.TaskStatus, error) {
	next := current.Toggled()
	if next == current {
		return current, nil
	}
	res, err := r.db.conn.ExecContext(ctx, `UPDATE tasks SET status = ? WHERE id = ?`, string(next), id)
	if err != nil {
		return current, fmt.Errorf("store: toggle task: %w", err)
	}
	if err := affectedOrNotFound(res, "toggle task"); err != nil {
		return current, err
	}
	return next, nil
}

// Delete removes a task.
func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.conn.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete task: %w", err)
	}
	return affectedOrNotFound(res, "delete task")
}
