package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a row does not exist or belongs to another user.
var ErrNotFound = errors.New("not found")

// Task is a todo item owned by a single user.
type Task struct {
	ID                 int64      `json:"id"`
	UserID             string     `json:"user_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Completed          bool       `json:"completed"`
	Priority           string     `json:"priority"`
	Tags               []string   `json:"tags"`
	IsRecurring        bool       `json:"is_recurring"`
	RecurrenceInterval string     `json:"recurrence_interval,omitempty"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TaskFilter narrows and orders List results. Nil/empty fields match
// everything; an empty Sort means newest first.
type TaskFilter struct {
	Completed *bool
	Priority  string
	Search    string // case-insensitive substring over title and description
	Sort      string // created_asc, created_desc, priority, title
}

// TaskStore persists tasks. Every operation is scoped to a user id so one
// user can never read or mutate another user's rows.
type TaskStore struct {
	db *sql.DB
}

const taskColumns = `id, user_id, title, description, completed, priority, tags,
	is_recurring, recurrence_interval, due_date, created_at, updated_at`

// Create inserts the task and fills in its ID and timestamps.
func (s *TaskStore) Create(ctx context.Context, t *Task) error {
	if t.Priority == "" {
		t.Priority = "medium"
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	tags, err := json.Marshal(t.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (user_id, title, description, completed, priority, tags,
			is_recurring, recurrence_interval, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Title, t.Description, t.Completed, t.Priority, string(tags),
		t.IsRecurring, nullStr(t.RecurrenceInterval), nullTime(t.DueDate),
		fmtTime(t.CreatedAt), fmtTime(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("task id: %w", err)
	}
	return nil
}

// Get returns a single task owned by userID.
func (s *TaskStore) Get(ctx context.Context, userID string, id int64) (*Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	return scanTask(row)
}

// List returns all tasks owned by userID matching the filter, newest first.
func (s *TaskStore) List(ctx context.Context, userID string, filter TaskFilter) ([]*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []any{userID}
	if filter.Completed != nil {
		query += ` AND completed = ?`
		args = append(args, *filter.Completed)
	}
	if filter.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, filter.Priority)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query += ` AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, pattern, pattern)
	}
	query += orderClause(filter.Sort)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Update persists the task's mutable fields and bumps updated_at.
func (s *TaskStore) Update(ctx context.Context, t *Task) error {
	t.UpdatedAt = time.Now().UTC()
	tags, err := json.Marshal(t.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, completed = ?, priority = ?,
			tags = ?, is_recurring = ?, recurrence_interval = ?, due_date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		t.Title, t.Description, t.Completed, t.Priority, string(tags),
		t.IsRecurring, nullStr(t.RecurrenceInterval), nullTime(t.DueDate),
		fmtTime(t.UpdatedAt), t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task owned by userID. Returns ErrNotFound if nothing matched.
func (s *TaskStore) Delete(ctx context.Context, userID string, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByTitle returns the first task owned by userID whose title contains
// the query, case-insensitively.
func (s *TaskStore) FindByTitle(ctx context.Context, userID, title string) (*Task, error) {
	pattern := "%" + strings.ToLower(title) + "%"
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE user_id = ? AND LOWER(title) LIKE ?
		 ORDER BY id LIMIT 1`, userID, pattern)
	return scanTask(row)
}

// SetCompleted flips the completion flag on one task.
func (s *TaskStore) SetCompleted(ctx context.Context, userID string, id int64, completed bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET completed = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		completed, fmtTime(time.Now().UTC()), id, userID)
	if err != nil {
		return fmt.Errorf("set completed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkSetCompleted sets the completion flag on the given tasks and returns
// how many rows actually changed. IDs that do not exist or belong to another
// user are skipped.
func (s *TaskStore) BulkSetCompleted(ctx context.Context, userID string, ids []int64, completed bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `UPDATE tasks SET completed = ?, updated_at = ?
		WHERE user_id = ? AND id IN (` + placeholders(len(ids)) + `)`
	args := []any{completed, fmtTime(time.Now().UTC()), userID}
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk complete: %w", err)
	}
	return res.RowsAffected()
}

// BulkDelete removes the given tasks and returns how many rows were deleted.
func (s *TaskStore) BulkDelete(ctx context.Context, userID string, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `DELETE FROM tasks WHERE user_id = ? AND id IN (` + placeholders(len(ids)) + `)`
	args := []any{userID}
	for _, id := range ids {
		args = append(args, id)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk delete: %w", err)
	}
	return res.RowsAffected()
}

// ListCompletedRecurring returns completed recurring tasks across all users,
// for the regeneration sweep.
func (s *TaskStore) ListCompletedRecurring(ctx context.Context) ([]*Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE completed = 1 AND is_recurring = 1`)
	if err != nil {
		return nil, fmt.Errorf("list recurring: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func orderClause(sort string) string {
	switch sort {
	case "created_asc":
		return ` ORDER BY created_at ASC, id ASC`
	case "priority":
		return ` ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, id DESC`
	case "title":
		return ` ORDER BY LOWER(title) ASC`
	default:
		return ` ORDER BY created_at DESC, id DESC`
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*Task, error) {
	var t Task
	var tags string
	var recurrence, due sql.NullString
	var created, updated string
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed,
		&t.Priority, &tags, &t.IsRecurring, &recurrence, &due, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &t.Tags); err != nil {
		t.Tags = []string{}
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	t.RecurrenceInterval = recurrence.String
	if due.Valid {
		d := parseTime(due.String)
		t.DueDate = &d
	}
	t.CreatedAt = parseTime(created)
	t.UpdatedAt = parseTime(updated)
	return &t, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}
