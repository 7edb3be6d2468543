package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/taskora/internal/apperror"
	"github.com/sakif/taskora/internal/model"
	"github.com/sakif/taskora/internal/repository"
)

// compile-time check that *DB implements repository.TaskRepository
var _ repository.TaskRepository = (*DB)(nil)

// taskColumns is the SELECT list shared by every task query. Keeping it in
// one place means scanTask can rely on the column order never drifting
// between queries.
const taskColumns = `id, user_id, title, description, due_date, category, completed, created_at`

// Create inserts a new task and fills task.ID.
//
// Defaults are applied here, at the write boundary: a missing category
// becomes "Personal", and nil description/due date are stored as SQL NULL.
// The foreign key on user_id is enforced by SQLite (PRAGMA foreign_keys=ON),
// so creating a task for a user that does not exist fails — we translate
// that to NotFound rather than leaking a driver error.
func (db *DB) Create(ctx context.Context, task *model.Task) error {
	if task.Category == "" {
		task.Category = model.DefaultCategory
	}
	task.CreatedAt = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO tasks (user_id, title, description, due_date, category, completed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.UserID,
		task.Title,
		nullString(task.Description),
		nullString(task.DueDate),
		task.Category,
		boolToInt(task.Completed),
		task.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", strconv.FormatInt(task.UserID, 10))
		}
		return fmt.Errorf("sqlite: creating task %q: %w", task.Title, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new task id: %w", err)
	}
	task.ID = id

	return nil
}

// GetByID retrieves a single task.
// Returns apperror.ErrNotFound if no task exists with that id.
func (db *DB) GetByID(ctx context.Context, id int64) (*model.Task, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)

	task, err := scanTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("task", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("sqlite: getting task %d: %w", id, err)
	}

	return task, nil
}

// ListByUser returns all tasks for a user, newest first.
//
// ORDERING:
// created_at DESC is the display order. created_at has second resolution,
// so two tasks created back-to-back can tie — id DESC breaks the tie
// deterministically (higher rowid = inserted later), keeping the order
// stable across calls.
func (db *DB) ListByUser(ctx context.Context, userID int64) ([]model.Task, error) {
	return db.listTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		userID)
}

// ListByCategory returns a user's tasks in one category, same order as
// ListByUser. The match is exact — "Work" does not match "work".
func (db *DB) ListByCategory(ctx context.Context, userID int64, category string) ([]model.Task, error) {
	return db.listTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE user_id = ? AND category = ?
		 ORDER BY created_at DESC, id DESC`,
		userID, category)
}

// listTasks runs a SELECT returning task rows and scans them all.
func (db *DB) listTasks(ctx context.Context, query string, args ...any) ([]model.Task, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing tasks: %w", err)
	}
	// Always close rows — they hold a connection from the pool.
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning task row: %w", err)
		}
		tasks = append(tasks, *task)
	}

	// rows.Err() catches errors that happened during iteration.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tasks: %w", err)
	}

	return tasks, nil
}

// Update rewrites the mutable fields of a task: title, description,
// due date, category and completed. user_id and created_at are immutable.
//
// Returns apperror.ErrNotFound if the id matched no row — RowsAffected is
// how we learn whether anything was actually modified, without a separate
// existence check.
func (db *DB) Update(ctx context.Context, task *model.Task) error {
	if task.Category == "" {
		task.Category = model.DefaultCategory
	}

	res, err := db.conn.ExecContext(ctx,
		`UPDATE tasks
		 SET title = ?, description = ?, due_date = ?, category = ?, completed = ?
		 WHERE id = ?`,
		task.Title,
		nullString(task.Description),
		nullString(task.DueDate),
		task.Category,
		boolToInt(task.Completed),
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating task %d: %w", task.ID, err)
	}

	return rowMatched(res, "task", task.ID)
}

// SetCompleted flips only the completed flag, leaving everything else alone.
// Same "row matched" semantics as Update.
func (db *DB) SetCompleted(ctx context.Context, id int64, completed bool) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE tasks SET completed = ? WHERE id = ?`,
		boolToInt(completed), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: toggling task %d: %w", id, err)
	}

	return rowMatched(res, "task", id)
}

// Delete removes a task. Deleting the same id twice returns nil the first
// time and apperror.ErrNotFound the second.
func (db *DB) Delete(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting task %d: %w", id, err)
	}

	return rowMatched(res, "task", id)
}

// CountByCategory returns per-category task counts for one user,
// alphabetical by category name. Categories with no tasks produce no row —
// the service layer fills in zeroes for the fixed UI set.
func (db *DB) CountByCategory(ctx context.Context, userID int64) ([]model.CategoryCount, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM tasks
		 WHERE user_id = ?
		 GROUP BY category
		 ORDER BY category`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: counting tasks by category: %w", err)
	}
	defer rows.Close()

	counts := []model.CategoryCount{}
	for rows.Next() {
		var c model.CategoryCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, fmt.Errorf("sqlite: scanning category count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating category counts: %w", err)
	}

	return counts, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows, so scanTask works for
// single-row and multi-row queries alike.
type scanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row in taskColumns order.
//
// NULL AND 0/1 NORMALIZATION HAPPENS HERE:
// description and due_date come back as sql.NullString and become nil
// pointers when NULL; completed comes back as the stored INTEGER and becomes
// a bool. This is the single read boundary — nothing above this function
// ever sees a NullString or a 0/1 flag.
func scanTask(s scanner) (*model.Task, error) {
	var (
		t           model.Task
		description sql.NullString
		dueDate     sql.NullString
		completed   int
	)

	err := s.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&description,
		&dueDate,
		&t.Category,
		&completed,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		t.Description = &description.String
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.String
	}
	t.Completed = completed != 0

	return &t, nil
}

// rowMatched converts a write's RowsAffected into the nil / NotFound
// contract shared by Update, SetCompleted and Delete.
func rowMatched(res sql.Result, resource string, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound(resource, strconv.FormatInt(id, 10))
	}
	return nil
}

// nullString maps a *string to SQL NULL when nil.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// boolToInt stores a bool as the 0/1 INTEGER the schema uses.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isForeignKeyViolation reports whether err is SQLite rejecting a write
// because a referenced row does not exist (tasks.user_id → users.id).
func isForeignKeyViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}
