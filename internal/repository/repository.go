// Package repository declares the storage interfaces the service layer
// depends on. Services are written against these interfaces, never against
// the concrete SQLite implementation — tests swap in in-memory fakes and the
// engine could be replaced without touching business logic.
package repository

import (
	"context"

	"github.com/sakif/taskora/internal/model"
)

// UserRepository persists user accounts.
//
// Lookup methods return apperror.ErrNotFound (via errors.Is) when no row
// matches. Absence is a normal branch for callers — "unknown username" on
// login, "is this name taken" on signup — not a fault.
type UserRepository interface {
	// CreateUser inserts a new user and fills user.ID and user.CreatedAt.
	// Returns apperror.ErrConflict when username or email is already taken.
	CreateUser(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// TaskRepository persists tasks.
//
// Update, SetCompleted and Delete return apperror.ErrNotFound when the id
// matched no row — the caller learns whether a row was actually modified.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id int64) (*model.Task, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Task, error)
	ListByCategory(ctx context.Context, userID int64, category string) ([]model.Task, error)
	Update(ctx context.Context, task *model.Task) error
	SetCompleted(ctx context.Context, id int64, completed bool) error
	Delete(ctx context.Context, id int64) error
	CountByCategory(ctx context.Context, userID int64) ([]model.CategoryCount, error)
}
