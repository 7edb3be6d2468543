package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sakif/taskora/internal/apperror"
	"github.com/sakif/taskora/internal/model"
	"github.com/sakif/taskora/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user and fills user.ID with the row id SQLite
// assigned.
//
// CONSTRAINT MAPPING:
// username and email are both UNIQUE. The service pre-checks them for
// friendly messages, but the constraint is the real guarantee — two
// concurrent signups can both pass the pre-check, and exactly one INSERT
// wins. The loser gets the same Conflict error the pre-check would have
// produced, so callers handle one shape either way.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now().UTC()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (username, email, password, created_at)
		 VALUES (?, ?, ?, ?)`,
		user.Username,
		user.Email,
		user.Password,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// The extended result code says "a UNIQUE constraint failed" but
			// not which one; SQLite names the column in the message.
			if strings.Contains(err.Error(), "users.email") {
				return apperror.Conflict("email", "Email already exists")
			}
			return apperror.Conflict("username", "Username already exists")
		}
		return fmt.Errorf("sqlite: creating user %q: %w", user.Username, err)
	}

	// INTEGER PRIMARY KEY AUTOINCREMENT — SQLite picked the id, read it back.
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.ID = id

	return nil
}

// GetByUsername retrieves a user by their unique username.
// Returns apperror.ErrNotFound if no such user exists.
func (db *DB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `username = ?`, username)
}

// GetByEmail retrieves a user by their unique email address.
// Returns apperror.ErrNotFound if no such user exists.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `email = ?`, email)
}

// getUser is the shared single-row lookup behind GetByUsername/GetByEmail.
// where must be a fixed predicate from this file — never caller input.
func (db *DB) getUser(ctx context.Context, where, arg string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password, created_at
		 FROM users WHERE `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Password,
		&u.CreatedAt,
	)
	if err != nil {
		// sql.ErrNoRows is not really an error — no matching row exists.
		// Translate it to our domain's NotFound so callers branch on it.
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", arg)
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", arg, err)
	}

	return &u, nil
}
