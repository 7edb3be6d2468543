// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// Taskora is a local-first app: one device, one database file, no server to
// run. SQLite is an embedded database — it lives inside the binary and the
// data is a single file on disk. That matches the deployment model exactly,
// and ":memory:" gives tests a fresh throwaway database for free.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — no C toolchain, works everywhere Go works.
//
// The pattern throughout this package is plain database/sql:
//  1. sql.Open(driverName, dataSourceName) → creates a pool
//  2. db.QueryContext / db.ExecContext     → runs parameterized statements
//  3. rows.Scan(&field1, &field2)          → reads results into Go variables
//
// Every statement uses ? placeholders. User input is never concatenated into
// SQL — the driver escapes parameters, which is what keeps injection out.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	// Importing the driver registers it with database/sql under the name
	// "sqlite". We import it non-blank because the constraint mapping below
	// also needs the driver's Error type.
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps a sql.DB connection pool and provides the repository methods for
// users (user.go) and tasks (task.go).
type DB struct {
	conn *sql.DB
}

// New opens the database, configures it, and ensures the schema exists.
//
// This is the explicit startup initialization: the caller receives a handle
// and passes it down the dependency chain. There is no lazy "open on first
// query" — a bad path or unwritable file fails here, at startup, where it is
// easy to see.
//
// dbPath examples:
//   - "data/taskora.db" → file-based database (persistent)
//   - ":memory:"        → in-memory database (tests, lost on close)
//
// Safe to call from concurrent startup paths: the migration is
// CREATE TABLE IF NOT EXISTS, so a second initializer finds the tables
// already present instead of erroring.
func New(dbPath string) (*DB, error) {
	// sql.Open does not actually connect — it just creates the pool manager.
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// One shared connection, not a pool. Every caller serializes through the
	// same handle — statement-level atomicity from the engine is the only
	// coordination this app needs. This also makes ":memory:" behave: with a
	// pool, each new pooled connection would get its OWN empty in-memory
	// database.
	conn.SetMaxOpenConns(1)

	// Ping forces an immediate connection so a bad path or permissions issue
	// surfaces now rather than on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite (backwards compatibility).
	// We turn them on so tasks.user_id must reference an existing user at
	// insert time. Note there is no ON DELETE CASCADE — deleting a user
	// leaves their tasks orphaned, matching the original schema.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Wherever you call New(),
// immediately defer Close() — it flushes the WAL and releases the file lock.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate ensures both tables exist. CREATE TABLE IF NOT EXISTS is
// idempotent, so calling this on an already-initialized database is a no-op.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			username   TEXT UNIQUE NOT NULL,
			email      TEXT UNIQUE NOT NULL,
			password   TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS tasks (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id     INTEGER NOT NULL REFERENCES users(id),
			title       TEXT NOT NULL,
			description TEXT,
			due_date    TEXT,
			category    TEXT NOT NULL DEFAULT 'Personal',
			completed   INTEGER NOT NULL DEFAULT 0,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating tasks table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is SQLite rejecting a write because
// of a UNIQUE constraint (username or email already taken).
//
// ERROR TRANSLATION AT THE BOUNDARY:
// The driver returns its own *sqlite.Error with a numeric extended result
// code. We inspect the code here, once, and callers only ever see our
// apperror.Conflict — no driver types leak past this package.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
