package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/taskora/internal/apperror"
	"github.com/sakif/taskora/internal/model"
)

// TESTING WITH IN-MEMORY SQLITE:
// Using ":memory:" creates a fresh database that exists only during the test.
// Fast (no disk I/O), isolated (each test gets its own database), and clean
// (destroyed when the connection closes).
//
// newTestDB is a test helper. The t.Helper() call tells the test framework
// to report failures at the CALLER's line number, not inside this function.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	// t.Cleanup registers a function to run when the test finishes —
	// like defer, but scoped to the test and working in subtests too.
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser creates a user and fails the test if it errors.
func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret1",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret1",
	}

	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	// Verify the user was modified in place (pointer receiver)
	if user.ID == 0 {
		t.Error("CreateUser() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("CreateUser() did not set user.CreatedAt")
	}
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "taken")

	duplicate := &model.User{
		Username: "taken",
		Email:    "other@example.com",
		Password: "secret1",
	}
	err := db.CreateUser(context.Background(), duplicate)
	if err == nil {
		t.Fatal("CreateUser() should have failed for a duplicate username")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("CreateUser() error = %v, want ErrConflict", err)
	}
	if err.Error() != "Username already exists" {
		t.Errorf("CreateUser() message = %q, want %q", err.Error(), "Username already exists")
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "original")

	duplicate := &model.User{
		Username: "different",
		Email:    "original@example.com", // same email as "original"
		Password: "secret1",
	}
	err := db.CreateUser(context.Background(), duplicate)
	if err == nil {
		t.Fatal("CreateUser() should have failed for a duplicate email")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("CreateUser() error = %v, want ErrConflict", err)
	}
	if err.Error() != "Email already exists" {
		t.Errorf("CreateUser() message = %q, want %q", err.Error(), "Email already exists")
	}
}

// =========================================================================
// LOOKUP TESTS
// =========================================================================

func TestUserGetByUsername(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "lookup_user")

	found, err := db.GetByUsername(context.Background(), "lookup_user")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}

	if found.ID != created.ID {
		t.Errorf("ID = %d, want %d", found.ID, created.ID)
	}
	if found.Email != "lookup_user@example.com" {
		t.Errorf("Email = %q, want %q", found.Email, "lookup_user@example.com")
	}
	if found.Password != "secret1" {
		t.Errorf("Password = %q, want %q", found.Password, "secret1")
	}
}

func TestUserGetByUsername_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByUsername(context.Background(), "ghost")
	if err == nil {
		t.Fatal("GetByUsername() should have failed for an unknown username")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByUsername() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "email_user")

	found, err := db.GetByEmail(context.Background(), "email_user@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %d, want %d", found.ID, created.ID)
	}
}

func TestUserGetByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}

// TestUserLookup_Parameterized verifies that lookups treat input as data,
// never as SQL. A classic injection payload must simply be "a username that
// doesn't exist" — if it were concatenated into the query it would instead
// match every row.
func TestUserLookup_Parameterized(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "victim")

	payload := "' OR 1=1 --"
	_, err := db.GetByUsername(context.Background(), payload)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByUsername(%q) error = %v, want ErrNotFound", payload, err)
	}

	// The table must be intact and the real user still reachable.
	if _, err := db.GetByUsername(context.Background(), "victim"); err != nil {
		t.Errorf("GetByUsername(victim) after injection attempt: %v", err)
	}
}
