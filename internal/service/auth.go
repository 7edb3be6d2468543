// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services accept primitives and return domain models and domain errors.
// They know nothing about HTTP — the same AuthService could sit behind a
// CLI or a different transport without changing a line.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/taskora/internal/apperror"
	"github.com/sakif/taskora/internal/auth"
	"github.com/sakif/taskora/internal/model"
	"github.com/sakif/taskora/internal/repository"
	"github.com/sakif/taskora/internal/session"
)

// AuthService implements login, signup, "who is logged in" and logout on top
// of the user repository and the persisted session slot.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users     repository.UserRepository → account lookups and creation
//   - sessions  *session.Store            → the single current-user slot
//   - verifier  auth.Verifier             → password storage/comparison
//   - logger    *slog.Logger              → structured logging
//
// The verifier is the seam described in auth/password.go: this service never
// compares passwords itself, so the scheme can change without touching it.
type AuthService struct {
	users    repository.UserRepository
	sessions *session.Store
	verifier auth.Verifier
	logger   *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	sessions *session.Store,
	verifier auth.Verifier,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		verifier: verifier,
		logger:   logger,
	}
}

// Login checks the credentials and, on success, writes the session slot and
// returns the new session record.
//
// NO USER ENUMERATION:
// An unknown username and a wrong password produce the IDENTICAL error.
// If the messages differed, an attacker could probe which usernames exist
// by watching which error comes back.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.Session, error) {
	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("", "Please fill in all fields")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("Invalid username or password")
		}
		// Storage fault — not a wrong password. Propagate wrapped; the
		// handler turns it into a generic "try again" failure.
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	ok, err := s.verifier.Verify(user.Password, password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: verifying password: %w", err)
	}
	if !ok {
		return nil, apperror.Unauthorized("Invalid username or password")
	}

	sess := &model.Session{ID: user.ID, Username: user.Username, Email: user.Email}
	if err := s.sessions.Save(sess); err != nil {
		return nil, fmt.Errorf("service/auth: saving session: %w", err)
	}

	s.logger.Info("user logged in",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	return sess, nil
}

// Signup validates the form, creates the account, and logs the new user in
// (writes the session slot) in one step.
//
// VALIDATION ORDER IS PART OF THE CONTRACT:
// username, then email, then password — the form shows the FIRST error only,
// so the order is observable behaviour, not an implementation detail.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (*model.Session, error) {
	if err := auth.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := auth.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}

	// Pre-check both unique fields for the friendly message. The UNIQUE
	// constraints in the store remain the real guarantee — if a concurrent
	// signup slips between check and insert, Create returns the same
	// Conflict error these branches would have produced.
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperror.Conflict("username", "Username already exists")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking username: %w", err)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("email", "Email already exists")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking email: %w", err)
	}

	stored, err := s.verifier.Store(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: preparing password: %w", err)
	}

	user := &model.User{Username: username, Email: email, Password: stored}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	sess := &model.Session{ID: user.ID, Username: user.Username, Email: user.Email}
	if err := s.sessions.Save(sess); err != nil {
		return nil, fmt.Errorf("service/auth: saving session: %w", err)
	}

	s.logger.Info("user signed up",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	return sess, nil
}

// CurrentUser returns the persisted session, or nil when nobody is logged in.
//
// An unreadable or corrupt session file also comes back as nil: to every
// screen, "can't read the slot" and "no slot" both mean "go to the login
// page". The difference isn't lost though — the store reports it and we log
// it here, so a corrupted file shows up in the logs instead of vanishing.
func (s *AuthService) CurrentUser() *model.Session {
	sess, err := s.sessions.Load()
	if err != nil {
		s.logger.Warn("session slot unreadable, treating as logged out",
			slog.String("error", err.Error()),
		)
		return nil
	}
	return sess
}

// Logout clears the session slot. Logging out while already logged out is
// not an error.
func (s *AuthService) Logout() error {
	if err := s.sessions.Clear(); err != nil {
		return fmt.Errorf("service/auth: clearing session: %w", err)
	}
	s.logger.Info("user logged out")
	return nil
}
