// Package session persists the single "current user" slot.
//
// WHY A FILE AND NOT A TABLE?
// The session is deliberately kept outside the relational store: it is not
// user data, it is device state — "who is logged in on this device". One
// key, one JSON value, overwritten on login and removed on logout. A small
// file in the data directory models that exactly, and survives restarts the
// same way the database file does.
//
// There is at most one session. No tokens, no expiry, no concurrent
// sessions — logging in simply replaces the slot, logging out clears it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/xid"

	"github.com/sakif/taskora/internal/model"
)

// Store reads and writes the session slot at a fixed path.
//
// The mutex serializes Save/Load/Clear from concurrent callers. The write
// itself is atomic at the filesystem level (temp file + rename), so a crash
// mid-save leaves either the old session or the new one — never a torn file.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a Store persisting to the given file path.
// The parent directory is created if it does not exist.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("session: creating directory %q: %w", dir, err)
		}
	}
	return &Store{path: path}, nil
}

// Save writes the session record, replacing any previous one.
//
// ATOMIC WRITE:
// We write to a uniquely named temp file in the same directory and rename it
// over the destination. rename(2) is atomic on POSIX filesystems, so readers
// never observe a half-written JSON document. xid gives the temp file a
// unique name, so two concurrent saves cannot clobber each other's
// in-progress writes — the last rename wins, which matches the slot's
// last-write-wins semantics.
func (s *Store) Save(sess *model.Session) error {
	if sess == nil {
		return fmt.Errorf("session: cannot save a nil session")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: encoding session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path + "." + xid.New().String() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("session: writing temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("session: replacing session file: %w", err)
	}

	return nil
}

// Load returns the persisted session, or (nil, nil) when no one is logged
// in. A file that exists but cannot be read or parsed is reported as an
// error — the caller decides whether to surface that or treat it as
// "no session" (AuthService.CurrentUser does the latter, with a log line).
func (s *Store) Load() (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil // no session — the normal anonymous state
		}
		return nil, fmt.Errorf("session: reading session file: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("session: decoding session file: %w", err)
	}

	return &sess, nil
}

// Clear removes the session file. Clearing an already-empty slot is fine —
// logout is idempotent.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: removing session file: %w", err)
	}
	return nil
}
