package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sakif/taskora/internal/model"
)

// newTestStore gives each test its own slot file under t.TempDir(),
// which the test framework deletes automatically.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return store
}

func TestLoad_EmptySlot(t *testing.T) {
	store := newTestStore(t)

	sess, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if sess != nil {
		t.Errorf("Load() = %+v, want nil for an empty slot", sess)
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	saved := &model.Session{ID: 7, Username: "alice", Email: "a@x.com"}
	if err := store.Save(saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("Load() = nil after Save()")
	}
	if *loaded != *saved {
		t.Errorf("Load() = %+v, want %+v", loaded, saved)
	}
}

func TestSave_ReplacesPrevious(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(&model.Session{ID: 1, Username: "first", Email: "f@x.com"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(&model.Session{ID: 2, Username: "second", Email: "s@x.com"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Username != "second" {
		t.Errorf("Username = %q, want %q — the slot holds at most one session", loaded.Username, "second")
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(&model.Session{ID: 3, Username: "gone", Email: "g@x.com"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	sess, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if sess != nil {
		t.Errorf("Load() = %+v after Clear(), want nil", sess)
	}

	// Idempotent — clearing an empty slot is not an error.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	store, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Something that is not JSON — e.g. a truncated write from a crashed
	// process before atomic replacement existed.
	if err := os.WriteFile(path, []byte(`{"id": 5, "user`), 0o600); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	// Corruption is distinguishable from absence: an error, not (nil, nil).
	if _, err := store.Load(); err == nil {
		t.Error("Load() on a corrupt file should return an error")
	}
}

func TestSave_NoPartialReads(t *testing.T) {
	store := newTestStore(t)

	// Interleave saves and loads; every load must see one complete record.
	sessions := []model.Session{
		{ID: 1, Username: "a", Email: "a@x.com"},
		{ID: 2, Username: "b", Email: "b@x.com"},
		{ID: 3, Username: "c", Email: "c@x.com"},
	}
	for i := range sessions {
		if err := store.Save(&sessions[i]); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		loaded, err := store.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if loaded == nil || loaded.ID != sessions[i].ID {
			t.Errorf("Load() = %+v, want %+v", loaded, sessions[i])
		}
	}
}
