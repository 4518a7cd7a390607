package snapshot

import (
	"os"
	"path/filepath"
	"strings"

	"item-mirror/core/errs"
)

// Store is a single-value file store.
type Store struct {
	path string
}

// NewStore creates a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored signature. A missing, unreadable or blank file
// reports ok=false.
func (s *Store) Load() (sig string, ok bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	sig = strings.TrimSpace(string(data))
	return sig, sig != ""
}

// Save replaces the stored signature.
func (s *Store) Save(sig string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &errs.PersistenceError{Op: "save snapshot", Path: s.path, Err: err}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sig), 0o644); err != nil {
		return &errs.PersistenceError{Op: "save snapshot", Path: s.path, Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return &errs.PersistenceError{Op: "save snapshot", Path: s.path, Err: err}
	}
	return nil
}
