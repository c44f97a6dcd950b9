package walletstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"dotfolio/internal/app/port"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type sessionFile struct {
	SelectedAddress string `json:"selectedAddress"`
}

// FileStore persists the selected account address across restarts, the same
// role localStorage plays for a browser dashboard.
type FileStore struct {
	path string

	mu      sync.Mutex
	session sessionFile
	loaded  bool
}

// NewFileStore creates a store backed by the given file path. A missing file
// is an empty session, not an error.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

var _ port.SessionStore = (*FileStore)(nil)

// SelectedAddress returns the persisted address, if any.
func (s *FileStore) SelectedAddress() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	if s.session.SelectedAddress == "" {
		return "", false
	}
	return s.session.SelectedAddress, true
}

// SaveSelectedAddress persists the address, creating parent directories as
// needed.
func (s *FileStore) SaveSelectedAddress(address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.SelectedAddress = address
	s.loaded = true
	return s.writeLocked()
}

// Clear drops the persisted session.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sessionFile{}
	s.loaded = true
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) loadLocked() {
	if s.loaded {
		return
	}
	s.loaded = true
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	// Corrupt session files are treated as empty.
	_ = json.Unmarshal(data, &s.session)
}

func (s *FileStore) writeLocked() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create session dir %s: %w", dir, err)
		}
	}
	data, err := json.Marshal(s.session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write session file %s: %w", s.path, err)
	}
	return nil
}
