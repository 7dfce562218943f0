package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenKey is the single key a Store holds, mirroring the dashboard's
// localStorage slot.
const TokenKey = "pureai_token"

// Store persists the session token between runs
type Store interface {
	Get() (string, error)
	Set(token string) error
	Clear() error
}

// MemStore is an in-process Store, useful for tests and short-lived
// programs.
type MemStore struct {
	mu    sync.Mutex
	token string
}

// Get returns the stored token
func (s *MemStore) Get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

// Set stores a token
func (s *MemStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear removes the stored token
func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// FileStore keeps the token in a file under the user's home directory
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at the given path. An empty
// path defaults to ~/.hostdesk/token.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.New("cannot determine home directory")
		}
		path = filepath.Join(home, ".hostdesk", "token")
	}
	return &FileStore{path: path}, nil
}

// Get reads the stored token. A missing file is an empty token, not an
// error.
func (s *FileStore) Get() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Set writes the token with owner-only permissions
func (s *FileStore) Set(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

// Clear removes the token file
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
