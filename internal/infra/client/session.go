package client

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Session holds the bearer token between calls.
type Session interface {
	Token() string
	SetToken(token string) error
	Clear() error
}

// MemorySession keeps the token in process memory.
type MemorySession struct {
	mu    sync.RWMutex
	token string
}

func NewMemorySession() *MemorySession { return &MemorySession{} }

func (s *MemorySession) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemorySession) SetToken(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemorySession) Clear() error { return s.SetToken("") }

// FileSession persists the token in a file readable only by its owner, so a
// CLI keeps its login across invocations.
type FileSession struct {
	mu   sync.Mutex
	path string
}

func NewFileSession(path string) *FileSession { return &FileSession{path: path} }

// Token returns the stored token, or "" when the file is missing or unreadable.
func (s *FileSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (s *FileSession) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" {
		return s.remove()
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileSession) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove()
}

func (s *FileSession) remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
