package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrStoreUnavailable indicates no media store is configured.
var ErrStoreUnavailable = errors.New("media store unavailable")

// Store persists media payloads and returns a stable reference to them.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// NewMemoryStore returns a Store holding payloads in memory. Its references
// play the role of session-scoped object URLs in the demo deployment.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// MemoryStore implements Store for tests and the single-process demo mode.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// Save stores the payload under name and returns its reference.
func (s *MemoryStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	key := strings.TrimLeft(name, "/")
	if key == "" {
		return "", errors.New("memory store: empty key")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("memory store read %s: %w", key, err)
	}

	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return "memory://" + key, nil
}

// Object returns the payload stored under key. Useful for tests.
func (s *MemoryStore) Object(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

var _ Store = (*MemoryStore)(nil)
