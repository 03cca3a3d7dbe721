package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-boarding/internal/ports/objectstore"
)

var (
	ErrNotFound = errors.New("blob not found")
)

// Store es un object store en memoria para dev y tests.
// Mismo contrato que el colaborador real (put / delete-by-key / url).
type Store struct {
	mu      sync.RWMutex
	baseURL string
	blobs   map[string][]byte
}

func NewStore(baseURL string) *Store {
	return &Store{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		blobs:   make(map[string][]byte),
	}
}

func (s *Store) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if strings.TrimSpace(bucket) == "" || strings.TrimSpace(key) == "" {
		return errors.New("bucket and key required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(data))
	copy(cp, data)
	s.blobs[bucket+"/"+key] = cp
	return nil
}

func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[bucket+"/"+key]; !ok {
		return ErrNotFound
	}
	delete(s.blobs, bucket+"/"+key)
	return nil
}

func (s *Store) URLFor(bucket, key string) string {
	return s.baseURL + "/" + bucket + "/" + key
}

// Get existe solo para inspección en tests.
func (s *Store) Get(bucket, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blobs[bucket+"/"+key]
	return b, ok
}

var _ objectstore.Store = (*Store)(nil)
