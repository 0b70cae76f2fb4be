// Package visited remembers which listing pages a crawl has already fetched.
//
// Pages are keyed by the hash of their normalized URL, so tracking
// parameters and fragment differences do not defeat the check.
package visited

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/urlnorm"
)

//go:generate mockgen -source=store.go -destination=../testutils/mocks/visited/store.go -package=visited

// Store records visited pages.
type Store interface {
	Seen(ctx context.Context, pageURL string) (bool, error)
	Mark(ctx context.Context, pageURL string) error
	Close() error
}

// Key returns the storage key of a page URL.
func Key(pageURL string) (string, error) {
	h, err := urlnorm.Hash(pageURL)
	if err != nil {
		return "", fmt.Errorf("visited key: %w", err)
	}
	return h, nil
}

// MemoryStore keeps visited pages for the lifetime of the process.
type MemoryStore struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]struct{})}
}

func (s *MemoryStore) Seen(_ context.Context, pageURL string) (bool, error) {
	key, err := Key(pageURL)
	if err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[key]
	return ok, nil
}

func (s *MemoryStore) Mark(_ context.Context, pageURL string) error {
	key, err := Key(pageURL)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[key] = struct{}{}
	return nil
}

// Len is the number of remembered pages.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}

func (s *MemoryStore) Close() error { return nil }
