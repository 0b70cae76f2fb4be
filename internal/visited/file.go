package visited

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore persists visited page hashes, one per line, so an interrupted
// crawl can resume without Redis.
type FileStore struct {
	mu   sync.Mutex
	mem  *MemoryStore
	file *os.File
}

// OpenFileStore loads path, creating it when missing.
func OpenFileStore(path string) (*FileStore, error) {
	mem := NewMemoryStore()

	existing, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("open visited file: %w", err)
	default:
		sc := bufio.NewScanner(existing)
		for sc.Scan() {
			if h := strings.TrimSpace(sc.Text()); h != "" {
				mem.seen[h] = struct{}{}
			}
		}
		scanErr := sc.Err()
		_ = existing.Close()
		if scanErr != nil {
			return nil, fmt.Errorf("read visited file: %w", scanErr)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create visited dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open visited file: %w", err)
	}
	return &FileStore{mem: mem, file: f}, nil
}

func (s *FileStore) Seen(ctx context.Context, pageURL string) (bool, error) {
	return s.mem.Seen(ctx, pageURL)
}

func (s *FileStore) Mark(ctx context.Context, pageURL string) error {
	seen, err := s.mem.Seen(ctx, pageURL)
	if err != nil || seen {
		return err
	}
	key, err := Key(pageURL)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.file, key); err != nil {
		return fmt.Errorf("append visited file: %w", err)
	}
	return s.mem.Mark(ctx, pageURL)
}

// Len is the number of remembered pages.
func (s *FileStore) Len() int {
	return s.mem.Len()
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
