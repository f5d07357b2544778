package kvstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore stores each entry as a JSON file in a directory. Filenames are
// derived from a SHA-256 hash of the key, so arbitrary key strings are safe;
// the original key is recorded inside the entry to support prefix deletion.
//
// Multiple FileStore instances (even in different processes) can share a
// directory; the filesystem provides atomic whole-file replacement, which
// matches the store's whole-record write semantics.
type FileStore struct {
	dir string
}

// fileEntry wraps stored data with its key and expiration metadata.
type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// NewFileStore creates a file-backed store rooted at dir. If dir is empty,
// ~/.cache/depsense is used. The directory is created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cache", "depsense")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the absolute path of the store directory.
func (s *FileStore) Dir() string { return s.dir }

// Get retrieves the value at key. Corrupt or expired entries are removed
// and reported as misses.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := s.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}

	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return entry.Data, true, nil
}

// Set stores data at key, replacing any existing entry.
func (s *FileStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{Key: key, Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, encoded, 0o644)
}

// Delete removes the entry at key. Deleting a missing key is not an error.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// DeletePrefix walks the store directory and removes entries whose recorded
// key starts with prefix.
func (s *FileStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	count := 0
	err := filepath.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		var entry fileEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil
		}
		if strings.HasPrefix(entry.Key, prefix) {
			if err := os.Remove(path); err == nil {
				count++
			}
		}
		return nil
	})
	return count, err
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

// path maps a key to a file path. The first two hash characters form a
// subdirectory to keep individual directories small.
func (s *FileStore) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(s.dir, h[:2], h[2:]+".json")
}

var _ Store = (*FileStore)(nil)
