// Package kvstore provides the durable key-value store backing the
// completion engine's persisted state: the cached dependency list, the
// manifest source hash, and per-library registry metadata.
//
// Three backends are provided:
//   - [FileStore]: file-per-entry storage for CLI and editor-host usage
//   - [MemoryStore]: in-process storage for tests and ephemeral sessions
//   - [RedisStore]: Redis-backed storage for the serve daemon
//
// All backends store whole-record values; writers replace entries rather
// than merging them, so last writer wins.
package kvstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"
)

// ErrClosed is returned by operations on a store that has been closed.
var ErrClosed = errors.New("kvstore: closed")

// Store is a durable key-value store with TTL support.
//
// Get returns (nil, false, nil) on a miss; expired entries are treated as
// misses. A TTL of 0 on Set means the entry never expires.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every entry whose key starts with prefix and
	// returns the number of entries removed. An empty prefix clears the
	// whole store.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	Close() error
}

// GetJSON retrieves the value at key and unmarshals it into v.
// Returns false without touching v on a miss.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	data, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	return true, json.Unmarshal(data, v)
}

// SetJSON marshals v and stores it at key.
func SetJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, data, ttl)
}

// Hash computes the SHA-256 hash of data as a 64-character hex string.
//
// The engine uses it as a cheap change detector for manifest content, not
// as an identity guarantee. Callers must treat "no previous hash recorded"
// as distinct from the hash of empty content, so a first load always parses.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
