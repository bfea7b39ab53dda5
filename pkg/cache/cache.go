// Package cache provides pluggable byte caches for registry responses and
// resolved graphs: a file-backed cache for CLI runs, a Redis cache for the
// server, and a null cache for disabling caching altogether.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache stores opaque byte values under string keys with a per-entry TTL.
// A TTL of zero means the entry never expires.
type Cache interface {
	// Get returns the cached value and whether it was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key, replacing any previous entry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Key builds a namespaced cache key, e.g. Key("npm", "express").
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// Hash returns the hex SHA-256 of data, used to derive filenames and
// content-addressed keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
