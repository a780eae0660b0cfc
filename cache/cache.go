package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength bounds cache keys. Keys from DefaultKeyer are always far
// shorter; the bound guards hand-built keys.
const MaxKeyLength = 512

var (
	ErrNilCache   = errors.New("cache: cache is nil")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Cache stores fetched media bytes keyed by request.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods should honor cancellation/deadlines where applicable.
// - Errors: Get should never error; it returns (nil, false) on miss.
type Cache interface {
	// Get retrieves a cached value. Returns (nil, false) on miss.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value with the given TTL. TTL=0 means no caching.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a cached value. Idempotent - no error on miss.
	Delete(ctx context.Context, key string) error

	// Purge removes every cached value, typically on logout.
	Purge(ctx context.Context) error
}

// ValidateKey rejects keys that are blank, over-long, or carry line breaks.
func ValidateKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return ErrInvalidKey
	case len(key) > MaxKeyLength:
		return ErrKeyTooLong
	case strings.ContainsAny(key, "\n\r"):
		return ErrInvalidKey
	}
	return nil
}

// FetchFunc produces the bytes for a key on a cache miss.
type FetchFunc func(ctx context.Context) ([]byte, error)

// GetOrFetch returns the cached bytes for key, fetching and storing them on
// a miss. Errors from fetch are never cached, so a failed lookup retries on
// the next call.
func GetOrFetch(ctx context.Context, c Cache, key string, ttl time.Duration, fetch FetchFunc) ([]byte, error) {
	if c == nil {
		return nil, ErrNilCache
	}
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	if data, ok := c.Get(ctx, key); ok {
		return data, nil
	}

	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if ttl > 0 {
		_ = c.Set(ctx, key, data, ttl)
	}
	return data, nil
}
