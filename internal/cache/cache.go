// Package cache stores serialized search responses. Values are opaque bytes;
// callers own the encoding.
package cache

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

var (
	ErrNotFound   = errors.New("key not found in cache")
	ErrClosed     = errors.New("cache is closed")
	ErrInvalidKey = errors.New("invalid cache key")
)

type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Get(ctx context.Context, key string) ([]byte, error)

	Delete(ctx context.Context, key string) error

	Clear(ctx context.Context) error

	Close() error
}

type Options struct {
	DefaultTTL time.Duration

	// Prefix namespaces keys so Clear never touches foreign data.
	Prefix string

	RedisAddr string

	RedisPassword string

	RedisDB int
}

func DefaultOptions() Options {
	return Options{
		DefaultTTL: 5 * time.Minute,
		Prefix:     "alumni:search:",
	}
}

// Key hashes parts into a short stable key. Parts are length prefixed so
// ("ab", "c") and ("a", "bc") differ.
func Key(parts ...string) string {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(strconv.Itoa(len(p)))
		_, _ = d.WriteString(":")
		_, _ = d.WriteString(p)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

func validKey(key string) bool {
	return key != "" && !strings.ContainsAny(key, " \n\r\t")
}

// New returns a Redis cache when an address is configured, otherwise an
// in-process one.
func New(ctx context.Context, opts Options) (Cache, error) {
	if opts.RedisAddr == "" {
		return NewMemory(opts), nil
	}
	r, err := NewRedis(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r, nil
}
