// Package storage provides the persistence layer for SafeCompanion.
// Every record is a JSON blob stored under a fixed key in a KV backend.
package storage

import (
	"context"
	"fmt"

	"github.com/manav03panchal/safecompanion/internal/errors"
)

const (
	// AppName is the application name used for data directories.
	AppName = "safecompanion"

	// BackendBadger stores data in an embedded Badger database.
	BackendBadger = "badger"
	// BackendRedis stores data in a shared Redis instance.
	BackendRedis = "redis"
)

// ErrKeyNotFound is returned when a key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// IsErrKeyNotFound returns true if the error is a key not found error.
func IsErrKeyNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

// KV is the minimal key-value contract the repositories need.
type KV interface {
	// Get returns the value stored under key or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Pinger is implemented by backends that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures the store.
type Options struct {
	// Backend selects the implementation: "badger" (default) or "redis".
	Backend string
	// Path is the Badger directory. Empty string uses in-memory mode.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
	Redis    RedisOptions
}

// OpenKV opens the backend selected by opts.
func OpenKV(ctx context.Context, opts Options) (KV, error) {
	switch opts.Backend {
	case "", BackendBadger:
		return Open(opts)
	case BackendRedis:
		return OpenRedis(ctx, opts.Redis)
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", errors.ErrStoreUnavailable, opts.Backend)
	}
}
