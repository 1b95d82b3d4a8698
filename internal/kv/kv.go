package kv

import (
	"context"
	"errors"
)

// ErrKeyNotFound indicates the requested key has no value in the namespace.
var ErrKeyNotFound = errors.New("key not found")

// Store is a flat key-value namespace holding the application's persisted
// records. Every read returns the full stored value and every write replaces
// it: callers perform read-modify-write cycles and the last writer wins.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
