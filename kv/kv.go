// Package kv defines the key-value persistence interface the list store is
// built against, so the storage medium (file, embedded DB, in-memory) is
// swappable.
package kv

import "context"

// Store is the minimal contract a persistence backend must satisfy.
// Get returns (nil, nil) when the key has never been written; a nil error
// with a nil value is the "absent" sentinel, not a failure.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
