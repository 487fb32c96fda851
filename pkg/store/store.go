package store

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key has never been written or
// has been removed.
var ErrKeyNotFound = errors.New("store: key not found")

// Store is the flat string-keyed blob storage the booking core persists
// into. Values are opaque serialized records; callers own the encoding.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
