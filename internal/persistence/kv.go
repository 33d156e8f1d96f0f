package persistence

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by a KV when the key holds no value.
var ErrKeyNotFound = errors.New("key not found")

// KV is the durable key-value storage the gateway reads and writes snapshots through.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Deleter is implemented by KVs that can remove a key.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// Lister is implemented by KVs that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}
