// Package store provides the opaque key-value string store that backs the
// persisted collections. Values are whole serialized documents; callers
// rewrite a key's entire value on every mutation.
package store

import "context"

// Store is the capability interface for the underlying storage engine.
// Get reports ok=false when the key has never been written.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	RemoveMany(ctx context.Context, keys ...string) error
}
