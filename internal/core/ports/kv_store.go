package ports

import "context"

// KVStore is the string-keyed persistence layer. Values are opaque JSON bytes.
// Get returns domain.ErrKeyNotFound for absent keys.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
