// Package store provides durable key-value stores for dashboard settings
// such as the selected pool and the last wallet address.
package store

import "context"

// Store is a string-keyed, string-valued settings store.
// Get returns "" and a nil error when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
