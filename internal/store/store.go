// Package store keeps the per-client key/value state a browser would hold in local
// storage: role, tokens, cart, wishlist, announcement flag and the profile snapshot.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("store: key not found")

// Store is a namespaced JSON key/value store. Keys are scoped by client id.
type Store interface {
	Get(ctx context.Context, clientID, key string, out any) error
	Set(ctx context.Context, clientID, key string, value any) error
	Delete(ctx context.Context, clientID string, keys ...string) error
}

func namespaced(clientID, key string) string {
	return fmt.Sprintf("client:%s:%s", clientID, key)
}
