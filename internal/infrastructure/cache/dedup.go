package cache

import (
	"context"
	"time"
)

// DedupStore is a first-writer-wins marker store used to drop redelivered
// webhook events before they reach the database.
type DedupStore interface {
	// SetIfAbsent marks key for ttl. Returns true when this caller set the
	// marker first, false when the key was already present.
	SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
