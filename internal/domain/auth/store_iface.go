package auth

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps sealed sessions by id. Get returns ErrSessionNotFound
// for unknown or expired ids.
type SessionStore interface {
	Put(ctx context.Context, id string, payload []byte, ttl time.Duration) error
	Get(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

// Sweeper is implemented by stores that need expired rows removed
// periodically.
type Sweeper interface {
	PurgeExpired(ctx context.Context) (int64, error)
}
