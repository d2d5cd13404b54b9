package ports

import (
	"context"
	"time"
)

// SessionCache abstracts the token → user id lookup cache (Redis in
// production, an in-memory map in tests). The users table remains the source
// of truth; the cache only short-circuits session resolution.
type SessionCache interface {
	Put(ctx context.Context, token string, userID int64, ttl time.Duration) error
	Get(ctx context.Context, token string) (int64, bool, error)
	Delete(ctx context.Context, token string) error
}
