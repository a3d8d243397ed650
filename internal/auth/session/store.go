package session

//go:generate mockgen -destination=../../mocks/mock_session_store.go -package=mocks github.com/AnthoniusHendriyanto/social-core/internal/auth/session Store

import (
	"context"
	"time"
)

// Store holds at most one live refresh-token record per user. Put overwrites
// unconditionally; Replace swaps only if the stored value still matches, so
// concurrent rotations of the same token cannot both win.
type Store interface {
	Put(ctx context.Context, userID, refreshToken string, ttl time.Duration) error
	Get(ctx context.Context, userID string) (string, error)
	Replace(ctx context.Context, userID, current, next string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, userID string) error
}
