package ports

import (
	"context"
	"time"
)

// SessionRevocationStore keeps revocation markers with token-aligned TTL.
// It gives logout immediate effect ahead of natural token expiry. Keys are
// token IDs (jti), so access and refresh tokens revoke independently.
type SessionRevocationStore interface {
	MarkRevoked(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
