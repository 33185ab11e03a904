package ports

import (
	"context"
	"time"
)

// AccessClaims is the verified content of an access or refresh token,
// independent of which issuer minted it.
type AccessClaims struct {
	Subject   string
	Username  string
	Email     string
	TokenUse  string
	TokenID   string
	Issuer    string
	ExpiresAt time.Time
}

// TokenCodec is one signing domain: it issues and verifies tokens under a
// single secret and TTL. Access/session and refresh tokens use separate
// codec instances so compromise of one domain cannot mint tokens in the other.
type TokenCodec interface {
	Issue(claims AccessClaims) (string, error)
	Verify(raw string) (AccessClaims, error)
	TTL() time.Duration
}

// TokenVerifier validates a candidate session token regardless of issuer.
// Implementations decide per token whether it was minted by the identity
// provider or by the gateway itself.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (AccessClaims, error)
}
