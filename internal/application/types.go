package application

import (
	"time"

	"github.com/askyazi/campaign-gateway/internal/domain"
)

// LoginResult is what the HTTP adapter needs to establish a session: the
// provider token set for the response body and cookies, plus the
// gateway-signed refresh token that backs the renewal cookie.
type LoginResult struct {
	Tokens       domain.TokenSet
	RefreshToken string
	RefreshTTL   time.Duration
}

// RefreshResult is a freshly minted self-issued access token.
type RefreshResult struct {
	AccessToken string
	ExpiresIn   int
}
