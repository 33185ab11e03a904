package domain

// Credentials is the transient login payload. It exists only for the duration
// of a login call, is never persisted, and must never appear in logs.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenSet is what the identity provider issues on a successful login.
// The access token authorizes gateway endpoints, the ID token is forwarded
// opaquely to the downstream API, and the refresh token renews the session
// within its own fixed validity window.
type TokenSet struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	ExpiresIn    int
}

// DefaultExpiresIn applies when the provider omits an expiry.
const DefaultExpiresIn = 3600
