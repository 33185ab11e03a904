package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/askyazi/campaign-gateway/internal/domain"
	"github.com/askyazi/campaign-gateway/internal/ports"
)

type gatewayClaims struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	TokenUse string `json:"token_use,omitempty"`
	jwt.RegisteredClaims
}

// Codec is one HS256 signing domain. The gateway runs two instances with
// independent secrets and TTLs: one for self-issued access tokens, one for
// refresh tokens. A token signed in one domain fails verification in the other.
type Codec struct {
	secret   []byte
	issuer   string
	tokenUse string
	ttl      time.Duration
}

// NewCodec builds a codec for a single signing domain. tokenUse is stamped
// into every issued token and checked back on verify.
func NewCodec(secret, issuer, tokenUse string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("signing secret is required")
	}
	if issuer == "" {
		return nil, errors.New("token issuer is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid token ttl %s", ttl)
	}
	return &Codec{
		secret:   []byte(secret),
		issuer:   issuer,
		tokenUse: tokenUse,
		ttl:      ttl,
	}, nil
}

// Issuer returns the issuer claim stamped on tokens from this domain.
func (c *Codec) Issuer() string { return c.issuer }

// TTL returns the lifetime applied to issued tokens.
func (c *Codec) TTL() time.Duration { return c.ttl }

func (c *Codec) Issue(claims ports.AccessClaims) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, gatewayClaims{
		Username: claims.Username,
		Email:    claims.Email,
		TokenUse: c.tokenUse,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(c.secret)
}

func (c *Codec) Verify(raw string) (ports.AccessClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &gatewayClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(c.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ports.AccessClaims{}, fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
		}
		return ports.AccessClaims{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*gatewayClaims)
	if !ok || !parsed.Valid {
		return ports.AccessClaims{}, domain.ErrInvalidToken
	}
	if c.tokenUse != "" && claims.TokenUse != c.tokenUse {
		return ports.AccessClaims{}, fmt.Errorf("%w: wrong token use", domain.ErrInvalidToken)
	}

	out := ports.AccessClaims{
		Subject:  claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
		TokenUse: claims.TokenUse,
		TokenID:  claims.ID,
		Issuer:   claims.Issuer,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return out, nil
}

// PeekClaims extracts claims without validating the signature. The verifier
// uses the issuer to pick a signing domain and the refresh flow carries the
// login identity into the gateway-signed refresh token; nothing else may
// trust its result.
func PeekClaims(raw string) (ports.AccessClaims, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(raw, &gatewayClaims{})
	if err != nil {
		return ports.AccessClaims{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*gatewayClaims)
	if !ok {
		return ports.AccessClaims{}, domain.ErrInvalidToken
	}
	out := ports.AccessClaims{
		Subject:  claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
		TokenUse: claims.TokenUse,
		TokenID:  claims.ID,
		Issuer:   claims.Issuer,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return out, nil
}
