package idp

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/askyazi/campaign-gateway/internal/domain"
	"github.com/askyazi/campaign-gateway/internal/ports"
)

// JWKSVerifier validates provider-issued RS256 access tokens against the
// provider's published signing keys. Keys are fetched lazily and cached in
// memory; an unknown kid triggers one refetch before the token is rejected.
type JWKSVerifier struct {
	httpClient *http.Client
	issuer     string
	jwksURL    string
	clientID   string

	mu   sync.RWMutex
	keys map[string]*rsa.PublicKey
}

type JWKSConfig struct {
	HTTPClient *http.Client
	Issuer     string
	JWKSURL    string
	ClientID   string
}

func NewJWKSVerifier(cfg JWKSConfig) (*JWKSVerifier, error) {
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, fmt.Errorf("provider issuer is required")
	}
	jwksURL := strings.TrimSpace(cfg.JWKSURL)
	if jwksURL == "" {
		jwksURL = strings.TrimRight(cfg.Issuer, "/") + "/.well-known/jwks.json"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 8 * time.Second}
	}
	return &JWKSVerifier{
		httpClient: httpClient,
		issuer:     cfg.Issuer,
		jwksURL:    jwksURL,
		clientID:   cfg.ClientID,
	}, nil
}

type providerClaims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	TokenUse string `json:"token_use"`
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}

func (v *JWKSVerifier) Verify(ctx context.Context, raw string) (ports.AccessClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &providerClaims{}, func(token *jwt.Token) (any, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token missing kid header")
		}
		return v.keyFor(ctx, kid)
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithIssuer(v.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ports.AccessClaims{}, fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
		}
		return ports.AccessClaims{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*providerClaims)
	if !ok || !parsed.Valid {
		return ports.AccessClaims{}, domain.ErrInvalidToken
	}
	if claims.TokenUse != "access" {
		return ports.AccessClaims{}, fmt.Errorf("%w: wrong token use", domain.ErrInvalidToken)
	}
	if v.clientID != "" && claims.ClientID != v.clientID {
		return ports.AccessClaims{}, fmt.Errorf("%w: wrong client id", domain.ErrInvalidToken)
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

func (v *JWKSVerifier) keyFor(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	key, ok := v.keys[kid]
	v.mu.RUnlock()
	if ok {
		return key, nil
	}

	if err := v.refreshKeys(ctx); err != nil {
		return nil, err
	}

	v.mu.RLock()
	key, ok = v.keys[kid]
	v.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no signing key for kid %q", kid)
	}
	return key, nil
}

type jwksDocument struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func (v *JWKSVerifier) refreshKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch jwks: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("jwks fetch failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("decode jwks: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		pub, err := parseRSAKey(k)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return errors.New("jwks document contains no usable keys")
	}

	v.mu.Lock()
	v.keys = keys
	v.mu.Unlock()
	return nil
}

func parseRSAKey(k jwk) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("decode modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("decode exponent: %w", err)
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(new(big.Int).SetBytes(eBytes).Int64()),
	}, nil
}
