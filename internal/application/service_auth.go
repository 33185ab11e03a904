package application

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/askyazi/campaign-gateway/internal/adapters/security"
	"github.com/askyazi/campaign-gateway/internal/domain"
	"github.com/askyazi/campaign-gateway/internal/ports"
)

// Login exchanges credentials for a provider token set and mints the
// gateway-signed refresh token that backs the renewal cookie. Credentials are
// transient: they go out once and are never stored or logged.
func (s *Service) Login(ctx context.Context, creds domain.Credentials) (LoginResult, error) {
	email, err := normalizeEmail(creds.Email)
	if err != nil {
		return LoginResult{}, err
	}
	if creds.Password == "" {
		return LoginResult{}, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	tokens, err := s.provider.Login(ctx, email, creds.Password)
	if err != nil {
		return LoginResult{}, err
	}

	// The refresh token carries the login identity forward so a later
	// refresh can mint a self-issued access token without another provider
	// round trip. Claims come from an unverified peek at the token the
	// provider just handed us over TLS.
	refreshClaims := ports.AccessClaims{Subject: email, Email: email, Username: email}
	if peeked, peekErr := security.PeekClaims(tokens.AccessToken); peekErr == nil {
		if peeked.Subject != "" {
			refreshClaims.Subject = peeked.Subject
		}
		if peeked.Username != "" {
			refreshClaims.Username = peeked.Username
		}
		if peeked.Email != "" {
			refreshClaims.Email = peeked.Email
		}
	}

	refreshToken, err := s.refreshCodec.Issue(refreshClaims)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue refresh token: %w", err)
	}

	serviceLogger().InfoContext(ctx, "login succeeded",
		"operation", "login",
		"outcome", "success",
		"subject", refreshClaims.Subject,
	)
	return LoginResult{
		Tokens:       tokens,
		RefreshToken: refreshToken,
		RefreshTTL:   s.refreshCodec.TTL(),
	}, nil
}

// VerifySession validates a candidate session token and returns its claims.
// Expired and invalid tokens are logged distinctly but both come back as
// token errors the HTTP adapter collapses into one 401.
func (s *Service) VerifySession(ctx context.Context, raw string) (ports.AccessClaims, error) {
	claims, err := s.verifier.Verify(ctx, raw)
	if err != nil {
		return ports.AccessClaims{}, err
	}

	if s.revocations != nil && claims.TokenID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			serviceLogger().ErrorContext(ctx, "revocation check failed",
				"operation", "verify_session",
				"outcome", "failure",
				"error", err,
			)
		} else if revoked {
			return ports.AccessClaims{}, fmt.Errorf("%w: session revoked", domain.ErrUnauthorized)
		}
	}
	return claims, nil
}

// Refresh turns a valid refresh token into a new self-issued access token.
// The new token is verified by the gateway's own signing domain, not the
// provider's.
func (s *Service) Refresh(ctx context.Context, refreshRaw string) (RefreshResult, error) {
	if refreshRaw == "" {
		return RefreshResult{}, fmt.Errorf("%w: refresh token is required", domain.ErrUnauthorized)
	}

	claims, err := s.refreshCodec.Verify(refreshRaw)
	if err != nil {
		return RefreshResult{}, err
	}
	if s.revocations != nil && claims.TokenID != "" {
		revoked, revErr := s.revocations.IsRevoked(ctx, claims.TokenID)
		if revErr == nil && revoked {
			return RefreshResult{}, fmt.Errorf("%w: session revoked", domain.ErrUnauthorized)
		}
	}

	accessToken, err := s.accessCodec.Issue(ports.AccessClaims{
		Subject:  claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
	})
	if err != nil {
		return RefreshResult{}, fmt.Errorf("issue access token: %w", err)
	}
	return RefreshResult{
		AccessToken: accessToken,
		ExpiresIn:   int(s.accessCodec.TTL().Seconds()),
	}, nil
}

// Logout marks the current access token and, when present, the refresh token
// as revoked. Revocation is best effort: cookie clearing remains the primary
// teardown, so a store failure does not fail the logout.
func (s *Service) Logout(ctx context.Context, claims ports.AccessClaims, refreshRaw string) {
	if s.revocations == nil {
		return
	}

	if claims.TokenID != "" {
		if err := s.revocations.MarkRevoked(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
			serviceLogger().ErrorContext(ctx, "failed to revoke access token",
				"operation", "logout",
				"outcome", "failure",
				"error", err,
			)
		}
	}
	if refreshRaw == "" {
		return
	}
	refreshClaims, err := s.refreshCodec.Verify(refreshRaw)
	if err != nil || refreshClaims.TokenID == "" {
		return
	}
	if err := s.revocations.MarkRevoked(ctx, refreshClaims.TokenID, refreshClaims.ExpiresAt); err != nil {
		serviceLogger().ErrorContext(ctx, "failed to revoke refresh token",
			"operation", "logout",
			"outcome", "failure",
			"error", err,
		)
	}
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}
	return email, nil
}
