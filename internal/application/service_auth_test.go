package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/askyazi/campaign-gateway/internal/adapters/security"
	"github.com/askyazi/campaign-gateway/internal/domain"
	"github.com/askyazi/campaign-gateway/internal/ports"
)

func TestLoginMintsRefreshTokenFromProviderClaims(t *testing.T) {
	t.Parallel()

	fx := newServiceFixture(t, Config{})
	providerCodec, err := security.NewCodec("provider-secret", "https://idp.example.com/pool", "access", time.Hour)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	providerAccess, err := providerCodec.Issue(ports.AccessClaims{
		Subject:  "idp-user",
		Username: "user@example.com",
		Email:    "user@example.com",
	})
	if err != nil {
		t.Fatalf("issue provider token: %v", err)
	}
	fx.provider.tokens = domain.TokenSet{
		AccessToken: providerAccess,
		IDToken:     "id-token",
		ExpiresIn:   3600,
	}

	result, err := fx.service.Login(context.Background(), domain.Credentials{
		Email:    "User@Example.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Tokens.IDToken != "id-token" {
		t.Fatalf("expected provider token set, got %+v", result.Tokens)
	}
	if result.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("unexpected refresh ttl %s", result.RefreshTTL)
	}

	claims, err := fx.refreshCodec.Verify(result.RefreshToken)
	if err != nil {
		t.Fatalf("refresh token must verify in the refresh domain: %v", err)
	}
	if claims.Subject != "idp-user" {
		t.Fatalf("expected provider subject, got %q", claims.Subject)
	}
	if claims.TokenUse != "refresh" {
		t.Fatalf("expected refresh token use, got %q", claims.TokenUse)
	}
}

func TestLoginFallsBackToEmailForOpaqueAccessToken(t *testing.T) {
	t.Parallel()

	fx := newServiceFixture(t, Config{})
	fx.provider.tokens = domain.TokenSet{AccessToken: "opaque-token", IDToken: "id-token"}

	result, err := fx.service.Login(context.Background(), domain.Credentials{
		Email:    "User@Example.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := fx.refreshCodec.Verify(result.RefreshToken)
	if err != nil {
		t.Fatalf("verify refresh token: %v", err)
	}
	if claims.Subject != "user@example.com" || claims.Email != "user@example.com" {
		t.Fatalf("expected normalized email identity, got %+v", claims)
	}
}

func TestLoginValidatesInputBeforeProviderCall(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		creds domain.Credentials
	}{
		{name: "missing email", creds: domain.Credentials{Password: "secret"}},
		{name: "missing password", creds: domain.Credentials{Email: "user@example.com"}},
		{name: "malformed email", creds: domain.Credentials{Email: "not-an-email", Password: "secret"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			fx := newServiceFixture(t, Config{})
			_, err := fx.service.Login(context.Background(), tc.creds)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
			if fx.provider.calls != 0 {
				t.Fatalf("invalid input must not reach the provider")
			}
		})
	}
}

func TestLoginPassesProviderErrorThrough(t *testing.T) {
	t.Parallel()

	fx := newServiceFixture(t, Config{})
	fx.provider.err = domain.ErrUnauthorized

	_, err := fx.service.Login(context.Background(), domain.Credentials{
		Email:    "user@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestVerifySessionRejectsRevokedToken(t *testing.T) {
	t.Parallel()

	fx := newServiceFixture(t, Config{})
	raw, err := fx.accessCodec.Issue(ports.AccessClaims{Subject: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := fx.service.VerifySession(context.Background(), raw)
	if err != nil {
		t.Fatalf("verify session: %v", err)
	}

	if err := fx.revocations.MarkRevoked(context.Background(), claims.TokenID, claims.ExpiresAt); err != nil {
		t.Fatalf("mark revoked: %v", err)
	}
	if _, err := fx.service.VerifySession(context.Background(), raw); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for revoked token, got %v", err)
	}
}

func TestRefreshMintsSelfIssuedAccessToken(t *testing.T) {
	t.Parallel()

	fx := newServiceFixture(t, Config{})
	refreshToken, err := fx.refreshCodec.Issue(ports.AccessClaims{
		Subject:  "user-1",
		Username: "user@example.com",
		Email:    "user@example.com",
	})
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	result, err := fx.service.Refresh(context.Background(), refreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if result.ExpiresIn != int(time.Hour.Seconds()) {
		t.Fatalf("unexpected expiry %d", result.ExpiresIn)
	}

	claims, err := fx.accessCodec.Verify(result.AccessToken)
	if err != nil {
		t.Fatalf("new access token must verify in the access domain: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "user@example.com" {
		t.Fatalf("identity must carry over, got %+v", claims)
	}
	if claims.TokenUse != "access" {
		t.Fatalf("expected access token use, got %q", claims.TokenUse)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	t.Parallel()

	fx := newServiceFixture(t, Config{})
	accessToken, err := fx.accessCodec.Issue(ports.AccessClaims{Subject: "user-1"})
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}

	if _, err := fx.service.Refresh(context.Background(), accessToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("access token must not pass as refresh token, got %v", err)
	}
}

func TestRefreshRequiresToken(t *testing.T) {
	t.Parallel()

	fx := newServiceFixture(t, Config{})
	if _, err := fx.service.Refresh(context.Background(), ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesAccessAndRefreshTokens(t *testing.T) {
	t.Parallel()

	fx := newServiceFixture(t, Config{})
	accessRaw, err := fx.accessCodec.Issue(ports.AccessClaims{Subject: "user-1"})
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	refreshRaw, err := fx.refreshCodec.Issue(ports.AccessClaims{Subject: "user-1"})
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	claims, err := fx.service.VerifySession(context.Background(), accessRaw)
	if err != nil {
		t.Fatalf("verify session: %v", err)
	}

	fx.service.Logout(context.Background(), claims, refreshRaw)

	if _, err := fx.service.VerifySession(context.Background(), accessRaw); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("access token must be revoked after logout, got %v", err)
	}
	if _, err := fx.service.Refresh(context.Background(), refreshRaw); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("refresh token must be revoked after logout, got %v", err)
	}
}
