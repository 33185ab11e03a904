package application

import (
	"log/slog"
	"time"

	"github.com/askyazi/campaign-gateway/internal/ports"
)

// Service holds the gateway use-cases behind the HTTP adapter: credential
// login, session verification, token refresh, the authenticated proxy to the
// campaign API, and the report polling workflow. It carries no per-request
// state; everything request-scoped travels by value.
type Service struct {
	cfg          Config
	provider     ports.IdentityProvider
	campaigns    ports.CampaignAPI
	verifier     ports.TokenVerifier
	accessCodec  ports.TokenCodec
	refreshCodec ports.TokenCodec
	revocations  ports.SessionRevocationStore
}

type Config struct {
	PollInterval    time.Duration
	PollMaxAttempts int
}

type Dependencies struct {
	Config       Config
	Provider     ports.IdentityProvider
	Campaigns    ports.CampaignAPI
	Verifier     ports.TokenVerifier
	AccessCodec  ports.TokenCodec
	RefreshCodec ports.TokenCodec
	Revocations  ports.SessionRevocationStore
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}
	if cfg.PollMaxAttempts <= 0 {
		cfg.PollMaxAttempts = 100
	}
	return &Service{
		cfg:          cfg,
		provider:     deps.Provider,
		campaigns:    deps.Campaigns,
		verifier:     deps.Verifier,
		accessCodec:  deps.AccessCodec,
		refreshCodec: deps.RefreshCodec,
		revocations:  deps.Revocations,
	}
}

// AccessTokenTTL is the lifetime of self-issued access tokens; the HTTP
// adapter aligns the refreshed session cookie with it.
func (s *Service) AccessTokenTTL() time.Duration {
	return s.accessCodec.TTL()
}

func serviceLogger() *slog.Logger {
	return slog.Default().With(
		"service", "campaign-gateway",
		"module", "application",
	)
}
