package security

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/askyazi/campaign-gateway/internal/domain"
	"github.com/askyazi/campaign-gateway/internal/ports"
)

// IssuerVerifier validates tokens from whichever issuer minted them. Two
// issuers appear in one session: the identity provider signs the tokens set
// at login, the gateway itself signs access tokens minted by the refresh
// flow. Dispatch happens on the unverified issuer claim; the selected
// verifier then performs the full signature and expiry checks.
type IssuerVerifier struct {
	logger         *slog.Logger
	providerIssuer string
	provider       ports.TokenVerifier
	local          *Codec
}

func NewIssuerVerifier(logger *slog.Logger, providerIssuer string, provider ports.TokenVerifier, local *Codec) *IssuerVerifier {
	return &IssuerVerifier{
		logger:         logger,
		providerIssuer: providerIssuer,
		provider:       provider,
		local:          local,
	}
}

func (v *IssuerVerifier) Verify(ctx context.Context, raw string) (ports.AccessClaims, error) {
	peeked, err := PeekClaims(raw)
	if err != nil {
		return ports.AccessClaims{}, err
	}

	switch peeked.Issuer {
	case v.providerIssuer:
		return v.provider.Verify(ctx, raw)
	case v.local.Issuer():
		return v.local.Verify(raw)
	default:
		v.logger.WarnContext(ctx, "token from unknown issuer rejected",
			"operation", "verify_token",
			"outcome", "failure",
			"issuer", peeked.Issuer,
		)
		return ports.AccessClaims{}, fmt.Errorf("%w: unknown issuer", domain.ErrInvalidToken)
	}
}
