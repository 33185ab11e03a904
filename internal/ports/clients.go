package ports

import (
	"context"
	"encoding/json"

	"github.com/askyazi/campaign-gateway/internal/domain"
)

// IdentityProvider exchanges credentials for a token set. Credential failures
// are terminal for the call; the gateway never retries a login.
type IdentityProvider interface {
	Login(ctx context.Context, email, password string) (domain.TokenSet, error)
}

// CampaignAPI is the downstream data API. Campaign and survey payloads pass
// through opaquely; their schema is not the gateway's concern. Every call is
// exactly one round trip, optionally carrying the caller's ID token as a
// bearer credential.
type CampaignAPI interface {
	CampaignByID(ctx context.Context, campaignID, idToken string) (json.RawMessage, error)
	SurveyResults(ctx context.Context, campaignID, idToken string) (json.RawMessage, error)
	SubmitReport(ctx context.Context, spec json.RawMessage, idToken string) (domain.ReportJob, error)
	ReportStatus(ctx context.Context, filename, idToken string) (domain.ReportJob, error)
}
