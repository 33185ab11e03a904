package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/askyazi/campaign-gateway/internal/domain"
)

// CampaignByID proxies a campaign lookup to the downstream API with the
// caller's identity attached. The payload passes through untouched.
func (s *Service) CampaignByID(ctx context.Context, identity domain.Identity, campaignID string) (json.RawMessage, error) {
	if campaignID == "" {
		return nil, fmt.Errorf("%w: campaign id is required", domain.ErrInvalidInput)
	}
	return s.campaigns.CampaignByID(ctx, campaignID, identity.IDToken)
}

// SurveyResults proxies the survey graph results lookup for a campaign.
func (s *Service) SurveyResults(ctx context.Context, identity domain.Identity, campaignID string) (json.RawMessage, error) {
	if campaignID == "" {
		return nil, fmt.Errorf("%w: campaign id is required", domain.ErrInvalidInput)
	}
	return s.campaigns.SurveyResults(ctx, campaignID, identity.IDToken)
}
