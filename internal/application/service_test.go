package application

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/askyazi/campaign-gateway/internal/adapters/cache"
	"github.com/askyazi/campaign-gateway/internal/adapters/security"
	"github.com/askyazi/campaign-gateway/internal/domain"
	"github.com/askyazi/campaign-gateway/internal/ports"
)

type fakeProvider struct {
	calls  int
	tokens domain.TokenSet
	err    error
}

func (f *fakeProvider) Login(_ context.Context, _, _ string) (domain.TokenSet, error) {
	f.calls++
	if f.err != nil {
		return domain.TokenSet{}, f.err
	}
	return f.tokens, nil
}

type statusResult struct {
	job domain.ReportJob
	err error
}

type fakeCampaignAPI struct {
	campaignPayload json.RawMessage
	submitJob       domain.ReportJob
	submitErr       error

	lastCampaignID string
	lastIDToken    string

	statusCalls int
	statusQueue []statusResult
}

func (f *fakeCampaignAPI) CampaignByID(_ context.Context, campaignID, idToken string) (json.RawMessage, error) {
	f.lastCampaignID = campaignID
	f.lastIDToken = idToken
	return f.campaignPayload, nil
}

func (f *fakeCampaignAPI) SurveyResults(_ context.Context, campaignID, idToken string) (json.RawMessage, error) {
	f.lastCampaignID = campaignID
	f.lastIDToken = idToken
	return f.campaignPayload, nil
}

func (f *fakeCampaignAPI) SubmitReport(_ context.Context, _ json.RawMessage, _ string) (domain.ReportJob, error) {
	return f.submitJob, f.submitErr
}

func (f *fakeCampaignAPI) ReportStatus(_ context.Context, _, _ string) (domain.ReportJob, error) {
	f.statusCalls++
	if len(f.statusQueue) == 0 {
		return domain.ReportJob{Status: domain.ReportPending}, nil
	}
	next := f.statusQueue[0]
	if len(f.statusQueue) > 1 {
		f.statusQueue = f.statusQueue[1:]
	}
	return next.job, next.err
}

type serviceFixture struct {
	service      *Service
	provider     *fakeProvider
	campaigns    *fakeCampaignAPI
	accessCodec  *security.Codec
	refreshCodec *security.Codec
	revocations  *cache.MemoryRevocationStore
}

func newServiceFixture(t *testing.T, cfg Config) *serviceFixture {
	t.Helper()

	accessCodec, err := security.NewCodec("access-secret", "campaign-gateway", "access", time.Hour)
	if err != nil {
		t.Fatalf("new access codec: %v", err)
	}
	refreshCodec, err := security.NewCodec("refresh-secret", "campaign-gateway", "refresh", 7*24*time.Hour)
	if err != nil {
		t.Fatalf("new refresh codec: %v", err)
	}

	fx := &serviceFixture{
		provider:     &fakeProvider{},
		campaigns:    &fakeCampaignAPI{},
		accessCodec:  accessCodec,
		refreshCodec: refreshCodec,
		revocations:  cache.NewMemoryRevocationStore(),
	}
	fx.service = NewService(Dependencies{
		Config:       cfg,
		Provider:     fx.provider,
		Campaigns:    fx.campaigns,
		Verifier:     localVerifier{codec: accessCodec},
		AccessCodec:  accessCodec,
		RefreshCodec: refreshCodec,
		Revocations:  fx.revocations,
	})
	return fx
}

// localVerifier verifies against the gateway's own signing domain only; the
// issuer dispatch has its own tests in the security package.
type localVerifier struct {
	codec *security.Codec
}

func (v localVerifier) Verify(_ context.Context, raw string) (ports.AccessClaims, error) {
	return v.codec.Verify(raw)
}
