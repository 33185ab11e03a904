package application

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/askyazi/campaign-gateway/internal/domain"
)

// SubmitReport issues a report generation request. The downstream API either
// resolves it synchronously (terminal ready with a download URL, zero polls)
// or returns an async job handle identified by filename.
func (s *Service) SubmitReport(ctx context.Context, identity domain.Identity, spec json.RawMessage) (domain.ReportJob, error) {
	if len(spec) == 0 || string(spec) == "null" {
		return domain.ReportJob{}, fmt.Errorf("%w: report data is required", domain.ErrInvalidInput)
	}
	job, err := s.campaigns.SubmitReport(ctx, spec, identity.IDToken)
	if err != nil {
		return domain.ReportJob{}, err
	}
	if !job.Status.Terminal() && job.Filename == "" {
		return domain.ReportJob{}, fmt.Errorf("campaign api returned async report without filename")
	}
	return job, nil
}

// ReportStatus performs exactly one status check for a job.
func (s *Service) ReportStatus(ctx context.Context, identity domain.Identity, filename string) (domain.ReportJob, error) {
	if filename == "" {
		return domain.ReportJob{}, fmt.Errorf("%w: filename query parameter is required", domain.ErrInvalidInput)
	}
	return s.campaigns.ReportStatus(ctx, filename, identity.IDToken)
}

// AwaitReport drives the polling loop server-side: one status check per
// interval tick until a terminal state. The caller abandons the job by
// cancelling the context. The attempt budget bounds the loop; exhausting it
// is an explicit timeout, never silent abandonment. A failed status call is
// logged and the loop re-arms; transient downstream trouble does not fail
// the job.
func (s *Service) AwaitReport(ctx context.Context, identity domain.Identity, filename string) (domain.ReportJob, error) {
	if filename == "" {
		return domain.ReportJob{}, fmt.Errorf("%w: filename query parameter is required", domain.ErrInvalidInput)
	}

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= s.cfg.PollMaxAttempts; attempt++ {
		job, err := s.campaigns.ReportStatus(ctx, filename, identity.IDToken)
		if err != nil {
			if ctx.Err() != nil {
				return domain.ReportJob{}, ctx.Err()
			}
			serviceLogger().WarnContext(ctx, "report status check failed",
				"operation", "await_report",
				"outcome", "failure",
				"filename", filename,
				"attempt", attempt,
				"error", err,
			)
		} else if job.Status.Terminal() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return domain.ReportJob{}, ctx.Err()
		case <-ticker.C:
		}
	}

	return domain.ReportJob{}, fmt.Errorf("%w: %s after %d attempts", domain.ErrPollTimeout, filename, s.cfg.PollMaxAttempts)
}
