package domain

import (
	"encoding/json"
	"fmt"
)

// ReportStatus is the closed set of report job states. Terminal states end
// the polling loop; anything the downstream API returns outside this set is
// rejected at the boundary.
type ReportStatus string

const (
	ReportPending    ReportStatus = "pending"
	ReportProcessing ReportStatus = "processing"
	ReportReady      ReportStatus = "ready"
	ReportFailed     ReportStatus = "failed"
)

// Terminal reports whether the status ends the polling loop.
func (s ReportStatus) Terminal() bool {
	return s == ReportReady || s == ReportFailed
}

// ParseReportStatus validates a raw status value from the downstream API.
func ParseReportStatus(raw string) (ReportStatus, error) {
	switch ReportStatus(raw) {
	case ReportPending, ReportProcessing, ReportReady, ReportFailed:
		return ReportStatus(raw), nil
	default:
		return "", fmt.Errorf("unknown report status %q", raw)
	}
}

func (s *ReportStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseReportStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ReportJob is the asynchronously generated artifact handle. The gateway only
// reads its state; the downstream API owns all mutations. Filename doubles as
// the job identifier for status polls.
type ReportJob struct {
	Filename    string       `json:"filename"`
	Status      ReportStatus `json:"status"`
	DownloadURL string       `json:"downloadUrl,omitempty"`
}
