package campaignapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/askyazi/campaign-gateway/internal/domain"
)

// Client is the downstream data API adapter. Every operation is exactly one
// round trip with no caching and no retries; idempotence is the downstream
// API's responsibility. When the caller's ID token is present it is attached
// as a bearer credential, otherwise the call goes out unauthenticated.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(httpClient *http.Client, baseURL string) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("campaign api base url is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}, nil
}

func (c *Client) CampaignByID(ctx context.Context, campaignID, idToken string) (json.RawMessage, error) {
	return c.getJSON(ctx, "/campaigns/"+url.PathEscape(campaignID), nil, idToken, "Failed to fetch campaign")
}

func (c *Client) SurveyResults(ctx context.Context, campaignID, idToken string) (json.RawMessage, error) {
	path := "/campaigns/" + url.PathEscape(campaignID) + "/survey-graph-results"
	return c.getJSON(ctx, path, nil, idToken, "Failed to fetch survey graph results")
}

func (c *Client) SubmitReport(ctx context.Context, spec json.RawMessage, idToken string) (domain.ReportJob, error) {
	raw, err := c.do(ctx, http.MethodPost, "/powerpoint-report", nil, spec, idToken, "Failed to generate report")
	if err != nil {
		return domain.ReportJob{}, err
	}
	return decodeReportJob(raw)
}

func (c *Client) ReportStatus(ctx context.Context, filename, idToken string) (domain.ReportJob, error) {
	query := url.Values{}
	query.Set("filename", filename)
	raw, err := c.do(ctx, http.MethodGet, "/powerpoint-status", query, nil, idToken, "Failed to get report status")
	if err != nil {
		return domain.ReportJob{}, err
	}
	return decodeReportJob(raw)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, idToken, fallbackMsg string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, idToken, fallbackMsg)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body json.RawMessage, idToken, fallbackMsg string) (json.RawMessage, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if idToken != "" {
		req.Header.Set("Authorization", "Bearer "+idToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: campaign api unreachable: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read campaign api response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, upstreamError(resp.StatusCode, payload, fallbackMsg)
	}
	return payload, nil
}

// upstreamError forwards the downstream status code with the message from
// its error body when one is present.
func upstreamError(statusCode int, body []byte, fallbackMsg string) error {
	var errBody struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &errBody)
	message := strings.TrimSpace(errBody.Message)
	if message == "" {
		message = fallbackMsg
	}
	return &domain.UpstreamError{StatusCode: statusCode, Message: message}
}

// decodeReportJob normalizes the two submit-response shapes: a synchronous
// result carrying downloadUrl is terminal ready, an async handle carries a
// filename and a non-terminal status. A missing status on an async handle
// defaults to pending.
func decodeReportJob(raw json.RawMessage) (domain.ReportJob, error) {
	var body struct {
		Filename    string `json:"filename"`
		Status      string `json:"status"`
		DownloadURL string `json:"downloadUrl"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return domain.ReportJob{}, fmt.Errorf("decode report response: %w", err)
	}

	job := domain.ReportJob{
		Filename:    body.Filename,
		DownloadURL: body.DownloadURL,
	}
	switch {
	case body.Status != "":
		status, err := domain.ParseReportStatus(body.Status)
		if err != nil {
			return domain.ReportJob{}, fmt.Errorf("campaign api returned malformed report status: %w", err)
		}
		job.Status = status
	case body.DownloadURL != "":
		job.Status = domain.ReportReady
	default:
		job.Status = domain.ReportPending
	}

	if job.Status == domain.ReportReady && job.DownloadURL == "" {
		return domain.ReportJob{}, fmt.Errorf("campaign api returned ready report without download url")
	}
	return job, nil
}
