package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/askyazi/campaign-gateway/internal/domain"
)

// Client verifies credentials against the identity provider's Cognito-style
// HTTP API. Login is exactly one outbound call; credential failures are
// terminal and never retried. The HTTP client is injected so tests can point
// at a fake provider.
type Client struct {
	httpClient *http.Client
	endpoint   string
	clientID   string
}

type Config struct {
	HTTPClient *http.Client
	Endpoint   string
	ClientID   string
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("identity provider endpoint is required")
	}
	if strings.TrimSpace(cfg.ClientID) == "" {
		return nil, fmt.Errorf("identity provider client id is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 8 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		clientID:   cfg.ClientID,
	}, nil
}

type initiateAuthRequest struct {
	AuthFlow       string            `json:"AuthFlow"`
	ClientID       string            `json:"ClientId"`
	AuthParameters map[string]string `json:"AuthParameters"`
}

type initiateAuthResponse struct {
	AuthenticationResult *struct {
		AccessToken  string `json:"AccessToken"`
		IDToken      string `json:"IdToken"`
		RefreshToken string `json:"RefreshToken"`
		ExpiresIn    int    `json:"ExpiresIn"`
	} `json:"AuthenticationResult"`
}

type providerError struct {
	Type    string `json:"__type"`
	Message string `json:"message"`
}

const (
	errNotAuthorized    = "NotAuthorizedException"
	errUserNotConfirmed = "UserNotConfirmedException"
)

func (c *Client) Login(ctx context.Context, email, password string) (domain.TokenSet, error) {
	payload, err := json.Marshal(initiateAuthRequest{
		AuthFlow: "USER_PASSWORD_AUTH",
		ClientID: c.clientID,
		AuthParameters: map[string]string{
			"USERNAME": strings.ToLower(email),
			"PASSWORD": password,
		},
	})
	if err != nil {
		return domain.TokenSet{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/", bytes.NewReader(payload))
	if err != nil {
		return domain.TokenSet{}, err
	}
	req.Header.Set("Content-Type", "application/x-amz-json-1.1")
	req.Header.Set("X-Amz-Target", "AWSCognitoIdentityProviderService.InitiateAuth")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.TokenSet{}, fmt.Errorf("%w: identity provider unreachable: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.TokenSet{}, mapProviderError(resp)
	}

	var authResp initiateAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		return domain.TokenSet{}, fmt.Errorf("decode provider response: %w", err)
	}
	if authResp.AuthenticationResult == nil {
		return domain.TokenSet{}, fmt.Errorf("%w: authentication failed", domain.ErrUnauthorized)
	}

	result := authResp.AuthenticationResult
	expiresIn := result.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = domain.DefaultExpiresIn
	}
	return domain.TokenSet{
		AccessToken:  result.AccessToken,
		IDToken:      result.IDToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// mapProviderError converts the provider's named error shapes into the
// gateway taxonomy. Anything unrecognized is forwarded as an upstream error
// carrying the provider's message.
func mapProviderError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var perr providerError
	_ = json.Unmarshal(body, &perr)
	switch trimErrorType(perr.Type) {
	case errNotAuthorized:
		return fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	case errUserNotConfirmed:
		return fmt.Errorf("%w: account not confirmed", domain.ErrForbidden)
	}

	message := strings.TrimSpace(perr.Message)
	if message == "" {
		message = strings.TrimSpace(string(body))
	}
	if message == "" {
		message = "login failed"
	}
	return &domain.UpstreamError{StatusCode: resp.StatusCode, Message: message}
}

// trimErrorType strips the service prefix some providers include, e.g.
// "com.amazonaws.cognito#NotAuthorizedException".
func trimErrorType(raw string) string {
	if idx := strings.LastIndexByte(raw, '#'); idx >= 0 {
		return raw[idx+1:]
	}
	return raw
}
