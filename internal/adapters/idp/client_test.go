package idp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/askyazi/campaign-gateway/internal/domain"
)

func newFakeProvider(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		HTTPClient: srv.Client(),
		Endpoint:   srv.URL,
		ClientID:   "test-client",
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, srv
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	client, _ := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Amz-Target") != "AWSCognitoIdentityProviderService.InitiateAuth" {
			t.Errorf("unexpected target header %q", r.Header.Get("X-Amz-Target"))
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"AuthenticationResult": map[string]any{
				"AccessToken":  "access-token",
				"IdToken":      "id-token",
				"RefreshToken": "refresh-token",
				"ExpiresIn":    1800,
			},
		})
	})

	tokens, err := client.Login(context.Background(), "User@Example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.AccessToken != "access-token" || tokens.IDToken != "id-token" {
		t.Fatalf("unexpected token set %+v", tokens)
	}
	if tokens.ExpiresIn != 1800 {
		t.Fatalf("expected provider expiry, got %d", tokens.ExpiresIn)
	}

	params, _ := gotBody["AuthParameters"].(map[string]any)
	if params["USERNAME"] != "user@example.com" {
		t.Fatalf("expected lowercased username, got %v", params["USERNAME"])
	}
	if gotBody["AuthFlow"] != "USER_PASSWORD_AUTH" {
		t.Fatalf("expected password auth flow, got %v", gotBody["AuthFlow"])
	}
}

func TestLoginDefaultsExpiry(t *testing.T) {
	t.Parallel()

	client, _ := newFakeProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"AuthenticationResult": map[string]any{
				"AccessToken": "access-token",
				"IdToken":     "id-token",
			},
		})
	})

	tokens, err := client.Login(context.Background(), "user@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.ExpiresIn != domain.DefaultExpiresIn {
		t.Fatalf("expected default expiry, got %d", tokens.ExpiresIn)
	}
}

func TestLoginMapsProviderErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		errType string
		wantErr error
	}{
		{name: "bad credentials", errType: "NotAuthorizedException", wantErr: domain.ErrUnauthorized},
		{name: "prefixed type", errType: "com.amazonaws.cognito#NotAuthorizedException", wantErr: domain.ErrUnauthorized},
		{name: "unconfirmed account", errType: "UserNotConfirmedException", wantErr: domain.ErrForbidden},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client, _ := newFakeProvider(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"__type": tc.errType, "message": "nope"})
			})

			_, err := client.Login(context.Background(), "user@example.com", "wrong")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoginForwardsUnknownProviderError(t *testing.T) {
	t.Parallel()

	client, _ := newFakeProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]string{"__type": "TooManyRequestsException", "message": "slow down"})
	})

	_, err := client.Login(context.Background(), "user@example.com", "secret")
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if upstream.StatusCode != http.StatusTooManyRequests || upstream.Message != "slow down" {
		t.Fatalf("unexpected upstream error %+v", upstream)
	}
}

func TestLoginMissingAuthenticationResult(t *testing.T) {
	t.Parallel()

	client, _ := newFakeProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ChallengeName": "NEW_PASSWORD_REQUIRED"})
	})

	_, err := client.Login(context.Background(), "user@example.com", "secret")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnreachableProvider(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client, err := NewClient(Config{Endpoint: srv.URL, ClientID: "test-client"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.Login(context.Background(), "user@example.com", "secret")
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}
