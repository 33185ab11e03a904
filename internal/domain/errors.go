package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized covers missing, rejected or expired session credentials
	// as well as bad login credentials. Several internal failures collapse
	// into this one sentinel so responses never reveal why a token was rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned for accounts the provider reports as unconfirmed.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput flags missing or malformed request fields before any
	// outbound call is made.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidToken is the externally visible failure for any token the
	// codec rejects: malformed, bad signature or unknown issuer.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired distinguishes expiry from other token failures for
	// logging only; adapters map it to the same status as ErrInvalidToken.
	ErrTokenExpired = errors.New("token expired")
	// ErrUnavailable is returned when a downstream request never received a
	// response, regardless of the specific transport error.
	ErrUnavailable = errors.New("service unavailable")
	// ErrPollTimeout bounds the report polling loop. Exceeding the attempt
	// budget is an explicit failure rather than silent abandonment.
	ErrPollTimeout = errors.New("report polling timed out")
	ErrNotFound    = errors.New("not found")
)

// UpstreamError forwards an HTTP error response from the downstream API with
// its original status code and message. It is a closed carrier type so
// malformed upstream responses are caught at the boundary, not downstream.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: status=%d message=%s", e.StatusCode, e.Message)
}
