package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/askyazi/campaign-gateway/internal/domain"
	"github.com/askyazi/campaign-gateway/internal/ports"
)

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
	ctxKeyIdentity  ctxKey = "identity"
	ctxKeyClaims    ctxKey = "session_claims"
)

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpLogger().ErrorContext(r.Context(), "panic recovered",
					"operation", "http_panic_recovery",
					"outcome", "failure",
					"request_id", requestIDFromContext(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
				)
				writeError(w, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(payload []byte) (int, error) {
	if r.statusCode == 0 {
		r.statusCode = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(payload)
	r.bytes += n
	return n, err
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)

		statusCode := recorder.statusCode
		if statusCode == 0 {
			statusCode = http.StatusOK
		}
		outcome := "success"
		if statusCode >= 400 {
			outcome = "failure"
		}

		fields := []any{
			"operation", "http_request",
			"outcome", outcome,
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", statusCode,
			"bytes", recorder.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", requestIDFromContext(r.Context()),
		}
		switch {
		case statusCode >= 500:
			httpLogger().ErrorContext(r.Context(), "http request completed", fields...)
		case statusCode >= 400:
			httpLogger().WarnContext(r.Context(), "http request completed", fields...)
		default:
			httpLogger().InfoContext(r.Context(), "http request completed", fields...)
		}
	})
}

// sessionMiddleware gates every protected route. The session cookie is
// preferred over an explicit bearer header; with neither present the request
// is rejected before any verification call. Expired and invalid tokens are
// told apart only in logs; clients see one uniform 401.
func (h *Handler) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := candidateToken(r)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "Access token is required")
			return
		}

		claims, err := h.service.VerifySession(r.Context(), raw)
		if err != nil {
			operation := "session_invalid_token"
			if errors.Is(err, domain.ErrTokenExpired) {
				operation = "session_expired_token"
			}
			httpLogger().WarnContext(r.Context(), "session token rejected",
				"operation", operation,
				"outcome", "failure",
				"request_id", requestIDFromContext(r.Context()),
				"error", err,
			)
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		identity := domain.Identity{
			Subject:  claims.Subject,
			Username: claims.Username,
			Email:    claims.Email,
			TokenUse: claims.TokenUse,
			IDToken:  cookieValue(r, cookieIDToken),
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, ctxKeyIdentity, identity)
		ctx = context.WithValue(ctx, ctxKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// candidateToken prefers the session cookie over the Authorization header.
func candidateToken(r *http.Request) string {
	if token := cookieValue(r, cookieAccessToken); token != "" {
		return token
	}
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, prefix))
	}
	return ""
}

func requestIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return s
	}
	return ""
}

func identityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(ctxKeyIdentity).(domain.Identity)
	return identity, ok
}

func claimsFromContext(ctx context.Context) (ports.AccessClaims, bool) {
	claims, ok := ctx.Value(ctxKeyClaims).(ports.AccessClaims)
	return claims, ok
}

// mapDomainError converts taxonomy errors into a status code and client
// message. Internal validation distinctions collapse into one 401; upstream
// errors are forwarded with downstream's own status and message.
func mapDomainError(err error) (int, string) {
	var upstream *domain.UpstreamError
	switch {
	case errors.As(err, &upstream):
		return upstream.StatusCode, upstream.Message
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, "Invalid or expired token"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Please verify your email first"
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable, "Unable to reach upstream service"
	case errors.Is(err, domain.ErrPollTimeout):
		return http.StatusGatewayTimeout, "Report generation timed out"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Not found"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}
