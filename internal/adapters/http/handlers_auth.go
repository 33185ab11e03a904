package http

import (
	"errors"
	"net/http"

	"github.com/askyazi/campaign-gateway/internal/domain"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := decodeBody(r, &creds); err != nil {
		logHTTPOperationError(r.Context(), "login", http.StatusBadRequest, "invalid request body", err)
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if creds.Email == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.service.Login(r.Context(), creds)
	if err != nil {
		// Bad credentials get their own message; everything else follows
		// the taxonomy mapping.
		if errors.Is(err, domain.ErrUnauthorized) {
			logHTTPOperationError(r.Context(), "login", http.StatusUnauthorized, "invalid credentials", err)
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		writeMappedError(r.Context(), w, "login", err)
		return
	}

	h.setSessionCookies(w, result.Tokens, result.RefreshToken, result.RefreshTTL)
	writeMessageData(w, http.StatusOK, "Login successful", map[string]any{
		"accessToken": result.Tokens.AccessToken,
		"idToken":     result.Tokens.IDToken,
		"expiresIn":   result.Tokens.ExpiresIn,
	})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	refreshRaw := cookieValue(r, cookieRefreshToken)
	if refreshRaw == "" {
		writeError(w, http.StatusUnauthorized, "Refresh token is required")
		return
	}

	result, err := h.service.Refresh(r.Context(), refreshRaw)
	if err != nil {
		status, _ := mapDomainError(err)
		logHTTPOperationError(r.Context(), "refresh", status, "refresh rejected", err)
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	accessTTL := h.service.AccessTokenTTL()
	http.SetCookie(w, h.sessionCookie(cookieAccessToken, result.AccessToken, accessTTL))
	writeMessageData(w, http.StatusOK, "Token refreshed", map[string]any{
		"accessToken": result.AccessToken,
		"expiresIn":   result.ExpiresIn,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Access token is required")
		return
	}

	h.service.Logout(r.Context(), claims, cookieValue(r, cookieRefreshToken))
	h.clearSessionCookies(w)
	writeMessage(w, http.StatusOK, "Logout successful")
}
