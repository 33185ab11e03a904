package http

import (
	"net/http"
	"time"

	"github.com/askyazi/campaign-gateway/internal/domain"
)

// Session cookie names. The access and ID tokens live for the provider's
// expiresIn window; the refresh token has its own fixed validity.
const (
	cookieAccessToken  = "access-token"
	cookieIDToken      = "id-token"
	cookieRefreshToken = "refresh-token"
)

// CookieConfig controls the transport attributes of session cookies.
// Secure is on in production so tokens only ever travel over TLS.
type CookieConfig struct {
	Secure bool
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func (h *Handler) sessionCookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// setSessionCookies binds a fresh token set to the client. All three cookies
// are HttpOnly, same-site strict, and secure in production.
func (h *Handler) setSessionCookies(w http.ResponseWriter, tokens domain.TokenSet, refreshToken string, refreshTTL time.Duration) {
	accessTTL := time.Duration(tokens.ExpiresIn) * time.Second
	http.SetCookie(w, h.sessionCookie(cookieAccessToken, tokens.AccessToken, accessTTL))
	http.SetCookie(w, h.sessionCookie(cookieIDToken, tokens.IDToken, accessTTL))
	http.SetCookie(w, h.sessionCookie(cookieRefreshToken, refreshToken, refreshTTL))
}

// clearSessionCookies expires every session cookie.
func (h *Handler) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{cookieAccessToken, cookieIDToken, cookieRefreshToken} {
		cookie := h.sessionCookie(name, "", 0)
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
	}
}
