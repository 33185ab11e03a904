package domain

// Identity is the verified caller attached to a request context for the
// lifetime of one request. IDToken comes from the session cookie, not from
// the access token, and is passed through to downstream calls when present.
type Identity struct {
	Subject  string
	Username string
	Email    string
	TokenUse string
	IDToken  string
}
