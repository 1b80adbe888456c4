package auth

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"
)

// Store is the global session store for browser clients. Page navigations
// carry the identity provider's JWT in a signed cookie so the dashboard does
// not need to attach Authorization headers.
var Store *sessions.CookieStore

// SessionName is the name of the browser session cookie.
const SessionName = "daru_session"

// SessionKeyToken is the session value key holding the raw JWT.
const SessionKeyToken = "token"

// InitSessionStore initializes the cookie-based session store.
//
// The secret parameter is used to sign session cookies. It can be any
// passphrase - it will be SHA-256 hashed to derive a 32-byte key. The secret
// must be consistent across server restarts and multiple servers in a
// load-balanced deployment.
//
// Security settings:
// - HttpOnly: true (inaccessible to JavaScript)
// - Secure: true (HTTPS only in production)
// - SameSite: Strict (prevents CSRF)
func InitSessionStore(secret string) {
	key := sha256.Sum256([]byte(secret))

	Store = sessions.NewCookieStore(key[:])
	Store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

// TokenFromSession returns the JWT stored in the browser session, if any.
func TokenFromSession(r *http.Request) (string, bool) {
	if Store == nil {
		return "", false
	}
	session, err := Store.Get(r, SessionName)
	if err != nil {
		return "", false
	}
	token, ok := session.Values[SessionKeyToken].(string)
	return token, ok && token != ""
}
