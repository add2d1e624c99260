package http

import "net/http"

// SessionCookieName is the cookie carrying the signed session credential.
const SessionCookieName = "auth_token"

// sessionCookieMaxAge matches the session token TTL: 7 days in seconds.
const sessionCookieMaxAge = 604800

// SessionCookieWriter encodes a signed session credential into a response
// cookie with a fixed security policy. Only the Secure attribute varies,
// and only with the deployment mode; nothing is configurable per request.
type SessionCookieWriter struct {
	// Secure marks the cookie HTTPS-only. Enabled in production.
	Secure bool
}

// Write attaches the session cookie to the response.
func (cw SessionCookieWriter) Write(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   cw.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
