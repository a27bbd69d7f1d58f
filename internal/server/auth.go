package server

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

var errNoSession = errors.New("no valid session")

const sessionCookieName = "access_token"

// claimsFromRequest extracts and verifies the caller's token, from the
// Authorization header or, failing that, the session cookie the original
// client relies on.
func claimsFromRequest(r *http.Request, tokens *Tokens) (Claims, error) {
	auth := r.Header.Get("Authorization")
	if token, found := strings.CutPrefix(auth, "Bearer "); found && token != "" {
		return tokens.Verify(token)
	}

	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return Claims{}, errNoSession
	}
	return tokens.Verify(cookie.Value)
}

func setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
