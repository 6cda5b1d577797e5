package http

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// AuthCookieName holds the signed login session token.
const AuthCookieName = "member_session"

// FlowCookieName identifies the browser session for the activation
// handshake. It is minted for anonymous visitors too, since the payment
// redirect usually arrives before login.
const FlowCookieName = "membership_flow"

func readCookie(r *http.Request, name string) (string, bool) {
	cookie, err := r.Cookie(name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

func writeAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// ensureFlowSession returns the browser session ID for the activation
// flow, minting one when absent.
func ensureFlowSession(w http.ResponseWriter, r *http.Request) string {
	if value, ok := readCookie(r, FlowCookieName); ok {
		return value
	}

	sessionID := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     FlowCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessionID
}
