package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// FlashCookieName carries one-time notices across redirects.
const FlashCookieName = "membership_flash"

// FlashKind classifies notice presentation.
type FlashKind string

const (
	FlashStatus  FlashKind = "status"
	FlashWarning FlashKind = "warning"
	FlashError   FlashKind = "error"
)

// Flash stores one notice for the next page render.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// writeFlash stores a flash notice cookie for the next page render.
func writeFlash(w http.ResponseWriter, kind FlashKind, message string) {
	payload, err := json.Marshal(Flash{Kind: kind, Message: message})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// readAndClearFlash reads the flash notice cookie and expires it.
func readAndClearFlash(w http.ResponseWriter, r *http.Request) (Flash, bool) {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil || cookie == nil {
		return Flash{}, false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	decoded, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return Flash{}, false
	}

	var flash Flash
	if err := json.Unmarshal(decoded, &flash); err != nil {
		return Flash{}, false
	}

	return flash, true
}
