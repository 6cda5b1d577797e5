package http

import (
	"net/http"

	"github.com/makehaven/profile-membership/internal/domain/entity"
	"github.com/makehaven/profile-membership/pkg/validation"

	"go.uber.org/zap"
)

// LoginForm describes the login form and surfaces any pending notice
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	flash, ok := readAndClearFlash(w, r)

	resp := map[string]interface{}{
		"form":        "login",
		"fields":      []string{"email", "password"},
		"destination": safeDestination(r.URL.Query().Get("destination")),
	}
	if ok {
		resp["notice"] = flash
	}
	respondJSON(w, http.StatusOK, resp)
}

// Login authenticates the visitor and redirects to the requested destination
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form submission"})
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	user, tokenString, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		writeFlash(w, FlashError, "Unrecognized email address or password. Please try again.")
		http.Redirect(w, r, "/login?destination="+safeDestination(r.PostFormValue("destination")), http.StatusSeeOther)
		return
	}

	writeAuthCookie(w, tokenString)
	h.logger.Info("user logged in", zap.String("user_id", user.ID.String()))

	http.Redirect(w, r, safeDestination(r.PostFormValue("destination")), http.StatusSeeOther)
}

// RegisterForm describes the registration form. Query parameters from a
// membership redirect are preserved so the flow can resume after signup.
func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	flash, ok := readAndClearFlash(w, r)

	resp := map[string]interface{}{
		"form":   "register",
		"fields": []string{"email", "username", "password", "display_name"},
	}
	if email := r.URL.Query().Get("email"); email != "" {
		resp["email"] = email
	}
	if len(r.URL.Query()) > 0 {
		resp["resume_params"] = r.URL.Query().Encode()
	}
	if ok {
		resp["notice"] = flash
	}
	respondJSON(w, http.StatusOK, resp)
}

// Register creates an account, signs the visitor in, and resumes the
// membership flow when payment parameters were carried along.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form submission"})
		return
	}

	create := &entity.UserCreate{
		Email:    r.PostFormValue("email"),
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	if err := validation.ValidateEmail(create.Email); err != nil {
		h.rejectRegistration(w, r, err)
		return
	}
	if err := validation.ValidateUsername(create.Username); err != nil {
		h.rejectRegistration(w, r, err)
		return
	}
	if err := validation.ValidatePassword(create.Password); err != nil {
		h.rejectRegistration(w, r, err)
		return
	}

	if displayName := r.PostFormValue("display_name"); displayName != "" {
		create.DisplayName = &displayName
	}

	user, tokenString, err := h.auth.Register(r.Context(), create)
	if err != nil {
		h.rejectRegistration(w, r, err)
		return
	}

	writeAuthCookie(w, tokenString)
	h.logger.Info("user registered", zap.String("user_id", user.ID.String()))

	// Resume the membership flow when the signup came from a payment redirect.
	if r.URL.Query().Get("email") != "" {
		http.Redirect(w, r, "/membership/initiate?"+r.URL.RawQuery, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/user/"+user.ID.String()+"/main", http.StatusSeeOther)
}

func (h *Handler) rejectRegistration(w http.ResponseWriter, r *http.Request, err error) {
	writeFlash(w, FlashError, "Could not create the account: "+err.Error())
	http.Redirect(w, r, "/register?"+r.URL.RawQuery, http.StatusSeeOther)
}

// Logout terminates the session and clears the auth cookie
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if tokenString, ok := readCookie(r, AuthCookieName); ok {
		if err := h.auth.Logout(r.Context(), tokenString); err != nil {
			h.logger.Warn("failed to terminate session", zap.Error(err))
		}
	}

	clearAuthCookie(w)
	writeFlash(w, FlashStatus, "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
