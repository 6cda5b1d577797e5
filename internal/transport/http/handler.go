package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/makehaven/profile-membership/internal/domain/entity"
	"github.com/makehaven/profile-membership/internal/domain/repository"
	"github.com/makehaven/profile-membership/internal/domain/service"

	"go.uber.org/zap"
)

// Handler serves the membership activation flow and its supporting pages
type Handler struct {
	auth         service.AuthService
	membership   service.MembershipService
	profiles     service.ProfileService
	settingsRepo repository.SettingsRepository
	logger       *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	auth service.AuthService,
	membership service.MembershipService,
	profiles service.ProfileService,
	settingsRepo repository.SettingsRepository,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		auth:         auth,
		membership:   membership,
		profiles:     profiles,
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// Routes registers all routes on a new mux
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Front)

	mux.HandleFunc("GET /membership/initiate", h.Initiate)
	mux.HandleFunc("GET /membership/finalize", h.Finalize)

	mux.HandleFunc("GET /login", h.LoginForm)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /register", h.RegisterForm)
	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("POST /logout", h.Logout)

	mux.HandleFunc("GET /user/{id}/main", h.Profile)
	mux.HandleFunc("POST /user/{id}/main", h.UpdateProfile)

	mux.HandleFunc("GET /admin/membership/settings", h.Settings)
	mux.HandleFunc("POST /admin/membership/settings", h.SaveSettings)

	return mux
}

// Front is the safe default landing page
func (h *Handler) Front(w http.ResponseWriter, r *http.Request) {
	flash, ok := readAndClearFlash(w, r)

	w.Header().Set("Content-Type", "application/json")
	resp := map[string]interface{}{"site": "ok"}
	if ok {
		resp["notice"] = flash
	}
	json.NewEncoder(w).Encode(resp)
}

// currentUser resolves the authenticated caller, if any
func (h *Handler) currentUser(r *http.Request) *entity.User {
	tokenString, ok := readCookie(r, AuthCookieName)
	if !ok {
		return nil
	}

	user, err := h.auth.Authenticate(r.Context(), tokenString)
	if err != nil {
		h.logger.Warn("failed to authenticate session", zap.Error(err))
		return nil
	}
	return user
}

// safeDestination restricts post-login redirects to site-relative paths
func safeDestination(destination string) string {
	if destination == "" {
		return "/"
	}
	if !strings.HasPrefix(destination, "/") || strings.HasPrefix(destination, "//") {
		return "/"
	}
	return destination
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
