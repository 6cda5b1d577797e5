package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/makehaven/profile-membership/internal/domain/entity"
	"github.com/makehaven/profile-membership/pkg/validation"

	"go.uber.org/zap"
)

// Settings renders the follow-up email configuration form
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	flash, hasFlash := readAndClearFlash(w, r)

	settings, err := h.settingsRepo.Get(r.Context())
	if err != nil {
		h.logger.Error("failed to load follow-up settings", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load settings"})
		return
	}

	resp := map[string]interface{}{
		"settings":                 settings,
		"goal_options":             entity.AllowedGoalValues,
		"entrepreneurship_options": entity.AllowedEntrepreneurshipValues,
	}
	if hasFlash {
		resp["notice"] = flash
	}
	respondJSON(w, http.StatusOK, resp)
}

// SaveSettings validates and persists the follow-up email configuration
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	if err := r.ParseForm(); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form submission"})
		return
	}

	settings := &entity.FollowupSettings{
		Enabled:                       formBool(r.PostFormValue("entrepreneurship_email_enabled")),
		SendOnce:                      formBool(r.PostFormValue("send_once")),
		RegionalSupportURL:            strings.TrimSpace(r.PostFormValue("regional_support_url")),
		TriggerGoalValues:             selectedValues(r.PostForm["trigger_goal_values"], entity.AllowedGoalValues),
		TriggerEntrepreneurshipValues: selectedValues(r.PostForm["trigger_entrepreneurship_values"], entity.AllowedEntrepreneurshipValues),
		EmailSubject:                  strings.TrimSpace(r.PostFormValue("entrepreneurship_email_subject")),
		EmailBody:                     strings.TrimSpace(r.PostFormValue("entrepreneurship_email_body")),
		UpdatedAt:                     time.Now(),
	}

	if msg := validateSettings(settings); msg != "" {
		writeFlash(w, FlashError, msg)
		http.Redirect(w, r, "/admin/membership/settings", http.StatusSeeOther)
		return
	}

	if err := h.settingsRepo.Save(r.Context(), settings); err != nil {
		h.logger.Error("failed to save follow-up settings", zap.Error(err))
		writeFlash(w, FlashError, "Could not save the settings. Please try again.")
		http.Redirect(w, r, "/admin/membership/settings", http.StatusSeeOther)
		return
	}

	writeFlash(w, FlashStatus, "The configuration options have been saved.")
	http.Redirect(w, r, "/admin/membership/settings", http.StatusSeeOther)
}

func validateSettings(settings *entity.FollowupSettings) string {
	if settings.EmailSubject == "" {
		return "Email subject is required."
	}
	if settings.EmailBody == "" {
		return "Email body is required."
	}
	if settings.RegionalSupportURL != "" {
		if err := validation.ValidateURL(settings.RegionalSupportURL); err != nil {
			return "Regional support URL must be a valid absolute URL."
		}
	}
	return ""
}

func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	current := h.currentUser(r)
	if current == nil {
		writeFlash(w, FlashStatus, "Please log in to view this page.")
		http.Redirect(w, r, "/login?destination=/admin/membership/settings", http.StatusSeeOther)
		return false
	}
	if !current.HasRole(entity.RoleAdmin) {
		respondJSON(w, http.StatusForbidden, map[string]string{"error": "access denied"})
		return false
	}
	return true
}

func formBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// selectedValues keeps only the submitted values that belong to the allowed
// set, dropping blanks and unknown options
func selectedValues(submitted, allowed []string) []string {
	var out []string
	for _, value := range submitted {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		for _, candidate := range allowed {
			if value == candidate {
				out = append(out, value)
				break
			}
		}
	}
	return out
}
