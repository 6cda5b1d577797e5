package http

import (
	"errors"
	"net/http"

	"github.com/makehaven/profile-membership/internal/domain/entity"
	"github.com/makehaven/profile-membership/internal/domain/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Profile renders the member's main profile page
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorizeProfileAccess(w, r)
	if !ok {
		return
	}

	flash, hasFlash := readAndClearFlash(w, r)

	profile, err := h.profiles.GetProfile(r.Context(), userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.logger.Error("failed to load profile", zap.Error(err), zap.String("user_id", userID.String()))
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load profile"})
		return
	}

	resp := map[string]interface{}{
		"user_id":                  userID.String(),
		"goal_options":             entity.AllowedGoalValues,
		"entrepreneurship_options": entity.AllowedEntrepreneurshipValues,
	}
	if profile != nil {
		resp["goals"] = profile.Goals
		resp["entrepreneurship"] = profile.Entrepreneurship
	}
	if hasFlash {
		resp["notice"] = flash
	}
	respondJSON(w, http.StatusOK, resp)
}

// UpdateProfile saves the member's profile selections
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authorizeProfileAccess(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form submission"})
		return
	}

	update := &entity.ProfileUpdate{
		Goals:            r.PostForm["goals"],
		Entrepreneurship: r.PostForm["entrepreneurship"],
	}

	if _, err := h.profiles.UpdateProfile(r.Context(), userID, update); err != nil {
		writeFlash(w, FlashError, "Could not save the profile: "+err.Error())
		http.Redirect(w, r, "/user/"+userID.String()+"/main", http.StatusSeeOther)
		return
	}

	writeFlash(w, FlashStatus, "The profile has been saved.")
	http.Redirect(w, r, "/user/"+userID.String()+"/main", http.StatusSeeOther)
}

// authorizeProfileAccess lets a member manage their own profile and admins
// manage any profile
func (h *Handler) authorizeProfileAccess(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return uuid.Nil, false
	}

	current := h.currentUser(r)
	if current == nil {
		writeFlash(w, FlashStatus, "Please log in to view this page.")
		http.Redirect(w, r, "/login?destination=/user/"+userID.String()+"/main", http.StatusSeeOther)
		return uuid.Nil, false
	}

	if current.ID != userID && !current.HasRole(entity.RoleAdmin) {
		respondJSON(w, http.StatusForbidden, map[string]string{"error": "access denied"})
		return uuid.Nil, false
	}

	return userID, true
}
