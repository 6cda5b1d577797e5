package http

import (
	"errors"
	"net/http"

	"github.com/makehaven/profile-membership/internal/domain/entity"
	"github.com/makehaven/profile-membership/internal/domain/service"

	"go.uber.org/zap"
)

// Initiate is the landing point of the payment-provider redirect. It inspects
// the email query parameter, stashes the remaining parameters for later, and
// routes the visitor to registration, login, or straight to finalization.
func (h *Handler) Initiate(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	email := params.Get("email")

	sessionID := ensureFlowSession(w, r)
	current := h.currentUser(r)

	step, err := h.membership.Initiate(r.Context(), sessionID, current, email, params)
	if err != nil {
		if errors.Is(err, entity.ErrMissingEmail) {
			writeFlash(w, FlashError, "Missing email information. Please contact support if this problem persists.")
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		h.logger.Error("membership initiation failed", zap.Error(err))
		writeFlash(w, FlashError, "Something went wrong starting your membership. Please try again.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	switch step {
	case service.StepRegister:
		http.Redirect(w, r, "/register?"+params.Encode(), http.StatusSeeOther)
	case service.StepFinalize:
		http.Redirect(w, r, "/membership/finalize", http.StatusSeeOther)
	case service.StepLoginMismatch:
		writeFlash(w, FlashWarning, "You are logged in as a different user. Please log in with the correct account to complete your membership.")
		http.Redirect(w, r, "/login?destination=/membership/finalize", http.StatusSeeOther)
	default:
		writeFlash(w, FlashStatus, "Please log in to complete your membership setup.")
		http.Redirect(w, r, "/login?destination=/membership/finalize", http.StatusSeeOther)
	}
}

// Finalize completes the activation handshake for the authenticated visitor.
func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	sessionID := ensureFlowSession(w, r)
	current := h.currentUser(r)

	result, err := h.membership.Finalize(r.Context(), sessionID, current)
	if err != nil {
		h.finalizeError(w, r, err)
		return
	}

	destination := "/user/" + result.User.ID.String() + "/main"
	if len(result.Params) > 0 {
		destination += "?" + result.Params.Encode()
	}
	http.Redirect(w, r, destination, http.StatusSeeOther)
}

func (h *Handler) finalizeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, entity.ErrNotAuthenticated):
		writeFlash(w, FlashError, "You must be logged in to finalize your membership.")
		http.Redirect(w, r, "/login?destination=/membership/finalize", http.StatusSeeOther)
	case errors.Is(err, entity.ErrActivationExpired):
		writeFlash(w, FlashError, "Membership session data is missing or expired. Please restart the membership process.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, entity.ErrWrongAccount):
		writeFlash(w, FlashError, "The logged in user does not match the account associated with this membership payment.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, entity.ErrAccountLoad):
		writeFlash(w, FlashError, "Unable to load the user for membership finalization.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		h.logger.Error("membership finalization failed", zap.Error(err))
		writeFlash(w, FlashError, "Something went wrong finalizing your membership. Please try again.")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
