package entity

import (
	"errors"
	"net/url"

	"github.com/google/uuid"
)

// Activation handshake failures. All are recoverable: the handler maps each
// one to a user-facing notice and a safe redirect.
var (
	ErrMissingEmail      = errors.New("missing email parameter")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrActivationExpired = errors.New("activation session data missing or expired")
	ErrWrongAccount      = errors.New("authenticated user does not match expected account")
	ErrAccountLoad       = errors.New("unable to load expected account")
)

// PendingActivation bridges the initiate and finalize steps of the
// membership handshake. It lives in the activation store under the
// browser session and is cleared on every terminal finalize outcome.
type PendingActivation struct {
	ExpectedUserID uuid.UUID  `json:"expected_user_id"`
	Params         url.Values `json:"params"`
}
