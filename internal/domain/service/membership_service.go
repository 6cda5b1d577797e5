package service

import (
	"context"
	"net/url"

	"github.com/makehaven/profile-membership/internal/domain/entity"
)

// InitiateStep tells the transport layer where to send the caller after a
// successful initiate.
type InitiateStep int

const (
	// StepRegister means no account matched the email; the caller is sent
	// to registration with the original query parameters preserved.
	StepRegister InitiateStep = iota

	// StepFinalize means the caller is already authenticated as the
	// expected account and can finalize immediately.
	StepFinalize

	// StepLogin means the caller is anonymous and must log in first.
	StepLogin

	// StepLoginMismatch means the caller is authenticated as a different
	// account and must re-authenticate as the expected one.
	StepLoginMismatch
)

// FinalizeResult carries the finalized account and the query parameters
// captured at initiate time, for re-attachment on the profile redirect.
type FinalizeResult struct {
	User   *entity.User
	Params url.Values
}

// MembershipService orchestrates the two-step membership activation
// handshake between an external payment redirect and an account.
type MembershipService interface {
	// Initiate correlates the email from the payment redirect to an
	// account and records the pending activation under the browser
	// session. Returns entity.ErrMissingEmail when email is empty; in
	// that case no session state is touched.
	Initiate(ctx context.Context, sessionID string, current *entity.User, email string, params url.Values) (InitiateStep, error)

	// Finalize completes the handshake for the authenticated caller:
	// verifies identity against the pending activation, grants the
	// membership role idempotently, and clears the pending state on
	// every terminal outcome. Failure kinds: entity.ErrNotAuthenticated
	// (pending state kept for retry), entity.ErrActivationExpired,
	// entity.ErrWrongAccount, entity.ErrAccountLoad.
	Finalize(ctx context.Context, sessionID string, current *entity.User) (*FinalizeResult, error)
}
