package service

import (
	"context"

	"github.com/makehaven/profile-membership/internal/domain/entity"
)

// FollowupService evaluates the follow-up policy against a saved profile
// and dispatches the entrepreneurship email when the trigger sets match.
type FollowupService interface {
	// HandleProfileSaved runs inside every profile save. Dispatch
	// failures are logged, never returned: the save must succeed even
	// when the mail transport does not.
	HandleProfileSaved(ctx context.Context, profile *entity.Profile) error
}

// EmailService dispatches rendered follow-up messages
type EmailService interface {
	// SendFollowup sends one message to the given address
	SendFollowup(ctx context.Context, to, subject, body string) error
}
