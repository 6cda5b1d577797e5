package repository

import (
	"context"

	"github.com/makehaven/profile-membership/internal/domain/entity"
)

// SettingsRepository defines methods for follow-up policy access
type SettingsRepository interface {
	// Get retrieves the current policy, falling back to install defaults
	// when no row has been saved yet
	Get(ctx context.Context) (*entity.FollowupSettings, error)

	// Save persists the policy
	Save(ctx context.Context, settings *entity.FollowupSettings) error
}
