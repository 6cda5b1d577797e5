package repository

import (
	"context"

	"github.com/makehaven/profile-membership/internal/domain/entity"

	"github.com/google/uuid"
)

// ProfileRepository defines methods for profile data access
type ProfileRepository interface {
	// GetByUserID retrieves the main profile for a user
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)

	// Upsert creates or updates the profile's field selections
	Upsert(ctx context.Context, profile *entity.Profile) error

	// MarkFollowupSent sets the delivery marker if it is not already set.
	// Returns true when this call claimed the marker, false when another
	// save already had. The conditional write serializes concurrent saves
	// on the row's own write path.
	MarkFollowupSent(ctx context.Context, profileID uuid.UUID) (bool, error)
}
