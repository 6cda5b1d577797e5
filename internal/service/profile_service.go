package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/makehaven/profile-membership/internal/domain/entity"
	"github.com/makehaven/profile-membership/internal/domain/repository"
	"github.com/makehaven/profile-membership/internal/domain/service"

	"github.com/google/uuid"
)

// profileService implements service.ProfileService
type profileService struct {
	profileRepo repository.ProfileRepository
	followup    service.FollowupService
}

// NewProfileService creates a new profile service
func NewProfileService(
	profileRepo repository.ProfileRepository,
	followup service.FollowupService,
) service.ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		followup:    followup,
	}
}

// GetProfile retrieves a user's main profile
func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile validates and saves the profile's field selections, then
// runs the follow-up evaluation inside the same save cycle.
func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, update *entity.ProfileUpdate) (*entity.Profile, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}
		now := time.Now()
		profile = &entity.Profile{
			ID:        uuid.New(),
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	profile.Goals = update.Goals
	profile.Entrepreneurship = update.Entrepreneurship
	profile.UpdatedAt = time.Now()

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	// Evaluation runs inside the save cycle; its failures never
	// propagate into the save.
	if s.followup != nil {
		_ = s.followup.HandleProfileSaved(ctx, profile)
	}

	return profile, nil
}
