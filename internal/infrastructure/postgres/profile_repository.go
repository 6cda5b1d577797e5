package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/makehaven/profile-membership/internal/domain/entity"
	"github.com/makehaven/profile-membership/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// profileRepository implements repository.ProfileRepository
type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(pool *pgxpool.Pool) repository.ProfileRepository {
	return &profileRepository{
		pool: pool,
	}
}

// GetByUserID retrieves the main profile for a user
func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	query := `
		SELECT id, user_id, goals, entrepreneurship, followup_sent, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var profile entity.Profile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Goals,
		&profile.Entrepreneurship,
		&profile.FollowupSent,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// Upsert creates or updates the profile's field selections
func (r *profileRepository) Upsert(ctx context.Context, profile *entity.Profile) error {
	query := `
		INSERT INTO profiles (id, user_id, goals, entrepreneurship, followup_sent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET goals = EXCLUDED.goals,
		    entrepreneurship = EXCLUDED.entrepreneurship,
		    updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.UserID,
		profile.Goals,
		profile.Entrepreneurship,
		profile.FollowupSent,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}

// MarkFollowupSent sets the delivery marker if it is not already set.
// The WHERE clause serializes concurrent saves: only one claims the marker.
func (r *profileRepository) MarkFollowupSent(ctx context.Context, profileID uuid.UUID) (bool, error) {
	query := `
		UPDATE profiles
		SET followup_sent = true, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND followup_sent = false
	`

	result, err := r.pool.Exec(ctx, query, profileID)
	if err != nil {
		return false, fmt.Errorf("failed to mark followup sent: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
