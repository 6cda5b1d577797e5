package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/makehaven/profile-membership/internal/domain/entity"
	"github.com/makehaven/profile-membership/internal/domain/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// settingsRepository implements repository.SettingsRepository.
// There is a single settings row per installation.
type settingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(pool *pgxpool.Pool) repository.SettingsRepository {
	return &settingsRepository{
		pool: pool,
	}
}

// Get retrieves the current policy, falling back to install defaults
func (r *settingsRepository) Get(ctx context.Context) (*entity.FollowupSettings, error) {
	query := `
		SELECT enabled, send_once, regional_support_url, trigger_goal_values,
		       trigger_entrepreneurship_values, email_subject, email_body, updated_at
		FROM followup_settings
		WHERE id = 1
	`

	var settings entity.FollowupSettings
	err := r.pool.QueryRow(ctx, query).Scan(
		&settings.Enabled,
		&settings.SendOnce,
		&settings.RegionalSupportURL,
		&settings.TriggerGoalValues,
		&settings.TriggerEntrepreneurshipValues,
		&settings.EmailSubject,
		&settings.EmailBody,
		&settings.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.DefaultFollowupSettings(), nil
		}
		return nil, fmt.Errorf("failed to get followup settings: %w", err)
	}

	return &settings, nil
}

// Save persists the policy
func (r *settingsRepository) Save(ctx context.Context, settings *entity.FollowupSettings) error {
	query := `
		INSERT INTO followup_settings (id, enabled, send_once, regional_support_url,
			trigger_goal_values, trigger_entrepreneurship_values, email_subject, email_body, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE
		SET enabled = EXCLUDED.enabled,
		    send_once = EXCLUDED.send_once,
		    regional_support_url = EXCLUDED.regional_support_url,
		    trigger_goal_values = EXCLUDED.trigger_goal_values,
		    trigger_entrepreneurship_values = EXCLUDED.trigger_entrepreneurship_values,
		    email_subject = EXCLUDED.email_subject,
		    email_body = EXCLUDED.email_body,
		    updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.pool.Exec(ctx, query,
		settings.Enabled,
		settings.SendOnce,
		settings.RegionalSupportURL,
		settings.TriggerGoalValues,
		settings.TriggerEntrepreneurshipValues,
		settings.EmailSubject,
		settings.EmailBody,
	)

	if err != nil {
		return fmt.Errorf("failed to save followup settings: %w", err)
	}

	return nil
}
