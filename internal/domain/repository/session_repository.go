package repository

import (
	"context"

	"github.com/makehaven/profile-membership/internal/domain/entity"

	"github.com/google/uuid"
)

// SessionRepository defines methods for durable session data access
type SessionRepository interface {
	// Create creates a new session
	Create(ctx context.Context, session *entity.Session) error

	// Delete deletes a session by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteExpired deletes all expired sessions
	DeleteExpired(ctx context.Context) (int64, error)
}
