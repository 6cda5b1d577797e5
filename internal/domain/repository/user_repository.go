package repository

import (
	"context"
	"errors"

	"github.com/makehaven/profile-membership/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// UserRepository defines methods for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entity.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// UpdateRoles persists the user's role set
	UpdateRoles(ctx context.Context, userID uuid.UUID, roles []string) error

	// EmailExists checks if email is already taken
	EmailExists(ctx context.Context, email string) (bool, error)

	// UsernameExists checks if username is already taken
	UsernameExists(ctx context.Context, username string) (bool, error)
}
