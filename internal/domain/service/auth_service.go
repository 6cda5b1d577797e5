package service

import (
	"context"

	"github.com/makehaven/profile-membership/internal/domain/entity"

	"github.com/google/uuid"
)

// AuthService defines business logic for login sessions
type AuthService interface {
	// Register creates a new account and logs it in
	Register(ctx context.Context, userCreate *entity.UserCreate) (*entity.User, string, error)

	// Login authenticates by email and password and returns a signed
	// session token for the auth cookie
	Login(ctx context.Context, email, password string) (*entity.User, string, error)

	// Logout invalidates the session behind the token
	Logout(ctx context.Context, token string) error

	// Authenticate resolves a session token to its user, or nil when the
	// token is absent, invalid, or the session has been revoked
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

// ProfileService defines business logic for member profiles
type ProfileService interface {
	// GetProfile retrieves a user's main profile
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)

	// UpdateProfile validates and saves the profile's field selections,
	// then runs the follow-up evaluation inside the same save cycle
	UpdateProfile(ctx context.Context, userID uuid.UUID, update *entity.ProfileUpdate) (*entity.Profile, error)
}
