package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/makehaven/profile-membership/internal/domain/entity"
	"github.com/makehaven/profile-membership/internal/domain/repository"
	"github.com/makehaven/profile-membership/internal/domain/service"
	infraredis "github.com/makehaven/profile-membership/internal/infrastructure/redis"
	"github.com/makehaven/profile-membership/pkg/hash"
	"github.com/makehaven/profile-membership/pkg/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// authService implements service.AuthService
type authService struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	sessionStore *infraredis.SessionStore
	tokens       *token.Manager
	sessionTTL   time.Duration
	logger       *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	sessionStore *infraredis.SessionStore,
	tokens *token.Manager,
	sessionTTL time.Duration,
	logger *zap.Logger,
) service.AuthService {
	return &authService{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		sessionStore: sessionStore,
		tokens:       tokens,
		sessionTTL:   sessionTTL,
		logger:       logger,
	}
}

// Register creates a new account and logs it in
func (s *authService) Register(ctx context.Context, userCreate *entity.UserCreate) (*entity.User, string, error) {
	emailExists, err := s.userRepo.EmailExists(ctx, userCreate.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email existence: %w", err)
	}
	if emailExists {
		return nil, "", fmt.Errorf("email already registered")
	}

	usernameExists, err := s.userRepo.UsernameExists(ctx, userCreate.Username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check username existence: %w", err)
	}
	if usernameExists {
		return nil, "", fmt.Errorf("username already taken")
	}

	passwordHash, err := hash.HashPassword(userCreate.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New(),
		Email:        userCreate.Email,
		Username:     userCreate.Username,
		PasswordHash: passwordHash,
		DisplayName:  userCreate.DisplayName,
		Roles:        []string{},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	signed, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, signed, nil
}

// Login authenticates by email and password
func (s *authService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("invalid credentials")
	}

	if err := hash.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", fmt.Errorf("invalid credentials")
	}

	signed, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, signed, nil
}

// Logout invalidates the session behind the token
func (s *authService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return fmt.Errorf("invalid session token: %w", err)
	}

	if err := s.sessionStore.Delete(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("failed to delete session from cache: %w", err)
	}

	if err := s.sessionRepo.Delete(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// Authenticate resolves a session token to its user. An absent, invalid,
// or revoked token resolves to an anonymous caller, not an error.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*entity.User, error) {
	if tokenString == "" {
		return nil, nil
	}

	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, nil
	}

	exists, err := s.sessionStore.Exists(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session: %w", err)
	}
	if !exists {
		return nil, nil
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	return user, nil
}

func (s *authService) createSession(ctx context.Context, userID uuid.UUID) (string, error) {
	now := time.Now()
	session := &entity.Session{
		ID:             uuid.New(),
		UserID:         userID,
		ExpiresAt:      now.Add(s.sessionTTL),
		CreatedAt:      now,
		LastActivityAt: now,
	}

	if err := s.sessionStore.Set(ctx, session); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		s.logger.Warn("failed to persist session row", zap.Error(err))
	}

	signed, _, err := s.tokens.Generate(userID, session.ID)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, nil
}
