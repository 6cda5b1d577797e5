package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/makehaven/profile-membership/internal/domain/entity"
	"github.com/makehaven/profile-membership/internal/domain/repository"
	"github.com/makehaven/profile-membership/internal/domain/service"
	"github.com/makehaven/profile-membership/internal/infrastructure/kafka"
	"github.com/makehaven/profile-membership/internal/infrastructure/metrics"
	infraredis "github.com/makehaven/profile-membership/internal/infrastructure/redis"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher publishes membership events. Satisfied by kafka.Producer;
// nil disables publishing.
type EventPublisher interface {
	PublishMembershipFinalized(ctx context.Context, event *kafka.MembershipFinalizedEvent) error
	PublishFollowupSent(ctx context.Context, event *kafka.FollowupSentEvent) error
}

// membershipService implements service.MembershipService
type membershipService struct {
	userRepo    repository.UserRepository
	activations *infraredis.ActivationStore
	producer    EventPublisher
	logger      *zap.Logger
}

// NewMembershipService creates a new membership service
func NewMembershipService(
	userRepo repository.UserRepository,
	activations *infraredis.ActivationStore,
	producer EventPublisher,
	logger *zap.Logger,
) service.MembershipService {
	return &membershipService{
		userRepo:    userRepo,
		activations: activations,
		producer:    producer,
		logger:      logger,
	}
}

// Initiate correlates the payment redirect's email to an account and
// records the pending activation under the browser session.
func (s *membershipService) Initiate(
	ctx context.Context,
	sessionID string,
	current *entity.User,
	email string,
	params url.Values,
) (service.InitiateStep, error) {
	if strings.TrimSpace(email) == "" {
		metrics.ActivationsInitiated.WithLabelValues("missing_email").Inc()
		return 0, entity.ErrMissingEmail
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.ActivationsInitiated.WithLabelValues("register").Inc()
			return service.StepRegister, nil
		}
		return 0, fmt.Errorf("failed to resolve email: %w", err)
	}

	pending := &entity.PendingActivation{
		ExpectedUserID: user.ID,
		Params:         params,
	}
	if err := s.activations.Set(ctx, sessionID, pending); err != nil {
		return 0, fmt.Errorf("failed to store pending activation: %w", err)
	}

	if current != nil && current.ID == user.ID {
		metrics.ActivationsInitiated.WithLabelValues("finalize").Inc()
		return service.StepFinalize, nil
	}

	if current != nil {
		metrics.ActivationsInitiated.WithLabelValues("login_mismatch").Inc()
		return service.StepLoginMismatch, nil
	}

	metrics.ActivationsInitiated.WithLabelValues("login").Inc()
	return service.StepLogin, nil
}

// Finalize completes the handshake for the authenticated caller. Pending
// state is cleared on every exit path past the authentication check; a
// NotAuthenticated caller keeps it for retry after logging in.
func (s *membershipService) Finalize(
	ctx context.Context,
	sessionID string,
	current *entity.User,
) (*service.FinalizeResult, error) {
	if current == nil {
		metrics.ActivationsFinalized.WithLabelValues("not_authenticated").Inc()
		return nil, entity.ErrNotAuthenticated
	}

	defer s.clear(ctx, sessionID)

	pending, err := s.activations.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, entity.ErrActivationExpired) {
			s.logger.Warn("failed to read pending activation", zap.Error(err))
		}
		metrics.ActivationsFinalized.WithLabelValues("expired").Inc()
		return nil, entity.ErrActivationExpired
	}

	if pending.ExpectedUserID == uuid.Nil || pending.Params == nil {
		metrics.ActivationsFinalized.WithLabelValues("expired").Inc()
		return nil, entity.ErrActivationExpired
	}

	if current.ID != pending.ExpectedUserID {
		metrics.ActivationsFinalized.WithLabelValues("mismatch").Inc()
		return nil, entity.ErrWrongAccount
	}

	account, err := s.userRepo.GetByID(ctx, pending.ExpectedUserID)
	if err != nil {
		s.logger.Error("failed to load account for finalization",
			zap.String("user_id", pending.ExpectedUserID.String()),
			zap.Error(err))
		metrics.ActivationsFinalized.WithLabelValues("load_failure").Inc()
		return nil, entity.ErrAccountLoad
	}

	// Idempotent role grant: save exactly once, and only when missing.
	if account.AddRole(entity.RoleMemberPendingApproval) {
		if err := s.userRepo.UpdateRoles(ctx, account.ID, account.Roles); err != nil {
			metrics.ActivationsFinalized.WithLabelValues("save_failure").Inc()
			return nil, fmt.Errorf("%w: %v", entity.ErrAccountLoad, err)
		}
	}

	s.publishFinalized(ctx, account)
	metrics.ActivationsFinalized.WithLabelValues("success").Inc()

	return &service.FinalizeResult{
		User:   account,
		Params: pending.Params,
	}, nil
}

func (s *membershipService) clear(ctx context.Context, sessionID string) {
	if err := s.activations.Clear(ctx, sessionID); err != nil {
		s.logger.Warn("failed to clear pending activation", zap.Error(err))
	}
}

func (s *membershipService) publishFinalized(ctx context.Context, account *entity.User) {
	if s.producer == nil {
		return
	}

	event := &kafka.MembershipFinalizedEvent{
		EventID:   kafka.NewEventID(),
		UserID:    account.ID.String(),
		Email:     account.Email,
		Role:      entity.RoleMemberPendingApproval,
		Timestamp: time.Now(),
	}

	if err := s.producer.PublishMembershipFinalized(ctx, event); err != nil {
		s.logger.Warn("failed to publish membership finalized event", zap.Error(err))
	}
}
