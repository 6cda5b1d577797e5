package service

import (
	"context"
	"strings"
	"time"

	"github.com/makehaven/profile-membership/internal/domain/entity"
	"github.com/makehaven/profile-membership/internal/domain/repository"
	"github.com/makehaven/profile-membership/internal/domain/service"
	"github.com/makehaven/profile-membership/internal/infrastructure/kafka"
	"github.com/makehaven/profile-membership/internal/infrastructure/metrics"

	"go.uber.org/zap"
)

// followupService implements service.FollowupService
type followupService struct {
	settingsRepo repository.SettingsRepository
	profileRepo  repository.ProfileRepository
	userRepo     repository.UserRepository
	email        service.EmailService
	producer     EventPublisher
	siteName     string
	logger       *zap.Logger
}

// NewFollowupService creates a new follow-up service
func NewFollowupService(
	settingsRepo repository.SettingsRepository,
	profileRepo repository.ProfileRepository,
	userRepo repository.UserRepository,
	email service.EmailService,
	producer EventPublisher,
	siteName string,
	logger *zap.Logger,
) service.FollowupService {
	return &followupService{
		settingsRepo: settingsRepo,
		profileRepo:  profileRepo,
		userRepo:     userRepo,
		email:        email,
		producer:     producer,
		siteName:     siteName,
		logger:       logger,
	}
}

// HandleProfileSaved evaluates the follow-up policy against the saved
// profile. Nothing here may fail the save: every failure is logged and
// swallowed.
func (s *followupService) HandleProfileSaved(ctx context.Context, profile *entity.Profile) error {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		s.logger.Error("failed to load followup settings", zap.Error(err))
		return nil
	}

	if !settings.Enabled {
		metrics.FollowupEvaluationsSuppressed.WithLabelValues("disabled").Inc()
		return nil
	}

	if settings.SendOnce && profile.FollowupSent {
		metrics.FollowupEvaluationsSuppressed.WithLabelValues("already_sent").Inc()
		return nil
	}

	if !s.matches(profile, settings) {
		metrics.FollowupEvaluationsSuppressed.WithLabelValues("no_match").Inc()
		return nil
	}

	owner, err := s.userRepo.GetByID(ctx, profile.UserID)
	if err != nil {
		s.logger.Error("failed to load profile owner for followup",
			zap.String("user_id", profile.UserID.String()),
			zap.Error(err))
		return nil
	}

	subject := renderFollowupTemplate(settings.EmailSubject, owner, s.siteName, settings.RegionalSupportURL)
	body := renderFollowupTemplate(settings.EmailBody, owner, s.siteName, settings.RegionalSupportURL)

	if err := s.email.SendFollowup(ctx, owner.Email, subject, body); err != nil {
		// The marker stays unset so a later matching save can retry.
		metrics.FollowupEmailsFailed.Inc()
		s.logger.Error("failed to send followup email",
			zap.String("to", owner.Email),
			zap.Error(err))
		return nil
	}

	metrics.FollowupEmailsSent.Inc()
	s.logger.Info("followup email sent",
		zap.String("to", owner.Email),
		zap.String("profile_id", profile.ID.String()))

	if settings.SendOnce {
		claimed, err := s.profileRepo.MarkFollowupSent(ctx, profile.ID)
		if err != nil {
			s.logger.Error("failed to mark followup sent",
				zap.String("profile_id", profile.ID.String()),
				zap.Error(err))
		} else if claimed {
			profile.FollowupSent = true
		}
	}

	s.publishSent(ctx, profile, owner)

	return nil
}

// matches applies OR semantics across the two trigger sets. Empty sets
// never match.
func (s *followupService) matches(profile *entity.Profile, settings *entity.FollowupSettings) bool {
	return intersects(profile.Goals, settings.TriggerGoalValues) ||
		intersects(profile.Entrepreneurship, settings.TriggerEntrepreneurshipValues)
}

func intersects(selected, configured []string) bool {
	for _, s := range selected {
		for _, c := range configured {
			if s == c {
				return true
			}
		}
	}
	return false
}

// renderFollowupTemplate substitutes the recognized placeholders with
// literal values. Unrecognized placeholders are left as-is.
func renderFollowupTemplate(tmpl string, owner *entity.User, siteName, supportURL string) string {
	r := strings.NewReplacer(
		"[user:display-name]", owner.PreferredName(),
		"[user:mail]", owner.Email,
		"[site:name]", siteName,
		"[regional_support_url]", supportURL,
	)
	return r.Replace(tmpl)
}

func (s *followupService) publishSent(ctx context.Context, profile *entity.Profile, owner *entity.User) {
	if s.producer == nil {
		return
	}

	event := &kafka.FollowupSentEvent{
		EventID:   kafka.NewEventID(),
		UserID:    owner.ID.String(),
		ProfileID: profile.ID.String(),
		Email:     owner.Email,
		Timestamp: time.Now(),
	}

	if err := s.producer.PublishFollowupSent(ctx, event); err != nil {
		s.logger.Warn("failed to publish followup sent event", zap.Error(err))
	}
}
