package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/makehaven/profile-membership/internal/domain/repository"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionSweeper periodically removes expired login sessions
type SessionSweeper struct {
	sessionRepo repository.SessionRepository
	cron        *cron.Cron
	interval    time.Duration
	logger      *zap.Logger
}

// NewSessionSweeper creates a new session sweeper
func NewSessionSweeper(sessionRepo repository.SessionRepository, interval time.Duration, logger *zap.Logger) *SessionSweeper {
	return &SessionSweeper{
		sessionRepo: sessionRepo,
		cron:        cron.New(),
		interval:    interval,
		logger:      logger,
	}
}

// Start starts the session sweeper
func (s *SessionSweeper) Start() error {
	cronExpr := fmt.Sprintf("@every %s", s.interval.String())

	_, err := s.cron.AddFunc(cronExpr, func() {
		s.sweep()
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("session sweeper started", zap.Duration("interval", s.interval))

	return nil
}

// Stop stops the session sweeper
func (s *SessionSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("session sweeper stopped")
}

func (s *SessionSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := s.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error("failed to delete expired sessions", zap.Error(err))
		return
	}

	if deleted > 0 {
		s.logger.Info("deleted expired sessions", zap.Int64("count", deleted))
	}
}
