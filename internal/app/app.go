package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/makehaven/profile-membership/internal/config"
	infracron "github.com/makehaven/profile-membership/internal/infrastructure/cron"
	"github.com/makehaven/profile-membership/internal/infrastructure/kafka"
	"github.com/makehaven/profile-membership/internal/infrastructure/postgres"
	infraredis "github.com/makehaven/profile-membership/internal/infrastructure/redis"
	"github.com/makehaven/profile-membership/internal/infrastructure/smtp"
	"github.com/makehaven/profile-membership/internal/service"
	transporthttp "github.com/makehaven/profile-membership/internal/transport/http"
	"github.com/makehaven/profile-membership/pkg/logger"
	"github.com/makehaven/profile-membership/pkg/token"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App represents the application
type App struct {
	config        *config.Config
	logger        *zap.Logger
	httpServer    *transporthttp.Server
	metricsServer *http.Server
	sweeper       *infracron.SessionSweeper
	kafkaProducer *kafka.Producer
	pgPool        *pgxpool.Pool
}

// New creates a new application
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("configuration loaded",
		zap.String("service", cfg.Service.Name),
		zap.String("environment", cfg.Service.Environment),
	)

	ctx := context.Background()
	pgPool, err := postgres.NewPool(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	log.Info("connected to PostgreSQL")

	redisClient, err := infraredis.NewClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("connected to Redis")

	// Repositories
	userRepo := postgres.NewUserRepository(pgPool)
	profileRepo := postgres.NewProfileRepository(pgPool)
	settingsRepo := postgres.NewSettingsRepository(pgPool)
	sessionRepo := postgres.NewSessionRepository(pgPool)

	// Redis-backed stores
	sessionStore := infraredis.NewSessionStore(redisClient, cfg.Session.TTL)
	activationStore := infraredis.NewActivationStore(redisClient, cfg.Session.ActivationTTL)

	kafkaProducer := kafka.NewProducer(&cfg.Kafka)
	log.Info("kafka producer initialized")

	mailer := smtp.NewClient(&cfg.SMTP)

	tokenManager := token.NewManager(
		cfg.Session.Secret,
		cfg.Session.TTL,
		cfg.Session.Issuer,
	)

	// Services
	authService := service.NewAuthService(userRepo, sessionRepo, sessionStore, tokenManager, cfg.Session.TTL, log)
	membershipService := service.NewMembershipService(userRepo, activationStore, kafkaProducer, log)
	followupService := service.NewFollowupService(settingsRepo, profileRepo, userRepo, mailer, kafkaProducer, cfg.Site.Name, log)
	profileService := service.NewProfileService(profileRepo, followupService)

	// HTTP transport
	handler := transporthttp.NewHandler(authService, membershipService, profileService, settingsRepo, log)
	httpServer := transporthttp.NewServer(handler, cfg.HTTP.Port)

	// Metrics endpoint on its own port
	metricsMux := http.NewServeMux()
	metricsMux.Handle(cfg.Metrics.Path, promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: metricsMux,
	}

	sweeper := infracron.NewSessionSweeper(sessionRepo, cfg.Session.CleanupInterval, log)

	return &App{
		config:        cfg,
		logger:        log,
		httpServer:    httpServer,
		metricsServer: metricsServer,
		sweeper:       sweeper,
		kafkaProducer: kafkaProducer,
		pgPool:        pgPool,
	}, nil
}

// Run starts the application
func (a *App) Run() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := a.httpServer.Start(); err != nil {
			a.logger.Error("http server error", zap.Error(err))
			quit <- syscall.SIGTERM
		}
	}()

	go func() {
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("metrics server error", zap.Error(err))
		}
	}()

	if err := a.sweeper.Start(); err != nil {
		return fmt.Errorf("failed to start session sweeper: %w", err)
	}

	a.logger.Info("service started",
		zap.Int("http_port", a.config.HTTP.Port),
		zap.Int("metrics_port", a.config.Metrics.Port),
	)

	<-quit
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	a.sweeper.Stop()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", zap.Error(err))
	}
	if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("metrics server shutdown error", zap.Error(err))
	}
	if err := a.kafkaProducer.Close(); err != nil {
		a.logger.Error("error closing kafka producer", zap.Error(err))
	}
	a.pgPool.Close()

	a.logger.Info("shutdown complete")
	return nil
}
