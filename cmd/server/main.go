package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/config"
	"github.com/yukikurage/team-task-api/internal/database"
	"github.com/yukikurage/team-task-api/internal/logging"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/server"
	"github.com/yukikurage/team-task-api/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/automaxprocs/maxprocs"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", "err", err)
	}

	logger := logging.NewLogger(cfg)
	if _, err := maxprocs.Set(maxprocs.Logger(logger.Debugf)); err != nil {
		logger.Warn("couldn't set automaxprocs", "error", err)
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg, logger)
	if err != nil {
		return err
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	activityRepo, closeActivity, err := newActivityLogRepository(ctx, cfg, logger, db)
	if err != nil {
		return err
	}
	defer closeActivity()

	// Initialize AI service
	var generator services.TaskGenerator
	if cfg.OpenAIAPIKey != "" {
		generator = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		logger.Info("OPENAI_API_KEY not set; task generation disabled")
	}

	activity := services.NewActivityService(activityRepo)
	svc := server.Services{
		Auth:     services.NewAuthService(userRepo),
		Tokens:   services.NewTokenService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL),
		Profiles: services.NewProfileService(userRepo),
		Teams:    services.NewTeamService(teamRepo, userRepo, taskRepo),
		Tasks:    services.NewTaskService(taskRepo, teamRepo, userRepo, activity, generator),
		Activity: activity,
	}

	created, err := svc.Auth.EnsureSuperuser(ctx, services.RegisterInput{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	})
	if err != nil {
		return err
	}
	if created {
		logger.Info("superuser created", "username", cfg.AdminUsername)
	}

	store, err := server.NewSessionStore(cfg)
	if err != nil {
		return err
	}

	s := server.New(logger, cfg.Port, cfg.MetricsAddr, server.NewRouter(logger, store, svc))

	return s.Start(ctx)
}

// newActivityLogRepository selects the activity log store. The returned
// func releases any connection it opened.
func newActivityLogRepository(ctx context.Context, cfg *config.Config, logger *log.Logger, db *gorm.DB) (repository.ActivityLogRepository, func(), error) {
	if cfg.ActivityLogStore != "mongo" {
		return repository.NewActivityLogRepository(db), func() {}, nil
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("activity log stored in MongoDB", "database", cfg.MongoDatabase)
	closeFn := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("failed to disconnect from MongoDB", "err", err)
		}
	}
	return repository.NewMongoActivityLogRepository(client.Database(cfg.MongoDatabase)), closeFn, nil
}
