package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/chatshell-api/internal/config"
	"github.com/noah-isme/chatshell-api/internal/database"
	"github.com/noah-isme/chatshell-api/internal/fixtures"
	"github.com/noah-isme/chatshell-api/internal/handler"
	"github.com/noah-isme/chatshell-api/internal/middleware"
	"github.com/noah-isme/chatshell-api/internal/repository"
	"github.com/noah-isme/chatshell-api/internal/router"
	"github.com/noah-isme/chatshell-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()

	dataset, err := loadDataset(cfg)
	if err != nil {
		log.Fatalf("failed to load fixtures: %v", err)
	}

	repo, err := openRepository(cfg, dataset)
	if err != nil {
		log.Fatalf("failed to open chat store: %v", err)
	}
	logger.Info().Str("store", cfg.StoreDriver).Msg("chat store ready")

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var publisher service.EventPublisher
	if cfg.NATSURL != "" {
		natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
		publisher = natsConn
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	workspaceService := service.NewWorkspaceService(repo, logger)
	channelService := service.NewChannelService(repo, logger)
	memberService := service.NewMemberService(repo, logger)
	threadService := service.NewThreadService(repo, logger)
	fileService := service.NewFileService(repo, logger)
	insightsService := service.NewInsightsService(repo, redisClient, cfg.InsightsCacheTTL, logger)
	vitalsService := service.NewVitalsService(publisher, cfg.NATSSubject, redisClient, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.AllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		WorkspaceHandler: handler.NewWorkspaceHandler(workspaceService, logger),
		ChannelHandler:   handler.NewChannelHandler(channelService, logger),
		MemberHandler:    handler.NewMemberHandler(memberService, logger),
		ThreadHandler:    handler.NewThreadHandler(threadService, logger),
		InsightsHandler:  handler.NewInsightsHandler(fileService, insightsService, logger),
		VitalsHandler:    handler.NewVitalsHandler(vitalsService, logger),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, cfg.ShutdownTimeout)
}

// loadDataset resolves relative fixture timestamps against process start.
func loadDataset(cfg config.Config) (*fixtures.Dataset, error) {
	now := time.Now()
	if cfg.FixturesPath == "" {
		return fixtures.Default(now), nil
	}
	return fixtures.LoadFile(cfg.FixturesPath, now)
}

func openRepository(cfg config.Config, dataset *fixtures.Dataset) (repository.ChatRepository, error) {
	if !cfg.UsesSQL() {
		if err := dataset.Validate(); err != nil {
			return nil, err
		}
		return repository.NewMemoryChatRepository(dataset), nil
	}

	var (
		db  *gorm.DB
		err error
	)
	if cfg.StoreDriver == config.StorePostgres {
		db, err = database.ConnectPostgres(cfg.DatabaseURL)
	} else {
		db, err = database.ConnectSQLite(cfg.SQLitePath)
	}
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repository.SeedFixtures(ctx, db, dataset); err != nil {
		return nil, err
	}

	return repository.NewSQLChatRepository(db), nil
}

func waitForShutdown(app *fiber.App, timeout time.Duration) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
