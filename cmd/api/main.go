package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/johnquangdev/meeting-digest/internal/adapter/handler"
	"github.com/johnquangdev/meeting-digest/internal/adapter/repository"
	"github.com/johnquangdev/meeting-digest/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-digest/internal/infrastructure/notify"
	"github.com/johnquangdev/meeting-digest/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-digest/internal/usecase/reconcile"
	"github.com/johnquangdev/meeting-digest/internal/usecase/summarizer"
	"github.com/johnquangdev/meeting-digest/internal/usecase/trigger"
	"github.com/johnquangdev/meeting-digest/pkg/config"
	pkglogger "github.com/johnquangdev/meeting-digest/pkg/logger"
	pkgvalidator "github.com/johnquangdev/meeting-digest/pkg/validator"
)

// @title           Meeting Digest API
// @version         1.0
// @description     Turns captured meeting transcripts into summarized meetings
// @BasePath        /v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := pkglogger.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("❌ Server exited with error", zap.Error(err))
	}
	logger.Info("✅ Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	// Initialize Database
	logger.Info("📦 Connecting to database...")
	db, err := database.NewPostgresDB(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = database.CloseDB(db) }()

	if cfg.Database.AutoMigrate {
		if _, err := database.Migrate(db, logger); err != nil {
			return err
		}
	} else {
		logger.Info("🔄 Skipping migrations; run `meetingctl migrate` to apply them")
	}

	gateway := repository.NewStoreGateway(db, cfg.Pipeline.StoreTimeout)

	// Pipeline
	sum := summarizer.New(summarizer.Options{MinSentenceLength: cfg.Pipeline.MinSentenceLength})
	reconciler := reconcile.NewReconciler(gateway, sum, reconcile.Options{
		Workers:          cfg.Pipeline.Workers,
		MaxSentences:     cfg.Pipeline.MaxSentences,
		MaxKeyPoints:     cfg.Pipeline.MaxKeyPoints,
		CandidateTimeout: cfg.Pipeline.CandidateTimeout,
	}, logger.Named("reconcile"))

	alerters := trigger.MultiAlerter{trigger.NewLogAlerter(logger.Named("alert"))}

	var bus *notify.RedisBus
	if cfg.Redis.Enabled {
		logger.Info("📦 Connecting to Redis...")
		redisClient, err := notify.NewRedisClient(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = redisClient.Close() }()

		bus = notify.NewRedisBus(redisClient, cfg.Redis.ChangeChannel, cfg.Redis.AlertChannel, logger.Named("notify"))
		alerters = append(alerters, bus)
	}

	controller := trigger.NewController(reconciler, alerters, trigger.Options{
		MinSpacing:       cfg.Pipeline.MinSpacing,
		Interval:         cfg.Pipeline.Interval,
		FailureThreshold: cfg.Pipeline.FailureThreshold,
		AutoEnabled:      cfg.Pipeline.AutoEnabled,
	}, logger.Named("trigger"))

	var notifier handler.ChangeNotifier = notify.NewLocal(controller)
	if bus != nil {
		notifier = bus
	}

	// Audio links
	var links handler.AudioLinker = storage.Passthrough{}
	if cfg.Storage.Enabled {
		minioClient, err := storage.NewMinIOClient(ctx, &cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		links = minioClient
	}

	// HTTP
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	var webhook *handler.StoreWebhook
	if cfg.Webhook.Secret != "" {
		webhook = handler.NewStoreWebhookHandler(notifier, cfg.Webhook.Secret, logger.Named("webhook"))
	}

	router := handler.NewRouter(cfg,
		handler.NewPipelineHandler(controller, reconciler, cfg.Pipeline.RunTimeout, logger.Named("http")),
		handler.NewMeetingHandler(gateway, links, logger.Named("http")),
		handler.NewTranscriptHandler(gateway, notifier, logger.Named("http")),
		webhook,
	)
	router.Setup(e)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		controller.Start(gctx)
		return nil
	})

	if bus != nil {
		g.Go(func() error {
			return bus.Subscribe(gctx, controller)
		})
	}

	g.Go(func() error {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("🚀 Starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("🛑 Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
