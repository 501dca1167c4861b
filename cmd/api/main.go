package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/ticketdesk/ticketdesk-service/internal/api/http"
	"github.com/ticketdesk/ticketdesk-service/internal/api/http/handlers"
	"github.com/ticketdesk/ticketdesk-service/internal/auth"
	"github.com/ticketdesk/ticketdesk-service/internal/config"
	"github.com/ticketdesk/ticketdesk-service/internal/events"
	"github.com/ticketdesk/ticketdesk-service/internal/observability"
	"github.com/ticketdesk/ticketdesk-service/internal/persistence"
	"github.com/ticketdesk/ticketdesk-service/internal/service"
	"github.com/ticketdesk/ticketdesk-service/internal/storage"
	"github.com/ticketdesk/ticketdesk-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Tracing, cfg.App)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
	}

	store, closeStore, err := persistence.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer closeStore()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	var revoker auth.Revoker = auth.NewLocalRevoker()
	dispatcher := events.NewInMemoryDispatcher(logger)
	if redis.Enabled() {
		revoker = auth.NewRedisRevoker(redis.Client)
		dispatcher = events.NewRedisRelay(dispatcher, redis.Client, cfg.Redis.EventsChannel, logger)
	}

	var (
		images    storage.ImageStore
		uploadDir string
	)
	if cfg.Minio.Endpoint != "" {
		minioStore, err := storage.NewMinioStore(ctx, cfg.Minio, logger)
		if err != nil {
			logger.Fatal("failed to init minio", zap.Error(err))
		}
		images = minioStore
	} else {
		local, err := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.PublicPrefix)
		if err != nil {
			logger.Fatal("failed to init upload dir", zap.Error(err))
		}
		images = local
		uploadDir = local.Dir()
	}

	var mailer service.Mailer
	var emailWorker *worker.EmailWorker
	if cfg.SMTP.Host != "" {
		dialer := worker.NewSMTPDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
		emailWorker = worker.NewEmailWorker(dialer, cfg.Notification.EmailFrom, cfg.Notification.QueueSize, cfg.Notification.EmailWorkers, logger)
		emailWorker.Start(ctx)
		mailer = emailWorker
	} else {
		logger.Info("SMTP_HOST not set; notification emails disabled")
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   store.Users,
		Tokens:     tokens,
		Revoker:    revoker,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	userService := service.NewUserService(store.Users, cfg.Auth.BcryptCost)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:    store.Tickets,
		Images:        images,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
		MaxImageBytes: cfg.Upload.MaxBytes(),
	})
	analyticsService := service.NewAnalyticsService(store.Tickets)
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		NotificationRepo: store.Notifications,
		UserRepo:         store.Users,
		Dispatcher:       dispatcher,
		Mailer:           mailer,
		Metrics:          metrics,
		Logger:           logger,
	})
	notificationService.RegisterHandlers()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.App.BodyLimitMB * 1024 * 1024,
	})
	httptransport.RegisterMiddlewares(app, cfg.App, logger, metrics)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, store.Users, revoker),
		Metrics:        metrics,
		UploadDir:      uploadDir,
		UploadPrefix:   cfg.Upload.PublicPrefix,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("store", store.Name))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	if emailWorker != nil {
		emailWorker.Wait()
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
