package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/intake-service/internal/api/http"
	"github.com/spec-kit/intake-service/internal/api/http/handlers"
	"github.com/spec-kit/intake-service/internal/config"
	"github.com/spec-kit/intake-service/internal/domain"
	"github.com/spec-kit/intake-service/internal/events"
	"github.com/spec-kit/intake-service/internal/observability"
	"github.com/spec-kit/intake-service/internal/persistence"
	"github.com/spec-kit/intake-service/internal/ratelimit"
	"github.com/spec-kit/intake-service/internal/repository"
	"github.com/spec-kit/intake-service/internal/sequence"
	"github.com/spec-kit/intake-service/internal/service"
	"github.com/spec-kit/intake-service/internal/sla"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var store ratelimit.Store
	switch cfg.RateLimit.Backend {
	case "redis":
		store = ratelimit.NewRedisStore(redis.Client)
		logger.Info("using shared redis rate-limit store")
	default:
		store = ratelimit.NewMemoryStore()
		logger.Info("using in-process rate-limit store")
	}

	limiter := ratelimit.NewLimiter(store, map[string]ratelimit.ClassConfig{
		ratelimit.ClassTicketSubmit: {Limit: cfg.RateLimit.SubmitLimit, Window: cfg.RateLimit.SubmitWindow()},
		ratelimit.ClassTicketLookup: {Limit: cfg.RateLimit.LookupLimit, Window: cfg.RateLimit.LookupWindow()},
	}, logger)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	pool := pg.PoolHandle()
	intakeService := service.NewIntakeService(service.IntakeDependencies{
		Limiter:          limiter,
		UnitOfWork:       persistence.NewUnitOfWork(pool),
		DB:               pool,
		CatalogRepo:      repository.NewCatalogRepository(),
		TicketRepo:       repository.NewTicketRepository(),
		SLARepo:          repository.NewSLARepository(),
		ActivityRepo:     repository.NewActivityRepository(),
		Allocator:        sequence.NewCounterAllocator(),
		Calculator:       sla.NewCalculator(domain.TicketPriority(cfg.SLA.DefaultPriority)),
		Dispatcher:       dispatcher,
		Metrics:          metrics,
		Logger:           logger,
		CaptchaThreshold: cfg.RateLimit.CaptchaThreshold,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets: handlers.NewTicketsHandler(intakeService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
