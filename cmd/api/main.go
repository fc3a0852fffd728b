package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/suporte-ti/helpdesk/internal/api/http"
	"github.com/suporte-ti/helpdesk/internal/api/http/handlers"
	"github.com/suporte-ti/helpdesk/internal/auth"
	"github.com/suporte-ti/helpdesk/internal/config"
	"github.com/suporte-ti/helpdesk/internal/events"
	"github.com/suporte-ti/helpdesk/internal/observability"
	"github.com/suporte-ti/helpdesk/internal/persistence"
	"github.com/suporte-ti/helpdesk/internal/repository"
	"github.com/suporte-ti/helpdesk/internal/service"
	"github.com/suporte-ti/helpdesk/internal/store"
	"github.com/suporte-ti/helpdesk/internal/worker"
)

type repositories struct {
	users        repository.UserRepository
	profiles     repository.ProfileRepository
	problemTypes repository.ProblemTypeRepository
	tickets      repository.TicketRepository
	history      repository.TicketHistoryRepository
}

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

	var (
		repos repositories
		pg    *persistence.Postgres
		rd    *persistence.Redis
	)

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pg, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		repos = repositories{
			users:        repository.NewPostgresUserRepository(pg.Pool),
			profiles:     repository.NewPostgresProfileRepository(pg.Pool),
			problemTypes: repository.NewPostgresProblemTypeRepository(pg.Pool),
			tickets:      repository.NewPostgresTicketRepository(pg.Pool),
			history:      repository.NewPostgresTicketHistoryRepository(pg.Pool),
		}
	case config.StoreDriverRedis:
		rd = persistence.NewRedis(cfg.Redis, logger)
		defer rd.Close()
		repos = kvRepositories(ctx, store.NewRedisKV(rd.Client), logger)
	default:
		repos = kvRepositories(ctx, store.NewMemory(), logger)
	}

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:    repos.users,
		ProfileRepo: repos.profiles,
		Dispatcher:  dispatcher,
	})
	profileService := service.NewProfileService(repos.profiles)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:      repos.tickets,
		ProfileRepo:     repos.profiles,
		ProblemTypeRepo: repos.problemTypes,
		HistoryRepo:     repos.history,
		Dispatcher:      dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), repos.users, repos.profiles)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, rd),
		Auth:           handlers.NewAuthHandler(authService),
		Profiles:       handlers.NewProfileHandler(profileService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func kvRepositories(ctx context.Context, kv store.KV, logger *zap.Logger) repositories {
	if err := store.Initialize(ctx, kv); err != nil {
		logger.Fatal("failed to seed record store", zap.Error(err))
	}
	return repositories{
		users:        repository.NewUserRepository(kv),
		profiles:     repository.NewProfileRepository(kv),
		problemTypes: repository.NewProblemTypeRepository(kv),
		tickets:      repository.NewTicketRepository(kv),
		history:      repository.NewTicketHistoryRepository(kv),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
