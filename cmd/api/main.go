package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/marketplace-service/internal/api/http"
	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/observability"
	"github.com/spec-kit/marketplace-service/internal/persistence"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/service"
	"github.com/spec-kit/marketplace-service/internal/worker"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util/errorutil"
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

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	permissionRepo := repository.NewPermissionRepository(pool)
	menuItemRepo := repository.NewMenuItemRepository(pool)
	cityRepo := repository.NewCityRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	leadRepo := repository.NewLeadRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	authorizer := auth.NewAuthorizer(roleRepo)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	authService := service.NewAuthService(service.AuthDependencies{
		AccountRepo: accountRepo,
		Tokens:      tokens,
		Logger:      logger,
		BcryptCost:  cfg.Auth.BcryptCost,
	})
	workflowService := service.NewWorkflowService(service.WorkflowDependencies{
		ProjectRepo: projectRepo,
		LeadRepo:    leadRepo,
		AccountRepo: accountRepo,
		Authorizer:  authorizer,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	notificationService := service.NewNotificationService(dispatcher, notificationRepo, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	catalogProvider := service.NewCatalogMenuProvider(roleRepo, menuItemRepo, redis, cfg.Menu.CacheTTL(), logger)
	menuProvider := service.NewFallbackMenuProvider(catalogProvider, service.NewStaticMenuProvider(), logger)
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		RoleRepo:       roleRepo,
		PermissionRepo: permissionRepo,
		MenuItemRepo:   menuItemRepo,
		MenuCache:      catalogProvider,
		Logger:         logger,
	})
	cityService := service.NewCityService(cityRepo)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), accountRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:          handlers.NewAuthHandler(authService),
		Accounts:      handlers.NewAccountsHandler(workflowService),
		Projects:      handlers.NewProjectsHandler(workflowService),
		Leads:         handlers.NewLeadsHandler(workflowService),
		Catalog:       handlers.NewCatalogHandler(catalogService),
		Menu:          handlers.NewMenuHandler(menuProvider),
		Cities:        handlers.NewCitiesHandler(cityService),
		Notifications: handlers.NewNotificationsHandler(notificationService),

		AuthMiddleware:    authMiddleware,
		Authorizer:        authorizer,
		ProjectOwner:      projectOwnerResolver(projectRepo),
		NotificationOwner: notificationOwnerResolver(notificationRepo),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// projectOwnerResolver treats both the customer who opened the project and
// the currently assigned designer as owners.
func projectOwnerResolver(projects repository.ProjectRepository) auth.OwnerResolver {
	return func(c *fiber.Ctx) (string, error) {
		project, err := projects.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return "", apperrors.NewNotFound("project", map[string]any{"project_id": c.Params("id")})
			}
			return "", err
		}
		if principal, ok := auth.PrincipalFromContext(c); ok {
			if project.DesignerID != nil && *project.DesignerID == principal.ID {
				return principal.ID, nil
			}
		}
		return project.CustomerID, nil
	}
}

func notificationOwnerResolver(notifications repository.NotificationRepository) auth.OwnerResolver {
	return func(c *fiber.Ctx) (string, error) {
		notification, err := notifications.GetByID(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return "", apperrors.NewNotFound("notification", map[string]any{"notification_id": c.Params("id")})
			}
			return "", err
		}
		return notification.RecipientID, nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
