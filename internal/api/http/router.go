package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Accounts      *handlers.AccountsHandler
	Projects      *handlers.ProjectsHandler
	Leads         *handlers.LeadsHandler
	Catalog       *handlers.CatalogHandler
	Menu          *handlers.MenuHandler
	Cities        *handlers.CitiesHandler
	Notifications *handlers.NotificationsHandler

	AuthMiddleware    *auth.Middleware
	Authorizer        *auth.Authorizer
	ProjectOwner      auth.OwnerResolver
	NotificationOwner auth.OwnerResolver
}

// RegisterRoutes wires HTTP routes. Guard order is fixed: authenticate,
// check role tier, then narrow to the owned instance where it applies.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	protected.Get("/accounts/me", cfg.Accounts.Me)
	protected.Get("/menu", cfg.Menu.Mine)

	accounts := protected.Group("/accounts", auth.RequireRole(cfg.Authorizer, domain.RoleAdmin))
	accounts.Get("/pending", cfg.Accounts.ListPending)
	accounts.Patch("/:id/approval", cfg.Accounts.Approve)

	projects := protected.Group("/projects", auth.RequireRole(cfg.Authorizer, domain.RoleCustomer))
	projects.Post("", cfg.Projects.Create)
	projects.Get("", cfg.Projects.List)
	projects.Get("/:id", auth.RequireOwnership(cfg.ProjectOwner), cfg.Projects.Get)
	projects.Get("/:id/leads", auth.RequireRole(cfg.Authorizer, domain.RoleEmployee), cfg.Projects.Leads)
	projects.Post("/:id/assign", auth.RequireRole(cfg.Authorizer, domain.RoleAdmin), cfg.Projects.Assign)
	projects.Post("/:id/reassign", auth.RequireRole(cfg.Authorizer, domain.RoleAdmin), cfg.Projects.Reassign)
	projects.Post("/:id/review", auth.RequireRole(cfg.Authorizer, domain.RoleAdmin), cfg.Projects.StartReview)
	projects.Post("/:id/complete", auth.RequireRole(cfg.Authorizer, domain.RoleAdmin), cfg.Projects.Complete)
	projects.Post("/:id/cancel", auth.RequireRole(cfg.Authorizer, domain.RoleAdmin), cfg.Projects.Cancel)

	leads := protected.Group("/leads", auth.RequireRole(cfg.Authorizer, domain.RoleDesigner))
	leads.Get("/mine", cfg.Leads.Mine)
	leads.Post("/:id/respond", cfg.Leads.Respond)

	catalog := protected.Group("/catalog", auth.RequireRole(cfg.Authorizer, domain.RoleAdmin))
	catalog.Get("/roles", cfg.Catalog.ListRoles)
	catalog.Get("/roles/:id/permissions", cfg.Catalog.RolePermissions)
	catalog.Get("/roles/:id/menu-items", cfg.Catalog.ListMenuItems)
	catalog.Get("/permissions", cfg.Catalog.ListPermissions)

	catalogAdmin := catalog.Group("", auth.RequireRole(cfg.Authorizer, domain.RoleSuperAdmin))
	catalogAdmin.Post("/roles", cfg.Catalog.CreateRole)
	catalogAdmin.Put("/roles/:id", cfg.Catalog.UpdateRole)
	catalogAdmin.Put("/roles/:id/permissions", cfg.Catalog.AssignPermissions)
	catalogAdmin.Post("/permissions", cfg.Catalog.CreatePermission)
	catalogAdmin.Delete("/permissions/:id", cfg.Catalog.DeletePermission)
	catalogAdmin.Post("/menu-items", cfg.Catalog.CreateMenuItem)
	catalogAdmin.Put("/menu-items/:id", cfg.Catalog.UpdateMenuItem)

	cities := protected.Group("/cities")
	cities.Get("", cfg.Cities.List)
	cities.Post("", auth.RequireCityAccess(), cfg.Cities.Create)
	cities.Put("/:id", auth.RequireCityAccess(), cfg.Cities.Update)

	notifications := protected.Group("/notifications")
	notifications.Get("", cfg.Notifications.Mine)
	notifications.Patch("/:id/read", auth.RequireOwnership(cfg.NotificationOwner), cfg.Notifications.MarkRead)
}
