package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vireo-labs/vireo-hr-api/internal/config"
	"github.com/vireo-labs/vireo-hr-api/internal/handler"
	"github.com/vireo-labs/vireo-hr-api/internal/middleware"
	"github.com/vireo-labs/vireo-hr-api/internal/models"
	"github.com/vireo-labs/vireo-hr-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ActivityHandler         *handler.ActivityHandler
	ParticipationHandler    *handler.ParticipationHandler
	NotificationHandler     *handler.NotificationHandler
	DepartmentHandler       *handler.DepartmentHandler
	ManagerDashboardHandler *handler.ManagerDashboardHandler
	AuditHandler            *handler.AuditHandler
	JWTMiddleware           fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	hrOnly := middleware.RequireRole(models.RoleHR, models.RoleAdmin)
	managerOnly := middleware.RequireRole(models.RoleManager, models.RoleAdmin)
	staffOnly := middleware.RequireRole(models.RoleHR, models.RoleManager, models.RoleAdmin)
	employeeOnly := middleware.RequireRole(models.RoleEmployee)
	anyRole := middleware.RequireRole(models.RoleHR, models.RoleManager, models.RoleEmployee, models.RoleAdmin)

	if deps.ActivityHandler != nil {
		activities := api.Group("/activities", jwtMiddleware)
		deps.ActivityHandler.Register(activities, handler.ActivityGuards{
			HR:      hrOnly,
			Manager: managerOnly,
			Staff:   staffOnly,
			Any:     anyRole,
		})
	}

	if deps.ParticipationHandler != nil {
		participations := api.Group("/participations", jwtMiddleware)
		deps.ParticipationHandler.Register(participations, handler.ParticipationGuards{
			Staff:       staffOnly,
			Employee:    employeeOnly,
			Manager:     managerOnly,
			Participant: anyRole,
		})
	}

	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications, staffOnly)
	}

	if deps.DepartmentHandler != nil {
		departments := api.Group("/departments", jwtMiddleware)
		deps.DepartmentHandler.Register(departments, hrOnly)
	}

	if deps.ManagerDashboardHandler != nil {
		// The dashboard replaces client-side polling; bound per-user request rate.
		dashboard := api.Group("/dashboard/manager", jwtMiddleware, managerOnly,
			middleware.RateLimit("manager-dashboard", 30, time.Minute))
		deps.ManagerDashboardHandler.Register(dashboard)
	}

	if deps.AuditHandler != nil {
		audit := api.Group("/audit", jwtMiddleware, hrOnly)
		deps.AuditHandler.Register(audit)
	}
}
