package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/grievance-service/internal/api/http/handlers"
	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Users           *handlers.UsersHandler
	Grievances      *handlers.GrievancesHandler
	StaffGrievances *handlers.StaffGrievancesHandler
	AuthMiddleware  *auth.AuthMiddleware
	MetricsGatherer prometheus.Gatherer
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	if cfg.MetricsGatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.MetricsGatherer, promhttp.HandlerOpts{})))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	grievances := app.Group("/grievances", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleStudent))
	grievances.Get("/categories", cfg.Grievances.ListCategories)
	grievances.Post("/", cfg.Grievances.CreateGrievance)
	grievances.Get("/", cfg.Grievances.ListGrievances)
	grievances.Get("/:id", cfg.Grievances.GetGrievance)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	staff.Get("/grievances", cfg.StaffGrievances.ListGrievances)
	staff.Get("/grievances/overview", cfg.StaffGrievances.Overview)
	staff.Get("/grievances/:id", cfg.StaffGrievances.GetGrievance)
	staff.Get("/grievances/:id/targets", cfg.StaffGrievances.ListTargets)
	staff.Post("/grievances/:id/transition", cfg.StaffGrievances.Transition)

	admin := app.Group("/staff/users", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Post("/", cfg.Users.CreateStaff)
}
