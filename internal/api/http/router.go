package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/interference-service/internal/api/http/handlers"
	"github.com/spec-kit/interference-service/internal/auth"
	"github.com/spec-kit/interference-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Reports        *handlers.ReportsHandler
	Technicians    *handlers.TechniciansHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	api.Post("/auth/login", cfg.Auth.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/auth/me", cfg.Auth.Me)

	reports := protected.Group("/reports")
	reports.Post("/", auth.RequireOperation(auth.OpCreateReport), cfg.Reports.Create)
	reports.Get("/", auth.RequireOperation(auth.OpListReports), cfg.Reports.List)
	reports.Get("/:id", auth.RequireOperation(auth.OpGetReport), cfg.Reports.Get)
	reports.Get("/:id/history", auth.RequireOperation(auth.OpGetReport), cfg.Reports.History)
	reports.Post("/:id/advance", auth.RequireOperation(auth.OpAdvanceStatus), cfg.Reports.Advance)
	reports.Post("/:id/assign/:technicianId", auth.RequireOperation(auth.OpAssignTechnician), cfg.Reports.Assign)
	reports.Post("/:id/unassign", auth.RequireOperation(auth.OpUnassign), cfg.Reports.Unassign)
	reports.Put("/:id/notes", auth.RequireOperation(auth.OpUpdateNotes), cfg.Reports.UpdateNotes)

	technicians := protected.Group("/technicians")
	technicians.Get("/", auth.RequireOperation(auth.OpListTechnicians), cfg.Technicians.List)
	technicians.Get("/available", auth.RequireOperation(auth.OpListTechnicians), cfg.Technicians.ListAvailable)
	technicians.Get("/:id", auth.RequireOperation(auth.OpListTechnicians), cfg.Technicians.Get)
	technicians.Post("/", auth.RequireOperation(auth.OpCreateTechnician), cfg.Technicians.Create)

	dashboard := protected.Group("/dashboard")
	dashboard.Get("/workload", auth.RequireOperation(auth.OpViewWorkload), cfg.Dashboard.Workload)
	dashboard.Get("/workload.xlsx", auth.RequireOperation(auth.OpExportDashboard), cfg.Dashboard.Export)
	dashboard.Get("/activity", auth.RequireOperation(auth.OpViewActivity), cfg.Dashboard.Activity)
	dashboard.Get("/summary", auth.RequireOperation(auth.OpViewActivity), cfg.Dashboard.Summary)
}
