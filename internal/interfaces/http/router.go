package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/analytics"
	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/application/scheduling"
	"github.com/jhoicas/Produccion-api/internal/application/timesheet"
	"github.com/jhoicas/Produccion-api/internal/application/workflow"
	"github.com/jhoicas/Produccion-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Scheduler     *scheduling.Scheduler
	Replenishment *inventory.ReplenishmentUseCase
	Tracker       *workflow.Tracker
	Timesheet     *timesheet.Service
	Metrics       *analytics.ProjectMetricsUseCase
	Report        *analytics.ReportUseCase
	JWTSecret     string
	AppName       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(jwt.RolePlanner, jwt.RoleSupervisor, jwt.RoleOperator)
	planning := RequireRole(jwt.RolePlanner, jwt.RoleSupervisor)
	floor := RequireRole(jwt.RoleSupervisor, jwt.RoleOperator)

	// Work orders
	workOrders := protected.Group("/work-orders")
	woHandler := NewWorkOrderHandler(deps.Scheduler)
	workOrders.Post("/", planning, woHandler.Schedule)
	workOrders.Get("/:id", anyRole, woHandler.GetByID)
	workOrders.Post("/:id/cancel", planning, woHandler.Cancel)
	workOrders.Post("/:id/start", floor, woHandler.Start)
	workOrders.Post("/:id/complete", floor, woHandler.Complete)

	// Inventory
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Scheduler, deps.Replenishment)
	invGroup.Get("/availability", anyRole, inventoryHandler.Availability)
	invGroup.Get("/replenishment", planning, inventoryHandler.GetReplenishmentList)
	invGroup.Post("/receipts", planning, inventoryHandler.Receive)

	// Projects
	projects := protected.Group("/projects")
	projectHandler := NewProjectHandler(deps.Tracker, deps.Metrics, deps.Report, deps.Timesheet)
	projects.Post("/", planning, projectHandler.Create)
	projects.Get("/:id", anyRole, projectHandler.GetByID)
	projects.Post("/:id/steps/:stepId/complete", floor, projectHandler.CompleteStep)
	projects.Get("/:id/progress", anyRole, projectHandler.Progress)
	projects.Get("/:id/metrics", planning, projectHandler.Metrics)
	projects.Get("/:id/report.pdf", planning, projectHandler.ReportPDF)
	projects.Get("/:id/time-report", planning, projectHandler.TimeReport)

	// Time & expense entries
	entryHandler := NewEntryHandler(deps.Timesheet)
	protected.Post("/time-entries", anyRole, entryHandler.LogTime)
	protected.Post("/expense-entries", planning, entryHandler.LogExpense)
}
