package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/analytics"
	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/timesheet"
	"github.com/jhoicas/Produccion-api/internal/application/workflow"
	"github.com/jhoicas/Produccion-api/internal/domain"
)

// ProjectHandler proyectos, avance del workflow, métricas y reportes (protegido).
type ProjectHandler struct {
	tracker   *workflow.Tracker
	metrics   *analytics.ProjectMetricsUseCase
	report    *analytics.ReportUseCase
	timesheet *timesheet.Service
}

// NewProjectHandler construye el handler.
func NewProjectHandler(tracker *workflow.Tracker, metrics *analytics.ProjectMetricsUseCase, report *analytics.ReportUseCase, ts *timesheet.Service) *ProjectHandler {
	return &ProjectHandler{tracker: tracker, metrics: metrics, report: report, timesheet: ts}
}

// Create godoc
// @Summary      Crear proyecto
// @Description  Instancia la plantilla de workflow y calcula la fecha de fin con el camino crítico.
// @Tags         projects
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProjectRequest  true  "name, workflow_id, start_date, budget"
// @Success      201   {object}  dto.ProjectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProjectRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	p, err := h.tracker.CreateProject(c.UserContext(), workflow.CreateProjectInput{
		Name:        in.Name,
		Description: in.Description,
		WorkflowID:  in.WorkflowID,
		StartDate:   in.StartDate,
		Budget:      in.Budget,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ProjectFromEntity(p))
}

// GetByID obtiene el proyecto con el estado de sus pasos.
// GET /api/projects/:id
func (h *ProjectHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.tracker.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ProjectFromEntity(p))
}

// CompleteStep godoc
// @Summary      Completar paso del workflow
// @Description  Responde 409 UNMET_DEPENDENCY con los predecesores pendientes.
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID del proyecto"
// @Param        stepId  path  string  true  "ID del paso"
// @Success      200  {object}  dto.ProjectResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/steps/{stepId}/complete [post]
func (h *ProjectHandler) CompleteStep(c *fiber.Ctx) error {
	p, err := h.tracker.CompleteStep(c.UserContext(), c.Params("id"), c.Params("stepId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ProjectFromEntity(p))
}

// Progress porcentaje de pasos completados y duración restante.
// GET /api/projects/:id/progress
func (h *ProjectHandler) Progress(c *fiber.Ctx) error {
	id := c.Params("id")
	pr, err := h.tracker.Progress(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ProgressResponse{
		ProjectID:          id,
		ProgressPercentage: pr.Percentage,
		RemainingDuration:  pr.RemainingDuration,
		CompletedSteps:     pr.CompletedSteps,
		TotalSteps:         pr.TotalSteps,
	})
}

// Metrics godoc
// @Summary      Métricas del proyecto
// @Description  Costo total (mano de obra + materiales + gastos), avance y variaciones de presupuesto y plazo.
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectMetricsDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/metrics [get]
func (h *ProjectHandler) Metrics(c *fiber.Ctx) error {
	m, err := h.metrics.GetProjectMetrics(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(m)
}

// ReportPDF godoc
// @Summary      Reporte PDF del proyecto
// @Tags         projects
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del proyecto"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/report.pdf [get]
func (h *ProjectHandler) ReportPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.report.ProjectReportPDF(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="proyecto-`+id+`.pdf"`)
	return c.Send(out)
}

// TimeReport godoc
// @Summary      Reporte de tiempos y gastos
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID del proyecto"
// @Param        from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Success      200  {object}  dto.TimeReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{id}/time-report [get]
func (h *ProjectHandler) TimeReport(c *fiber.Ctx) error {
	var q dto.DateRange
	if err := c.QueryParser(&q); err != nil {
		return respondError(c, domain.ErrInvalidInput)
	}
	from, to, err := parseRange(q)
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.timesheet.TimeReport(c.UserContext(), c.Params("id"), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// parseRange convierte YYYY-MM-DD a instantes UTC; "to" cubre el día completo.
func parseRange(q dto.DateRange) (from, to *time.Time, err error) {
	const layout = "2006-01-02"
	if q.From != "" {
		t, perr := time.Parse(layout, q.From)
		if perr != nil {
			return nil, nil, domain.ErrInvalidInput
		}
		from = &t
	}
	if q.To != "" {
		t, perr := time.Parse(layout, q.To)
		if perr != nil {
			return nil, nil, domain.ErrInvalidInput
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}
