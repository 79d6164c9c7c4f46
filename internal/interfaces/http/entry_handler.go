package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/timesheet"
)

// EntryHandler registro de tiempos y gastos (protegido).
type EntryHandler struct {
	svc *timesheet.Service
}

// NewEntryHandler construye el handler.
func NewEntryHandler(svc *timesheet.Service) *EntryHandler {
	return &EntryHandler{svc: svc}
}

// LogTime godoc
// @Summary      Registrar tiempo
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LogTimeRequest  true  "resource_id, project_id, start_time, end_time"
// @Success      201   {object}  dto.EntryCreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/time-entries [post]
func (h *EntryHandler) LogTime(c *fiber.Ctx) error {
	var in dto.LogTimeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	e, err := h.svc.LogTime(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.EntryCreatedResponse{ID: e.ID})
}

// LogExpense godoc
// @Summary      Registrar gasto
// @Tags         entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LogExpenseRequest  true  "project_id, amount, description, category"
// @Success      201   {object}  dto.EntryCreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/expense-entries [post]
func (h *EntryHandler) LogExpense(c *fiber.Ctx) error {
	var in dto.LogExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	e, err := h.svc.LogExpense(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.EntryCreatedResponse{ID: e.ID})
}
