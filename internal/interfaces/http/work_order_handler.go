package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/scheduling"
	"github.com/jhoicas/Produccion-api/internal/domain"
)

const timeLayout = time.RFC3339

// WorkOrderHandler maneja la programación y el ciclo de vida de órdenes de trabajo (protegido).
type WorkOrderHandler struct {
	scheduler *scheduling.Scheduler
}

// NewWorkOrderHandler construye el handler.
func NewWorkOrderHandler(scheduler *scheduling.Scheduler) *WorkOrderHandler {
	return &WorkOrderHandler{scheduler: scheduler}
}

// Schedule godoc
// @Summary      Programar orden de trabajo
// @Description  Verifica materiales, agenda recursos y reserva stock de forma atómica.
// @Tags         work-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScheduleWorkOrderRequest  true  "bom_id, quantity, start_date (hora exacta), resource_ids opcional"
// @Success      201   {object}  dto.WorkOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/work-orders [post]
func (h *WorkOrderHandler) Schedule(c *fiber.Ctx) error {
	var in dto.ScheduleWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.BOMID == "" || in.StartDate.IsZero() {
		return respondError(c, domain.ErrInvalidInput)
	}
	wo, err := h.scheduler.Schedule(c.UserContext(), scheduling.ScheduleRequest{
		BOMID:       in.BOMID,
		Quantity:    in.Quantity,
		Start:       in.StartDate,
		ProjectID:   in.ProjectID,
		ResourceIDs: in.ResourceIDs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.WorkOrderFromEntity(wo))
}

// GetByID godoc
// @Summary      Obtener orden de trabajo
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la orden"
// @Success      200  {object}  dto.WorkOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id} [get]
func (h *WorkOrderHandler) GetByID(c *fiber.Ctx) error {
	wo, err := h.scheduler.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.WorkOrderFromEntity(wo))
}

// Cancel godoc
// @Summary      Cancelar orden de trabajo
// @Description  Libera recursos y materiales. Una segunda cancelación responde 409 ALREADY_CANCELLED.
// @Tags         work-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la orden"
// @Success      200  {object}  dto.WorkOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/work-orders/{id}/cancel [post]
func (h *WorkOrderHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.scheduler.Cancel(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	wo, err := h.scheduler.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.WorkOrderFromEntity(wo))
}

// Start PLANNED -> IN_PROGRESS.
// POST /api/work-orders/:id/start
func (h *WorkOrderHandler) Start(c *fiber.Ctx) error {
	wo, err := h.scheduler.Start(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.WorkOrderFromEntity(wo))
}

// Complete IN_PROGRESS -> COMPLETED con el consumo real.
// POST /api/work-orders/:id/complete
func (h *WorkOrderHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	wo, err := h.scheduler.Complete(c.UserContext(), c.Params("id"), scheduling.CompletionInput{
		LaborHours:    in.ActualLaborHours,
		MaterialUsage: in.ActualMaterialUsage,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.WorkOrderFromEntity(wo))
}
