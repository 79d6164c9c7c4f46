package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/application/scheduling"
	"github.com/jhoicas/Produccion-api/internal/domain"
)

// InventoryHandler consultas de disponibilidad, reposición y recepciones de stock (protegido).
type InventoryHandler struct {
	scheduler     *scheduling.Scheduler
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(scheduler *scheduling.Scheduler, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{scheduler: scheduler, replenishment: replenishment}
}

// Availability godoc
// @Summary      Disponibilidad de materiales para un BOM
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        bom_id    query  string  true  "ID del BOM"
// @Param        quantity  query  int     true  "Unidades a producir"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/availability [get]
func (h *InventoryHandler) Availability(c *fiber.Ctx) error {
	bomID := c.Query("bom_id")
	quantity := int64(c.QueryInt("quantity", 0))
	if bomID == "" {
		return respondError(c, domain.ErrInvalidInput)
	}
	ok, err := h.scheduler.CheckMaterialAvailability(c.UserContext(), bomID, quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AvailabilityResponse{BOMID: bomID, Quantity: quantity, Available: ok})
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Materiales en o bajo su punto de reorden con la cantidad sugerida de pedido,
//
//	ordenados por lead time y consumo de los últimos 90 días.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}

// Receive godoc
// @Summary      Registrar recepción de material
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveStockRequest  true  "material_id, quantity"
// @Success      201   {object}  dto.StockLevelDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/receipts [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.MaterialID == "" {
		return respondError(c, domain.ErrInvalidInput)
	}
	stock, err := h.scheduler.ReceiveStock(c.UserContext(), in.MaterialID, in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StockLevelDTO{MaterialID: in.MaterialID, StockQuantity: stock})
}
