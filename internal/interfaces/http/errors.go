package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
)

type shortfallDetail struct {
	MaterialID string `json:"material_id"`
	Required   int64  `json:"required"`
	Available  int64  `json:"available"`
}

type conflictDetail struct {
	ResourceIDs []string `json:"resource_ids"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Reason      string   `json:"reason,omitempty"`
}

type dependencyDetail struct {
	StepID  string   `json:"step_id"`
	Pending []string `json:"pending"`
}

// respondError traduce errores de dominio a código HTTP + dto.ErrorResponse.
func respondError(c *fiber.Ctx, err error) error {
	var (
		stock    *domain.InsufficientStockError
		conflict *domain.ResourceConflictError
		unmet    *domain.UnmetDependencyError
	)
	switch {
	case errors.As(err, &stock):
		details := make([]shortfallDetail, 0, len(stock.Shortfalls))
		for _, s := range stock.Shortfalls {
			details = append(details, shortfallDetail{MaterialID: s.MaterialID, Required: s.Required, Available: s.Available})
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente", Details: details})
	case errors.As(err, &conflict):
		ids := conflict.ResourceIDs
		if ids == nil {
			ids = []string{}
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "RESOURCE_CONFLICT",
			Message: "recursos no disponibles en la ventana",
			Details: conflictDetail{
				ResourceIDs: ids,
				Start:       conflict.Start.Format(timeLayout),
				End:         conflict.End.Format(timeLayout),
				Reason:      conflict.Reason,
			},
		})
	case errors.As(err, &unmet):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "UNMET_DEPENDENCY",
			Message: "el paso tiene predecesores pendientes",
			Details: dependencyDetail{StepID: unmet.StepID, Pending: unmet.Pending},
		})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrResourceConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RESOURCE_CONFLICT", Message: "recursos no disponibles en la ventana"})
	case errors.Is(err, domain.ErrUnmetDependency):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "UNMET_DEPENDENCY", Message: "el paso tiene predecesores pendientes"})
	case errors.Is(err, domain.ErrSchedulingTimeout):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "SCHEDULING_TIMEOUT", Message: "entidades ocupadas, intente más tarde"})
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_CANCELLED", Message: "la orden de trabajo ya fue cancelada"})
	case errors.Is(err, domain.ErrInvalidStatus):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATUS", Message: err.Error()})
	case errors.Is(err, domain.ErrReservationReleased):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RESERVATION_RELEASED", Message: "la reserva ya fue liberada"})
	case errors.Is(err, domain.ErrEmptyWorkflow):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "EMPTY_WORKFLOW", Message: "el flujo de trabajo no tiene pasos"})
	case errors.Is(err, domain.ErrInvalidWorkflow):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_WORKFLOW", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autorizado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
