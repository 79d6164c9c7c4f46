package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidQuantity     = errors.New("cantidad inválida: debe ser mayor a cero")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrResourceConflict    = errors.New("conflicto de recursos en la ventana solicitada")
	ErrSchedulingTimeout   = errors.New("tiempo de espera agotado al bloquear entidades")
	ErrAlreadyCancelled    = errors.New("la orden de trabajo ya fue cancelada")
	ErrInvalidStatus       = errors.New("transición de estado no permitida")
	ErrUnmetDependency     = errors.New("paso con predecesores pendientes")
	ErrEmptyWorkflow       = errors.New("el flujo de trabajo no tiene pasos")
	ErrInvalidWorkflow     = errors.New("flujo de trabajo inválido")
	ErrReservationReleased = errors.New("la reserva no existe o ya fue liberada")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
)

// Shortfall faltante de un material dentro de una reserva.
type Shortfall struct {
	MaterialID string
	Required   int64
	Available  int64
}

// InsufficientStockError reporta todos los materiales sin stock suficiente.
// errors.Is(err, ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s (requerido %d, disponible %d)", s.MaterialID, s.Required, s.Available))
	}
	return ErrInsufficientStock.Error() + ": " + strings.Join(parts, ", ")
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ResourceConflictError indica qué recursos no están libres en [Start, End).
type ResourceConflictError struct {
	ResourceIDs []string
	Start       time.Time
	End         time.Time
	Reason      string
}

func (e *ResourceConflictError) Error() string {
	msg := fmt.Sprintf("%s [%s, %s)", ErrResourceConflict.Error(),
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
	if len(e.ResourceIDs) > 0 {
		msg += ": " + strings.Join(e.ResourceIDs, ", ")
	}
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *ResourceConflictError) Unwrap() error { return ErrResourceConflict }

// UnmetDependencyError lista los predecesores sin completar de un paso.
type UnmetDependencyError struct {
	StepID  string
	Pending []string
}

func (e *UnmetDependencyError) Error() string {
	return fmt.Sprintf("%s: %s espera %s", ErrUnmetDependency.Error(), e.StepID, strings.Join(e.Pending, ", "))
}

func (e *UnmetDependencyError) Unwrap() error { return ErrUnmetDependency }
