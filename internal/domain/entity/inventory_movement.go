package entity

import "time"

// Tipos de movimiento de stock de materiales.
const (
	MovementTypeReceive = "RECEIVE" // entrada de compra
	MovementTypeReserve = "RESERVE" // reserva para orden de trabajo
	MovementTypeRelease = "RELEASE" // liberación por cancelación
	MovementTypeConsume = "CONSUME" // consumo al completar la orden
)

// InventoryMovement registro append-only de un cambio de stock de un material.
// Quantity es positivo si suma stock y negativo si lo resta; CONSUME lleva 0
// porque el stock ya fue descontado al reservar.
type InventoryMovement struct {
	ID            string
	ReservationID string
	MaterialID    string
	Type          string
	Quantity      int64
	StockAfter    int64
	Date          time.Time
}
