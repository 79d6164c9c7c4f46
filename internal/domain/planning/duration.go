package planning

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MaxWindowHours tope de la ventana de producción de una orden (diez años).
const MaxWindowHours int64 = 10 * 366 * 24

// ProductionHours calcula las horas enteras de la ventana de producción:
// ceil(laborHours × quantity / capacity), con un mínimo de una hora.
// Una capacidad no positiva se trata como 1 (una unidad de trabajo por hora).
// Satura en math.MaxInt64 en vez de desbordar.
func ProductionHours(laborHours decimal.Decimal, quantity int64, capacity decimal.Decimal) int64 {
	if !capacity.IsPositive() {
		capacity = decimal.NewFromInt(1)
	}
	work := laborHours.Mul(decimal.NewFromInt(quantity))
	exact := work.Div(capacity).Ceil()
	if exact.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return math.MaxInt64
	}
	hours := exact.IntPart()
	if hours < 1 {
		return 1
	}
	return hours
}

// HourAligned indica si t cae exactamente en el inicio de una hora.
func HourAligned(t time.Time) bool {
	return t.Equal(t.Truncate(time.Hour))
}

// HourSlots devuelve los inicios de hora de [start, end).
func HourSlots(start, end time.Time) []time.Time {
	var slots []time.Time
	for t := start; t.Before(end); t = t.Add(time.Hour) {
		slots = append(slots, t)
	}
	return slots
}
