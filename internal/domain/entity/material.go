package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material insumo de producción con stock propio.
// StockQuantity nunca es negativo; solo el Ledger lo modifica.
type Material struct {
	ID            string
	Name          string
	Description   string
	UnitCost      decimal.Decimal // costo unitario exacto
	StockQuantity int64
	ReorderPoint  int64
	LeadTimeDays  int
	UpdatedAt     time.Time
}

// BelowReorderPoint indica si el stock está en o por debajo del punto de reorden.
func (m Material) BelowReorderPoint() bool {
	return m.StockQuantity <= m.ReorderPoint
}
