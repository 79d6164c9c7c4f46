package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición de materiales.
// Combina el stock del ledger con el consumo reciente para priorizar los materiales críticos.
type ReplenishmentUseCase struct {
	ledger    *Ledger
	movements repository.InventoryMovementRepository
	now       func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso. movements puede ser nil (sin historial).
func NewReplenishmentUseCase(ledger *Ledger, movements repository.InventoryMovementRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{ledger: ledger, movements: movements, now: time.Now}
}

// GenerateReplenishmentList devuelve los materiales en o bajo el punto de reorden con la
// cantidad sugerida de pedido y un ranking de prioridad.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	items := uc.ledger.BelowReorderPoint()
	if len(items) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	since := uc.now().AddDate(0, 0, -90)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(items))
	for _, m := range items {
		ideal := decimal.NewFromInt(m.ReorderPoint).Mul(decimal.NewFromFloat(1.5)).Ceil().IntPart()
		suggested := ideal - m.StockQuantity
		if suggested < 0 {
			suggested = 0
		}
		consumed, err := uc.consumedSince(ctx, m.ID, since)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			MaterialID:         m.ID,
			MaterialName:       m.Name,
			CurrentStock:       m.StockQuantity,
			ReorderPoint:       m.ReorderPoint,
			IdealStock:         ideal,
			SuggestedOrderQty:  suggested,
			UnitCost:           m.UnitCost,
			EstimatedOrderCost: m.UnitCost.Mul(decimal.NewFromInt(suggested)),
			LeadTimeDays:       m.LeadTimeDays,
			ConsumedLast90Days: consumed,
		})
	}

	// Primero mayor tiempo de entrega, luego mayor consumo reciente,
	// finalmente mayor déficit bajo el reorden.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.LeadTimeDays != b.LeadTimeDays {
			return a.LeadTimeDays > b.LeadTimeDays
		}
		if a.ConsumedLast90Days != b.ConsumedLast90Days {
			return a.ConsumedLast90Days > b.ConsumedLast90Days
		}
		return a.ReorderPoint-a.CurrentStock > b.ReorderPoint-b.CurrentStock
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

// consumedSince unidades reservadas netas (reservas - liberaciones) desde since.
func (uc *ReplenishmentUseCase) consumedSince(ctx context.Context, materialID string, since time.Time) (int64, error) {
	if uc.movements == nil {
		return 0, nil
	}
	movs, err := uc.movements.ListByMaterial(ctx, materialID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, mv := range movs {
		if mv.Date.Before(since) {
			continue
		}
		switch mv.Type {
		case entity.MovementTypeReserve, entity.MovementTypeRelease:
			total -= mv.Quantity
		}
	}
	if total < 0 {
		total = 0
	}
	return total, nil
}
