package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, movement *entity.InventoryMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_movements (id, reservation_id, material_id, type, quantity, stock_after, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		movement.ID, movement.ReservationID, movement.MaterialID, movement.Type,
		movement.Quantity, movement.StockAfter, movement.Date,
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// ListByMaterial lista los movimientos de un material en orden cronológico.
func (r *InventoryMovementRepo) ListByMaterial(ctx context.Context, materialID string) ([]*entity.InventoryMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, reservation_id, material_id, type, quantity, stock_after, date
		FROM inventory_movements WHERE material_id = $1 ORDER BY date`, materialID)
	if err != nil {
		return nil, fmt.Errorf("list by material: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		if err := rows.Scan(&m.ID, &m.ReservationID, &m.MaterialID, &m.Type, &m.Quantity, &m.StockAfter, &m.Date); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
