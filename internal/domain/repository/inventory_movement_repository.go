package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// InventoryMovementRepository define el puerto para el log de movimientos de stock.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	ListByMaterial(ctx context.Context, materialID string) ([]*entity.InventoryMovement, error)
}
