package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo log de movimientos de stock en memoria.
type InventoryMovementRepo struct {
	mu        sync.RWMutex
	movements []entity.InventoryMovement
}

// NewInventoryMovementRepository construye el repositorio.
func NewInventoryMovementRepository() *InventoryMovementRepo {
	return &InventoryMovementRepo{}
}

// Create agrega un movimiento.
func (r *InventoryMovementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	if m == nil || m.MaterialID == "" {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *m)
	return nil
}

// ListByMaterial movimientos de un material en orden de registro.
func (r *InventoryMovementRepo) ListByMaterial(_ context.Context, materialID string) ([]*entity.InventoryMovement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.InventoryMovement
	for _, m := range r.movements {
		if m.MaterialID == materialID {
			mc := m
			out = append(out, &mc)
		}
	}
	return out, nil
}
