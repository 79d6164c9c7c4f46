package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

// WorkOrderRepo implementación en memoria de WorkOrderRepository.
type WorkOrderRepo struct {
	mu     sync.RWMutex
	orders map[string]*entity.WorkOrder
}

// NewWorkOrderRepository construye el repositorio.
func NewWorkOrderRepository() *WorkOrderRepo {
	return &WorkOrderRepo{orders: make(map[string]*entity.WorkOrder)}
}

// Save inserta o reemplaza la orden.
func (r *WorkOrderRepo) Save(_ context.Context, wo *entity.WorkOrder) error {
	if wo == nil || wo.ID == "" {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[wo.ID] = wo.Clone()
	return nil
}

// GetByID obtiene una orden por ID.
func (r *WorkOrderRepo) GetByID(_ context.Context, id string) (*entity.WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wo, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return wo.Clone(), nil
}

// ListByProject órdenes de un proyecto ordenadas por fecha de inicio.
func (r *WorkOrderRepo) ListByProject(_ context.Context, projectID string) ([]*entity.WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.WorkOrder
	for _, wo := range r.orders {
		if wo.ProjectID == projectID {
			out = append(out, wo.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
