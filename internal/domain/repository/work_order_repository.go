package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// WorkOrderRepository define el puerto de persistencia en memoria de órdenes de trabajo.
type WorkOrderRepository interface {
	Save(ctx context.Context, wo *entity.WorkOrder) error
	GetByID(ctx context.Context, id string) (*entity.WorkOrder, error)
	ListByProject(ctx context.Context, projectID string) ([]*entity.WorkOrder, error)
}
