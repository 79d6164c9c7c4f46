package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// CatalogReader puerto de lectura del catálogo compartido (BOM, recursos, materiales, plantillas).
// Las implementaciones devuelven domain.ErrNotFound si el ID no existe.
type CatalogReader interface {
	GetBOM(ctx context.Context, id string) (*entity.BillOfMaterials, error)
	GetMaterial(ctx context.Context, id string) (*entity.Material, error)
	GetResource(ctx context.Context, id string) (*entity.Resource, error)
	GetWorkflowTemplate(ctx context.Context, id string) (*entity.Workflow, error)
	ListResourcesByType(ctx context.Context, t entity.ResourceType) ([]*entity.Resource, error)
}

// CatalogWriter carga de datos de referencia en el store del catálogo.
type CatalogWriter interface {
	PutMaterial(m entity.Material) error
	PutBOM(b entity.BillOfMaterials) error
	PutResource(r entity.Resource) error
	PutWorkflowTemplate(w entity.Workflow) error
}

// CatalogSeed datos de referencia completos leídos de una fuente (archivo o BD).
type CatalogSeed struct {
	Materials []entity.Material
	BOMs      []entity.BillOfMaterials
	Resources []entity.Resource
	Windows   []entity.AvailabilityWindow
	Workflows []entity.Workflow
}

// CatalogSource fuente de datos de referencia.
type CatalogSource interface {
	Load(ctx context.Context) (*CatalogSeed, error)
}

// PersistedState estado operativo guardado por un Committer (órdenes y stock resultante).
type PersistedState struct {
	WorkOrders  []*entity.WorkOrder
	StockLevels map[string]int64
}

// StateLoader lee el último estado persistido para reconstruir el motor al arrancar.
type StateLoader interface {
	LoadState(ctx context.Context) (*PersistedState, error)
}
