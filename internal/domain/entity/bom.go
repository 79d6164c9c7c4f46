package entity

import "github.com/shopspring/decimal"

// BOMComponent cantidad de un material requerida por unidad producida.
type BOMComponent struct {
	MaterialID string
	Quantity   int64 // > 0
}

// ResourceRequirement capacidad por hora que debe aportar el subconjunto de recursos de un tipo.
type ResourceRequirement struct {
	Type            ResourceType
	CapacityPerHour decimal.Decimal
}

// BillOfMaterials receta de producción. Inmutable una vez referenciada por una orden
// comprometida: los cambios generan una nueva versión.
type BillOfMaterials struct {
	ID                   string
	ProductID            string
	Version              string
	Components           []BOMComponent
	LaborHours           decimal.Decimal // horas de mano de obra por unidad
	Notes                string
	ResourceRequirements []ResourceRequirement
}

// MaterialIDs devuelve los IDs de material de los componentes, en orden de declaración.
func (b *BillOfMaterials) MaterialIDs() []string {
	ids := make([]string, 0, len(b.Components))
	for _, c := range b.Components {
		ids = append(ids, c.MaterialID)
	}
	return ids
}
