package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResourceType variante del recurso; todas comparten capacidad y costo por hora.
type ResourceType string

const (
	ResourceTypeMachine ResourceType = "MACHINE"
	ResourceTypeHuman   ResourceType = "HUMAN"
	ResourceTypeTool    ResourceType = "TOOL"
)

// Valid indica si el tipo es uno de los soportados.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceTypeMachine, ResourceTypeHuman, ResourceTypeTool:
		return true
	}
	return false
}

// Resource máquina, persona o herramienta asignable por horas.
// La disponibilidad por hora vive en el calendario de recursos.
type Resource struct {
	ID              string
	Name            string
	Type            ResourceType
	CapacityPerHour decimal.Decimal
	CostPerHour     decimal.Decimal
}

// AvailabilityWindow turno [Start, End) en el que un recurso está disponible.
type AvailabilityWindow struct {
	ResourceID string
	Start      time.Time
	End        time.Time
}
