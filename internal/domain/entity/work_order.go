package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkOrderStatus estado del ciclo de vida de una orden de trabajo.
type WorkOrderStatus string

const (
	WorkOrderPlanned    WorkOrderStatus = "PLANNED"
	WorkOrderInProgress WorkOrderStatus = "IN_PROGRESS"
	WorkOrderCompleted  WorkOrderStatus = "COMPLETED"
	WorkOrderCancelled  WorkOrderStatus = "CANCELLED"
)

// WorkOrder instrucción comprometida de producir Quantity unidades de un BOM.
// Se crea PLANNED solo después de reservar materiales y agendar recursos;
// ReservationID y BookingID son los handles para liberarlos.
type WorkOrder struct {
	ID                  string
	BOMID               string
	ProjectID           string
	Status              WorkOrderStatus
	Quantity            int64
	StartDate           time.Time
	EndDate             time.Time
	AssignedResources   []string
	ActualLaborHours    decimal.Decimal
	ActualMaterialUsage map[string]int64
	ReservationID       string
	BookingID           string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Clone copia profunda (los repos devuelven copias para no compartir mapas).
func (w *WorkOrder) Clone() *WorkOrder {
	if w == nil {
		return nil
	}
	c := *w
	c.AssignedResources = append([]string(nil), w.AssignedResources...)
	if w.ActualMaterialUsage != nil {
		c.ActualMaterialUsage = make(map[string]int64, len(w.ActualMaterialUsage))
		for k, v := range w.ActualMaterialUsage {
			c.ActualMaterialUsage[k] = v
		}
	}
	return &c
}
