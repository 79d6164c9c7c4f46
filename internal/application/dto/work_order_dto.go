package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ScheduleWorkOrderRequest body para POST /api/work-orders.
type ScheduleWorkOrderRequest struct {
	BOMID       string    `json:"bom_id"`
	Quantity    int64     `json:"quantity"`
	StartDate   time.Time `json:"start_date"`             // alineada a la hora (UTC)
	ProjectID   string    `json:"project_id,omitempty"`
	ResourceIDs []string  `json:"resource_ids,omitempty"` // vacío = selección automática
}

// CompleteWorkOrderRequest body para POST /api/work-orders/:id/complete.
type CompleteWorkOrderRequest struct {
	ActualLaborHours    decimal.Decimal  `json:"actual_labor_hours"`
	ActualMaterialUsage map[string]int64 `json:"actual_material_usage"`
}

// WorkOrderResponse orden de trabajo.
type WorkOrderResponse struct {
	ID                  string           `json:"id"`
	BOMID               string           `json:"bom_id"`
	ProjectID           string           `json:"project_id,omitempty"`
	Status              string           `json:"status"`
	Quantity            int64            `json:"quantity"`
	StartDate           time.Time        `json:"start_date"`
	EndDate             time.Time        `json:"end_date"`
	AssignedResources   []string         `json:"assigned_resources"`
	ActualLaborHours    decimal.Decimal  `json:"actual_labor_hours"`
	ActualMaterialUsage map[string]int64 `json:"actual_material_usage"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// WorkOrderFromEntity mapea la entidad a la respuesta.
func WorkOrderFromEntity(wo *entity.WorkOrder) WorkOrderResponse {
	resources := wo.AssignedResources
	if resources == nil {
		resources = []string{}
	}
	usage := wo.ActualMaterialUsage
	if usage == nil {
		usage = map[string]int64{}
	}
	return WorkOrderResponse{
		ID:                  wo.ID,
		BOMID:               wo.BOMID,
		ProjectID:           wo.ProjectID,
		Status:              string(wo.Status),
		Quantity:            wo.Quantity,
		StartDate:           wo.StartDate,
		EndDate:             wo.EndDate,
		AssignedResources:   resources,
		ActualLaborHours:    wo.ActualLaborHours,
		ActualMaterialUsage: usage,
		CreatedAt:           wo.CreatedAt,
		UpdatedAt:           wo.UpdatedAt,
	}
}

// AvailabilityResponse respuesta de GET /api/inventory/availability.
type AvailabilityResponse struct {
	BOMID     string `json:"bom_id"`
	Quantity  int64  `json:"quantity"`
	Available bool   `json:"available"`
}
