package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectMetricsDTO métricas de costo y avance de un proyecto.
// Fórmula: total = mano de obra + materiales + gastos
type ProjectMetricsDTO struct {
	ProjectID            string          `json:"project_id"`
	ProjectName          string          `json:"project_name"`
	LaborHours           decimal.Decimal `json:"labor_hours"`
	LaborCost            decimal.Decimal `json:"labor_cost"`    // horas * tarifa
	MaterialCost         decimal.Decimal `json:"material_cost"` // consumo * costo unitario
	ExpenseCost          decimal.Decimal `json:"expense_cost"`
	TotalCost            decimal.Decimal `json:"total_cost"`
	Budget               decimal.Decimal `json:"budget"`
	BudgetVariance       decimal.Decimal `json:"budget_variance"` // budget - total (negativo = sobrecosto)
	ProgressPercentage   *decimal.Decimal `json:"progress_percentage,omitempty"` // nil si el workflow no tiene pasos
	PlannedEndDate       time.Time       `json:"planned_end_date"`
	ForecastEndDate      time.Time       `json:"forecast_end_date"`
	ScheduleVarianceDays decimal.Decimal `json:"schedule_variance_days"` // positivo = atraso
	CriticalPathMinutes  int             `json:"critical_path_minutes"`
	WorkOrders           int             `json:"work_orders"`
	GeneratedAt          time.Time       `json:"generated_at"`
}

// TimeReportEntryDTO línea del reporte de tiempos.
type TimeReportEntryDTO struct {
	ResourceID string          `json:"resource_id"`
	Hours      decimal.Decimal `json:"hours"`
	Entries    int             `json:"entries"`
}

// TimeReportDTO respuesta de GET /api/projects/:id/time-report.
type TimeReportDTO struct {
	ProjectID  string               `json:"project_id"`
	From       *time.Time           `json:"from,omitempty"`
	To         *time.Time           `json:"to,omitempty"`
	TotalHours decimal.Decimal      `json:"total_hours"`
	ByResource []TimeReportEntryDTO `json:"by_resource"`
	Expenses   decimal.Decimal      `json:"expenses"`
}
