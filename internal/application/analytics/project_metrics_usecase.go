// Package analytics contiene el roll-up de costos y avance de proyectos.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/workflow"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Produccion-api/internal/domain/inventory"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// ProjectMetricsUseCase calcula costo total, avance y variaciones de un proyecto.
//
// Mano de obra: horas registradas × tarifa configurada.
// Materiales: consumo real de las órdenes completadas × costo unitario.
// Gastos: suma de ExpenseEntry.
type ProjectMetricsUseCase struct {
	tracker   *workflow.Tracker
	catalog   repository.CatalogReader
	orders    repository.WorkOrderRepository
	entries   repository.EntryRepository
	laborRate decimal.Decimal
	now       func() time.Time
}

// NewProjectMetricsUseCase construye el caso de uso.
func NewProjectMetricsUseCase(
	tracker *workflow.Tracker,
	catalog repository.CatalogReader,
	orders repository.WorkOrderRepository,
	entries repository.EntryRepository,
	laborRate decimal.Decimal,
) *ProjectMetricsUseCase {
	return &ProjectMetricsUseCase{
		tracker:   tracker,
		catalog:   catalog,
		orders:    orders,
		entries:   entries,
		laborRate: laborRate,
		now:       time.Now,
	}
}

// GetProjectMetrics construye el ProjectMetricsDTO y guarda el costo real en el proyecto.
//
// Tres lecturas en paralelo:
//  1. órdenes de trabajo del proyecto
//  2. registros de tiempo
//  3. gastos
func (uc *ProjectMetricsUseCase) GetProjectMetrics(ctx context.Context, projectID string) (*dto.ProjectMetricsDTO, error) {
	p, err := uc.tracker.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	type ordersResult struct {
		orders []*entity.WorkOrder
		err    error
	}
	type timesResult struct {
		entries []*entity.TimeEntry
		err     error
	}
	type expensesResult struct {
		entries []*entity.ExpenseEntry
		err     error
	}
	ordersCh := make(chan ordersResult, 1)
	timesCh := make(chan timesResult, 1)
	expensesCh := make(chan expensesResult, 1)

	go func() {
		o, err := uc.orders.ListByProject(ctx, projectID)
		ordersCh <- ordersResult{o, err}
	}()
	go func() {
		e, err := uc.entries.ListTimeByProject(ctx, projectID, nil, nil)
		timesCh <- timesResult{e, err}
	}()
	go func() {
		e, err := uc.entries.ListExpensesByProject(ctx, projectID, nil, nil)
		expensesCh <- expensesResult{e, err}
	}()

	ords := <-ordersCh
	times := <-timesCh
	exps := <-expensesCh
	if ords.err != nil {
		return nil, fmt.Errorf("analytics: órdenes: %w", ords.err)
	}
	if times.err != nil {
		return nil, fmt.Errorf("analytics: tiempos: %w", times.err)
	}
	if exps.err != nil {
		return nil, fmt.Errorf("analytics: gastos: %w", exps.err)
	}

	// ── Costos ────────────────────────────────────────────────────────────────
	hours := decimal.Zero
	for _, e := range times.entries {
		hours = hours.Add(e.Hours())
	}
	laborCost := domaininv.LaborCost(hours, uc.laborRate)

	materialCost, err := uc.materialCost(ctx, ords.orders)
	if err != nil {
		return nil, err
	}

	expenseCost := decimal.Zero
	for _, e := range exps.entries {
		expenseCost = expenseCost.Add(e.Amount)
	}
	total := laborCost.Add(materialCost).Add(expenseCost)

	// ── Avance y cronograma ───────────────────────────────────────────────────
	now := uc.now()
	out := &dto.ProjectMetricsDTO{
		ProjectID:           p.ID,
		ProjectName:         p.Name,
		LaborHours:          hours.Round(2),
		LaborCost:           laborCost.Round(2),
		MaterialCost:        materialCost.Round(2),
		ExpenseCost:         expenseCost.Round(2),
		TotalCost:           total.Round(2),
		Budget:              p.Budget,
		BudgetVariance:      p.Budget.Sub(total).Round(2),
		PlannedEndDate:      p.EndDate,
		CriticalPathMinutes: p.Workflow.Workflow.TotalEstimatedDuration,
		WorkOrders:          countActive(ords.orders),
		GeneratedAt:         now,
	}

	pct, err := uc.tracker.ProgressPercentage(ctx, projectID)
	switch {
	case err == nil:
		out.ProgressPercentage = &pct
	case errors.Is(err, domain.ErrEmptyWorkflow):
	default:
		return nil, err
	}

	remaining, err := uc.tracker.RemainingDuration(ctx, projectID)
	if err != nil {
		return nil, err
	}
	from := now
	if p.StartDate.After(now) {
		from = p.StartDate
	}
	out.ForecastEndDate = from.Add(time.Duration(remaining) * time.Minute)
	out.ScheduleVarianceDays = varianceDays(out.ForecastEndDate.Sub(p.EndDate))

	if err := uc.tracker.RecordActualCost(ctx, projectID, out.TotalCost); err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *ProjectMetricsUseCase) materialCost(ctx context.Context, orders []*entity.WorkOrder) (decimal.Decimal, error) {
	usage := make(map[string]int64)
	for _, wo := range orders {
		if wo.Status != entity.WorkOrderCompleted {
			continue
		}
		for id, qty := range wo.ActualMaterialUsage {
			usage[id] += qty
		}
	}
	unitCosts := make(map[string]decimal.Decimal, len(usage))
	for id := range usage {
		m, err := uc.catalog.GetMaterial(ctx, id)
		if err != nil {
			return decimal.Zero, fmt.Errorf("material %s: %w", id, err)
		}
		unitCosts[id] = m.UnitCost
	}
	return domaininv.MaterialCost(usage, unitCosts), nil
}

func countActive(orders []*entity.WorkOrder) int {
	n := 0
	for _, wo := range orders {
		if wo.Status != entity.WorkOrderCancelled {
			n++
		}
	}
	return n
}

// varianceDays diferencia en días con dos decimales; positivo = atraso.
func varianceDays(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d / time.Minute)).Div(decimal.NewFromInt(24 * 60)).Round(2)
}
