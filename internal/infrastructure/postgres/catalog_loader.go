package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.CatalogSource = (*CatalogLoader)(nil)

// CatalogLoader lee los datos de referencia desde PostgreSQL.
type CatalogLoader struct {
	q Querier
}

// NewCatalogLoader construye el loader. Pasar pool o tx (Querier).
func NewCatalogLoader(q Querier) *CatalogLoader {
	return &CatalogLoader{q: q}
}

// Load implementa repository.CatalogSource.
func (l *CatalogLoader) Load(ctx context.Context) (*repository.CatalogSeed, error) {
	seed := &repository.CatalogSeed{}
	var err error
	if seed.Materials, err = l.materials(ctx); err != nil {
		return nil, err
	}
	if seed.BOMs, err = l.boms(ctx); err != nil {
		return nil, err
	}
	if seed.Resources, err = l.resources(ctx); err != nil {
		return nil, err
	}
	if seed.Windows, err = l.windows(ctx); err != nil {
		return nil, err
	}
	if seed.Workflows, err = l.workflows(ctx); err != nil {
		return nil, err
	}
	return seed, nil
}

func (l *CatalogLoader) materials(ctx context.Context) ([]entity.Material, error) {
	rows, err := l.q.Query(ctx, `
		SELECT id, name, description, unit_cost, stock_quantity, reorder_point, lead_time_days, updated_at
		FROM materials ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	var list []entity.Material
	for rows.Next() {
		var m entity.Material
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.UnitCost, &m.StockQuantity,
			&m.ReorderPoint, &m.LeadTimeDays, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (l *CatalogLoader) boms(ctx context.Context) ([]entity.BillOfMaterials, error) {
	rows, err := l.q.Query(ctx, `SELECT id, product_id, version, labor_hours, notes FROM boms ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list boms: %w", err)
	}
	var list []entity.BillOfMaterials
	index := make(map[string]int)
	for rows.Next() {
		var b entity.BillOfMaterials
		if err := rows.Scan(&b.ID, &b.ProductID, &b.Version, &b.LaborHours, &b.Notes); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan bom: %w", err)
		}
		index[b.ID] = len(list)
		list = append(list, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	comps, err := l.q.Query(ctx, `SELECT bom_id, material_id, quantity FROM bom_components ORDER BY bom_id, material_id`)
	if err != nil {
		return nil, fmt.Errorf("list bom components: %w", err)
	}
	for comps.Next() {
		var bomID string
		var c entity.BOMComponent
		if err := comps.Scan(&bomID, &c.MaterialID, &c.Quantity); err != nil {
			comps.Close()
			return nil, fmt.Errorf("scan bom component: %w", err)
		}
		if i, ok := index[bomID]; ok {
			list[i].Components = append(list[i].Components, c)
		}
	}
	comps.Close()
	if err := comps.Err(); err != nil {
		return nil, err
	}

	reqs, err := l.q.Query(ctx, `
		SELECT bom_id, type, capacity_per_hour FROM bom_resource_requirements ORDER BY bom_id, position`)
	if err != nil {
		return nil, fmt.Errorf("list bom requirements: %w", err)
	}
	defer reqs.Close()
	for reqs.Next() {
		var bomID, typ string
		var rq entity.ResourceRequirement
		if err := reqs.Scan(&bomID, &typ, &rq.CapacityPerHour); err != nil {
			return nil, fmt.Errorf("scan bom requirement: %w", err)
		}
		rq.Type = entity.ResourceType(typ)
		if i, ok := index[bomID]; ok {
			list[i].ResourceRequirements = append(list[i].ResourceRequirements, rq)
		}
	}
	return list, reqs.Err()
}

func (l *CatalogLoader) resources(ctx context.Context) ([]entity.Resource, error) {
	rows, err := l.q.Query(ctx, `SELECT id, name, type, capacity_per_hour, cost_per_hour FROM resources ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()
	var list []entity.Resource
	for rows.Next() {
		var r entity.Resource
		var typ string
		if err := rows.Scan(&r.ID, &r.Name, &typ, &r.CapacityPerHour, &r.CostPerHour); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		r.Type = entity.ResourceType(typ)
		list = append(list, r)
	}
	return list, rows.Err()
}

func (l *CatalogLoader) windows(ctx context.Context) ([]entity.AvailabilityWindow, error) {
	rows, err := l.q.Query(ctx, `
		SELECT resource_id, start_at, end_at FROM resource_availability ORDER BY resource_id, start_at`)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	defer rows.Close()
	var list []entity.AvailabilityWindow
	for rows.Next() {
		var w entity.AvailabilityWindow
		if err := rows.Scan(&w.ResourceID, &w.Start, &w.End); err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		w.Start, w.End = w.Start.UTC(), w.End.UTC()
		list = append(list, w)
	}
	return list, rows.Err()
}

func (l *CatalogLoader) workflows(ctx context.Context) ([]entity.Workflow, error) {
	rows, err := l.q.Query(ctx, `SELECT id, name FROM workflows ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	var list []entity.Workflow
	index := make(map[string]int)
	for rows.Next() {
		var w entity.Workflow
		if err := rows.Scan(&w.ID, &w.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		index[w.ID] = len(list)
		list = append(list, w)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	steps, err := l.q.Query(ctx, `
		SELECT workflow_id, id, name, description, estimated_duration, required_resources, predecessor_steps
		FROM workflow_steps ORDER BY workflow_id, position`)
	if err != nil {
		return nil, fmt.Errorf("list workflow steps: %w", err)
	}
	defer steps.Close()
	for steps.Next() {
		var wfID string
		var s entity.WorkflowStep
		if err := steps.Scan(&wfID, &s.ID, &s.Name, &s.Description, &s.EstimatedDuration,
			&s.RequiredResources, &s.PredecessorSteps); err != nil {
			return nil, fmt.Errorf("scan workflow step: %w", err)
		}
		if i, ok := index[wfID]; ok {
			list[i].Steps = append(list[i].Steps, s)
		}
	}
	return list, steps.Err()
}
