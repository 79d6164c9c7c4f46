package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Produccion-api/internal/application/scheduling"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/planning"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var (
	_ scheduling.Committer   = (*TxCommitter)(nil)
	_ repository.StateLoader = (*TxCommitter)(nil)
)

// TxCommitter persiste cada cambio del scheduler (orden, stock resultante y horas de recursos)
// en una sola transacción PostgreSQL.
type TxCommitter struct {
	pool *pgxpool.Pool
}

// NewTxCommitter construye el committer con el pool.
func NewTxCommitter(pool *pgxpool.Pool) *TxCommitter {
	return &TxCommitter{pool: pool}
}

// Commit inicia una transacción, escribe el cambio y hace Commit o Rollback.
func (c *TxCommitter) Commit(ctx context.Context, change scheduling.Change) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := writeChange(ctx, tx, change); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func writeChange(ctx context.Context, tx pgx.Tx, change scheduling.Change) error {
	if change.WorkOrder != nil {
		if err := upsertWorkOrder(ctx, tx, change.WorkOrder); err != nil {
			return err
		}
	}

	batch := &pgx.Batch{}
	for materialID, qty := range change.StockLevels {
		batch.Queue(`UPDATE materials SET stock_quantity = $2, updated_at = now() WHERE id = $1`, materialID, qty)
	}
	if change.Slots != nil {
		for _, resourceID := range change.Slots.ResourceIDs {
			for _, slot := range planning.HourSlots(change.Slots.Start, change.Slots.End) {
				batch.Queue(`
					INSERT INTO resource_slots (resource_id, slot_start, busy, updated_at)
					VALUES ($1, $2, $3, now())
					ON CONFLICT (resource_id, slot_start)
					DO UPDATE SET busy = EXCLUDED.busy, updated_at = now()`,
					resourceID, slot, change.Slots.Busy)
			}
		}
	}
	if batch.Len() == 0 {
		return nil
	}
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("persistir %s: %w", change.Kind, err)
		}
	}
	return br.Close()
}

func upsertWorkOrder(ctx context.Context, q Querier, wo *entity.WorkOrder) error {
	usage := wo.ActualMaterialUsage
	if usage == nil {
		usage = map[string]int64{}
	}
	resources := wo.AssignedResources
	if resources == nil {
		resources = []string{}
	}
	_, err := q.Exec(ctx, `
		INSERT INTO work_orders (id, bom_id, project_id, status, quantity, start_date, end_date,
			assigned_resources, actual_labor_hours, actual_material_usage, reservation_id, booking_id,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			assigned_resources = EXCLUDED.assigned_resources,
			actual_labor_hours = EXCLUDED.actual_labor_hours,
			actual_material_usage = EXCLUDED.actual_material_usage,
			updated_at = EXCLUDED.updated_at`,
		wo.ID, wo.BOMID, wo.ProjectID, string(wo.Status), wo.Quantity, wo.StartDate, wo.EndDate,
		resources, wo.ActualLaborHours, usage, wo.ReservationID, wo.BookingID,
		wo.CreatedAt, wo.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert work order: %w", err)
	}
	return nil
}

// LoadState implementa repository.StateLoader.
func (c *TxCommitter) LoadState(ctx context.Context) (*repository.PersistedState, error) {
	state := &repository.PersistedState{StockLevels: make(map[string]int64)}

	rows, err := c.pool.Query(ctx, `
		SELECT id, bom_id, project_id, status, quantity, start_date, end_date, assigned_resources,
			actual_labor_hours, actual_material_usage, reservation_id, booking_id, created_at, updated_at
		FROM work_orders ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	for rows.Next() {
		var wo entity.WorkOrder
		var status string
		if err := rows.Scan(&wo.ID, &wo.BOMID, &wo.ProjectID, &status, &wo.Quantity, &wo.StartDate,
			&wo.EndDate, &wo.AssignedResources, &wo.ActualLaborHours, &wo.ActualMaterialUsage,
			&wo.ReservationID, &wo.BookingID, &wo.CreatedAt, &wo.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan work order: %w", err)
		}
		wo.Status = entity.WorkOrderStatus(status)
		wo.StartDate, wo.EndDate = wo.StartDate.UTC(), wo.EndDate.UTC()
		state.WorkOrders = append(state.WorkOrders, &wo)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stock, err := c.pool.Query(ctx, `SELECT id, stock_quantity FROM materials`)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer stock.Close()
	for stock.Next() {
		var id string
		var qty int64
		if err := stock.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		state.StockLevels[id] = qty
	}
	return state, stock.Err()
}
