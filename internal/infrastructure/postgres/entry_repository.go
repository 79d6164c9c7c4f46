package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.EntryRepository = (*EntryRepo)(nil)

// EntryRepo registros append-only de tiempos y gastos.
type EntryRepo struct {
	q Querier
}

// NewEntryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEntryRepository(q Querier) *EntryRepo {
	return &EntryRepo{q: q}
}

// AppendTime inserta un registro de tiempo.
func (r *EntryRepo) AppendTime(ctx context.Context, e *entity.TimeEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO time_entries (id, resource_id, project_id, work_order_id, start_time, end_time, activity_description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.ResourceID, e.ProjectID, e.WorkOrderID, e.StartTime, e.EndTime, e.ActivityDescription, e.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: registro de tiempo %s ya existe", domain.ErrInvalidInput, e.ID)
		}
		return fmt.Errorf("append time entry: %w", err)
	}
	return nil
}

// AppendExpense inserta un gasto.
func (r *EntryRepo) AppendExpense(ctx context.Context, e *entity.ExpenseEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO expense_entries (id, project_id, amount, description, date, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.ProjectID, e.Amount, e.Description, e.Date, e.Category, e.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: gasto %s ya existe", domain.ErrInvalidInput, e.ID)
		}
		return fmt.Errorf("append expense entry: %w", err)
	}
	return nil
}

// ListTimeByProject registros de tiempo del proyecto con inicio en [from, to].
func (r *EntryRepo) ListTimeByProject(ctx context.Context, projectID string, from, to *time.Time) ([]*entity.TimeEntry, error) {
	query := `
		SELECT id, resource_id, project_id, work_order_id, start_time, end_time, activity_description, created_at
		FROM time_entries WHERE project_id = $1`
	query, args := withRange(query, "start_time", []any{projectID}, from, to)
	query += " ORDER BY start_time"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.TimeEntry
	for rows.Next() {
		var e entity.TimeEntry
		if err := rows.Scan(&e.ID, &e.ResourceID, &e.ProjectID, &e.WorkOrderID, &e.StartTime, &e.EndTime,
			&e.ActivityDescription, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// ListExpensesByProject gastos del proyecto con fecha en [from, to].
func (r *EntryRepo) ListExpensesByProject(ctx context.Context, projectID string, from, to *time.Time) ([]*entity.ExpenseEntry, error) {
	query := `
		SELECT id, project_id, amount, description, date, category, created_at
		FROM expense_entries WHERE project_id = $1`
	query, args := withRange(query, "date", []any{projectID}, from, to)
	query += " ORDER BY date"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expense entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.ExpenseEntry
	for rows.Next() {
		var e entity.ExpenseEntry
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.Amount, &e.Description, &e.Date, &e.Category, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
