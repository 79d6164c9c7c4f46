package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// EntryRepository log append-only de tiempos y gastos. No hay Update ni Delete.
type EntryRepository interface {
	AppendTime(ctx context.Context, e *entity.TimeEntry) error
	AppendExpense(ctx context.Context, e *entity.ExpenseEntry) error
	ListTimeByProject(ctx context.Context, projectID string, from, to *time.Time) ([]*entity.TimeEntry, error)
	ListExpensesByProject(ctx context.Context, projectID string, from, to *time.Time) ([]*entity.ExpenseEntry, error)
}
