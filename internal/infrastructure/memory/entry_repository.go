package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.EntryRepository = (*EntryRepo)(nil)

// EntryRepo log append-only de tiempos y gastos en memoria.
type EntryRepo struct {
	mu       sync.RWMutex
	times    []entity.TimeEntry
	expenses []entity.ExpenseEntry
}

// NewEntryRepository construye el repositorio.
func NewEntryRepository() *EntryRepo {
	return &EntryRepo{}
}

// AppendTime agrega un registro de tiempo.
func (r *EntryRepo) AppendTime(_ context.Context, e *entity.TimeEntry) error {
	if e == nil || e.ID == "" {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.times = append(r.times, *e)
	return nil
}

// AppendExpense agrega un gasto.
func (r *EntryRepo) AppendExpense(_ context.Context, e *entity.ExpenseEntry) error {
	if e == nil || e.ID == "" {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expenses = append(r.expenses, *e)
	return nil
}

// ListTimeByProject registros de tiempo del proyecto cuyo inicio cae en [from, to].
func (r *EntryRepo) ListTimeByProject(_ context.Context, projectID string, from, to *time.Time) ([]*entity.TimeEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.TimeEntry
	for _, e := range r.times {
		if e.ProjectID != projectID || !inRange(e.StartTime, from, to) {
			continue
		}
		ec := e
		out = append(out, &ec)
	}
	return out, nil
}

// ListExpensesByProject gastos del proyecto con fecha en [from, to].
func (r *EntryRepo) ListExpensesByProject(_ context.Context, projectID string, from, to *time.Time) ([]*entity.ExpenseEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*entity.ExpenseEntry
	for _, e := range r.expenses {
		if e.ProjectID != projectID || !inRange(e.Date, from, to) {
			continue
		}
		ec := e
		out = append(out, &ec)
	}
	return out, nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
