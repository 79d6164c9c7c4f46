// Package timesheet registra tiempos y gastos de proyectos. Los registros son append-only.
package timesheet

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// Service casos de uso de tiempos y gastos.
type Service struct {
	catalog  repository.CatalogReader
	projects repository.ProjectRepository
	orders   repository.WorkOrderRepository
	entries  repository.EntryRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewService construye el servicio.
func NewService(
	catalog repository.CatalogReader,
	projects repository.ProjectRepository,
	orders repository.WorkOrderRepository,
	entries repository.EntryRepository,
	log *logger.Logger,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		catalog:  catalog,
		projects: projects,
		orders:   orders,
		entries:  entries,
		log:      log.Named("timesheet"),
		now:      time.Now,
	}
}

// LogTime registra horas de un recurso en un proyecto (y opcionalmente en una orden del proyecto).
func (s *Service) LogTime(ctx context.Context, in dto.LogTimeRequest) (*entity.TimeEntry, error) {
	if in.ResourceID == "" || in.ProjectID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.StartTime.IsZero() || !in.EndTime.After(in.StartTime) {
		return nil, fmt.Errorf("%w: end_time debe ser posterior a start_time", domain.ErrInvalidInput)
	}
	if _, err := s.catalog.GetResource(ctx, in.ResourceID); err != nil {
		return nil, fmt.Errorf("recurso %s: %w", in.ResourceID, err)
	}
	if _, err := s.projects.GetByID(ctx, in.ProjectID); err != nil {
		return nil, fmt.Errorf("proyecto %s: %w", in.ProjectID, err)
	}
	if in.WorkOrderID != "" {
		wo, err := s.orders.GetByID(ctx, in.WorkOrderID)
		if err != nil {
			return nil, fmt.Errorf("orden de trabajo %s: %w", in.WorkOrderID, err)
		}
		if wo.ProjectID != in.ProjectID {
			return nil, fmt.Errorf("%w: la orden %s no pertenece al proyecto", domain.ErrInvalidInput, wo.ID)
		}
	}

	e := &entity.TimeEntry{
		ID:                  uuid.New().String(),
		ResourceID:          in.ResourceID,
		ProjectID:           in.ProjectID,
		WorkOrderID:         in.WorkOrderID,
		StartTime:           in.StartTime.UTC(),
		EndTime:             in.EndTime.UTC(),
		ActivityDescription: strings.TrimSpace(in.ActivityDescription),
		CreatedAt:           s.now(),
	}
	if err := s.entries.AppendTime(ctx, e); err != nil {
		return nil, err
	}
	s.log.Debug().Str("project_id", e.ProjectID).Str("resource_id", e.ResourceID).Str("hours", e.Hours().String()).Msg("tiempo registrado")
	return e, nil
}

// LogExpense registra un gasto del proyecto. El monto debe ser positivo.
func (s *Service) LogExpense(ctx context.Context, in dto.LogExpenseRequest) (*entity.ExpenseEntry, error) {
	if in.ProjectID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser positivo", domain.ErrInvalidInput)
	}
	if _, err := s.projects.GetByID(ctx, in.ProjectID); err != nil {
		return nil, fmt.Errorf("proyecto %s: %w", in.ProjectID, err)
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}
	e := &entity.ExpenseEntry{
		ID:          uuid.New().String(),
		ProjectID:   in.ProjectID,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		Date:        date.UTC(),
		Category:    strings.ToUpper(strings.TrimSpace(in.Category)),
		CreatedAt:   s.now(),
	}
	if err := s.entries.AppendExpense(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// TimeReport horas por recurso y gastos del proyecto en el rango [from, to] (ambos opcionales).
func (s *Service) TimeReport(ctx context.Context, projectID string, from, to *time.Time) (*dto.TimeReportDTO, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	times, err := s.entries.ListTimeByProject(ctx, projectID, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.entries.ListExpensesByProject(ctx, projectID, from, to)
	if err != nil {
		return nil, err
	}

	byResource := make(map[string]*dto.TimeReportEntryDTO)
	total := decimal.Zero
	for _, e := range times {
		h := e.Hours()
		total = total.Add(h)
		line, ok := byResource[e.ResourceID]
		if !ok {
			line = &dto.TimeReportEntryDTO{ResourceID: e.ResourceID, Hours: decimal.Zero}
			byResource[e.ResourceID] = line
		}
		line.Hours = line.Hours.Add(h)
		line.Entries++
	}
	lines := make([]dto.TimeReportEntryDTO, 0, len(byResource))
	for _, l := range byResource {
		lines = append(lines, *l)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ResourceID < lines[j].ResourceID })

	spent := decimal.Zero
	for _, e := range expenses {
		spent = spent.Add(e.Amount)
	}
	return &dto.TimeReportDTO{
		ProjectID:  projectID,
		From:       from,
		To:         to,
		TotalHours: total,
		ByResource: lines,
		Expenses:   spent,
	}, nil
}
