// Package workflow mantiene el avance de la instancia de workflow de cada proyecto.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/locks"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/planning"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// CreateProjectInput datos para instanciar un proyecto sobre una plantilla.
type CreateProjectInput struct {
	Name        string
	Description string
	WorkflowID  string
	StartDate   time.Time
	Budget      decimal.Decimal
}

// Progress avance de un proyecto.
type Progress struct {
	Percentage        decimal.Decimal
	CompletedSteps    int
	TotalSteps        int
	RemainingDuration int // minutos
}

// Tracker crea proyectos y registra la finalización de pasos.
type Tracker struct {
	catalog  repository.CatalogReader
	projects repository.ProjectRepository
	locks    *locks.Manager
	log      *logger.Logger
	now      func() time.Time
}

// NewTracker construye el tracker.
func NewTracker(catalog repository.CatalogReader, projects repository.ProjectRepository, lm *locks.Manager, log *logger.Logger) *Tracker {
	if log == nil {
		log = logger.Nop()
	}
	return &Tracker{
		catalog:  catalog,
		projects: projects,
		locks:    lm,
		log:      log.Named("workflow"),
		now:      time.Now,
	}
}

// CreateProject copia la plantilla (la instancia es propia del proyecto), valida el DAG y
// calcula una sola vez la ruta crítica y la fecha de fin.
func (t *Tracker) CreateProject(ctx context.Context, in CreateProjectInput) (*entity.Project, error) {
	if strings.TrimSpace(in.Name) == "" || in.WorkflowID == "" || in.StartDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if in.Budget.IsNegative() {
		return nil, fmt.Errorf("%w: presupuesto negativo", domain.ErrInvalidInput)
	}
	tpl, err := t.catalog.GetWorkflowTemplate(ctx, in.WorkflowID)
	if err != nil {
		return nil, fmt.Errorf("workflow %s: %w", in.WorkflowID, err)
	}
	wf := tpl.Clone()

	var cp planning.CriticalPath
	if len(wf.Steps) > 0 {
		order, err := planning.TopologicalOrder(wf.Steps)
		if err != nil {
			return nil, err
		}
		cp = planning.LongestPath(wf.Steps, order, func(s entity.WorkflowStep) int { return s.EstimatedDuration })
	}
	wf.TotalEstimatedDuration = cp.Duration

	start := in.StartDate.UTC()
	p := &entity.Project{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		StartDate:   start,
		EndDate:     start.Add(time.Duration(cp.Duration) * time.Minute),
		Workflow: entity.WorkflowInstance{
			Workflow:     wf,
			Completed:    make(map[string]bool, len(wf.Steps)),
			CriticalPath: cp.Steps,
		},
		Budget:     in.Budget,
		ActualCost: decimal.Zero,
		CreatedAt:  t.now(),
	}
	if err := t.projects.Save(ctx, p); err != nil {
		return nil, err
	}
	t.log.Info().
		Str("project_id", p.ID).
		Str("workflow_id", wf.ID).
		Int("critical_path_minutes", cp.Duration).
		Msg("proyecto creado")
	return p.Clone(), nil
}

// Get devuelve un proyecto.
func (t *Tracker) Get(ctx context.Context, projectID string) (*entity.Project, error) {
	return t.projects.GetByID(ctx, projectID)
}

// CompleteStep marca un paso como completado. Falla con *domain.UnmetDependencyError si algún
// predecesor sigue abierto. Completar un paso ya completado no cambia nada.
func (t *Tracker) CompleteStep(ctx context.Context, projectID, stepID string) (*entity.Project, error) {
	lease, err := t.locks.Acquire(ctx, locks.ProjectKey(projectID))
	if err != nil {
		return nil, err
	}
	defer lease.Release()

	p, err := t.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	step, ok := findStep(p.Workflow.Workflow, stepID)
	if !ok {
		return nil, fmt.Errorf("paso %s: %w", stepID, domain.ErrNotFound)
	}
	if p.Workflow.Completed[stepID] {
		return p, nil
	}
	var pending []string
	for _, pred := range step.PredecessorSteps {
		if !p.Workflow.Completed[pred] {
			pending = append(pending, pred)
		}
	}
	if len(pending) > 0 {
		return nil, &domain.UnmetDependencyError{StepID: stepID, Pending: pending}
	}

	if p.Workflow.Completed == nil {
		p.Workflow.Completed = make(map[string]bool)
	}
	p.Workflow.Completed[stepID] = true
	if err := t.projects.Save(ctx, p); err != nil {
		return nil, err
	}
	t.log.Debug().Str("project_id", projectID).Str("step_id", stepID).Msg("paso completado")
	return p, nil
}

// ProgressPercentage completados / total × 100. Un workflow sin pasos devuelve domain.ErrEmptyWorkflow.
func (t *Tracker) ProgressPercentage(ctx context.Context, projectID string) (decimal.Decimal, error) {
	p, err := t.projects.GetByID(ctx, projectID)
	if err != nil {
		return decimal.Zero, err
	}
	return percentage(p)
}

// Progress avance completo (porcentaje, conteos y minutos restantes sobre la ruta crítica pendiente).
func (t *Tracker) Progress(ctx context.Context, projectID string) (Progress, error) {
	p, err := t.projects.GetByID(ctx, projectID)
	if err != nil {
		return Progress{}, err
	}
	pct, err := percentage(p)
	if err != nil {
		return Progress{}, err
	}
	remaining, err := remaining(p)
	if err != nil {
		return Progress{}, err
	}
	return Progress{
		Percentage:        pct,
		CompletedSteps:    completedCount(p),
		TotalSteps:        len(p.Workflow.Workflow.Steps),
		RemainingDuration: remaining,
	}, nil
}

// RemainingDuration minutos de la ruta más larga entre los pasos aún abiertos.
func (t *Tracker) RemainingDuration(ctx context.Context, projectID string) (int, error) {
	p, err := t.projects.GetByID(ctx, projectID)
	if err != nil {
		return 0, err
	}
	return remaining(p)
}

// RecordActualCost guarda el costo real acumulado calculado por las métricas.
func (t *Tracker) RecordActualCost(ctx context.Context, projectID string, cost decimal.Decimal) error {
	lease, err := t.locks.Acquire(ctx, locks.ProjectKey(projectID))
	if err != nil {
		return err
	}
	defer lease.Release()

	p, err := t.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if p.ActualCost.Equal(cost) {
		return nil
	}
	p.ActualCost = cost
	return t.projects.Save(ctx, p)
}

func percentage(p *entity.Project) (decimal.Decimal, error) {
	total := len(p.Workflow.Workflow.Steps)
	if total == 0 {
		return decimal.Zero, domain.ErrEmptyWorkflow
	}
	return decimal.NewFromInt(int64(completedCount(p))).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2), nil
}

func completedCount(p *entity.Project) int {
	n := 0
	for _, s := range p.Workflow.Workflow.Steps {
		if p.Workflow.Completed[s.ID] {
			n++
		}
	}
	return n
}

func remaining(p *entity.Project) (int, error) {
	steps := p.Workflow.Workflow.Steps
	if len(steps) == 0 {
		return 0, nil
	}
	order, err := planning.TopologicalOrder(steps)
	if err != nil {
		return 0, err
	}
	cp := planning.LongestPath(steps, order, func(s entity.WorkflowStep) int {
		if p.Workflow.Completed[s.ID] {
			return 0
		}
		return s.EstimatedDuration
	})
	return cp.Duration, nil
}

func findStep(wf entity.Workflow, id string) (entity.WorkflowStep, bool) {
	for _, s := range wf.Steps {
		if s.ID == id {
			return s, true
		}
	}
	return entity.WorkflowStep{}, false
}
