package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo proyectos con su instancia de workflow serializada en JSONB.
type ProjectRepo struct {
	q Querier
}

// NewProjectRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

// Save inserta o actualiza el proyecto.
func (r *ProjectRepo) Save(ctx context.Context, p *entity.Project) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO projects (id, name, description, start_date, end_date, workflow, budget, actual_cost, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			end_date = EXCLUDED.end_date,
			workflow = EXCLUDED.workflow,
			budget = EXCLUDED.budget,
			actual_cost = EXCLUDED.actual_cost`,
		p.ID, p.Name, p.Description, p.StartDate, p.EndDate, p.Workflow, p.Budget, p.ActualCost, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

// GetByID obtiene un proyecto por ID.
func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	var p entity.Project
	err := r.q.QueryRow(ctx, `
		SELECT id, name, description, start_date, end_date, workflow, budget, actual_cost, created_at
		FROM projects WHERE id = $1`, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.StartDate, &p.EndDate, &p.Workflow, &p.Budget, &p.ActualCost, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	if p.Workflow.Completed == nil {
		p.Workflow.Completed = map[string]bool{}
	}
	p.StartDate, p.EndDate = p.StartDate.UTC(), p.EndDate.UTC()
	return &p, nil
}
