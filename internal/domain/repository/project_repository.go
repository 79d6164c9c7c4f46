package repository

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ProjectRepository define el puerto de persistencia para proyectos.
type ProjectRepository interface {
	Save(ctx context.Context, p *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
}
