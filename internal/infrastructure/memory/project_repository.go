package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

// ProjectRepo implementación en memoria de ProjectRepository.
type ProjectRepo struct {
	mu       sync.RWMutex
	projects map[string]*entity.Project
}

// NewProjectRepository construye el repositorio.
func NewProjectRepository() *ProjectRepo {
	return &ProjectRepo{projects: make(map[string]*entity.Project)}
}

// Save inserta o reemplaza el proyecto.
func (r *ProjectRepo) Save(_ context.Context, p *entity.Project) error {
	if p == nil || p.ID == "" {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[p.ID] = p.Clone()
	return nil
}

// GetByID obtiene un proyecto por ID.
func (r *ProjectRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}
