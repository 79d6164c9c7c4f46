// Package memory implementa los puertos de repositorio en memoria. Catalog es el store
// explícito de datos de referencia: se construye una vez por proceso y se inyecta.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.CatalogReader = (*Catalog)(nil)

// Catalog datos de referencia compartidos (BOMs, materiales, recursos, plantillas).
// Devuelve copias: las entidades solo se modifican vía Ledger/Calendar.
type Catalog struct {
	mu        sync.RWMutex
	boms      map[string]*entity.BillOfMaterials
	materials map[string]*entity.Material
	resources map[string]*entity.Resource
	workflows map[string]*entity.Workflow
}

// NewCatalog construye un catálogo vacío.
func NewCatalog() *Catalog {
	return &Catalog{
		boms:      make(map[string]*entity.BillOfMaterials),
		materials: make(map[string]*entity.Material),
		resources: make(map[string]*entity.Resource),
		workflows: make(map[string]*entity.Workflow),
	}
}

// PutBOM agrega un BOM. Un BOM existente no se reemplaza: los cambios van en una versión nueva (ID nuevo).
func (c *Catalog) PutBOM(b entity.BillOfMaterials) error {
	if b.ID == "" || len(b.Components) == 0 {
		return domain.ErrInvalidInput
	}
	for _, comp := range b.Components {
		if comp.Quantity <= 0 {
			return fmt.Errorf("componente %s: %w", comp.MaterialID, domain.ErrInvalidQuantity)
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.boms[b.ID]; exists {
		return fmt.Errorf("bom %s ya existe: %w", b.ID, domain.ErrInvalidInput)
	}
	bc := cloneBOM(&b)
	c.boms[b.ID] = bc
	return nil
}

// PutMaterial agrega o reemplaza la ficha de un material.
func (c *Catalog) PutMaterial(m entity.Material) error {
	if m.ID == "" {
		return domain.ErrInvalidInput
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	mc := m
	c.materials[m.ID] = &mc
	return nil
}

// PutResource agrega o reemplaza la ficha de un recurso.
func (c *Catalog) PutResource(r entity.Resource) error {
	if r.ID == "" || !r.Type.Valid() {
		return domain.ErrInvalidInput
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rc := r
	c.resources[r.ID] = &rc
	return nil
}

// PutWorkflowTemplate agrega o reemplaza una plantilla.
func (c *Catalog) PutWorkflowTemplate(w entity.Workflow) error {
	if w.ID == "" {
		return domain.ErrInvalidInput
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	wc := w.Clone()
	c.workflows[w.ID] = &wc
	return nil
}

// GetBOM implementa repository.CatalogReader.
func (c *Catalog) GetBOM(_ context.Context, id string) (*entity.BillOfMaterials, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.boms[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneBOM(b), nil
}

// GetMaterial implementa repository.CatalogReader.
func (c *Catalog) GetMaterial(_ context.Context, id string) (*entity.Material, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.materials[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	mc := *m
	return &mc, nil
}

// GetResource implementa repository.CatalogReader.
func (c *Catalog) GetResource(_ context.Context, id string) (*entity.Resource, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.resources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	rc := *r
	return &rc, nil
}

// GetWorkflowTemplate implementa repository.CatalogReader.
func (c *Catalog) GetWorkflowTemplate(_ context.Context, id string) (*entity.Workflow, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	w, ok := c.workflows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	wc := w.Clone()
	return &wc, nil
}

// ListResourcesByType recursos de un tipo ordenados por ID.
func (c *Catalog) ListResourcesByType(_ context.Context, t entity.ResourceType) ([]*entity.Resource, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*entity.Resource
	for _, r := range c.resources {
		if r.Type == t {
			rc := *r
			out = append(out, &rc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Materials fichas de todos los materiales ordenadas por ID.
func (c *Catalog) Materials() []entity.Material {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]entity.Material, 0, len(c.materials))
	for _, m := range c.materials {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Resources fichas de todos los recursos ordenadas por ID.
func (c *Catalog) Resources() []entity.Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]entity.Resource, 0, len(c.resources))
	for _, r := range c.resources {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func cloneBOM(b *entity.BillOfMaterials) *entity.BillOfMaterials {
	bc := *b
	bc.Components = append([]entity.BOMComponent(nil), b.Components...)
	bc.ResourceRequirements = append([]entity.ResourceRequirement(nil), b.ResourceRequirements...)
	return &bc
}
