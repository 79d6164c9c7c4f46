// Package catalog carga los datos de referencia en el catálogo, el ledger y el calendario.
package catalog

import (
	"context"
	"fmt"

	"github.com/jhoicas/Produccion-api/internal/application/calendar"
	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// Summary conteos de lo cargado.
type Summary struct {
	Materials int
	BOMs      int
	Resources int
	Windows   int
	Workflows int
}

// Apply registra el seed. stock, si no es nil, reemplaza el stock inicial de cada material
// (estado persistido por el Committer, ya neto de reservas).
func Apply(
	ctx context.Context,
	seed *repository.CatalogSeed,
	store repository.CatalogWriter,
	ledger *inventory.Ledger,
	cal *calendar.Calendar,
	stock map[string]int64,
	log *logger.Logger,
) (Summary, error) {
	var sum Summary
	for _, m := range seed.Materials {
		if err := store.PutMaterial(m); err != nil {
			return sum, fmt.Errorf("material %s: %w", m.ID, err)
		}
		if qty, ok := stock[m.ID]; ok {
			m.StockQuantity = qty
		}
		if err := ledger.Register(m); err != nil {
			return sum, fmt.Errorf("material %s: %w", m.ID, err)
		}
		sum.Materials++
	}
	for _, b := range seed.BOMs {
		if err := store.PutBOM(b); err != nil {
			return sum, fmt.Errorf("bom %s: %w", b.ID, err)
		}
		sum.BOMs++
	}
	for _, r := range seed.Resources {
		if err := store.PutResource(r); err != nil {
			return sum, fmt.Errorf("recurso %s: %w", r.ID, err)
		}
		if err := cal.Register(r); err != nil {
			return sum, fmt.Errorf("recurso %s: %w", r.ID, err)
		}
		sum.Resources++
	}
	for _, w := range seed.Windows {
		if err := cal.OpenWindow(ctx, w.ResourceID, w.Start, w.End); err != nil {
			return sum, fmt.Errorf("turno de %s: %w", w.ResourceID, err)
		}
		sum.Windows++
	}
	for _, w := range seed.Workflows {
		if err := store.PutWorkflowTemplate(w); err != nil {
			return sum, fmt.Errorf("workflow %s: %w", w.ID, err)
		}
		sum.Workflows++
	}
	if log != nil {
		log.Info().
			Int("materials", sum.Materials).
			Int("boms", sum.BOMs).
			Int("resources", sum.Resources).
			Int("windows", sum.Windows).
			Int("workflows", sum.Workflows).
			Msg("catálogo cargado")
	}
	return sum, nil
}
