package scheduling

import (
	"context"
	"time"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ChangeKind tipo de cambio que se persiste.
type ChangeKind string

const (
	ChangeScheduled ChangeKind = "SCHEDULED"
	ChangeCancelled ChangeKind = "CANCELLED"
	ChangeStarted   ChangeKind = "STARTED"
	ChangeCompleted ChangeKind = "COMPLETED"
	ChangeReceived  ChangeKind = "RECEIVED" // recepción de material, sin orden
)

// SlotWindow horas ocupadas (Busy=true) o liberadas de un conjunto de recursos.
type SlotWindow struct {
	ResourceIDs []string
	Start       time.Time
	End         time.Time
	Busy        bool
}

// Change cambio ya aplicado en memoria y pendiente de persistir.
// StockLevels lleva el stock resultante de cada material tocado. WorkOrder es nil en ChangeReceived.
type Change struct {
	Kind        ChangeKind
	WorkOrder   *entity.WorkOrder
	StockLevels map[string]int64
	Slots       *SlotWindow
}

// Committer hook de durabilidad. Commit se invoca con los bloqueos de las entidades
// retenidos; si devuelve error el Scheduler deshace el cambio en memoria, de modo que
// la escritura externa y el estado en memoria se confirman o fallan juntos.
type Committer interface {
	Commit(ctx context.Context, change Change) error
}

// CommitterFunc adapta una función a Committer.
type CommitterFunc func(ctx context.Context, change Change) error

// Commit implementa Committer.
func (f CommitterFunc) Commit(ctx context.Context, change Change) error { return f(ctx, change) }

// NopCommitter no persiste nada (backend memory).
type NopCommitter struct{}

// Commit implementa Committer.
func (NopCommitter) Commit(context.Context, Change) error { return nil }
