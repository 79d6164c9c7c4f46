// Package locks implementa bloqueos por entidad (material o recurso) con orden global
// y espera acotada. Ledger y Calendar comparten un Manager para que el Scheduler pueda
// retener la unión de sus entidades durante todo el compromiso.
package locks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/jhoicas/Produccion-api/internal/domain"
)

// DefaultTimeout espera máxima por defecto para adquirir todas las llaves.
const DefaultTimeout = 2 * time.Second

// MaterialKey llave de bloqueo de un material.
func MaterialKey(id string) string { return "material:" + id }

// WorkOrderKey llave de bloqueo de una orden de trabajo (transiciones de estado).
func WorkOrderKey(id string) string { return "work_order:" + id }

// ResourceKey llave de bloqueo de un recurso.
func ResourceKey(id string) string { return "resource:" + id }

// ProjectKey llave de bloqueo del estado de workflow de un proyecto.
func ProjectKey(id string) string { return "project:" + id }

// Manager entrega leases sobre conjuntos de llaves. Cada llave es un semáforo de peso 1.
type Manager struct {
	mu      sync.Mutex
	sems    map[string]*semaphore.Weighted
	timeout time.Duration
}

// NewManager construye el manager. timeout <= 0 usa DefaultTimeout.
func NewManager(timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{sems: make(map[string]*semaphore.Weighted), timeout: timeout}
}

// Timeout devuelve la espera máxima configurada.
func (m *Manager) Timeout() time.Duration { return m.timeout }

func (m *Manager) sem(key string) *semaphore.Weighted {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sems[key]
	if !ok {
		s = semaphore.NewWeighted(1)
		m.sems[key] = s
	}
	return s
}

// Acquire toma todas las llaves en orden ascendente (sin duplicados). Si la espera supera
// el timeout o ctx se cancela, libera lo adquirido y devuelve domain.ErrSchedulingTimeout.
func (m *Manager) Acquire(ctx context.Context, keys ...string) (*Lease, error) {
	ordered := normalize(keys)
	waitCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	lease := &Lease{manager: m, held: make(map[string]*semaphore.Weighted, len(ordered))}
	for _, key := range ordered {
		s := m.sem(key)
		if err := s.Acquire(waitCtx, 1); err != nil {
			lease.Release()
			cause := err
			if ctxErr := ctx.Err(); ctxErr != nil {
				cause = ctxErr
			} else if errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
				cause = context.DeadlineExceeded
			}
			return nil, fmt.Errorf("%w: llave %s: %w", domain.ErrSchedulingTimeout, key, cause)
		}
		lease.held[key] = s
		lease.order = append(lease.order, key)
	}
	return lease, nil
}

func normalize(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Lease conjunto de llaves retenidas. Release es idempotente.
type Lease struct {
	manager *Manager
	mu      sync.Mutex
	held    map[string]*semaphore.Weighted
	order   []string
}

// Keys devuelve las llaves retenidas en orden de adquisición.
func (l *Lease) Keys() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.order...)
}

// Covers indica si el lease retiene todas las llaves indicadas.
func (l *Lease) Covers(keys ...string) bool {
	if l == nil {
		return len(keys) == 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, k := range keys {
		if _, ok := l.held[k]; !ok {
			return false
		}
	}
	return true
}

// Release libera las llaves en orden inverso.
func (l *Lease) Release() {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.order) - 1; i >= 0; i-- {
		l.held[l.order[i]].Release(1)
	}
	l.held = map[string]*semaphore.Weighted{}
	l.order = nil
}

// ErrLeaseMissing operación "held" invocada sin retener las llaves necesarias.
var ErrLeaseMissing = errors.New("locks: el lease no cubre las entidades requeridas")
