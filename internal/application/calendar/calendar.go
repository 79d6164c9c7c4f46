// Package calendar lleva la disponibilidad por hora de cada recurso y sus reservas (bookings).
package calendar

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Produccion-api/internal/application/locks"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/planning"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// Booking handle de una reserva de tiempo sobre un conjunto de recursos.
type Booking struct {
	ID          string
	ResourceIDs []string
	Start       time.Time
	End         time.Time
	CreatedAt   time.Time
}

// Calendar agenda de recursos. Un slot ausente equivale a NO disponible.
type Calendar struct {
	locks *locks.Manager
	log   *logger.Logger
	now   func() time.Time

	mu        sync.Mutex
	resources map[string]*entity.Resource
	slots     map[string]map[int64]bool // resourceID -> inicio de hora (unix) -> libre
	bookings  map[string]*Booking
}

// New construye el calendario.
func New(lm *locks.Manager, log *logger.Logger) *Calendar {
	if log == nil {
		log = logger.Nop()
	}
	return &Calendar{
		locks:     lm,
		log:       log,
		now:       time.Now,
		resources: make(map[string]*entity.Resource),
		slots:     make(map[string]map[int64]bool),
		bookings:  make(map[string]*Booking),
	}
}

// Register agrega un recurso sin horas abiertas (o reemplaza su ficha conservando la agenda).
func (c *Calendar) Register(r entity.Resource) error {
	if r.ID == "" || !r.Type.Valid() {
		return domain.ErrInvalidInput
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rc := r
	c.resources[r.ID] = &rc
	if _, ok := c.slots[r.ID]; !ok {
		c.slots[r.ID] = make(map[int64]bool)
	}
	return nil
}

func validWindow(start, end time.Time) error {
	if !end.After(start) || !planning.HourAligned(start) || !planning.HourAligned(end) {
		return fmt.Errorf("%w: ventana [%s, %s) debe alinearse a horas completas",
			domain.ErrInvalidInput, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

func slotKeys(start, end time.Time) []int64 {
	slots := planning.HourSlots(start, end)
	keys := make([]int64, len(slots))
	for i, s := range slots {
		keys[i] = s.Unix()
	}
	return keys
}

// OpenWindow marca libres las horas de [start, end) de un recurso (turnos disponibles).
func (c *Calendar) OpenWindow(ctx context.Context, resourceID string, start, end time.Time) error {
	if err := validWindow(start, end); err != nil {
		return err
	}
	lease, err := c.locks.Acquire(ctx, locks.ResourceKey(resourceID))
	if err != nil {
		return err
	}
	defer lease.Release()

	c.mu.Lock()
	defer c.mu.Unlock()
	sched, ok := c.slots[resourceID]
	if !ok {
		return fmt.Errorf("recurso %s: %w", resourceID, domain.ErrNotFound)
	}
	for _, k := range slotKeys(start, end) {
		sched[k] = true
	}
	return nil
}

// IsAvailable indica si todas las horas de [start, end) están libres.
func (c *Calendar) IsAvailable(ctx context.Context, resourceID string, start, end time.Time) (bool, error) {
	lease, err := c.locks.Acquire(ctx, locks.ResourceKey(resourceID))
	if err != nil {
		return false, err
	}
	defer lease.Release()
	return c.AvailableHeld(lease, resourceID, start, end)
}

// AvailableHeld igual que IsAvailable bajo un lease que ya retiene el recurso.
func (c *Calendar) AvailableHeld(lease *locks.Lease, resourceID string, start, end time.Time) (bool, error) {
	if err := validWindow(start, end); err != nil {
		return false, err
	}
	if !lease.Covers(locks.ResourceKey(resourceID)) {
		return false, locks.ErrLeaseMissing
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.freeLocked(resourceID, start, end)
}

func (c *Calendar) freeLocked(resourceID string, start, end time.Time) (bool, error) {
	sched, ok := c.slots[resourceID]
	if !ok {
		return false, fmt.Errorf("recurso %s: %w", resourceID, domain.ErrNotFound)
	}
	for _, k := range slotKeys(start, end) {
		if !sched[k] {
			return false, nil
		}
	}
	return true, nil
}

// Book ocupa [start, end) para todos los recursos, o para ninguno.
func (c *Calendar) Book(ctx context.Context, resourceIDs []string, start, end time.Time) (*Booking, error) {
	keys := make([]string, 0, len(resourceIDs))
	for _, id := range resourceIDs {
		keys = append(keys, locks.ResourceKey(id))
	}
	lease, err := c.locks.Acquire(ctx, keys...)
	if err != nil {
		return nil, err
	}
	defer lease.Release()
	return c.BookHeld(lease, resourceIDs, start, end)
}

// BookHeld reserva bajo un lease existente. Si algún recurso no está libre en alguna hora
// devuelve *domain.ResourceConflictError sin ocupar ninguno.
func (c *Calendar) BookHeld(lease *locks.Lease, resourceIDs []string, start, end time.Time) (*Booking, error) {
	if err := validWindow(start, end); err != nil {
		return nil, err
	}
	ids := dedup(resourceIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: conjunto de recursos vacío", domain.ErrInvalidInput)
	}
	for _, id := range ids {
		if !lease.Covers(locks.ResourceKey(id)) {
			return nil, locks.ErrLeaseMissing
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	var busy []string
	for _, id := range ids {
		free, err := c.freeLocked(id, start, end)
		if err != nil {
			return nil, err
		}
		if !free {
			busy = append(busy, id)
		}
	}
	if len(busy) > 0 {
		return nil, &domain.ResourceConflictError{ResourceIDs: busy, Start: start, End: end}
	}
	b := &Booking{
		ID:          uuid.New().String(),
		ResourceIDs: ids,
		Start:       start,
		End:         end,
		CreatedAt:   c.now(),
	}
	c.markLocked(b, false)
	c.bookings[b.ID] = b
	return b, nil
}

func (c *Calendar) markLocked(b *Booking, free bool) {
	keys := slotKeys(b.Start, b.End)
	for _, id := range b.ResourceIDs {
		sched := c.slots[id]
		for _, k := range keys {
			sched[k] = free
		}
	}
}

// BookingKeys llaves de bloqueo de un booking activo.
func (c *Calendar) BookingKeys(bookingID string) ([]string, error) {
	b, ok := c.Booking(bookingID)
	if !ok {
		return nil, domain.ErrReservationReleased
	}
	keys := make([]string, 0, len(b.ResourceIDs))
	for _, id := range b.ResourceIDs {
		keys = append(keys, locks.ResourceKey(id))
	}
	return keys, nil
}

// Booking devuelve una copia del booking activo.
func (c *Calendar) Booking(id string) (*Booking, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.bookings[id]
	if !ok {
		return nil, false
	}
	cp := *b
	cp.ResourceIDs = append([]string(nil), b.ResourceIDs...)
	return &cp, true
}

// Release libera las horas de un booking. Un segundo Release del mismo handle falla con
// domain.ErrReservationReleased.
func (c *Calendar) Release(ctx context.Context, bookingID string) error {
	keys, err := c.BookingKeys(bookingID)
	if err != nil {
		return err
	}
	lease, err := c.locks.Acquire(ctx, keys...)
	if err != nil {
		return err
	}
	defer lease.Release()
	_, err = c.ReleaseHeld(lease, bookingID)
	return err
}

// ReleaseHeld libera bajo un lease existente y devuelve el booking retirado.
func (c *Calendar) ReleaseHeld(lease *locks.Lease, bookingID string) (*Booking, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.bookings[bookingID]
	if !ok {
		return nil, domain.ErrReservationReleased
	}
	for _, id := range b.ResourceIDs {
		if !lease.Covers(locks.ResourceKey(id)) {
			return nil, locks.ErrLeaseMissing
		}
	}
	c.markLocked(b, true)
	delete(c.bookings, bookingID)
	return b, nil
}

// RestoreHeld vuelve a ocupar un booking liberado, conservando su ID.
func (c *Calendar) RestoreHeld(lease *locks.Lease, b *Booking) error {
	for _, id := range b.ResourceIDs {
		if !lease.Covers(locks.ResourceKey(id)) {
			return locks.ErrLeaseMissing
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.bookings[b.ID]; exists {
		return fmt.Errorf("booking %s: %w", b.ID, domain.ErrInvalidStatus)
	}
	var busy []string
	for _, id := range b.ResourceIDs {
		free, err := c.freeLocked(id, b.Start, b.End)
		if err != nil {
			return err
		}
		if !free {
			busy = append(busy, id)
		}
	}
	if len(busy) > 0 {
		return &domain.ResourceConflictError{ResourceIDs: busy, Start: b.Start, End: b.End}
	}
	c.markLocked(b, false)
	c.bookings[b.ID] = b
	return nil
}

// Resource devuelve la ficha registrada de un recurso.
func (c *Calendar) Resource(id string) (*entity.Resource, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.resources[id]
	if !ok {
		return nil, false
	}
	rc := *r
	return &rc, true
}

// Snapshot copia de la agenda de un recurso (inicio de hora en UTC -> libre).
func (c *Calendar) Snapshot(resourceID string) map[time.Time]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[time.Time]bool, len(c.slots[resourceID]))
	for k, v := range c.slots[resourceID] {
		out[time.Unix(k, 0).UTC()] = v
	}
	return out
}

func dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
