package inventory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Produccion-api/internal/application/locks"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// ReservationLine cantidad descontada de un material por una reserva.
type ReservationLine struct {
	MaterialID string
	Quantity   int64
}

// Reservation handle de una reserva activa. Release/Consume la retiran exactamente una vez.
type Reservation struct {
	ID        string
	BOMID     string
	Quantity  int64
	Lines     []ReservationLine
	CreatedAt time.Time
}

// Ledger lleva el stock de materiales y sus reservas.
// Cada check/reserve/release sobre un material es mutuamente excluyente con cualquier otra
// operación sobre ese material (llaves de locks.Manager); mu solo protege los mapas.
type Ledger struct {
	locks     *locks.Manager
	movements repository.InventoryMovementRepository
	log       *logger.Logger
	now       func() time.Time

	mu           sync.Mutex
	materials    map[string]*entity.Material
	reservations map[string]*Reservation
}

// NewLedger construye el ledger. movements puede ser nil (sin log de movimientos).
func NewLedger(lm *locks.Manager, movements repository.InventoryMovementRepository, log *logger.Logger) *Ledger {
	if log == nil {
		log = logger.Nop()
	}
	return &Ledger{
		locks:        lm,
		movements:    movements,
		log:          log,
		now:          time.Now,
		materials:    make(map[string]*entity.Material),
		reservations: make(map[string]*Reservation),
	}
}

// Register agrega o reemplaza un material con su stock inicial (carga del catálogo).
func (l *Ledger) Register(m entity.Material) error {
	if m.ID == "" || m.StockQuantity < 0 {
		return domain.ErrInvalidInput
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	mc := m
	l.materials[m.ID] = &mc
	return nil
}

// Keys devuelve las llaves de bloqueo de los materiales del BOM.
func (l *Ledger) Keys(bom *entity.BillOfMaterials) []string {
	keys := make([]string, 0, len(bom.Components))
	for _, c := range bom.Components {
		keys = append(keys, locks.MaterialKey(c.MaterialID))
	}
	return keys
}

// requirements agrega las cantidades por material (un BOM puede repetir un material).
func requirements(bom *entity.BillOfMaterials, quantity int64) ([]ReservationLine, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	byMaterial := make(map[string]int64, len(bom.Components))
	for _, c := range bom.Components {
		if c.Quantity <= 0 {
			return nil, fmt.Errorf("%w: componente %s del BOM %s", domain.ErrInvalidQuantity, c.MaterialID, bom.ID)
		}
		if c.Quantity > math.MaxInt64/quantity {
			return nil, fmt.Errorf("%w: %d × %d de %s excede el rango", domain.ErrInvalidQuantity, c.Quantity, quantity, c.MaterialID)
		}
		need := c.Quantity * quantity
		if byMaterial[c.MaterialID] > math.MaxInt64-need {
			return nil, fmt.Errorf("%w: requerimiento de %s excede el rango", domain.ErrInvalidQuantity, c.MaterialID)
		}
		byMaterial[c.MaterialID] += need
	}
	lines := make([]ReservationLine, 0, len(byMaterial))
	for id, qty := range byMaterial {
		lines = append(lines, ReservationLine{MaterialID: id, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].MaterialID < lines[j].MaterialID })
	return lines, nil
}

// CheckAvailability indica si TODOS los materiales cubren required × quantity. No modifica nada.
func (l *Ledger) CheckAvailability(ctx context.Context, bom *entity.BillOfMaterials, quantity int64) (bool, error) {
	if quantity <= 0 {
		return false, domain.ErrInvalidQuantity
	}
	lease, err := l.locks.Acquire(ctx, l.Keys(bom)...)
	if err != nil {
		return false, err
	}
	defer lease.Release()
	return l.CheckHeld(lease, bom, quantity)
}

// CheckHeld igual que CheckAvailability pero bajo un lease que ya retiene los materiales.
func (l *Ledger) CheckHeld(lease *locks.Lease, bom *entity.BillOfMaterials, quantity int64) (bool, error) {
	shortfalls, err := l.ShortfallsHeld(lease, bom, quantity)
	if err != nil {
		return false, err
	}
	return len(shortfalls) == 0, nil
}

// ShortfallsHeld devuelve todos los faltantes (vacío si alcanza el stock), sin modificar nada.
func (l *Ledger) ShortfallsHeld(lease *locks.Lease, bom *entity.BillOfMaterials, quantity int64) ([]domain.Shortfall, error) {
	shortfalls, _, err := l.shortfalls(lease, bom, quantity)
	return shortfalls, err
}

func (l *Ledger) shortfalls(lease *locks.Lease, bom *entity.BillOfMaterials, quantity int64) ([]domain.Shortfall, []ReservationLine, error) {
	lines, err := requirements(bom, quantity)
	if err != nil {
		return nil, nil, err
	}
	if !lease.Covers(l.Keys(bom)...) {
		return nil, nil, locks.ErrLeaseMissing
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.Shortfall
	for _, line := range lines {
		m, ok := l.materials[line.MaterialID]
		if !ok {
			return nil, nil, fmt.Errorf("material %s: %w", line.MaterialID, domain.ErrNotFound)
		}
		if m.StockQuantity < line.Quantity {
			out = append(out, domain.Shortfall{MaterialID: m.ID, Required: line.Quantity, Available: m.StockQuantity})
		}
	}
	return out, lines, nil
}

// Reserve descuenta required × quantity de cada material, todo o nada.
func (l *Ledger) Reserve(ctx context.Context, bom *entity.BillOfMaterials, quantity int64) (*Reservation, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	lease, err := l.locks.Acquire(ctx, l.Keys(bom)...)
	if err != nil {
		return nil, err
	}
	defer lease.Release()
	return l.ReserveHeld(ctx, lease, bom, quantity)
}

// ReserveHeld reserva bajo un lease existente. Si falta stock de cualquier material
// devuelve *domain.InsufficientStockError sin descontar ninguno.
func (l *Ledger) ReserveHeld(ctx context.Context, lease *locks.Lease, bom *entity.BillOfMaterials, quantity int64) (*Reservation, error) {
	shortfalls, lines, err := l.shortfalls(lease, bom, quantity)
	if err != nil {
		return nil, err
	}
	if len(shortfalls) > 0 {
		return nil, &domain.InsufficientStockError{Shortfalls: shortfalls}
	}
	r := &Reservation{
		ID:        uuid.New().String(),
		BOMID:     bom.ID,
		Quantity:  quantity,
		Lines:     lines,
		CreatedAt: l.now(),
	}
	after := l.apply(r, -1, true)
	l.record(ctx, r, entity.MovementTypeReserve, -1, after)
	return r, nil
}

// apply suma sign × cantidad de cada línea y registra o retira la reserva.
func (l *Ledger) apply(r *Reservation, sign int64, active bool) map[string]int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	after := make(map[string]int64, len(r.Lines))
	now := l.now()
	for _, line := range r.Lines {
		m := l.materials[line.MaterialID]
		m.StockQuantity += sign * line.Quantity
		m.UpdatedAt = now
		after[line.MaterialID] = m.StockQuantity
	}
	if active {
		l.reservations[r.ID] = r
	} else {
		delete(l.reservations, r.ID)
	}
	return after
}

func (l *Ledger) record(ctx context.Context, r *Reservation, movementType string, sign int64, after map[string]int64) {
	if l.movements == nil {
		return
	}
	now := l.now()
	for _, line := range r.Lines {
		mov := &entity.InventoryMovement{
			ID:            uuid.New().String(),
			ReservationID: r.ID,
			MaterialID:    line.MaterialID,
			Type:          movementType,
			Quantity:      sign * line.Quantity,
			StockAfter:    after[line.MaterialID],
			Date:          now,
		}
		if err := l.movements.Create(ctx, mov); err != nil {
			l.log.Warn().Err(err).Str("reservation_id", r.ID).Msg("registrar movimiento de inventario")
		}
	}
}

// Reservation devuelve una copia de la reserva activa.
func (l *Ledger) Reservation(id string) (*Reservation, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.reservations[id]
	if !ok {
		return nil, false
	}
	c := *r
	c.Lines = append([]ReservationLine(nil), r.Lines...)
	return &c, true
}

// ReservationKeys llaves de bloqueo de una reserva activa.
func (l *Ledger) ReservationKeys(id string) ([]string, error) {
	r, ok := l.Reservation(id)
	if !ok {
		return nil, domain.ErrReservationReleased
	}
	keys := make([]string, 0, len(r.Lines))
	for _, line := range r.Lines {
		keys = append(keys, locks.MaterialKey(line.MaterialID))
	}
	return keys, nil
}

// Release devuelve al stock exactamente lo reservado. Una segunda liberación del mismo
// handle falla con domain.ErrReservationReleased.
func (l *Ledger) Release(ctx context.Context, reservationID string) error {
	keys, err := l.ReservationKeys(reservationID)
	if err != nil {
		return err
	}
	lease, err := l.locks.Acquire(ctx, keys...)
	if err != nil {
		return err
	}
	defer lease.Release()
	_, err = l.ReleaseHeld(ctx, lease, reservationID)
	return err
}

// ReleaseHeld libera bajo un lease existente y devuelve la reserva retirada.
func (l *Ledger) ReleaseHeld(ctx context.Context, lease *locks.Lease, reservationID string) (*Reservation, error) {
	r, err := l.takeHeld(lease, reservationID)
	if err != nil {
		return nil, err
	}
	after := l.apply(r, 1, false)
	l.record(ctx, r, entity.MovementTypeRelease, 1, after)
	return r, nil
}

// RestoreHeld vuelve a aplicar una reserva previamente liberada (mismo ID y líneas).
// Se usa para deshacer una cancelación cuya persistencia falló.
func (l *Ledger) RestoreHeld(ctx context.Context, lease *locks.Lease, r *Reservation) error {
	for _, line := range r.Lines {
		if !lease.Covers(locks.MaterialKey(line.MaterialID)) {
			return locks.ErrLeaseMissing
		}
	}
	l.mu.Lock()
	var shortfalls []domain.Shortfall
	for _, line := range r.Lines {
		m, ok := l.materials[line.MaterialID]
		if !ok {
			l.mu.Unlock()
			return fmt.Errorf("material %s: %w", line.MaterialID, domain.ErrNotFound)
		}
		if m.StockQuantity < line.Quantity {
			shortfalls = append(shortfalls, domain.Shortfall{MaterialID: m.ID, Required: line.Quantity, Available: m.StockQuantity})
		}
	}
	_, exists := l.reservations[r.ID]
	l.mu.Unlock()
	if exists {
		return fmt.Errorf("reserva %s: %w", r.ID, domain.ErrInvalidStatus)
	}
	if len(shortfalls) > 0 {
		return &domain.InsufficientStockError{Shortfalls: shortfalls}
	}
	after := l.apply(r, -1, true)
	l.record(ctx, r, entity.MovementTypeReserve, -1, after)
	return nil
}

// AdoptHeld vuelve a registrar el handle de una reserva persistida sin tocar el stock,
// que ya viene descontado en el estado cargado. Se usa al reconstruir el estado al arrancar.
func (l *Ledger) AdoptHeld(lease *locks.Lease, reservationID string, bom *entity.BillOfMaterials, quantity int64) (*Reservation, error) {
	if reservationID == "" {
		return nil, domain.ErrInvalidInput
	}
	lines, err := requirements(bom, quantity)
	if err != nil {
		return nil, err
	}
	if !lease.Covers(l.Keys(bom)...) {
		return nil, locks.ErrLeaseMissing
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.reservations[reservationID]; exists {
		return nil, fmt.Errorf("reserva %s: %w", reservationID, domain.ErrInvalidStatus)
	}
	for _, line := range lines {
		if _, ok := l.materials[line.MaterialID]; !ok {
			return nil, fmt.Errorf("material %s: %w", line.MaterialID, domain.ErrNotFound)
		}
	}
	r := &Reservation{ID: reservationID, BOMID: bom.ID, Quantity: quantity, Lines: lines, CreatedAt: l.now()}
	l.reservations[r.ID] = r
	return r, nil
}

// Consume retira la reserva sin devolver stock (orden completada).
func (l *Ledger) Consume(ctx context.Context, reservationID string) error {
	keys, err := l.ReservationKeys(reservationID)
	if err != nil {
		return err
	}
	lease, err := l.locks.Acquire(ctx, keys...)
	if err != nil {
		return err
	}
	defer lease.Release()
	return l.ConsumeHeld(ctx, lease, reservationID)
}

// ConsumeHeld igual que Consume bajo un lease existente.
func (l *Ledger) ConsumeHeld(ctx context.Context, lease *locks.Lease, reservationID string) error {
	r, err := l.takeHeld(lease, reservationID)
	if err != nil {
		return err
	}
	l.mu.Lock()
	delete(l.reservations, r.ID)
	after := make(map[string]int64, len(r.Lines))
	for _, line := range r.Lines {
		after[line.MaterialID] = l.materials[line.MaterialID].StockQuantity
	}
	l.mu.Unlock()
	l.record(ctx, r, entity.MovementTypeConsume, 0, after)
	return nil
}

func (l *Ledger) takeHeld(lease *locks.Lease, reservationID string) (*Reservation, error) {
	l.mu.Lock()
	r, ok := l.reservations[reservationID]
	l.mu.Unlock()
	if !ok {
		return nil, domain.ErrReservationReleased
	}
	for _, line := range r.Lines {
		if !lease.Covers(locks.MaterialKey(line.MaterialID)) {
			return nil, locks.ErrLeaseMissing
		}
	}
	return r, nil
}

// Receive suma stock por una entrada de compra.
func (l *Ledger) Receive(ctx context.Context, materialID string, quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	lease, err := l.locks.Acquire(ctx, locks.MaterialKey(materialID))
	if err != nil {
		return err
	}
	defer lease.Release()
	_, err = l.ReceiveHeld(ctx, lease, materialID, quantity)
	return err
}

// ReceiveHeld suma stock bajo un lease existente y devuelve el stock resultante.
func (l *Ledger) ReceiveHeld(ctx context.Context, lease *locks.Lease, materialID string, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, domain.ErrInvalidQuantity
	}
	return l.adjustHeld(ctx, lease, materialID, quantity, entity.MovementTypeReceive)
}

// RevertReceiptHeld deshace una recepción cuya persistencia falló.
func (l *Ledger) RevertReceiptHeld(ctx context.Context, lease *locks.Lease, materialID string, quantity int64) (int64, error) {
	return l.adjustHeld(ctx, lease, materialID, -quantity, entity.MovementTypeReceive)
}

func (l *Ledger) adjustHeld(ctx context.Context, lease *locks.Lease, materialID string, delta int64, movementType string) (int64, error) {
	if !lease.Covers(locks.MaterialKey(materialID)) {
		return 0, locks.ErrLeaseMissing
	}
	l.mu.Lock()
	m, ok := l.materials[materialID]
	if !ok {
		l.mu.Unlock()
		return 0, fmt.Errorf("material %s: %w", materialID, domain.ErrNotFound)
	}
	if m.StockQuantity+delta < 0 {
		available := m.StockQuantity
		l.mu.Unlock()
		return 0, &domain.InsufficientStockError{Shortfalls: []domain.Shortfall{{MaterialID: materialID, Required: -delta, Available: available}}}
	}
	m.StockQuantity += delta
	m.UpdatedAt = l.now()
	after := m.StockQuantity
	l.mu.Unlock()

	r := &Reservation{Lines: []ReservationLine{{MaterialID: materialID, Quantity: delta}}}
	l.record(ctx, r, movementType, 1, map[string]int64{materialID: after})
	return after, nil
}

// Stock devuelve el stock actual de un material.
func (l *Ledger) Stock(materialID string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.materials[materialID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return m.StockQuantity, nil
}

// StockLevels stock actual de los materiales indicados (para persistir junto al compromiso).
func (l *Ledger) StockLevels(materialIDs ...string) map[string]int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]int64, len(materialIDs))
	for _, id := range materialIDs {
		if m, ok := l.materials[id]; ok {
			out[id] = m.StockQuantity
		}
	}
	return out
}

// BelowReorderPoint materiales en o por debajo del punto de reorden, ordenados por ID.
func (l *Ledger) BelowReorderPoint() []entity.Material {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []entity.Material
	for _, m := range l.materials {
		if m.BelowReorderPoint() {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
