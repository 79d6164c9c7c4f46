// Package scheduling convierte una demanda de producción en una orden de trabajo comprometida:
// verifica materiales, elige y agenda recursos, reserva materiales y persiste, todo bajo los
// bloqueos de las entidades involucradas. Cualquier fallo (o cancelación del contexto) deshace
// lo aplicado antes de devolver el error.
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/calendar"
	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/application/locks"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/planning"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

// ScheduleRequest demanda de producción. Si ResourceIDs viene vacío los recursos se eligen
// del pool según los requerimientos del BOM.
type ScheduleRequest struct {
	BOMID       string
	Quantity    int64
	Start       time.Time
	ProjectID   string
	ResourceIDs []string
}

// Scheduler orquesta catálogo, ledger y calendario.
type Scheduler struct {
	catalog   repository.CatalogReader
	ledger    *inventory.Ledger
	calendar  *calendar.Calendar
	locks     *locks.Manager
	orders    repository.WorkOrderRepository
	committer Committer
	log       *logger.Logger
	now       func() time.Time
}

// NewScheduler construye el scheduler. committer nil equivale a NopCommitter.
func NewScheduler(
	catalog repository.CatalogReader,
	ledger *inventory.Ledger,
	cal *calendar.Calendar,
	lm *locks.Manager,
	orders repository.WorkOrderRepository,
	committer Committer,
	log *logger.Logger,
) *Scheduler {
	if committer == nil {
		committer = NopCommitter{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		catalog:   catalog,
		ledger:    ledger,
		calendar:  cal,
		locks:     lm,
		orders:    orders,
		committer: committer,
		log:       log.Named("scheduler"),
		now:       time.Now,
	}
}

// plan recursos candidatos y capacidad para calcular la ventana.
type plan struct {
	fixed    []*entity.Resource
	pools    []pool
	capacity decimal.Decimal
}

type pool struct {
	requirement entity.ResourceRequirement
	candidates  []*entity.Resource
}

func (p plan) resourceKeys() []string {
	var keys []string
	for _, r := range p.fixed {
		keys = append(keys, locks.ResourceKey(r.ID))
	}
	for _, pl := range p.pools {
		for _, r := range pl.candidates {
			keys = append(keys, locks.ResourceKey(r.ID))
		}
	}
	return keys
}

func (s *Scheduler) buildPlan(ctx context.Context, bom *entity.BillOfMaterials, req ScheduleRequest) (plan, error) {
	var p plan
	switch {
	case len(req.ResourceIDs) > 0:
		seen := make(map[string]bool, len(req.ResourceIDs))
		for _, id := range req.ResourceIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			r, err := s.catalog.GetResource(ctx, id)
			if err != nil {
				return p, fmt.Errorf("recurso %s: %w", id, err)
			}
			p.fixed = append(p.fixed, r)
		}
		p.capacity = planning.TotalCapacity(p.fixed)
	case len(bom.ResourceRequirements) > 0:
		for _, rq := range bom.ResourceRequirements {
			candidates, err := s.catalog.ListResourcesByType(ctx, rq.Type)
			if err != nil {
				return p, err
			}
			p.pools = append(p.pools, pool{requirement: rq, candidates: candidates})
		}
		p.capacity = planning.RequiredCapacity(bom.ResourceRequirements)
	default:
		p.capacity = decimal.NewFromInt(1)
	}
	return p, nil
}

// Schedule compromete una orden de trabajo PLANNED para la demanda o devuelve el error
// (InsufficientStock, ResourceConflict, SchedulingTimeout, NotFound, InvalidQuantity)
// sin dejar reservas parciales.
func (s *Scheduler) Schedule(ctx context.Context, req ScheduleRequest) (*entity.WorkOrder, error) {
	if req.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if req.Start.IsZero() || !planning.HourAligned(req.Start) {
		return nil, fmt.Errorf("%w: el inicio debe alinearse a una hora completa", domain.ErrInvalidInput)
	}
	bom, err := s.catalog.GetBOM(ctx, req.BOMID)
	if err != nil {
		return nil, fmt.Errorf("bom %s: %w", req.BOMID, err)
	}
	p, err := s.buildPlan(ctx, bom, req)
	if err != nil {
		return nil, err
	}

	start := req.Start.UTC()
	hours := planning.ProductionHours(bom.LaborHours, req.Quantity, p.capacity)
	if hours > planning.MaxWindowHours {
		return nil, fmt.Errorf("%w: la ventana de %d horas excede el máximo de %d", domain.ErrInvalidQuantity, hours, planning.MaxWindowHours)
	}
	end := start.Add(time.Duration(hours) * time.Hour)

	keys := append(s.ledger.Keys(bom), p.resourceKeys()...)
	lease, err := s.locks.Acquire(ctx, keys...)
	if err != nil {
		s.log.Warn().Err(err).Str("bom_id", bom.ID).Msg("schedule: bloqueo no adquirido")
		return nil, err
	}
	defer lease.Release()

	wo, err := s.commitSchedule(ctx, lease, bom, req, p, start, end)
	if err != nil {
		s.log.Info().Err(err).
			Str("bom_id", bom.ID).
			Int64("quantity", req.Quantity).
			Time("start", start).
			Msg("schedule rechazado")
		return nil, err
	}
	s.log.Info().
		Str("work_order_id", wo.ID).
		Str("bom_id", bom.ID).
		Int64("quantity", wo.Quantity).
		Strs("resources", wo.AssignedResources).
		Time("start", wo.StartDate).
		Time("end", wo.EndDate).
		Msg("orden de trabajo programada")
	return wo.Clone(), nil
}

// commitSchedule corre con todas las llaves retenidas. Orden: chequeo de materiales (barato,
// sin tocar el calendario), agenda de recursos, reserva de materiales, persistencia.
func (s *Scheduler) commitSchedule(
	ctx context.Context,
	lease *locks.Lease,
	bom *entity.BillOfMaterials,
	req ScheduleRequest,
	p plan,
	start, end time.Time,
) (*entity.WorkOrder, error) {
	shortfalls, err := s.ledger.ShortfallsHeld(lease, bom, req.Quantity)
	if err != nil {
		return nil, err
	}
	if len(shortfalls) > 0 {
		return nil, &domain.InsufficientStockError{Shortfalls: shortfalls}
	}
	if err := aborted(ctx); err != nil {
		return nil, err
	}

	resourceIDs, err := s.selectResources(lease, p, start, end)
	if err != nil {
		return nil, err
	}

	var booking *calendar.Booking
	if len(resourceIDs) > 0 {
		booking, err = s.calendar.BookHeld(lease, resourceIDs, start, end)
		if err != nil {
			return nil, err
		}
	}
	if err := aborted(ctx); err != nil {
		s.rollback(ctx, lease, booking, nil)
		return nil, err
	}

	reservation, err := s.ledger.ReserveHeld(ctx, lease, bom, req.Quantity)
	if err != nil {
		s.rollback(ctx, lease, booking, nil)
		return nil, err
	}

	now := s.now()
	wo := &entity.WorkOrder{
		ID:                  uuid.New().String(),
		BOMID:               bom.ID,
		ProjectID:           req.ProjectID,
		Status:              entity.WorkOrderPlanned,
		Quantity:            req.Quantity,
		StartDate:           start,
		EndDate:             end,
		AssignedResources:   resourceIDs,
		ActualLaborHours:    decimal.Zero,
		ActualMaterialUsage: map[string]int64{},
		ReservationID:       reservation.ID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	change := Change{
		Kind:        ChangeScheduled,
		WorkOrder:   wo.Clone(),
		StockLevels: s.ledger.StockLevels(bom.MaterialIDs()...),
	}
	if booking != nil {
		wo.BookingID = booking.ID
		change.WorkOrder.BookingID = booking.ID
		change.Slots = &SlotWindow{ResourceIDs: booking.ResourceIDs, Start: start, End: end, Busy: true}
	}

	if err := aborted(ctx); err != nil {
		s.rollback(ctx, lease, booking, reservation)
		return nil, err
	}
	if err := s.committer.Commit(ctx, change); err != nil {
		s.rollback(ctx, lease, booking, reservation)
		return nil, fmt.Errorf("persistir orden de trabajo: %w", err)
	}
	if err := s.orders.Save(ctx, wo); err != nil {
		s.rollback(ctx, lease, booking, reservation)
		return nil, fmt.Errorf("guardar orden de trabajo: %w", err)
	}
	return wo, nil
}

// selectResources verifica el conjunto fijo o elige del pool el subconjunto más barato
// que cubra la capacidad requerida en toda la ventana.
func (s *Scheduler) selectResources(lease *locks.Lease, p plan, start, end time.Time) ([]string, error) {
	if len(p.fixed) > 0 {
		ids := make([]string, 0, len(p.fixed))
		for _, r := range p.fixed {
			ids = append(ids, r.ID)
		}
		sort.Strings(ids)
		return ids, nil
	}

	var (
		ids    []string
		errSel error
	)
	// un recurso cubre a lo sumo un requerimiento
	taken := make(map[string]bool)
	for _, pl := range p.pools {
		available := func(id string) bool {
			if taken[id] {
				return false
			}
			free, err := s.calendar.AvailableHeld(lease, id, start, end)
			if err != nil && errSel == nil && !errors.Is(err, domain.ErrNotFound) {
				errSel = err
			}
			return err == nil && free
		}
		selected, ok := planning.SelectResources(pl.candidates, pl.requirement.CapacityPerHour, available)
		if errSel != nil {
			return nil, errSel
		}
		if !ok {
			return nil, &domain.ResourceConflictError{
				Start:  start,
				End:    end,
				Reason: fmt.Sprintf("sin capacidad %s suficiente (%s/h)", pl.requirement.Type, pl.requirement.CapacityPerHour.String()),
			}
		}
		for _, r := range selected {
			taken[r.ID] = true
			ids = append(ids, r.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// rollback deshace reserva y booking ya aplicados. Usa un contexto sin cancelación para que
// un caller que abortó no interrumpa la restauración.
func (s *Scheduler) rollback(ctx context.Context, lease *locks.Lease, booking *calendar.Booking, reservation *inventory.Reservation) {
	rctx := context.WithoutCancel(ctx)
	if reservation != nil {
		if _, err := s.ledger.ReleaseHeld(rctx, lease, reservation.ID); err != nil {
			s.log.Error().Err(err).Str("reservation_id", reservation.ID).Msg("rollback: liberar materiales")
		}
	}
	if booking != nil {
		if _, err := s.calendar.ReleaseHeld(lease, booking.ID); err != nil {
			s.log.Error().Err(err).Str("booking_id", booking.ID).Msg("rollback: liberar recursos")
		}
	}
}

// aborted traduce la cancelación del caller a ErrSchedulingTimeout.
func aborted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSchedulingTimeout, err)
	}
	return nil
}

// CheckMaterialAvailability indica si hay stock para quantity unidades del BOM.
func (s *Scheduler) CheckMaterialAvailability(ctx context.Context, bomID string, quantity int64) (bool, error) {
	if quantity <= 0 {
		return false, domain.ErrInvalidQuantity
	}
	bom, err := s.catalog.GetBOM(ctx, bomID)
	if err != nil {
		return false, fmt.Errorf("bom %s: %w", bomID, err)
	}
	return s.ledger.CheckAvailability(ctx, bom, quantity)
}

// Get devuelve una orden de trabajo.
func (s *Scheduler) Get(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return s.orders.GetByID(ctx, id)
}

// ListByProject órdenes de un proyecto.
func (s *Scheduler) ListByProject(ctx context.Context, projectID string) ([]*entity.WorkOrder, error) {
	return s.orders.ListByProject(ctx, projectID)
}
