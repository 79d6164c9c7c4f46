package scheduling

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/calendar"
	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/application/locks"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// CompletionInput consumo real reportado al completar una orden.
type CompletionInput struct {
	LaborHours    decimal.Decimal
	MaterialUsage map[string]int64
}

// lockOrder toma la llave de la orden junto con las de sus materiales y recursos,
// en el mismo orden global que Schedule.
func (s *Scheduler) lockOrder(ctx context.Context, wo *entity.WorkOrder) (*locks.Lease, error) {
	keys := []string{locks.WorkOrderKey(wo.ID)}
	bom, err := s.catalog.GetBOM(ctx, wo.BOMID)
	if err != nil {
		return nil, fmt.Errorf("bom %s: %w", wo.BOMID, err)
	}
	keys = append(keys, s.ledger.Keys(bom)...)
	for _, id := range wo.AssignedResources {
		keys = append(keys, locks.ResourceKey(id))
	}
	return s.locks.Acquire(ctx, keys...)
}

// loadLocked relee la orden con el lease retenido (otra transición pudo ganar la carrera).
func (s *Scheduler) loadLocked(ctx context.Context, id string) (*entity.WorkOrder, *locks.Lease, error) {
	wo, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	lease, err := s.lockOrder(ctx, wo)
	if err != nil {
		return nil, nil, err
	}
	current, err := s.orders.GetByID(ctx, id)
	if err != nil {
		lease.Release()
		return nil, nil, err
	}
	return current, lease, nil
}

// Cancel libera recursos y materiales de la orden usando sus handles y la pasa a CANCELLED.
// Solo desde PLANNED o IN_PROGRESS; una segunda cancelación devuelve domain.ErrAlreadyCancelled
// sin tocar ledger ni calendario.
func (s *Scheduler) Cancel(ctx context.Context, workOrderID string) error {
	wo, lease, err := s.loadLocked(ctx, workOrderID)
	if err != nil {
		return err
	}
	defer lease.Release()

	switch wo.Status {
	case entity.WorkOrderCancelled:
		return domain.ErrAlreadyCancelled
	case entity.WorkOrderPlanned, entity.WorkOrderInProgress:
	default:
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatus, wo.Status, entity.WorkOrderCancelled)
	}
	if err := aborted(ctx); err != nil {
		return err
	}

	var (
		reservation *inventory.Reservation
		booking     *calendar.Booking
	)
	if wo.ReservationID != "" {
		reservation, err = s.ledger.ReleaseHeld(ctx, lease, wo.ReservationID)
		if err != nil {
			return fmt.Errorf("liberar materiales: %w", err)
		}
	}
	if wo.BookingID != "" {
		booking, err = s.calendar.ReleaseHeld(lease, wo.BookingID)
		if err != nil {
			s.restore(ctx, lease, nil, reservation)
			return fmt.Errorf("liberar recursos: %w", err)
		}
	}

	updated := wo.Clone()
	updated.Status = entity.WorkOrderCancelled
	updated.UpdatedAt = s.now()
	change := Change{Kind: ChangeCancelled, WorkOrder: updated.Clone()}
	if reservation != nil {
		ids := make([]string, 0, len(reservation.Lines))
		for _, line := range reservation.Lines {
			ids = append(ids, line.MaterialID)
		}
		change.StockLevels = s.ledger.StockLevels(ids...)
	}
	if booking != nil {
		change.Slots = &SlotWindow{ResourceIDs: booking.ResourceIDs, Start: booking.Start, End: booking.End, Busy: false}
	}

	if err := s.committer.Commit(ctx, change); err != nil {
		s.restore(ctx, lease, booking, reservation)
		return fmt.Errorf("persistir cancelación: %w", err)
	}
	if err := s.orders.Save(ctx, updated); err != nil {
		s.restore(ctx, lease, booking, reservation)
		return fmt.Errorf("guardar orden de trabajo: %w", err)
	}
	s.log.Info().Str("work_order_id", wo.ID).Str("from", string(wo.Status)).Msg("orden de trabajo cancelada")
	return nil
}

// restore vuelve a aplicar lo liberado por una cancelación que no pudo persistirse.
func (s *Scheduler) restore(ctx context.Context, lease *locks.Lease, booking *calendar.Booking, reservation *inventory.Reservation) {
	rctx := context.WithoutCancel(ctx)
	if reservation != nil {
		if err := s.ledger.RestoreHeld(rctx, lease, reservation); err != nil {
			s.log.Error().Err(err).Str("reservation_id", reservation.ID).Msg("restaurar reserva")
		}
	}
	if booking != nil {
		if err := s.calendar.RestoreHeld(lease, booking); err != nil {
			s.log.Error().Err(err).Str("booking_id", booking.ID).Msg("restaurar booking")
		}
	}
}

// Start pasa una orden PLANNED a IN_PROGRESS.
func (s *Scheduler) Start(ctx context.Context, workOrderID string) (*entity.WorkOrder, error) {
	wo, lease, err := s.loadLocked(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	defer lease.Release()

	if wo.Status == entity.WorkOrderCancelled {
		return nil, domain.ErrAlreadyCancelled
	}
	if wo.Status != entity.WorkOrderPlanned {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatus, wo.Status, entity.WorkOrderInProgress)
	}
	updated := wo.Clone()
	updated.Status = entity.WorkOrderInProgress
	updated.UpdatedAt = s.now()
	if err := s.committer.Commit(ctx, Change{Kind: ChangeStarted, WorkOrder: updated.Clone()}); err != nil {
		return nil, fmt.Errorf("persistir inicio: %w", err)
	}
	if err := s.orders.Save(ctx, updated); err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

// Complete cierra una orden IN_PROGRESS con su consumo real y retira la reserva de materiales
// sin devolver stock. Las horas agendadas quedan ocupadas.
func (s *Scheduler) Complete(ctx context.Context, workOrderID string, in CompletionInput) (*entity.WorkOrder, error) {
	if in.LaborHours.IsNegative() {
		return nil, fmt.Errorf("%w: horas negativas", domain.ErrInvalidInput)
	}
	for id, qty := range in.MaterialUsage {
		if qty < 0 {
			return nil, fmt.Errorf("%w: consumo negativo de %s", domain.ErrInvalidQuantity, id)
		}
	}

	wo, lease, err := s.loadLocked(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	defer lease.Release()

	if wo.Status == entity.WorkOrderCancelled {
		return nil, domain.ErrAlreadyCancelled
	}
	if wo.Status != entity.WorkOrderInProgress {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatus, wo.Status, entity.WorkOrderCompleted)
	}

	updated := wo.Clone()
	updated.Status = entity.WorkOrderCompleted
	updated.ActualLaborHours = in.LaborHours
	updated.ActualMaterialUsage = make(map[string]int64, len(in.MaterialUsage))
	for id, qty := range in.MaterialUsage {
		updated.ActualMaterialUsage[id] = qty
	}
	updated.UpdatedAt = s.now()

	if err := s.committer.Commit(ctx, Change{Kind: ChangeCompleted, WorkOrder: updated.Clone()}); err != nil {
		return nil, fmt.Errorf("persistir cierre: %w", err)
	}
	// la reserva se retira solo cuando la orden ya quedó COMPLETED; si Save falla sigue
	// activa y la orden IN_PROGRESS puede cancelarse o completarse de nuevo.
	if err := s.orders.Save(ctx, updated); err != nil {
		return nil, fmt.Errorf("guardar orden de trabajo: %w", err)
	}
	if updated.ReservationID != "" {
		if err := s.ledger.ConsumeHeld(ctx, lease, updated.ReservationID); err != nil {
			s.log.Error().Err(err).Str("work_order_id", updated.ID).Msg("consumir reserva")
		}
	}
	return updated.Clone(), nil
}

// ReceiveStock registra una entrada de material y la persiste con el mismo hook que las órdenes.
// Si la persistencia falla la entrada se revierte. Devuelve el stock resultante.
func (s *Scheduler) ReceiveStock(ctx context.Context, materialID string, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, domain.ErrInvalidQuantity
	}
	lease, err := s.locks.Acquire(ctx, locks.MaterialKey(materialID))
	if err != nil {
		return 0, err
	}
	defer lease.Release()

	after, err := s.ledger.ReceiveHeld(ctx, lease, materialID, quantity)
	if err != nil {
		return 0, err
	}
	change := Change{Kind: ChangeReceived, StockLevels: map[string]int64{materialID: after}}
	if err := s.committer.Commit(ctx, change); err != nil {
		if _, rerr := s.ledger.RevertReceiptHeld(context.WithoutCancel(ctx), lease, materialID, quantity); rerr != nil {
			s.log.Error().Err(rerr).Str("material_id", materialID).Msg("revertir recepción")
		}
		return 0, fmt.Errorf("persistir recepción: %w", err)
	}
	s.log.Info().Str("material_id", materialID).Int64("quantity", quantity).Int64("stock", after).Msg("recepción de material")
	return after, nil
}

// Recover reconstruye reservas y bookings de las órdenes abiertas cargadas al arrancar;
// las cerradas solo se vuelven a registrar en el repositorio.
// El stock persistido ya descuenta las reservas; las horas agendadas se vuelven a ocupar.
// Devuelve cuántas órdenes se recuperaron.
func (s *Scheduler) Recover(ctx context.Context, orders []*entity.WorkOrder) (int, error) {
	recovered := 0
	for _, wo := range orders {
		if wo.Status != entity.WorkOrderPlanned && wo.Status != entity.WorkOrderInProgress {
			if err := s.orders.Save(ctx, wo); err != nil {
				return recovered, err
			}
			continue
		}
		if err := s.recoverOne(ctx, wo); err != nil {
			return recovered, fmt.Errorf("recuperar orden %s: %w", wo.ID, err)
		}
		recovered++
	}
	if recovered > 0 {
		s.log.Info().Int("work_orders", recovered).Msg("estado de órdenes recuperado")
	}
	return recovered, nil
}

func (s *Scheduler) recoverOne(ctx context.Context, wo *entity.WorkOrder) error {
	lease, err := s.lockOrder(ctx, wo)
	if err != nil {
		return err
	}
	defer lease.Release()

	if wo.ReservationID != "" {
		bom, err := s.catalog.GetBOM(ctx, wo.BOMID)
		if err != nil {
			return err
		}
		if _, err := s.ledger.AdoptHeld(lease, wo.ReservationID, bom, wo.Quantity); err != nil {
			return err
		}
	}
	if wo.BookingID != "" && len(wo.AssignedResources) > 0 {
		b := &calendar.Booking{
			ID:          wo.BookingID,
			ResourceIDs: append([]string(nil), wo.AssignedResources...),
			Start:       wo.StartDate,
			End:         wo.EndDate,
			CreatedAt:   wo.CreatedAt,
		}
		if err := s.calendar.RestoreHeld(lease, b); err != nil {
			return err
		}
	}
	return s.orders.Save(ctx, wo)
}
