package scheduling_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/application/calendar"
	"github.com/jhoicas/Produccion-api/internal/application/catalog"
	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/application/locks"
	"github.com/jhoicas/Produccion-api/internal/application/scheduling"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/planning"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
)

var T = time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC)

func at(h int) time.Time { return T.Add(time.Duration(h) * time.Hour) }

type env struct {
	ledger    *inventory.Ledger
	calendar  *calendar.Calendar
	orders    *flakyOrders
	scheduler *scheduling.Scheduler
}

// flakyOrders repositorio en memoria cuyo Save puede forzarse a fallar.
type flakyOrders struct {
	*memory.WorkOrderRepo
	fail atomic.Bool
}

func (r *flakyOrders) Save(ctx context.Context, wo *entity.WorkOrder) error {
	if r.fail.Load() {
		return errors.New("repositorio no disponible")
	}
	return r.WorkOrderRepo.Save(ctx, wo)
}

// newEnv catálogo de prueba:
//
//	M1 stock 5, M2 stock 10
//	B1 = 2×M1 (1 h/unidad); B2 = 1×M2 + 2×M1; B4 = 1×M2 (4 h/unidad)
//	BPOOL = 1×M2 con requerimiento MACHINE de capacidad 1
//	BDUO = 1×M2 con dos requerimientos MACHINE de capacidad 1
//	R1 (MACHINE, 50/h) y R2 (MACHINE, 20/h) libres en [T, T+8)
func newEnv(t *testing.T, committer scheduling.Committer, stock map[string]int64) *env {
	t.Helper()
	lm := locks.NewManager(time.Second)
	store := memory.NewCatalog()
	ledger := inventory.NewLedger(lm, memory.NewInventoryMovementRepository(), nil)
	cal := calendar.New(lm, nil)
	orders := &flakyOrders{WorkOrderRepo: memory.NewWorkOrderRepository()}

	one := decimal.NewFromInt(1)
	seed := &repository.CatalogSeed{
		Materials: []entity.Material{
			{ID: "M1", Name: "Acero", UnitCost: decimal.NewFromInt(10), StockQuantity: 5},
			{ID: "M2", Name: "Pintura", UnitCost: decimal.NewFromInt(3), StockQuantity: 10},
		},
		BOMs: []entity.BillOfMaterials{
			{ID: "B1", ProductID: "P1", Components: []entity.BOMComponent{{MaterialID: "M1", Quantity: 2}}, LaborHours: one},
			{ID: "B2", ProductID: "P2", Components: []entity.BOMComponent{{MaterialID: "M2", Quantity: 1}, {MaterialID: "M1", Quantity: 2}}, LaborHours: one},
			{ID: "B4", ProductID: "P4", Components: []entity.BOMComponent{{MaterialID: "M2", Quantity: 1}}, LaborHours: decimal.NewFromInt(4)},
			{
				ID: "BPOOL", ProductID: "P5",
				Components:           []entity.BOMComponent{{MaterialID: "M2", Quantity: 1}},
				LaborHours:           one,
				ResourceRequirements: []entity.ResourceRequirement{{Type: entity.ResourceTypeMachine, CapacityPerHour: one}},
			},
			{
				ID: "BDUO", ProductID: "P6",
				Components: []entity.BOMComponent{{MaterialID: "M2", Quantity: 1}},
				LaborHours: one,
				ResourceRequirements: []entity.ResourceRequirement{
					{Type: entity.ResourceTypeMachine, CapacityPerHour: one},
					{Type: entity.ResourceTypeMachine, CapacityPerHour: one},
				},
			},
		},
		Resources: []entity.Resource{
			{ID: "R1", Name: "Torno", Type: entity.ResourceTypeMachine, CapacityPerHour: one, CostPerHour: decimal.NewFromInt(50)},
			{ID: "R2", Name: "Fresa", Type: entity.ResourceTypeMachine, CapacityPerHour: one, CostPerHour: decimal.NewFromInt(20)},
		},
		Windows: []entity.AvailabilityWindow{
			{ResourceID: "R1", Start: at(0), End: at(8)},
			{ResourceID: "R2", Start: at(0), End: at(8)},
		},
	}
	_, err := catalog.Apply(context.Background(), seed, store, ledger, cal, stock, nil)
	require.NoError(t, err)

	return &env{
		ledger:    ledger,
		calendar:  cal,
		orders:    orders,
		scheduler: scheduling.NewScheduler(store, ledger, cal, lm, orders, committer, nil),
	}
}

func (e *env) stock(t *testing.T, id string) int64 {
	t.Helper()
	qty, err := e.ledger.Stock(id)
	require.NoError(t, err)
	return qty
}

func (e *env) free(t *testing.T, resourceID string, from, to int) bool {
	t.Helper()
	ok, err := e.calendar.IsAvailable(context.Background(), resourceID, at(from), at(to))
	require.NoError(t, err)
	return ok
}

func TestSchedule_StockInsuficiente(t *testing.T) {
	e := newEnv(t, nil, nil)
	_, err := e.scheduler.Schedule(context.Background(), scheduling.ScheduleRequest{
		BOMID: "B1", Quantity: 3, Start: T, ResourceIDs: []string{"R1"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, int64(5), e.stock(t, "M1"))
	assert.True(t, e.free(t, "R1", 0, 8), "no debe quedar ninguna hora ocupada")
}

func TestSchedule_TodoONadaMultiMaterial(t *testing.T) {
	e := newEnv(t, nil, nil)
	_, err := e.scheduler.Schedule(context.Background(), scheduling.ScheduleRequest{BOMID: "B2", Quantity: 3, Start: T})

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	require.Len(t, stockErr.Shortfalls, 1)
	assert.Equal(t, "M1", stockErr.Shortfalls[0].MaterialID)
	assert.Equal(t, int64(5), e.stock(t, "M1"))
	assert.Equal(t, int64(10), e.stock(t, "M2"))
}

func TestSchedule_ConflictoDeRecurso(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil, nil)

	wo, err := e.scheduler.Schedule(ctx, scheduling.ScheduleRequest{BOMID: "B4", Quantity: 1, Start: T, ResourceIDs: []string{"R1"}})
	require.NoError(t, err)
	assert.Equal(t, entity.WorkOrderPlanned, wo.Status)
	assert.Equal(t, at(4), wo.EndDate)
	assert.Equal(t, []string{"R1"}, wo.AssignedResources)
	assert.NotEmpty(t, wo.ReservationID)
	assert.NotEmpty(t, wo.BookingID)

	snap := e.calendar.Snapshot("R1")
	for h := 0; h < 4; h++ {
		assert.False(t, snap[at(h)], "hora %d debe quedar ocupada", h)
	}
	assert.True(t, snap[at(4)])

	_, err = e.scheduler.Schedule(ctx, scheduling.ScheduleRequest{BOMID: "B1", Quantity: 2, Start: at(1), ResourceIDs: []string{"R1"}})
	var conflict *domain.ResourceConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, []string{"R1"}, conflict.ResourceIDs)
	assert.Equal(t, int64(5), e.stock(t, "M1"), "el conflicto no debe reservar materiales")
}

func TestSchedule_ConcurrenteMismoRecurso(t *testing.T) {
	e := newEnv(t, nil, nil)
	var (
		wg        sync.WaitGroup
		ok        atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(start time.Time) {
			defer wg.Done()
			_, err := e.scheduler.Schedule(context.Background(), scheduling.ScheduleRequest{
				BOMID: "B4", Quantity: 1, Start: start, ResourceIDs: []string{"R1"},
			})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrResourceConflict):
				conflicts.Add(1)
			}
		}(at(i))
	}
	wg.Wait()
	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(1), conflicts.Load())
}

func TestSchedule_ConcurrenteVentanaSolapada(t *testing.T) {
	// R1 pedido para [T, T+4) y [T+1, T+3) al mismo tiempo: solo uno se compromete.
	e := newEnv(t, nil, nil)
	reqs := []scheduling.ScheduleRequest{
		{BOMID: "B4", Quantity: 1, Start: at(0), ResourceIDs: []string{"R1"}},
		{BOMID: "B1", Quantity: 2, Start: at(1), ResourceIDs: []string{"R1"}},
	}
	var (
		wg        sync.WaitGroup
		results   = make([]*entity.WorkOrder, len(reqs))
		errs      = make([]error, len(reqs))
		conflicts atomic.Int32
	)
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req scheduling.ScheduleRequest) {
			defer wg.Done()
			results[i], errs[i] = e.scheduler.Schedule(context.Background(), req)
			if errors.Is(errs[i], domain.ErrResourceConflict) {
				conflicts.Add(1)
			}
		}(i, req)
	}
	wg.Wait()
	require.Equal(t, int32(1), conflicts.Load())

	switch {
	case errs[0] == nil:
		assert.Equal(t, at(4), results[0].EndDate)
		assert.Equal(t, int64(9), e.stock(t, "M2"))
		assert.Equal(t, int64(5), e.stock(t, "M1"), "el perdedor no reserva")
		assert.True(t, e.free(t, "R1", 4, 8))
	case errs[1] == nil:
		assert.Equal(t, at(3), results[1].EndDate)
		assert.Equal(t, int64(1), e.stock(t, "M1"))
		assert.Equal(t, int64(10), e.stock(t, "M2"), "el perdedor no reserva")
		assert.True(t, e.free(t, "R1", 0, 1))
		assert.True(t, e.free(t, "R1", 3, 8))
	}
}

func TestSchedule_ConcurrenteNoSobrevende(t *testing.T) {
	e := newEnv(t, nil, nil)
	var (
		wg     sync.WaitGroup
		placed atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.scheduler.Schedule(context.Background(), scheduling.ScheduleRequest{BOMID: "B1", Quantity: 1, Start: T}); err == nil {
				placed.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(2), placed.Load())
	assert.Equal(t, int64(1), e.stock(t, "M1"))
}

func TestSchedule_PoolEligeElMasBarato(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil, nil)

	wo, err := e.scheduler.Schedule(ctx, scheduling.ScheduleRequest{BOMID: "BPOOL", Quantity: 2, Start: T})
	require.NoError(t, err)
	assert.Equal(t, []string{"R2"}, wo.AssignedResources)
	assert.Equal(t, at(2), wo.EndDate)

	wo, err = e.scheduler.Schedule(ctx, scheduling.ScheduleRequest{BOMID: "BPOOL", Quantity: 2, Start: T})
	require.NoError(t, err)
	assert.Equal(t, []string{"R1"}, wo.AssignedResources, "R2 ocupado, cae al siguiente")

	_, err = e.scheduler.Schedule(ctx, scheduling.ScheduleRequest{BOMID: "BPOOL", Quantity: 1, Start: T})
	assert.True(t, errors.Is(err, domain.ErrResourceConflict))
}

func TestSchedule_PoolNoRepiteRecursoEntreRequerimientos(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil, nil)
	_, err := e.calendar.Book(ctx, []string{"R2"}, at(0), at(1))
	require.NoError(t, err)

	_, err = e.scheduler.Schedule(ctx, scheduling.ScheduleRequest{BOMID: "BDUO", Quantity: 1, Start: T})
	var conflict *domain.ResourceConflictError
	require.True(t, errors.As(err, &conflict), "una sola máquina libre no cubre dos requerimientos")
	assert.Equal(t, int64(10), e.stock(t, "M2"))
	assert.True(t, e.free(t, "R1", 0, 8))

	wo, err := e.scheduler.Schedule(ctx, scheduling.ScheduleRequest{BOMID: "BDUO", Quantity: 1, Start: at(1)})
	require.NoError(t, err)
	assert.Equal(t, []string{"R1", "R2"}, wo.AssignedResources)
}

func TestSchedule_RecursoFijoRepetidoNoSumaCapacidad(t *testing.T) {
	e := newEnv(t, nil, nil)
	wo, err := e.scheduler.Schedule(context.Background(), scheduling.ScheduleRequest{
		BOMID: "B4", Quantity: 1, Start: T, ResourceIDs: []string{"R1", "R1"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"R1"}, wo.AssignedResources)
	assert.Equal(t, at(4), wo.EndDate)
}

func TestSchedule_CantidadQueDesbordaSeRechaza(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil, nil)

	_, err := e.scheduler.Schedule(ctx, scheduling.ScheduleRequest{BOMID: "B1", Quantity: 1<<62 + 2, Start: T})
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))

	_, err = e.scheduler.Schedule(ctx, scheduling.ScheduleRequest{
		BOMID: "B4", Quantity: planning.MaxWindowHours/4 + 1, Start: T, ResourceIDs: []string{"R1"},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity), "ventana mayor al máximo")

	assert.Equal(t, int64(5), e.stock(t, "M1"))
	assert.Equal(t, int64(10), e.stock(t, "M2"))
	assert.True(t, e.free(t, "R1", 0, 8))
}

func TestSchedule_Validaciones(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil, nil)

	_, err := e.scheduler.Schedule(ctx, scheduling.ScheduleRequest{BOMID: "B1", Quantity: 0, Start: T})
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))

	_, err = e.scheduler.Schedule(ctx, scheduling.ScheduleRequest{BOMID: "B1", Quantity: 1, Start: T.Add(15 * time.Minute)})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = e.scheduler.Schedule(ctx, scheduling.ScheduleRequest{BOMID: "NOPE", Quantity: 1, Start: T})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = e.scheduler.Schedule(ctx, scheduling.ScheduleRequest{BOMID: "B1", Quantity: 1, Start: T, ResourceIDs: []string{"R9"}})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSchedule_ContextoCancelado(t *testing.T) {
	e := newEnv(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.scheduler.Schedule(ctx, scheduling.ScheduleRequest{BOMID: "B1", Quantity: 1, Start: T, ResourceIDs: []string{"R1"}})
	assert.True(t, errors.Is(err, domain.ErrSchedulingTimeout))
	assert.Equal(t, int64(5), e.stock(t, "M1"))
	assert.True(t, e.free(t, "R1", 0, 8))
}

func TestSchedule_FalloDePersistenciaDeshace(t *testing.T) {
	boom := errors.New("db caída")
	e := newEnv(t, scheduling.CommitterFunc(func(context.Context, scheduling.Change) error { return boom }), nil)

	_, err := e.scheduler.Schedule(context.Background(), scheduling.ScheduleRequest{BOMID: "B1", Quantity: 1, Start: T, ResourceIDs: []string{"R1"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(5), e.stock(t, "M1"))
	assert.True(t, e.free(t, "R1", 0, 8))
}

func TestSchedule_CommitRecibeElCambio(t *testing.T) {
	var changes []scheduling.Change
	e := newEnv(t, scheduling.CommitterFunc(func(_ context.Context, c scheduling.Change) error {
		changes = append(changes, c)
		return nil
	}), nil)

	wo, err := e.scheduler.Schedule(context.Background(), scheduling.ScheduleRequest{BOMID: "B1", Quantity: 2, Start: T, ResourceIDs: []string{"R1"}})
	require.NoError(t, err)
	require.Len(t, changes, 1)
	c := changes[0]
	assert.Equal(t, scheduling.ChangeScheduled, c.Kind)
	assert.Equal(t, wo.ID, c.WorkOrder.ID)
	assert.Equal(t, wo.BookingID, c.WorkOrder.BookingID)
	assert.Equal(t, map[string]int64{"M1": 1}, c.StockLevels)
	require.NotNil(t, c.Slots)
	assert.True(t, c.Slots.Busy)
	assert.Equal(t, at(2), c.Slots.End)
}

func TestCancel_DobleNoCambiaEstado(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil, nil)
	wo, err := e.scheduler.Schedule(ctx, scheduling.ScheduleRequest{BOMID: "B1", Quantity: 2, Start: T, ResourceIDs: []string{"R1"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.stock(t, "M1"))

	require.NoError(t, e.scheduler.Cancel(ctx, wo.ID))
	assert.Equal(t, int64(5), e.stock(t, "M1"))
	assert.True(t, e.free(t, "R1", 0, 8))
	before := e.calendar.Snapshot("R1")

	err = e.scheduler.Cancel(ctx, wo.ID)
	assert.True(t, errors.Is(err, domain.ErrAlreadyCancelled))
	assert.Equal(t, int64(5), e.stock(t, "M1"))
	assert.Equal(t, before, e.calendar.Snapshot("R1"))

	got, err := e.scheduler.Get(ctx, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WorkOrderCancelled, got.Status)
}

func TestCancel_FalloDePersistenciaRestaura(t *testing.T) {
	ctx := context.Background()
	var fail atomic.Bool
	e := newEnv(t, scheduling.CommitterFunc(func(_ context.Context, c scheduling.Change) error {
		if fail.Load() {
			return errors.New("db caída")
		}
		return nil
	}), nil)
	wo, err := e.scheduler.Schedule(ctx, scheduling.ScheduleRequest{BOMID: "B1", Quantity: 2, Start: T, ResourceIDs: []string{"R1"}})
	require.NoError(t, err)

	fail.Store(true)
	require.Error(t, e.scheduler.Cancel(ctx, wo.ID))
	assert.Equal(t, int64(1), e.stock(t, "M1"), "la reserva vuelve a aplicarse")
	assert.False(t, e.free(t, "R1", 0, 2))

	got, err := e.scheduler.Get(ctx, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WorkOrderPlanned, got.Status)

	fail.Store(false)
	require.NoError(t, e.scheduler.Cancel(ctx, wo.ID))
	assert.Equal(t, int64(5), e.stock(t, "M1"))
}

func TestCicloDeVida(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil, nil)
	wo, err := e.scheduler.Schedule(ctx, scheduling.ScheduleRequest{BOMID: "B1", Quantity: 1, Start: T, ProjectID: "P1", ResourceIDs: []string{"R1"}})
	require.NoError(t, err)

	_, err = e.scheduler.Complete(ctx, wo.ID, scheduling.CompletionInput{})
	assert.True(t, errors.Is(err, domain.ErrInvalidStatus), "no se completa sin iniciar")

	started, err := e.scheduler.Start(ctx, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WorkOrderInProgress, started.Status)

	_, err = e.scheduler.Start(ctx, wo.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidStatus))

	_, err = e.scheduler.Complete(ctx, wo.ID, scheduling.CompletionInput{MaterialUsage: map[string]int64{"M1": -1}})
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))

	done, err := e.scheduler.Complete(ctx, wo.ID, scheduling.CompletionInput{
		LaborHours:    decimal.RequireFromString("1.5"),
		MaterialUsage: map[string]int64{"M1": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.WorkOrderCompleted, done.Status)
	assert.Equal(t, int64(2), done.ActualMaterialUsage["M1"])
	assert.Equal(t, int64(3), e.stock(t, "M1"), "completar no devuelve stock")
	_, active := e.ledger.Reservation(wo.ReservationID)
	assert.False(t, active)

	assert.True(t, errors.Is(e.scheduler.Cancel(ctx, wo.ID), domain.ErrInvalidStatus))

	list, err := e.scheduler.ListByProject(ctx, "P1")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestComplete_FalloAlGuardarConservaReserva(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil, nil)
	wo, err := e.scheduler.Schedule(ctx, scheduling.ScheduleRequest{BOMID: "B1", Quantity: 1, Start: T, ResourceIDs: []string{"R1"}})
	require.NoError(t, err)
	_, err = e.scheduler.Start(ctx, wo.ID)
	require.NoError(t, err)

	e.orders.fail.Store(true)
	_, err = e.scheduler.Complete(ctx, wo.ID, scheduling.CompletionInput{MaterialUsage: map[string]int64{"M1": 2}})
	require.Error(t, err)
	_, active := e.ledger.Reservation(wo.ReservationID)
	assert.True(t, active, "la reserva sigue viva si la orden no se guardó")

	got, err := e.scheduler.Get(ctx, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.WorkOrderInProgress, got.Status)

	e.orders.fail.Store(false)
	require.NoError(t, e.scheduler.Cancel(ctx, wo.ID))
	assert.Equal(t, int64(5), e.stock(t, "M1"))
}

func TestReceiveStock(t *testing.T) {
	ctx := context.Background()
	var fail atomic.Bool
	var kinds []scheduling.ChangeKind
	e := newEnv(t, scheduling.CommitterFunc(func(_ context.Context, c scheduling.Change) error {
		if fail.Load() {
			return errors.New("db caída")
		}
		kinds = append(kinds, c.Kind)
		assert.Nil(t, c.WorkOrder)
		return nil
	}), nil)

	after, err := e.scheduler.ReceiveStock(ctx, "M1", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(12), after)
	assert.Equal(t, []scheduling.ChangeKind{scheduling.ChangeReceived}, kinds)

	fail.Store(true)
	_, err = e.scheduler.ReceiveStock(ctx, "M1", 3)
	require.Error(t, err)
	assert.Equal(t, int64(12), e.stock(t, "M1"))

	_, err = e.scheduler.ReceiveStock(ctx, "M1", 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))
}

func TestRecover_ReconstruyeHandles(t *testing.T) {
	ctx := context.Background()
	first := newEnv(t, nil, nil)
	open, err := first.scheduler.Schedule(ctx, scheduling.ScheduleRequest{BOMID: "B1", Quantity: 2, Start: T, ResourceIDs: []string{"R1"}})
	require.NoError(t, err)
	closed := &entity.WorkOrder{ID: "viejo", BOMID: "B1", Status: entity.WorkOrderCompleted, Quantity: 1, StartDate: at(6), EndDate: at(7)}

	// Segundo arranque: el stock persistido ya descuenta la reserva abierta.
	second := newEnv(t, nil, map[string]int64{"M1": 1})
	n, err := second.scheduler.Recover(ctx, []*entity.WorkOrder{open, closed})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, int64(1), second.stock(t, "M1"))
	assert.False(t, second.free(t, "R1", 0, 2))

	_, err = second.scheduler.Get(ctx, "viejo")
	require.NoError(t, err)

	require.NoError(t, second.scheduler.Cancel(ctx, open.ID))
	assert.Equal(t, int64(5), second.stock(t, "M1"))
	assert.True(t, second.free(t, "R1", 0, 8))
}

func TestCheckMaterialAvailability(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, nil, nil)
	ok, err := e.scheduler.CheckMaterialAvailability(ctx, "B1", 2)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = e.scheduler.CheckMaterialAvailability(ctx, "B1", 3)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = e.scheduler.CheckMaterialAvailability(ctx, "B1", 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))
}
