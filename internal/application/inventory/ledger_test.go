package inventory_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/application/locks"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
)

func newMovements() *memory.InventoryMovementRepo {
	return memory.NewInventoryMovementRepository()
}

func newLedgerWith(t *testing.T, movements *memory.InventoryMovementRepo, materials ...entity.Material) *inventory.Ledger {
	t.Helper()
	l := inventory.NewLedger(locks.NewManager(time.Second), movements, nil)
	for _, m := range materials {
		require.NoError(t, l.Register(m))
	}
	return l
}

func newLedger(t *testing.T, stock map[string]int64) (*inventory.Ledger, *memory.InventoryMovementRepo) {
	t.Helper()
	movements := newMovements()
	materials := make([]entity.Material, 0, len(stock))
	for id, qty := range stock {
		materials = append(materials, entity.Material{ID: id, Name: id, UnitCost: decimal.NewFromInt(1), StockQuantity: qty})
	}
	return newLedgerWith(t, movements, materials...), movements
}

func bom(components ...entity.BOMComponent) *entity.BillOfMaterials {
	return &entity.BillOfMaterials{ID: "B1", ProductID: "P1", Components: components, LaborHours: decimal.NewFromInt(1)}
}

func stock(t *testing.T, l *inventory.Ledger, id string) int64 {
	t.Helper()
	qty, err := l.Stock(id)
	require.NoError(t, err)
	return qty
}

func TestReserveRelease_RestauraStockExacto(t *testing.T) {
	ctx := context.Background()
	l, movements := newLedger(t, map[string]int64{"M1": 10, "M2": 7})
	b := bom(entity.BOMComponent{MaterialID: "M1", Quantity: 2}, entity.BOMComponent{MaterialID: "M2", Quantity: 1})

	r, err := l.Reserve(ctx, b, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stock(t, l, "M1"))
	assert.Equal(t, int64(4), stock(t, l, "M2"))

	require.NoError(t, l.Release(ctx, r.ID))
	assert.Equal(t, int64(10), stock(t, l, "M1"))
	assert.Equal(t, int64(7), stock(t, l, "M2"))

	movs, err := movements.ListByMaterial(ctx, "M1")
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, int64(-6), movs[0].Quantity)
	assert.Equal(t, int64(6), movs[1].Quantity)
}

func TestReserve_TodoONada(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, map[string]int64{"M1": 10, "M2": 1})
	b := bom(entity.BOMComponent{MaterialID: "M1", Quantity: 2}, entity.BOMComponent{MaterialID: "M2", Quantity: 1})

	_, err := l.Reserve(ctx, b, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	require.Len(t, stockErr.Shortfalls, 1)
	assert.Equal(t, domain.Shortfall{MaterialID: "M2", Required: 3, Available: 1}, stockErr.Shortfalls[0])

	assert.Equal(t, int64(10), stock(t, l, "M1"), "M1 no debe descontarse si M2 falla")
	assert.Equal(t, int64(1), stock(t, l, "M2"))
}

func TestReserve_MaterialRepetidoSeAgrega(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, map[string]int64{"M1": 5})
	b := bom(entity.BOMComponent{MaterialID: "M1", Quantity: 2}, entity.BOMComponent{MaterialID: "M1", Quantity: 1})

	ok, err := l.CheckAvailability(ctx, b, 2)
	require.NoError(t, err)
	assert.False(t, ok, "2 unidades requieren 6 de M1")

	r, err := l.Reserve(ctx, b, 1)
	require.NoError(t, err)
	require.Len(t, r.Lines, 1)
	assert.Equal(t, int64(3), r.Lines[0].Quantity)
	assert.Equal(t, int64(2), stock(t, l, "M1"))
}

func TestReserve_CantidadQueDesbordaSeRechaza(t *testing.T) {
	ctx := context.Background()
	l, movements := newLedger(t, map[string]int64{"M1": 5})

	_, err := l.Reserve(ctx, bom(entity.BOMComponent{MaterialID: "M1", Quantity: 2}), 1<<62+2)
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))

	// cada componente cabe en int64 pero la suma por material no
	half := int64(math.MaxInt64/2 + 1)
	_, err = l.Reserve(ctx, bom(
		entity.BOMComponent{MaterialID: "M1", Quantity: half},
		entity.BOMComponent{MaterialID: "M1", Quantity: half},
	), 1)
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))

	_, err = l.CheckAvailability(ctx, bom(entity.BOMComponent{MaterialID: "M1", Quantity: 2}), 1<<62+2)
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))

	assert.Equal(t, int64(5), stock(t, l, "M1"))
	movs, err := movements.ListByMaterial(ctx, "M1")
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestRelease_DobleLiberacion(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, map[string]int64{"M1": 5})
	r, err := l.Reserve(ctx, bom(entity.BOMComponent{MaterialID: "M1", Quantity: 1}), 2)
	require.NoError(t, err)

	require.NoError(t, l.Release(ctx, r.ID))
	err = l.Release(ctx, r.ID)
	assert.True(t, errors.Is(err, domain.ErrReservationReleased))
	assert.Equal(t, int64(5), stock(t, l, "M1"), "la segunda liberación no debe sumar stock")
}

func TestConsume_NoDevuelveStock(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, map[string]int64{"M1": 5})
	r, err := l.Reserve(ctx, bom(entity.BOMComponent{MaterialID: "M1", Quantity: 1}), 2)
	require.NoError(t, err)

	require.NoError(t, l.Consume(ctx, r.ID))
	assert.Equal(t, int64(3), stock(t, l, "M1"))
	assert.True(t, errors.Is(l.Release(ctx, r.ID), domain.ErrReservationReleased))
}

func TestCantidadInvalida(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, map[string]int64{"M1": 5})
	b := bom(entity.BOMComponent{MaterialID: "M1", Quantity: 1})

	_, err := l.Reserve(ctx, b, 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))
	_, err = l.CheckAvailability(ctx, b, -1)
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))
	assert.True(t, errors.Is(l.Receive(ctx, "M1", 0), domain.ErrInvalidQuantity))
}

func TestMaterialDesconocido(t *testing.T) {
	l, _ := newLedger(t, map[string]int64{"M1": 5})
	_, err := l.Reserve(context.Background(), bom(entity.BOMComponent{MaterialID: "X", Quantity: 1}), 1)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestHeld_SinLeaseFalla(t *testing.T) {
	l, _ := newLedger(t, map[string]int64{"M1": 5})
	lm := locks.NewManager(time.Second)
	lease, err := lm.Acquire(context.Background(), locks.MaterialKey("OTRO"))
	require.NoError(t, err)
	defer lease.Release()

	_, err = l.ReserveHeld(context.Background(), lease, bom(entity.BOMComponent{MaterialID: "M1", Quantity: 1}), 1)
	assert.ErrorIs(t, err, locks.ErrLeaseMissing)
}

func TestReceive_SumaStock(t *testing.T) {
	ctx := context.Background()
	l, movements := newLedger(t, map[string]int64{"M1": 5})
	require.NoError(t, l.Receive(ctx, "M1", 4))
	assert.Equal(t, int64(9), stock(t, l, "M1"))

	movs, err := movements.ListByMaterial(ctx, "M1")
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeReceive, movs[0].Type)
	assert.Equal(t, int64(9), movs[0].StockAfter)

	assert.True(t, errors.Is(l.Receive(ctx, "X", 1), domain.ErrNotFound))
}

func TestAdoptHeld_NoTocaStock(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, map[string]int64{"M1": 3})
	b := bom(entity.BOMComponent{MaterialID: "M1", Quantity: 2})
	lm := locks.NewManager(time.Second)
	lease, err := lm.Acquire(ctx, l.Keys(b)...)
	require.NoError(t, err)

	r, err := l.AdoptHeld(lease, "res-1", b, 2)
	require.NoError(t, err)
	assert.Equal(t, "res-1", r.ID)
	assert.Equal(t, int64(3), stock(t, l, "M1"))

	_, err = l.AdoptHeld(lease, "res-1", b, 2)
	assert.True(t, errors.Is(err, domain.ErrInvalidStatus))
	lease.Release()

	require.NoError(t, l.Release(ctx, "res-1"))
	assert.Equal(t, int64(7), stock(t, l, "M1"))
}

func TestReserve_ConcurrenteNoSobrevende(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, map[string]int64{"M1": 10})
	b := bom(entity.BOMComponent{MaterialID: "M1", Quantity: 1})

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		won  int
		lost int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Reserve(ctx, b, 1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				won++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				lost++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, won)
	assert.Equal(t, 15, lost)
	assert.Equal(t, int64(0), stock(t, l, "M1"))
}
