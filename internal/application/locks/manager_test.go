package locks_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/application/locks"
	"github.com/jhoicas/Produccion-api/internal/domain"
)

func TestAcquire_OrdenaYDeduplica(t *testing.T) {
	m := locks.NewManager(time.Second)
	lease, err := m.Acquire(context.Background(), "resource:R2", "material:M1", "resource:R2", "material:M0")
	require.NoError(t, err)
	defer lease.Release()

	assert.Equal(t, []string{"material:M0", "material:M1", "resource:R2"}, lease.Keys())
	assert.True(t, lease.Covers("material:M1", "resource:R2"))
	assert.False(t, lease.Covers("material:M9"))
}

func TestAcquire_TimeoutLiberaLoAdquirido(t *testing.T) {
	m := locks.NewManager(50 * time.Millisecond)
	ctx := context.Background()

	held, err := m.Acquire(ctx, locks.MaterialKey("M2"))
	require.NoError(t, err)

	_, err = m.Acquire(ctx, locks.MaterialKey("M1"), locks.MaterialKey("M2"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSchedulingTimeout))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	// M1 quedó libre tras el fallo.
	other, err := m.Acquire(ctx, locks.MaterialKey("M1"))
	require.NoError(t, err)
	other.Release()
	held.Release()
}

func TestAcquire_ContextoCancelado(t *testing.T) {
	m := locks.NewManager(time.Second)
	held, err := m.Acquire(context.Background(), locks.ResourceKey("R1"))
	require.NoError(t, err)
	defer held.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Acquire(ctx, locks.ResourceKey("R1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSchedulingTimeout))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRelease_Idempotente(t *testing.T) {
	m := locks.NewManager(100 * time.Millisecond)
	lease, err := m.Acquire(context.Background(), locks.WorkOrderKey("W1"))
	require.NoError(t, err)
	lease.Release()
	lease.Release()
	assert.Empty(t, lease.Keys())

	again, err := m.Acquire(context.Background(), locks.WorkOrderKey("W1"))
	require.NoError(t, err)
	again.Release()

	var nilLease *locks.Lease
	nilLease.Release()
	assert.True(t, nilLease.Covers())
}

func TestAcquire_OrdenesOpuestosSinDeadlock(t *testing.T) {
	m := locks.NewManager(5 * time.Second)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		counter int
	)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			lease, err := m.Acquire(context.Background(), "material:A", "material:B")
			if err != nil {
				return
			}
			mu.Lock()
			counter++
			mu.Unlock()
			lease.Release()
		}()
		go func() {
			defer wg.Done()
			lease, err := m.Acquire(context.Background(), "material:B", "material:A")
			if err != nil {
				return
			}
			mu.Lock()
			counter++
			mu.Unlock()
			lease.Release()
		}()
	}
	wg.Wait()
	assert.Equal(t, 40, counter)
}

func TestNewManager_TimeoutPorDefecto(t *testing.T) {
	assert.Equal(t, locks.DefaultTimeout, locks.NewManager(0).Timeout())
}
