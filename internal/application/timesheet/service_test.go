package timesheet_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/timesheet"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/memory"
)

var day = time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC)

func newService(t *testing.T) *timesheet.Service {
	t.Helper()
	ctx := context.Background()
	store := memory.NewCatalog()
	require.NoError(t, store.PutResource(entity.Resource{ID: "R1", Type: entity.ResourceTypeHuman, CostPerHour: decimal.NewFromInt(30)}))
	require.NoError(t, store.PutResource(entity.Resource{ID: "R2", Type: entity.ResourceTypeHuman, CostPerHour: decimal.NewFromInt(30)}))

	projects := memory.NewProjectRepository()
	require.NoError(t, projects.Save(ctx, &entity.Project{ID: "P1", Name: "Uno", StartDate: day}))
	require.NoError(t, projects.Save(ctx, &entity.Project{ID: "P2", Name: "Dos", StartDate: day}))

	orders := memory.NewWorkOrderRepository()
	require.NoError(t, orders.Save(ctx, &entity.WorkOrder{ID: "WO-P2", ProjectID: "P2", Status: entity.WorkOrderPlanned}))
	require.NoError(t, orders.Save(ctx, &entity.WorkOrder{ID: "WO-P1", ProjectID: "P1", Status: entity.WorkOrderPlanned}))

	return timesheet.NewService(store, projects, orders, memory.NewEntryRepository(), nil)
}

func logTime(resource string, from time.Time, d time.Duration) dto.LogTimeRequest {
	return dto.LogTimeRequest{ResourceID: resource, ProjectID: "P1", StartTime: from, EndTime: from.Add(d), ActivityDescription: "  corte  "}
}

func TestLogTime(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	e, err := s.LogTime(ctx, logTime("R1", day, 90*time.Minute))
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "corte", e.ActivityDescription)
	assert.True(t, decimal.RequireFromString("1.5").Equal(e.Hours()))

	req := logTime("R1", day, time.Hour)
	req.WorkOrderID = "WO-P1"
	_, err = s.LogTime(ctx, req)
	require.NoError(t, err)
}

func TestLogTime_Invalidos(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	_, err := s.LogTime(ctx, logTime("R1", day, 0))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "fin igual al inicio")

	_, err = s.LogTime(ctx, logTime("R9", day, time.Hour))
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	req := logTime("R1", day, time.Hour)
	req.ProjectID = "P9"
	_, err = s.LogTime(ctx, req)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	req = logTime("R1", day, time.Hour)
	req.WorkOrderID = "WO-P2"
	_, err = s.LogTime(ctx, req)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "la orden es de otro proyecto")
}

func TestLogExpense(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	e, err := s.LogExpense(ctx, dto.LogExpenseRequest{ProjectID: "P1", Amount: decimal.RequireFromString("25.50"), Category: " transporte "})
	require.NoError(t, err)
	assert.Equal(t, "TRANSPORTE", e.Category)
	assert.False(t, e.Date.IsZero(), "sin fecha se usa la actual")

	_, err = s.LogExpense(ctx, dto.LogExpenseRequest{ProjectID: "P1", Amount: decimal.Zero})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = s.LogExpense(ctx, dto.LogExpenseRequest{ProjectID: "P9", Amount: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTimeReport(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	_, err := s.LogTime(ctx, logTime("R2", day, 2*time.Hour))
	require.NoError(t, err)
	_, err = s.LogTime(ctx, logTime("R1", day, 30*time.Minute))
	require.NoError(t, err)
	_, err = s.LogTime(ctx, logTime("R1", day.AddDate(0, 0, 1), time.Hour))
	require.NoError(t, err)
	_, err = s.LogExpense(ctx, dto.LogExpenseRequest{ProjectID: "P1", Amount: decimal.NewFromInt(10), Date: day})
	require.NoError(t, err)
	_, err = s.LogExpense(ctx, dto.LogExpenseRequest{ProjectID: "P1", Amount: decimal.NewFromInt(5), Date: day.AddDate(0, 0, 1)})
	require.NoError(t, err)

	all, err := s.TimeReport(ctx, "P1", nil, nil)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("3.5").Equal(all.TotalHours))
	assert.True(t, decimal.NewFromInt(15).Equal(all.Expenses))
	require.Len(t, all.ByResource, 2)
	assert.Equal(t, "R1", all.ByResource[0].ResourceID)
	assert.Equal(t, 2, all.ByResource[0].Entries)
	assert.True(t, decimal.RequireFromString("1.5").Equal(all.ByResource[0].Hours))

	from := day.Add(-time.Hour)
	to := day.Add(12 * time.Hour)
	first, err := s.TimeReport(ctx, "P1", &from, &to)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("2.5").Equal(first.TotalHours))
	assert.True(t, decimal.NewFromInt(10).Equal(first.Expenses))

	_, err = s.TimeReport(ctx, "P1", &to, &from)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
