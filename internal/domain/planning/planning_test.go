package planning_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/planning"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestProductionHours(t *testing.T) {
	cases := []struct {
		name     string
		labor    string
		qty      int64
		capacity string
		want     int64
	}{
		{"exacto", "2", 3, "1", 6},
		{"redondea arriba", "1.5", 3, "2", 3},
		{"mínimo una hora", "0.1", 1, "4", 1},
		{"capacidad cero se trata como uno", "2", 2, "0", 4},
		{"sin mano de obra", "0", 10, "1", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, planning.ProductionHours(d(tc.labor), tc.qty, d(tc.capacity)))
		})
	}
}

func TestProductionHours_SaturaSinDesbordar(t *testing.T) {
	got := planning.ProductionHours(d("1000"), math.MaxInt64, d("0.5"))
	assert.Equal(t, int64(math.MaxInt64), got)
	assert.Greater(t, got, planning.MaxWindowHours)
}

func TestHourAlignedYSlots(t *testing.T) {
	start := time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC)
	assert.True(t, planning.HourAligned(start))
	assert.False(t, planning.HourAligned(start.Add(time.Minute)))
	assert.False(t, planning.HourAligned(start.Add(time.Second)))

	slots := planning.HourSlots(start, start.Add(3*time.Hour))
	require.Len(t, slots, 3)
	assert.Equal(t, start.Add(2*time.Hour), slots[2])
	assert.Empty(t, planning.HourSlots(start, start))
}

func resources() []*entity.Resource {
	return []*entity.Resource{
		{ID: "R3", CapacityPerHour: d("2"), CostPerHour: d("30")},
		{ID: "R2", CapacityPerHour: d("1"), CostPerHour: d("10")},
		{ID: "R1", CapacityPerHour: d("1"), CostPerHour: d("10")},
		{ID: "R4", CapacityPerHour: d("5"), CostPerHour: d("99")},
	}
}

func ids(rs []*entity.Resource) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestSortByCost_DesempatePorID(t *testing.T) {
	in := resources()
	sorted := planning.SortByCost(in)
	assert.Equal(t, []string{"R1", "R2", "R3", "R4"}, ids(sorted))
	assert.Equal(t, "R3", in[0].ID, "no debe modificar el slice de entrada")
}

func TestSelectResources(t *testing.T) {
	all := func(string) bool { return true }

	sel, ok := planning.SelectResources(resources(), d("2"), all)
	require.True(t, ok)
	assert.Equal(t, []string{"R1", "R2"}, ids(sel))

	busyR1 := func(id string) bool { return id != "R1" }
	sel, ok = planning.SelectResources(resources(), d("3"), busyR1)
	require.True(t, ok)
	assert.Equal(t, []string{"R2", "R3"}, ids(sel))

	_, ok = planning.SelectResources(resources(), d("20"), all)
	assert.False(t, ok)

	sel, ok = planning.SelectResources(resources(), decimal.Zero, all)
	assert.True(t, ok)
	assert.Empty(t, sel)

	assert.True(t, d("9").Equal(planning.TotalCapacity(resources())))
	assert.True(t, d("3.5").Equal(planning.RequiredCapacity([]entity.ResourceRequirement{
		{Type: entity.ResourceTypeMachine, CapacityPerHour: d("2")},
		{Type: entity.ResourceTypeHuman, CapacityPerHour: d("1.5")},
	})))
}

func diamond() []entity.WorkflowStep {
	return []entity.WorkflowStep{
		{ID: "A", EstimatedDuration: 10},
		{ID: "B", EstimatedDuration: 20, PredecessorSteps: []string{"A"}},
		{ID: "C", EstimatedDuration: 5, PredecessorSteps: []string{"A"}},
		{ID: "D", EstimatedDuration: 10, PredecessorSteps: []string{"B", "C"}},
	}
}

func TestTopologicalOrder(t *testing.T) {
	order, err := planning.TopologicalOrder(diamond())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, order)

	// Declarados en desorden: se respeta la dependencia y se desempata por declaración.
	order, err = planning.TopologicalOrder([]entity.WorkflowStep{
		{ID: "Z", EstimatedDuration: 1, PredecessorSteps: []string{"Y"}},
		{ID: "X", EstimatedDuration: 1},
		{ID: "Y", EstimatedDuration: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y", "Z"}, order)
}

func TestTopologicalOrder_Invalidos(t *testing.T) {
	cases := map[string][]entity.WorkflowStep{
		"ciclo": {
			{ID: "A", EstimatedDuration: 1, PredecessorSteps: []string{"B"}},
			{ID: "B", EstimatedDuration: 1, PredecessorSteps: []string{"A"}},
		},
		"duplicado":          {{ID: "A", EstimatedDuration: 1}, {ID: "A", EstimatedDuration: 2}},
		"predecesor ausente": {{ID: "A", EstimatedDuration: 1, PredecessorSteps: []string{"X"}}},
		"duración cero":      {{ID: "A"}},
		"sin ID":             {{EstimatedDuration: 3}},
	}
	for name, steps := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := planning.TopologicalOrder(steps)
			assert.True(t, errors.Is(err, domain.ErrInvalidWorkflow))
		})
	}
}

func TestLongestPath(t *testing.T) {
	steps := diamond()
	order, err := planning.TopologicalOrder(steps)
	require.NoError(t, err)

	cp := planning.LongestPath(steps, order, func(s entity.WorkflowStep) int { return s.EstimatedDuration })
	assert.Equal(t, []string{"A", "B", "D"}, cp.Steps)
	assert.Equal(t, 40, cp.Duration)

	done := map[string]bool{"A": true, "B": true}
	remaining := planning.LongestPath(steps, order, func(s entity.WorkflowStep) int {
		if done[s.ID] {
			return 0
		}
		return s.EstimatedDuration
	})
	assert.Equal(t, []string{"C", "D"}, remaining.Steps)
	assert.Equal(t, 15, remaining.Duration)

	none := planning.LongestPath(steps, order, func(entity.WorkflowStep) int { return 0 })
	assert.Empty(t, none.Steps)
	assert.Zero(t, none.Duration)
}
