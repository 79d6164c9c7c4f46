package planning

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// SortByCost ordena por costo por hora ascendente y desempata por ID ascendente.
func SortByCost(resources []*entity.Resource) []*entity.Resource {
	out := append([]*entity.Resource(nil), resources...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CostPerHour.Equal(out[j].CostPerHour) {
			return out[i].CostPerHour.LessThan(out[j].CostPerHour)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SelectResources elige de forma greedy (más baratos primero) los candidatos disponibles
// hasta que su capacidad sumada cubra demand. Devuelve false si ningún subconjunto alcanza.
func SelectResources(candidates []*entity.Resource, demand decimal.Decimal, available func(id string) bool) ([]*entity.Resource, bool) {
	var (
		selected []*entity.Resource
		capacity = decimal.Zero
	)
	if !demand.IsPositive() {
		return nil, true
	}
	for _, r := range SortByCost(candidates) {
		if !available(r.ID) {
			continue
		}
		selected = append(selected, r)
		capacity = capacity.Add(r.CapacityPerHour)
		if capacity.GreaterThanOrEqual(demand) {
			return selected, true
		}
	}
	return nil, false
}

// TotalCapacity suma la capacidad por hora de los recursos.
func TotalCapacity(resources []*entity.Resource) decimal.Decimal {
	total := decimal.Zero
	for _, r := range resources {
		total = total.Add(r.CapacityPerHour)
	}
	return total
}

// RequiredCapacity suma la demanda de capacidad de los requerimientos de un BOM.
func RequiredCapacity(reqs []entity.ResourceRequirement) decimal.Decimal {
	total := decimal.Zero
	for _, r := range reqs {
		total = total.Add(r.CapacityPerHour)
	}
	return total
}
