package inventory

import "github.com/shopspring/decimal"

// MaterialCost costo de un consumo de material: Σ cantidad × costo unitario.
// unitCosts sin entrada para un material aportan 0.
func MaterialCost(usage map[string]int64, unitCosts map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for materialID, qty := range usage {
		if cost, ok := unitCosts[materialID]; ok {
			total = total.Add(cost.Mul(decimal.NewFromInt(qty)))
		}
	}
	return total
}

// LaborCost costo de mano de obra: horas × tarifa.
func LaborCost(hours, rate decimal.Decimal) decimal.Decimal {
	return hours.Mul(rate)
}
