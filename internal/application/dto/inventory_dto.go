package dto

import "github.com/shopspring/decimal"

// ReceiveStockRequest body para POST /api/inventory/receipts.
type ReceiveStockRequest struct {
	MaterialID string `json:"material_id"`
	Quantity   int64  `json:"quantity"`
}

// StockLevelDTO stock actual de un material.
type StockLevelDTO struct {
	MaterialID    string `json:"material_id"`
	StockQuantity int64  `json:"stock_quantity"`
}

// ReplenishmentSuggestionDTO sugerencia de compra para un material en o bajo su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	MaterialID         string          `json:"material_id"`
	MaterialName       string          `json:"material_name"`
	CurrentStock       int64           `json:"current_stock"`
	ReorderPoint       int64           `json:"reorder_point"`
	IdealStock         int64           `json:"ideal_stock"`         // ReorderPoint * 1.5, redondeado arriba
	SuggestedOrderQty  int64           `json:"suggested_order_qty"` // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	LeadTimeDays       int             `json:"lead_time_days"`
	ConsumedLast90Days int64           `json:"consumed_last_90d"`
	Priority           int             `json:"priority"` // 1 = más urgente
}
