package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LogTimeRequest body para POST /api/time-entries.
type LogTimeRequest struct {
	ResourceID          string    `json:"resource_id"`
	ProjectID           string    `json:"project_id"`
	WorkOrderID         string    `json:"work_order_id,omitempty"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	ActivityDescription string    `json:"activity_description"`
}

// LogExpenseRequest body para POST /api/expense-entries.
type LogExpenseRequest struct {
	ProjectID   string          `json:"project_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
}

// EntryCreatedResponse id del registro creado.
type EntryCreatedResponse struct {
	ID string `json:"id"`
}
