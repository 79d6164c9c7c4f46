package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeEntry registro de tiempo de un recurso; append-only.
type TimeEntry struct {
	ID                  string
	ResourceID          string
	ProjectID           string
	WorkOrderID         string
	StartTime           time.Time
	EndTime             time.Time
	ActivityDescription string
	CreatedAt           time.Time
}

// Hours duración exacta en horas.
func (t TimeEntry) Hours() decimal.Decimal {
	return decimal.NewFromInt(int64(t.EndTime.Sub(t.StartTime) / time.Second)).Div(decimal.NewFromInt(3600))
}

// ExpenseEntry gasto imputado a un proyecto; append-only.
type ExpenseEntry struct {
	ID          string
	ProjectID   string
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	Category    string
	CreatedAt   time.Time
}
