package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenCashRequest body para POST /api/v1/caja/abrir.
type OpenCashRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// CloseCashRequest body para POST /api/v1/caja/cerrar.
type CloseCashRequest struct {
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// CashMovementRequest body para POST /api/v1/caja/ingreso y /egreso.
type CashMovementRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Concept       string          `json:"concept" validate:"required"`
	PaymentMethod string          `json:"payment_method"`
}

// CashCountRequest body para POST /api/v1/caja/arqueo. Counted: método de pago → monto contado.
type CashCountRequest struct {
	Counted map[string]decimal.Decimal `json:"counted" validate:"required"`
	Notes   string                     `json:"notes"`
}

// CashRegisterResponse caja diaria en respuestas.
type CashRegisterResponse struct {
	ID             string           `json:"id"`
	Date           string           `json:"date"`
	EmployeeID     string           `json:"employee_id"`
	Status         string           `json:"status"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	ClosingBalance *decimal.Decimal `json:"closing_balance,omitempty"`
	TotalIncome    decimal.Decimal  `json:"total_income"`
	TotalExpense   decimal.Decimal  `json:"total_expense"`
	Balance        decimal.Decimal  `json:"balance"`
	SalesCount     int              `json:"sales_count"`
	SalesTotal     decimal.Decimal  `json:"sales_total"`
	ClosedAt       *time.Time       `json:"closed_at,omitempty"`
}

// CashMovementResponse movimiento de caja en respuestas.
type CashMovementResponse struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Concept       string          `json:"concept"`
	PaymentMethod string          `json:"payment_method"`
	EmployeeID    string          `json:"employee_id,omitempty"`
	SaleID        *string         `json:"sale_id,omitempty"`
	CustomerID    *string         `json:"customer_id,omitempty"`
	Date          time.Time       `json:"date"`
}

// CashCountLineResponse una línea del arqueo.
type CashCountLineResponse struct {
	PaymentMethod string          `json:"payment_method"`
	Counted       decimal.Decimal `json:"counted"`
	System        decimal.Decimal `json:"system"`
	Difference    decimal.Decimal `json:"difference"`
}

// CashCountResponse arqueo en respuestas.
type CashCountResponse struct {
	ID              string                  `json:"id"`
	CashRegisterID  string                  `json:"cash_register_id"`
	Date            time.Time               `json:"date"`
	Lines           []CashCountLineResponse `json:"lines"`
	TotalCounted    decimal.Decimal         `json:"total_counted"`
	TotalSystem     decimal.Decimal         `json:"total_system"`
	TotalDifference decimal.Decimal         `json:"total_difference"`
	Notes           string                  `json:"notes,omitempty"`
	Status          string                  `json:"status"`
}

// LegacyCashEntry movimiento de un turno importado del sistema anterior.
type LegacyCashEntry struct {
	Concept string
	Amount  decimal.Decimal
	Expense bool
}

// LegacyShift turno del sistema anterior (Firebase). ClosingBalance nil = turno sin cerrar.
type LegacyShift struct {
	SourceID       string
	StartedAt      time.Time
	OpeningBalance decimal.Decimal
	ClosingBalance *decimal.Decimal
	Entries        []LegacyCashEntry
}
