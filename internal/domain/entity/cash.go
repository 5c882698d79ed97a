package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la caja diaria.
const (
	CashRegisterOpen   = "abierta"
	CashRegisterClosed = "cerrada"
)

// CashRegister caja diaria (turno). Solo puede haber una abierta por día.
type CashRegister struct {
	ID             string
	Date           time.Time // día calendario en la zona del negocio
	EmployeeID     string
	Status         string
	OpeningBalance decimal.Decimal
	ClosingBalance *decimal.Decimal
	TotalIncome    decimal.Decimal
	TotalExpense   decimal.Decimal
	SalesCount     int
	SalesTotal     decimal.Decimal
	ClosedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsOpen indica si la caja acepta movimientos.
func (c *CashRegister) IsOpen() bool {
	return c.Status == CashRegisterOpen
}

// Tipos de movimiento de caja.
const (
	CashIncome  = "ingreso"
	CashExpense = "egreso"
)

// CashMovement ingreso o egreso de una caja diaria.
type CashMovement struct {
	ID             string
	CashRegisterID string
	Type           string // ingreso | egreso
	Amount         decimal.Decimal
	Concept        string
	PaymentMethod  string
	EmployeeID     string
	SaleID         *string
	CustomerID     *string
	Date           time.Time
}

// Signed devuelve el monto con signo (egresos negativos).
func (m CashMovement) Signed() decimal.Decimal {
	if m.Type == CashExpense {
		return m.Amount.Neg()
	}
	return m.Amount
}

// Estados del arqueo.
const (
	CashCountBalanced = "cuadrado"
	CashCountSurplus  = "sobrante"
	CashCountShortage = "faltante"
)

// CashCountLine montos contado vs sistema para un método de pago.
type CashCountLine struct {
	Method     string
	Counted    decimal.Decimal
	System     decimal.Decimal
	Difference decimal.Decimal
}

// CashCount arqueo de una caja diaria.
type CashCount struct {
	ID              string
	CashRegisterID  string
	Date            time.Time
	EmployeeID      string
	Lines           []CashCountLine
	TotalCounted    decimal.Decimal
	TotalSystem     decimal.Decimal
	TotalDifference decimal.Decimal
	Notes           string
	Status          string
	CreatedAt       time.Time
}
