package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	StockMovementIn     = "entrada"
	StockMovementOut    = "salida"
	StockMovementAdjust = "ajuste"
	StockMovementSale   = "venta"
	StockMovementVoid   = "anulacion"
)

// StockMovement registra cada cambio de stock de un producto.
type StockMovement struct {
	ID         string
	ProductID  string
	Type       string
	Quantity   int // positivo entrada, negativo salida
	StockAfter int
	UnitCost   decimal.Decimal
	Reference  string // venta, remito, nota de ajuste
	Reason     string
	EmployeeID string
	CreatedAt  time.Time
}
