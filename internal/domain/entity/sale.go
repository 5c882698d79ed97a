package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago de una venta.
const (
	PaymentCash     = "efectivo"
	PaymentCard     = "tarjeta"
	PaymentTransfer = "transferencia"
	PaymentDebit    = "debito"
	PaymentCredit   = "credito"
	PaymentAccount  = "cuenta_corriente"
)

// SalePaymentMethods métodos aceptados al registrar una venta.
var SalePaymentMethods = []string{PaymentCash, PaymentCard, PaymentTransfer, PaymentAccount}

// CashPaymentMethods métodos aceptados en movimientos de caja.
var CashPaymentMethods = []string{PaymentCash, PaymentCard, PaymentTransfer, PaymentDebit, PaymentCredit, PaymentAccount}

// Estados de venta.
const (
	SaleCompleted = "completada"
	SaleVoided    = "anulada"
)

// Sale cabecera de una venta.
type Sale struct {
	ID             string
	CustomerID     *string
	EmployeeID     string
	CashRegisterID string
	Total          decimal.Decimal
	PaymentMethod  string
	PriceType      PriceType
	Status         string
	VoidReason     string
	Date           time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Items          []SaleItem
}

// SaleItem línea de venta.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	PriceType PriceType
}
