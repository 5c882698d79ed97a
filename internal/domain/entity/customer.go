package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Condiciones frente al IVA del cliente (determinan el tipo de factura).
const (
	IVAResponsableInscripto = "Responsable Inscripto"
	IVAMonotributo          = "Monotributo"
	IVAExento               = "Exento"
	IVAConsumidorFinal      = "Consumidor Final"
)

// Customer representa un cliente con cuenta corriente (fiado).
type Customer struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Address      string
	TaxID        string // CUIT o DNI
	IVACondition string
	CreditLimit  decimal.Decimal
	Balance      decimal.Decimal // saldo de cuenta corriente (deuda)
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AvailableCredit devuelve cuánto más puede fiarse al cliente.
func (c *Customer) AvailableCredit() decimal.Decimal {
	return c.CreditLimit.Sub(c.Balance)
}

// Tipos de movimiento de cuenta corriente.
const (
	AccountCharge  = "cargo"
	AccountPayment = "pago"
)

// AccountMovement línea del estado de cuenta de un cliente.
type AccountMovement struct {
	ID           string
	CustomerID   string
	Type         string // cargo | pago
	Amount       decimal.Decimal
	BalanceAfter decimal.Decimal
	Concept      string
	SaleID       *string
	EmployeeID   string
	CreatedAt    time.Time
}
