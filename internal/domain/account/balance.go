// Package account contiene las reglas de la cuenta corriente (fiado) de los clientes.
package account

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

// ApplyCharge devuelve el saldo resultante de fiar monto al cliente.
// Rechaza montos no positivos y cargos que superan el límite de crédito.
func ApplyCharge(c *entity.Customer, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: el monto debe ser mayor a 0", domain.ErrInvalidInput)
	}
	next := c.Balance.Add(amount)
	if next.GreaterThan(c.CreditLimit) {
		return decimal.Zero, fmt.Errorf("%w: disponible %s, solicitado %s",
			domain.ErrCreditLimitExceeded, c.AvailableCredit().StringFixed(2), amount.StringFixed(2))
	}
	return next, nil
}

// ApplyPayment devuelve el saldo resultante de un pago de deuda: max(0, saldo - monto).
func ApplyPayment(c *entity.Customer, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: el monto debe ser mayor a 0", domain.ErrInvalidInput)
	}
	if amount.GreaterThan(c.Balance) {
		return decimal.Zero, fmt.Errorf("%w: el pago (%s) supera la deuda (%s)",
			domain.ErrInvalidInput, amount.StringFixed(2), c.Balance.StringFixed(2))
	}
	return decimal.Max(decimal.Zero, c.Balance.Sub(amount)), nil
}

// Reverse devuelve el saldo tras revertir un cargo (anulación de venta fiada).
func Reverse(c *entity.Customer, amount decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, c.Balance.Sub(amount))
}
