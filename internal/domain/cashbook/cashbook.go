// Package cashbook contiene los cálculos de la caja diaria: saldo, totales de cierre y arqueo.
package cashbook

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

// Tolerance diferencia por debajo de la cual un arqueo se considera cuadrado.
var Tolerance = decimal.NewFromFloat(0.01)

// Totals ingresos y egresos acumulados de una caja.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Net ingresos - egresos.
func (t Totals) Net() decimal.Decimal { return t.Income.Sub(t.Expense) }

// Sum acumula los movimientos.
func Sum(movs []entity.CashMovement) Totals {
	var t Totals
	for _, m := range movs {
		if m.Type == entity.CashExpense {
			t.Expense = t.Expense.Add(m.Amount)
		} else {
			t.Income = t.Income.Add(m.Amount)
		}
	}
	return t
}

// Balance saldo_inicial + ingresos - egresos.
func Balance(opening decimal.Decimal, movs []entity.CashMovement) decimal.Decimal {
	return opening.Add(Sum(movs).Net())
}

// CheckExpense valida que la caja tenga saldo suficiente para el egreso.
func CheckExpense(opening decimal.Decimal, movs []entity.CashMovement, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: el monto debe ser mayor a 0", domain.ErrInvalidInput)
	}
	if bal := Balance(opening, movs); bal.LessThan(amount) {
		return fmt.Errorf("%w: saldo %s, egreso %s", domain.ErrInsufficientCash, bal.StringFixed(2), amount.StringFixed(2))
	}
	return nil
}

// SystemByMethod neto por método de pago según el sistema. Efectivo incluye el saldo inicial.
func SystemByMethod(opening decimal.Decimal, movs []entity.CashMovement) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(entity.CashPaymentMethods))
	for _, m := range entity.CashPaymentMethods {
		out[m] = decimal.Zero
	}
	out[entity.PaymentCash] = opening
	for _, m := range movs {
		out[m.PaymentMethod] = out[m.PaymentMethod].Add(m.Signed())
	}
	return out
}

// Count arma el arqueo comparando lo contado contra el sistema.
// Los métodos ausentes en counted se toman como contado 0.
func Count(reg *entity.CashRegister, movs []entity.CashMovement, counted map[string]decimal.Decimal) entity.CashCount {
	system := SystemByMethod(reg.OpeningBalance, movs)
	cc := entity.CashCount{CashRegisterID: reg.ID}
	for _, method := range entity.CashPaymentMethods {
		line := entity.CashCountLine{
			Method:  method,
			Counted: counted[method],
			System:  system[method],
		}
		line.Difference = line.Counted.Sub(line.System)
		cc.Lines = append(cc.Lines, line)
		cc.TotalCounted = cc.TotalCounted.Add(line.Counted)
		cc.TotalSystem = cc.TotalSystem.Add(line.System)
	}
	cc.TotalDifference = cc.TotalCounted.Sub(cc.TotalSystem)
	cc.Status = Status(cc.TotalDifference)
	return cc
}

// Status clasifica una diferencia de arqueo.
func Status(diff decimal.Decimal) string {
	switch {
	case diff.Abs().LessThan(Tolerance):
		return entity.CashCountBalanced
	case diff.IsPositive():
		return entity.CashCountSurplus
	}
	return entity.CashCountShortage
}
