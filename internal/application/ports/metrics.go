package ports

import "github.com/shopspring/decimal"

// Metrics contadores de negocio.
type Metrics interface {
	SaleRegistered(paymentMethod string, total decimal.Decimal)
	SaleVoided()
	CustomerPayment(amount decimal.Decimal)
	CashMovement(movType, paymentMethod string)
	InvoiceIssued(status string)
}

// NopMetrics implementación vacía (tests, CLI).
type NopMetrics struct{}

func (NopMetrics) SaleRegistered(string, decimal.Decimal) {}
func (NopMetrics) SaleVoided()                            {}
func (NopMetrics) CustomerPayment(decimal.Decimal)        {}
func (NopMetrics) CashMovement(string, string)            {}
func (NopMetrics) InvoiceIssued(string)                   {}
