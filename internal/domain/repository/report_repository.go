package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ReportFilter filtros comunes a los reportes. Los campos vacíos no filtran.
type ReportFilter struct {
	From          time.Time
	To            time.Time
	EmployeeID    string
	CustomerID    string
	PaymentMethod string
	PriceType     string
}

// SalesReportRow fila del reporte de ventas.
type SalesReportRow struct {
	SaleID        string
	Date          time.Time
	EmployeeName  string
	CustomerName  string // vacío si es consumidor final
	PaymentMethod string
	PriceType     string
	Status        string
	Items         int
	Total         decimal.Decimal
}

// ProductReportRow rentabilidad por producto en el período.
type ProductReportRow struct {
	ProductID string
	SKU       string
	Name      string
	UnitsSold int64
	Revenue   decimal.Decimal
	Cost      decimal.Decimal // unidades × costo promedio actual
	Margin    decimal.Decimal // Revenue - Cost
}

// CashReportRow movimiento de caja con datos de contexto.
type CashReportRow struct {
	MovementID     string
	CashRegisterID string
	Date           time.Time
	Type           string
	PaymentMethod  string
	Concept        string
	EmployeeName   string
	Amount         decimal.Decimal
}

// SalesSummary totales de ventas completadas en un período.
type SalesSummary struct {
	Count int
	Total decimal.Decimal
}

// CustomerDebtSummary deuda total de la cartera.
type CustomerDebtSummary struct {
	ActiveCustomers int
	WithDebt        int
	TotalDebt       decimal.Decimal
}

// ReportRepository consultas de solo lectura para reportes y dashboard.
type ReportRepository interface {
	Sales(ctx context.Context, f ReportFilter) ([]SalesReportRow, error)
	Products(ctx context.Context, f ReportFilter, limit int) ([]ProductReportRow, error)
	CashMovements(ctx context.Context, f ReportFilter) ([]CashReportRow, error)

	// ── Dashboard ─────────────────────────────────────────────────────────────

	SalesSummary(ctx context.Context, from, to time.Time) (SalesSummary, error)
	LowStockCount(ctx context.Context) (int, error)
	CustomerDebt(ctx context.Context) (CustomerDebtSummary, error)
}
