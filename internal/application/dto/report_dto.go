package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportFilterRequest query común de /api/v1/reportes/*. Fechas 2006-01-02 (hasta inclusive).
type ReportFilterRequest struct {
	From          string `query:"from"`
	To            string `query:"to"`
	EmployeeID    string `query:"employee_id"`
	CustomerID    string `query:"customer_id"`
	PaymentMethod string `query:"payment_method"`
	PriceType     string `query:"price_type"`
	Format        string `query:"format"` // json | csv
}

// SalesReportRow fila del reporte de ventas.
type SalesReportRow struct {
	SaleID        string          `json:"sale_id"`
	Date          time.Time       `json:"date"`
	Employee      string          `json:"employee"`
	Customer      string          `json:"customer"`
	PaymentMethod string          `json:"payment_method"`
	PriceType     string          `json:"price_type"`
	Status        string          `json:"status"`
	Items         int             `json:"items"`
	Total         decimal.Decimal `json:"total"`
}

// SalesReportResponse reporte de ventas con totales.
type SalesReportResponse struct {
	From     time.Time                  `json:"from"`
	To       time.Time                  `json:"to"`
	Count    int                        `json:"count"`
	Total    decimal.Decimal            `json:"total"`
	ByMethod map[string]decimal.Decimal `json:"by_method"`
	Rows     []SalesReportRow           `json:"rows"`
}

// ProductReportRow rentabilidad por producto.
type ProductReportRow struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitsSold int64           `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
	Cost      decimal.Decimal `json:"cost"`
	Margin    decimal.Decimal `json:"margin"`
	MarginPct decimal.Decimal `json:"margin_pct"`
}

// ProductsReportResponse reporte de productos.
type ProductsReportResponse struct {
	From     time.Time          `json:"from"`
	To       time.Time          `json:"to"`
	Rows     []ProductReportRow `json:"rows"`
	LowStock []ProductResponse  `json:"low_stock"`
}

// CashReportRow movimiento de caja en el reporte.
type CashReportRow struct {
	MovementID     string          `json:"movement_id"`
	CashRegisterID string          `json:"cash_register_id"`
	Date           time.Time       `json:"date"`
	Type           string          `json:"type"`
	PaymentMethod  string          `json:"payment_method"`
	Concept        string          `json:"concept"`
	Employee       string          `json:"employee"`
	Amount         decimal.Decimal `json:"amount"`
}

// CashReportResponse reporte de caja.
type CashReportResponse struct {
	From     time.Time                  `json:"from"`
	To       time.Time                  `json:"to"`
	Income   decimal.Decimal            `json:"income"`
	Expense  decimal.Decimal            `json:"expense"`
	Net      decimal.Decimal            `json:"net"`
	ByMethod map[string]decimal.Decimal `json:"by_method"`
	Rows     []CashReportRow            `json:"rows"`
}

// DashboardResponse KPIs de la pantalla principal.
type DashboardResponse struct {
	SalesTodayCount   int                `json:"sales_today_count"`
	SalesTodayTotal   decimal.Decimal    `json:"sales_today_total"`
	CashOpen          bool               `json:"cash_open"`
	CashIncome        decimal.Decimal    `json:"cash_income"`
	CashExpense       decimal.Decimal    `json:"cash_expense"`
	CashBalance       decimal.Decimal    `json:"cash_balance"`
	LowStockProducts  int                `json:"low_stock_products"`
	ActiveCustomers   int                `json:"active_customers"`
	CustomersWithDebt int                `json:"customers_with_debt"`
	TotalDebt         decimal.Decimal    `json:"total_debt"`
	TopProducts       []ProductReportRow `json:"top_products"`
}
