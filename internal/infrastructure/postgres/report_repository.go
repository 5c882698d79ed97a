package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para reportes y dashboard.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// applySaleFilter agrega a stmt los filtros sobre la tabla sales (alias s).
func applySaleFilter(stmt sq.SelectBuilder, f repository.ReportFilter) sq.SelectBuilder {
	if !f.From.IsZero() {
		stmt = stmt.Where(sq.GtOrEq{"s.date": f.From})
	}
	if !f.To.IsZero() {
		stmt = stmt.Where(sq.Lt{"s.date": f.To})
	}
	if f.EmployeeID != "" {
		stmt = stmt.Where(sq.Eq{"s.employee_id": f.EmployeeID})
	}
	if f.CustomerID != "" {
		stmt = stmt.Where(sq.Eq{"s.customer_id": f.CustomerID})
	}
	if f.PaymentMethod != "" {
		stmt = stmt.Where(sq.Eq{"s.payment_method": f.PaymentMethod})
	}
	if f.PriceType != "" {
		stmt = stmt.Where(sq.Eq{"s.price_type": f.PriceType})
	}
	return stmt
}

func salesReportQuery(f repository.ReportFilter) sq.SelectBuilder {
	stmt := sq.Select(
		"s.id",
		"s.date",
		"e.name",
		"COALESCE(c.name, '')",
		"s.payment_method",
		"s.price_type",
		"s.status",
		"(SELECT COALESCE(SUM(i.quantity), 0) FROM sale_items i WHERE i.sale_id = s.id)",
		"s.total",
	).
		From("sales s").
		Join("employees e ON e.id = s.employee_id").
		LeftJoin("customers c ON c.id = s.customer_id").
		OrderBy("s.date").
		PlaceholderFormat(sq.Dollar)
	return applySaleFilter(stmt, f)
}

// Sales ventas del período con empleado, cliente y cantidad de items.
func (r *ReportRepo) Sales(ctx context.Context, f repository.ReportFilter) ([]repository.SalesReportRow, error) {
	stmt := salesReportQuery(f)
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("report.Sales build: %w", err)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("report.Sales: %w", err)
	}
	defer rows.Close()

	var out []repository.SalesReportRow
	for rows.Next() {
		var row repository.SalesReportRow
		if err := rows.Scan(
			&row.SaleID,
			&row.Date,
			&row.EmployeeName,
			&row.CustomerName,
			&row.PaymentMethod,
			&row.PriceType,
			&row.Status,
			&row.Items,
			&row.Total,
		); err != nil {
			return nil, fmt.Errorf("report.Sales scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func productsReportQuery(f repository.ReportFilter, limit int) sq.SelectBuilder {
	stmt := sq.Select(
		"p.id",
		"p.sku",
		"p.name",
		"SUM(i.quantity)",
		"SUM(i.subtotal)",
		"SUM(i.quantity * p.cost)",
		"SUM(i.subtotal - i.quantity * p.cost)",
	).
		From("sale_items i").
		Join("sales s ON s.id = i.sale_id").
		Join("products p ON p.id = i.product_id").
		Where(sq.Eq{"s.status": entity.SaleCompleted}).
		GroupBy("p.id", "p.sku", "p.name").
		OrderBy("SUM(i.subtotal) DESC").
		PlaceholderFormat(sq.Dollar)
	stmt = applySaleFilter(stmt, f)
	if limit > 0 {
		stmt = stmt.Limit(uint64(limit))
	}
	return stmt
}

// Products unidades, ingresos, costo y margen por producto (solo ventas completadas),
// ordenado por ingresos descendente.
func (r *ReportRepo) Products(ctx context.Context, f repository.ReportFilter, limit int) ([]repository.ProductReportRow, error) {
	stmt := productsReportQuery(f, limit)

	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("report.Products build: %w", err)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("report.Products: %w", err)
	}
	defer rows.Close()

	var out []repository.ProductReportRow
	for rows.Next() {
		var row repository.ProductReportRow
		if err := rows.Scan(&row.ProductID, &row.SKU, &row.Name, &row.UnitsSold, &row.Revenue, &row.Cost, &row.Margin); err != nil {
			return nil, fmt.Errorf("report.Products scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func cashReportQuery(f repository.ReportFilter) sq.SelectBuilder {
	stmt := sq.Select(
		"m.id",
		"m.cash_register_id",
		"m.date",
		"m.type",
		"m.payment_method",
		"m.concept",
		"COALESCE(e.name, '')",
		"m.amount",
	).
		From("cash_movements m").
		LeftJoin("employees e ON e.id = m.employee_id").
		OrderBy("m.date").
		PlaceholderFormat(sq.Dollar)
	if !f.From.IsZero() {
		stmt = stmt.Where(sq.GtOrEq{"m.date": f.From})
	}
	if !f.To.IsZero() {
		stmt = stmt.Where(sq.Lt{"m.date": f.To})
	}
	if f.EmployeeID != "" {
		stmt = stmt.Where(sq.Eq{"m.employee_id": f.EmployeeID})
	}
	if f.CustomerID != "" {
		stmt = stmt.Where(sq.Eq{"m.customer_id": f.CustomerID})
	}
	if f.PaymentMethod != "" {
		stmt = stmt.Where(sq.Eq{"m.payment_method": f.PaymentMethod})
	}
	return stmt
}

// CashMovements movimientos de caja del período.
func (r *ReportRepo) CashMovements(ctx context.Context, f repository.ReportFilter) ([]repository.CashReportRow, error) {
	stmt := cashReportQuery(f)

	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("report.CashMovements build: %w", err)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("report.CashMovements: %w", err)
	}
	defer rows.Close()

	var out []repository.CashReportRow
	for rows.Next() {
		var row repository.CashReportRow
		if err := rows.Scan(&row.MovementID, &row.CashRegisterID, &row.Date, &row.Type, &row.PaymentMethod,
			&row.Concept, &row.EmployeeName, &row.Amount); err != nil {
			return nil, fmt.Errorf("report.CashMovements scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SalesSummary cantidad y total de ventas completadas en [from, to).
// Usa COALESCE para devolver cero si no hay ventas en el período.
func (r *ReportRepo) SalesSummary(ctx context.Context, from, to time.Time) (repository.SalesSummary, error) {
	const query = `
	SELECT COUNT(*), COALESCE(SUM(total), 0)
	FROM sales
	WHERE status = $1 AND date >= $2 AND date < $3`
	var s repository.SalesSummary
	if err := r.pool.QueryRow(ctx, query, entity.SaleCompleted, from, to).Scan(&s.Count, &s.Total); err != nil {
		return s, fmt.Errorf("report.SalesSummary: %w", err)
	}
	return s, nil
}

// LowStockCount productos activos en o por debajo del stock mínimo.
func (r *ReportRepo) LowStockCount(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE active AND stock <= min_stock`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("report.LowStockCount: %w", err)
	}
	return n, nil
}

// CustomerDebt clientes activos, con deuda y deuda total.
func (r *ReportRepo) CustomerDebt(ctx context.Context) (repository.CustomerDebtSummary, error) {
	const query = `
	SELECT
	    COUNT(*) FILTER (WHERE active),
	    COUNT(*) FILTER (WHERE balance > 0),
	    COALESCE(SUM(balance), 0)
	FROM customers`
	var s repository.CustomerDebtSummary
	if err := r.pool.QueryRow(ctx, query).Scan(&s.ActiveCustomers, &s.WithDebt, &s.TotalDebt); err != nil {
		return s, fmt.Errorf("report.CustomerDebt: %w", err)
	}
	return s, nil
}
