package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
)

var (
	desde = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	hasta = time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)
)

// ─── Reportes ────────────────────────────────────────────────────────────────

func TestSalesReportQuery_SinFiltros(t *testing.T) {
	query, args, err := salesReportQuery(repository.ReportFilter{}).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "FROM sales s JOIN employees e ON e.id = s.employee_id LEFT JOIN customers c ON c.id = s.customer_id")
	assert.Contains(t, query, "ORDER BY s.date")
	assert.Empty(t, args)
}

func TestSalesReportQuery_TodosLosFiltros(t *testing.T) {
	query, args, err := salesReportQuery(repository.ReportFilter{
		From:          desde,
		To:            hasta,
		EmployeeID:    "e1",
		CustomerID:    "c1",
		PaymentMethod: entity.PaymentCash,
		PriceType:     "mayorista",
	}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "WHERE s.date >= $1 AND s.date < $2 AND s.employee_id = $3 AND s.customer_id = $4 AND s.payment_method = $5 AND s.price_type = $6")
	assert.Equal(t, []any{desde, hasta, "e1", "c1", entity.PaymentCash, "mayorista"}, args)
}

func TestProductsReportQuery_SoloCompletadasYLimite(t *testing.T) {
	query, args, err := productsReportQuery(repository.ReportFilter{EmployeeID: "e1"}, 25).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "WHERE s.status = $1 AND s.employee_id = $2")
	assert.Contains(t, query, "GROUP BY p.id, p.sku, p.name ORDER BY SUM(i.subtotal) DESC LIMIT 25")
	assert.Equal(t, []any{entity.SaleCompleted, "e1"}, args)

	query, _, err = productsReportQuery(repository.ReportFilter{}, 0).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, query, "LIMIT")
}

func TestCashReportQuery_FiltrosSobreMovimientos(t *testing.T) {
	query, args, err := cashReportQuery(repository.ReportFilter{
		From:          desde,
		To:            hasta,
		PaymentMethod: entity.PaymentTransfer,
		PriceType:     "mayorista", // no aplica a caja
	}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "FROM cash_movements m LEFT JOIN employees e ON e.id = m.employee_id")
	assert.Contains(t, query, "WHERE m.date >= $1 AND m.date < $2 AND m.payment_method = $3")
	assert.NotContains(t, query, "price_type")
	assert.Equal(t, []any{desde, hasta, entity.PaymentTransfer}, args)
}

// ─── Listados ────────────────────────────────────────────────────────────────

func TestCustomerListQuery_BusquedaActivosConDeudaPaginado(t *testing.T) {
	active := true
	query, args, err := customerListQuery(repository.CustomerFilter{
		Search:   "  Taller ",
		Active:   &active,
		WithDebt: true,
		Limit:    20,
		Offset:   40,
	}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "WHERE (lower(name) LIKE $1 OR tax_id LIKE $2 OR lower(email) LIKE $3) AND active = $4 AND balance > $5")
	assert.Contains(t, query, "ORDER BY name LIMIT 20 OFFSET 40")
	assert.Equal(t, []any{"%taller%", "%taller%", "%taller%", true, 0}, args)
}

func TestCustomerListQuery_SinFiltros(t *testing.T) {
	query, args, err := customerListQuery(repository.CustomerFilter{Search: "   "}).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, query, "WHERE")
	assert.NotContains(t, query, "LIMIT")
	assert.Empty(t, args)
}

func TestSaleListQuery_Filtros(t *testing.T) {
	query, args, err := saleListQuery(repository.SaleFilter{
		From:   &desde,
		To:     &hasta,
		Status: entity.SaleVoided,
		Limit:  10,
	}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "FROM sales WHERE date >= $1 AND date < $2 AND status = $3 ORDER BY date DESC LIMIT 10 OFFSET 0")
	assert.Equal(t, []any{desde, hasta, entity.SaleVoided}, args)
}

// ─── Violaciones de unicidad ─────────────────────────────────────────────────

// execErr Querier que falla en Exec con el error dado.
type execErr struct {
	err error
}

func (q execErr) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, q.err
}

func (q execErr) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, q.err }

func (q execErr) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "customers_email_key"}
	assert.True(t, isUniqueViolation(unique))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", unique)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("conexión rechazada")))
}

func TestCreate_ViolacionDeUnicidadMapeaAErrorDeDominio(t *testing.T) {
	ctx := context.Background()
	unique := execErr{err: &pgconn.PgError{Code: "23505"}}

	err := NewCustomerRepository(unique).Create(ctx, &entity.Customer{ID: "c1"})
	require.ErrorIs(t, err, domain.ErrDuplicate)

	err = NewEmployeeRepository(unique).Create(ctx, &entity.Employee{ID: "e1"})
	require.ErrorIs(t, err, domain.ErrDuplicate)

	err = NewCashRegisterRepository(unique).Create(ctx, &entity.CashRegister{ID: "caja-1"})
	require.ErrorIs(t, err, domain.ErrCajaYaAbierta)

	other := execErr{err: &pgconn.PgError{Code: "23503"}}
	err = NewCustomerRepository(other).Create(ctx, &entity.Customer{ID: "c1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDuplicate)
}
