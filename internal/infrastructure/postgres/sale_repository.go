package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas e items sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, customer_id, employee_id, cash_register_id, total, payment_method, price_type, status, void_reason, date, created_at, updated_at`

func scanSale(row interface{ Scan(...any) error }) (*entity.Sale, error) {
	var (
		s         entity.Sale
		priceType string
	)
	if err := row.Scan(&s.ID, &s.CustomerID, &s.EmployeeID, &s.CashRegisterID, &s.Total, &s.PaymentMethod,
		&priceType, &s.Status, &s.VoidReason, &s.Date, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.PriceType = entity.PriceType(priceType)
	return &s, nil
}

// Create inserta la cabecera y sus items. Usar dentro de una transacción.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `INSERT INTO sales (` + saleColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		s.ID, nullIDPtr(s.CustomerID), s.EmployeeID, s.CashRegisterID, s.Total, s.PaymentMethod,
		string(s.PriceType), s.Status, s.VoidReason, s.Date, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	for _, it := range s.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, subtotal, price_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, s.ID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal, string(it.PriceType),
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

func (r *SaleRepo) get(ctx context.Context, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if s.Items, err = r.items(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID obtiene la venta con sus items.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene la venta bloqueando la cabecera (anulación).
func (r *SaleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) items(ctx context.Context, saleID string) ([]entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal, price_type
		FROM sale_items WHERE sale_id = $1 ORDER BY id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	var items []entity.SaleItem
	for rows.Next() {
		var (
			it entity.SaleItem
			pt string
		)
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal, &pt); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		it.PriceType = entity.PriceType(pt)
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateStatus cambia el estado (anulación) y guarda el motivo.
func (r *SaleRepo) UpdateStatus(ctx context.Context, id, status, reason string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE sales SET status = $2, void_reason = $3, updated_at = now() WHERE id = $1`,
		id, status, reason,
	)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func saleListQuery(f repository.SaleFilter) sq.SelectBuilder {
	stmt := sq.Select(saleColumns).From("sales").OrderBy("date DESC").PlaceholderFormat(sq.Dollar)
	if f.From != nil {
		stmt = stmt.Where(sq.GtOrEq{"date": *f.From})
	}
	if f.To != nil {
		stmt = stmt.Where(sq.Lt{"date": *f.To})
	}
	if f.EmployeeID != "" {
		stmt = stmt.Where(sq.Eq{"employee_id": f.EmployeeID})
	}
	if f.CustomerID != "" {
		stmt = stmt.Where(sq.Eq{"customer_id": f.CustomerID})
	}
	if f.PaymentMethod != "" {
		stmt = stmt.Where(sq.Eq{"payment_method": f.PaymentMethod})
	}
	if f.PriceType != "" {
		stmt = stmt.Where(sq.Eq{"price_type": f.PriceType})
	}
	if f.Status != "" {
		stmt = stmt.Where(sq.Eq{"status": f.Status})
	}
	if f.Limit > 0 {
		stmt = stmt.Limit(uint64(f.Limit)).Offset(uint64(f.Offset))
	}
	return stmt
}

// List lista ventas (sin items) aplicando los filtros presentes, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	stmt := saleListQuery(f)
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sales query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
