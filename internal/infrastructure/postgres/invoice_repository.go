package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo comprobantes AFIP sobre PostgreSQL.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, sale_id, customer_id, voucher_type, point_of_sale, number, issuer_cuit, doc_type, doc_number,
	net_amount, vat_amount, total_amount, cae, cae_expiration, afip_status, observations, qr_url, date, created_at, updated_at`

func scanInvoice(row interface{ Scan(...any) error }) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(&inv.ID, &inv.SaleID, &inv.CustomerID, &inv.VoucherType, &inv.PointOfSale, &inv.Number,
		&inv.IssuerCUIT, &inv.DocType, &inv.DocNumber, &inv.NetAmount, &inv.VATAmount, &inv.TotalAmount,
		&inv.CAE, &inv.CAEExpiration, &inv.AFIPStatus, &inv.Observations, &inv.QRURL, &inv.Date, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create persiste la factura. Una venta ya facturada → ErrDuplicate.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.SaleID, nullIDPtr(inv.CustomerID), inv.VoucherType, inv.PointOfSale, inv.Number,
		inv.IssuerCUIT, inv.DocType, inv.DocNumber, inv.NetAmount, inv.VATAmount, inv.TotalAmount,
		inv.CAE, inv.CAEExpiration, inv.AFIPStatus, inv.Observations, inv.QRURL, inv.Date, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) getOne(ctx context.Context, op, where string, arg any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE `+where, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return inv, nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, "get invoice", "id = $1", id)
}

// GetBySaleID obtiene la factura de una venta.
func (r *InvoiceRepo) GetBySaleID(ctx context.Context, saleID string) (*entity.Invoice, error) {
	return r.getOne(ctx, "get invoice by sale", "sale_id = $1", saleID)
}

// Update persiste el resultado de la autorización.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices SET number = $2, net_amount = $3, vat_amount = $4, total_amount = $5, cae = $6,
			cae_expiration = $7, afip_status = $8, observations = $9, qr_url = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		inv.ID, inv.Number, inv.NetAmount, inv.VATAmount, inv.TotalAmount, inv.CAE,
		inv.CAEExpiration, inv.AFIPStatus, inv.Observations, inv.QRURL, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista facturas aplicando los filtros presentes.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	stmt := sq.Select(invoiceColumns).From("invoices").OrderBy("date DESC").PlaceholderFormat(sq.Dollar)
	if f.From != nil {
		stmt = stmt.Where(sq.GtOrEq{"date": *f.From})
	}
	if f.To != nil {
		stmt = stmt.Where(sq.Lt{"date": *f.To})
	}
	if f.Status != "" {
		stmt = stmt.Where(sq.Eq{"afip_status": f.Status})
	}
	if f.Limit > 0 {
		stmt = stmt.Limit(uint64(f.Limit)).Offset(uint64(f.Offset))
	}
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build invoices query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// LastNumber último número autorizado (o simulado) para el punto de venta y tipo.
func (r *InvoiceRepo) LastNumber(ctx context.Context, pointOfSale, voucherType int) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(number), 0) FROM invoices
		WHERE point_of_sale = $1 AND voucher_type = $2 AND cae <> ''`, pointOfSale, voucherType).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("last invoice number: %w", err)
	}
	return n, nil
}
