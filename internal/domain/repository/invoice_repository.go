package repository

import (
	"context"
	"time"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

// InvoiceFilter filtros del listado de facturas.
type InvoiceFilter struct {
	From   *time.Time
	To     *time.Time
	Status string
	Limit  int
	Offset int
}

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetBySaleID(ctx context.Context, saleID string) (*entity.Invoice, error)
	// Update persiste número, CAE, estado y QR.
	Update(ctx context.Context, inv *entity.Invoice) error
	List(ctx context.Context, f InvoiceFilter) ([]*entity.Invoice, error)
	// LastNumber último número con CAE para el punto de venta y tipo (0 si no hay).
	LastNumber(ctx context.Context, pointOfSale, voucherType int) (int64, error)
}
