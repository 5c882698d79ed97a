package repository

import (
	"context"
	"time"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

// SaleFilter filtros de ventas (listado y reportes).
type SaleFilter struct {
	From          *time.Time
	To            *time.Time
	EmployeeID    string
	CustomerID    string
	PaymentMethod string
	PriceType     string
	Status        string
	Limit         int
	Offset        int
}

// SaleRepository define el puerto de persistencia para Sale y sus items.
type SaleRepository interface {
	// Create inserta la cabecera y los items.
	Create(ctx context.Context, s *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	UpdateStatus(ctx context.Context, id, status, reason string) error
	List(ctx context.Context, f SaleFilter) ([]*entity.Sale, error)
}
