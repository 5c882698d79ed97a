package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

// ProductFilter filtros del catálogo.
type ProductFilter struct {
	Search   string // nombre o SKU
	Category string
	Active   *bool
	LowStock bool
	Limit    int
	Offset   int
}

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// Update no modifica stock ni costo (se manejan vía movimientos).
	Update(ctx context.Context, p *entity.Product) error
	UpdateStock(ctx context.Context, id string, stock int) error
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, error)
}
