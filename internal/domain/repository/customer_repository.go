package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

// CustomerFilter filtros del listado de clientes.
type CustomerFilter struct {
	Search   string
	Active   *bool
	WithDebt bool
	Limit    int
	Offset   int
}

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Customer, error)
	GetByEmail(ctx context.Context, email string) (*entity.Customer, error)
	// Update no modifica el saldo.
	Update(ctx context.Context, c *entity.Customer) error
	UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context, f CustomerFilter) ([]*entity.Customer, error)
}

// AccountMovementRepository movimientos de cuenta corriente (estado de cuenta).
type AccountMovementRepository interface {
	Create(ctx context.Context, m *entity.AccountMovement) error
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.AccountMovement, error)
}
