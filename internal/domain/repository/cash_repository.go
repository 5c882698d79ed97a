package repository

import (
	"context"
	"time"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

// CashRegisterRepository cajas diarias.
type CashRegisterRepository interface {
	Create(ctx context.Context, c *entity.CashRegister) error
	GetByID(ctx context.Context, id string) (*entity.CashRegister, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.CashRegister, error)
	// GetOpenByDate devuelve la caja abierta del día (nil si no hay).
	GetOpenByDate(ctx context.Context, date time.Time) (*entity.CashRegister, error)
	// Update persiste estado, saldo final y totales.
	Update(ctx context.Context, c *entity.CashRegister) error
	List(ctx context.Context, from, to time.Time) ([]*entity.CashRegister, error)
	ListOpenByDate(ctx context.Context, date time.Time) ([]*entity.CashRegister, error)
}

// CashMovementRepository ingresos y egresos de caja.
type CashMovementRepository interface {
	Create(ctx context.Context, m *entity.CashMovement) error
	ListByRegister(ctx context.Context, cashRegisterID string) ([]entity.CashMovement, error)
	ListByRange(ctx context.Context, from, to time.Time) ([]entity.CashMovement, error)
}

// CashCountRepository arqueos de caja.
type CashCountRepository interface {
	Create(ctx context.Context, c *entity.CashCount) error
	GetByRegister(ctx context.Context, cashRegisterID string) (*entity.CashCount, error)
}
