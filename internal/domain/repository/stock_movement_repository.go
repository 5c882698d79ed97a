package repository

import (
	"context"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

// StockMovementRepository historial de cambios de stock.
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.StockMovement, error)
}
