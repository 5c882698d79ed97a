package repository

import (
	"context"
	"time"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

// AuditFilter filtros del registro de auditoría.
type AuditFilter struct {
	Entity     string
	EntityID   string
	EmployeeID string
	From       *time.Time
	To         *time.Time
	Limit      int
}

// AuditRepository registro de auditoría (solo inserción y lectura).
type AuditRepository interface {
	Create(ctx context.Context, l *entity.AuditLog) error
	List(ctx context.Context, f AuditFilter) ([]*entity.AuditLog, error)
}
