package repository

import (
	"context"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

// EmployeeFilter filtros del listado de empleados.
type EmployeeFilter struct {
	Active *bool
	Role   entity.Role
}

// EmployeeRepository define el puerto de persistencia para Employee.
// GetBy* devuelven (nil, nil) cuando no existe el registro.
type EmployeeRepository interface {
	Create(ctx context.Context, e *entity.Employee) error
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
	GetByEmail(ctx context.Context, email string) (*entity.Employee, error)
	Update(ctx context.Context, e *entity.Employee) error
	UpdatePermissions(ctx context.Context, id string, modules []entity.Module) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	List(ctx context.Context, f EmployeeFilter) ([]*entity.Employee, error)
}
