package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateEmployeeRequest body para POST /api/v1/empleados.
type CreateEmployeeRequest struct {
	Name              string          `json:"name" validate:"required,max=120"`
	Email             string          `json:"email" validate:"required,email"`
	Password          string          `json:"password" validate:"required,min=6"`
	Role              string          `json:"role" validate:"required"`
	Salary            decimal.Decimal `json:"salary"`
	ModulePermissions []string        `json:"module_permissions"`
}

// UpdateEmployeeRequest body para PUT /api/v1/empleados/:id. Campos nil no se modifican.
type UpdateEmployeeRequest struct {
	Name     *string          `json:"name,omitempty" validate:"omitempty,max=120"`
	Email    *string          `json:"email,omitempty" validate:"omitempty,email"`
	Role     *string          `json:"role,omitempty"`
	Salary   *decimal.Decimal `json:"salary,omitempty"`
	Active   *bool            `json:"active,omitempty"`
	Password *string          `json:"password,omitempty" validate:"omitempty,min=6"`
}

// UpdatePermissionsRequest body para PUT /api/v1/empleados/:id/permisos. Lista vacía = permisos del rol.
type UpdatePermissionsRequest struct {
	Modules []string `json:"modules"`
}

// EmployeeFilterRequest query de GET /api/v1/empleados.
type EmployeeFilterRequest struct {
	Active *bool  `query:"active"`
	Role   string `query:"role"`
}

// EmployeeResponse empleado en respuestas (sin hash de contraseña).
type EmployeeResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	Role              string          `json:"role"`
	Salary            decimal.Decimal `json:"salary"`
	ModulePermissions []string        `json:"module_permissions"`
	Active            bool            `json:"active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// EmployeeAccessResponse módulos efectivos de un empleado.
type EmployeeAccessResponse struct {
	EmployeeID    string              `json:"employee_id"`
	Role          string              `json:"role"`
	Explicit      bool                `json:"explicit"` // true si usa permisos_modulos en lugar del rol
	Modules       []string            `json:"modules"`
	LandingModule string              `json:"landing_module"`
	Actions       map[string][]string `json:"actions"`
}
