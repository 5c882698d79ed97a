package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role rol de un empleado (valores tal como se guardan en la DB).
type Role string

// Roles válidos para Employee.
const (
	RoleAdministrador Role = "Administrador"
	RoleGerente       Role = "Gerente"
	RoleVendedor      Role = "Vendedor"
	RoleTecnico       Role = "Técnico"
	RoleAlmacen       Role = "Almacén"
	RoleCajero        Role = "Cajero"
)

// AllRoles en el orden en que se muestran.
var AllRoles = []Role{RoleAdministrador, RoleGerente, RoleVendedor, RoleTecnico, RoleAlmacen, RoleCajero}

// Module módulo funcional de la aplicación.
type Module string

// Módulos de la aplicación.
const (
	ModuleDashboard  Module = "dashboard"
	ModuleEmpleados  Module = "empleados"
	ModuleProductos  Module = "productos"
	ModuleClientes   Module = "clientes"
	ModuleVentas     Module = "ventas"
	ModuleCaja       Module = "caja"
	ModuleCalendario Module = "calendario"
	ModuleReportes   Module = "reportes"
)

// AllModules orden canónico de los módulos.
var AllModules = []Module{
	ModuleDashboard, ModuleEmpleados, ModuleProductos, ModuleClientes,
	ModuleVentas, ModuleCaja, ModuleCalendario, ModuleReportes,
}

// Action acción sobre un módulo. ActionManage implica todas.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
)

// Employee representa un empleado del local (usuario del sistema).
// ModulePermissions vacío significa "usar los permisos por defecto del rol".
type Employee struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string // bcrypt hash
	Role              Role
	Salary            decimal.Decimal
	ModulePermissions []Module
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
