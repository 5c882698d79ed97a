// Package permission resuelve qué módulos y acciones puede usar un empleado.
//
// Regla central (CanAccess):
//
//	empleado nil o inactivo            → sin acceso
//	rol Administrador                  → acceso total
//	permisos_modulos no vacío          → solo los módulos listados
//	permisos_modulos vacío             → módulos con permisos no vacíos en la tabla del rol
package permission

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

type actions = []entity.Action

var (
	full = actions{entity.ActionRead, entity.ActionCreate, entity.ActionUpdate, entity.ActionDelete, entity.ActionManage}
	crud = actions{entity.ActionRead, entity.ActionCreate, entity.ActionUpdate, entity.ActionDelete}
	cru  = actions{entity.ActionRead, entity.ActionCreate, entity.ActionUpdate}
	cr   = actions{entity.ActionRead, entity.ActionCreate}
	r    = actions{entity.ActionRead}
	none = actions{}
)

// RolePermissions tabla estática de permisos por defecto de cada rol.
var RolePermissions = map[entity.Role]map[entity.Module]actions{
	entity.RoleAdministrador: {
		entity.ModuleDashboard:  r,
		entity.ModuleEmpleados:  full,
		entity.ModuleProductos:  full,
		entity.ModuleClientes:   full,
		entity.ModuleVentas:     full,
		entity.ModuleCaja:       full,
		entity.ModuleCalendario: crud,
		entity.ModuleReportes:   {entity.ActionRead, entity.ActionCreate, entity.ActionManage},
	},
	entity.RoleGerente: {
		entity.ModuleDashboard:  r,
		entity.ModuleEmpleados:  cru,
		entity.ModuleProductos:  crud,
		entity.ModuleClientes:   crud,
		entity.ModuleVentas:     crud,
		entity.ModuleCaja:       {entity.ActionRead, entity.ActionCreate, entity.ActionUpdate, entity.ActionManage},
		entity.ModuleCalendario: cru,
		entity.ModuleReportes:   cr,
	},
	entity.RoleVendedor: {
		entity.ModuleDashboard:  r,
		entity.ModuleEmpleados:  none,
		entity.ModuleProductos:  r,
		entity.ModuleClientes:   cru,
		entity.ModuleVentas:     cr,
		entity.ModuleCaja:       r,
		entity.ModuleCalendario: cr,
		entity.ModuleReportes:   none,
	},
	entity.RoleTecnico: {
		entity.ModuleDashboard:  r,
		entity.ModuleEmpleados:  none,
		entity.ModuleProductos:  cru,
		entity.ModuleClientes:   r,
		entity.ModuleVentas:     none,
		entity.ModuleCaja:       none,
		entity.ModuleCalendario: r,
		entity.ModuleReportes:   none,
	},
	entity.RoleAlmacen: {
		entity.ModuleDashboard:  r,
		entity.ModuleEmpleados:  none,
		entity.ModuleProductos:  cru,
		entity.ModuleClientes:   none,
		entity.ModuleVentas:     none,
		entity.ModuleCaja:       none,
		entity.ModuleCalendario: r,
		entity.ModuleReportes:   none,
	},
	entity.RoleCajero: {
		entity.ModuleDashboard:  r,
		entity.ModuleEmpleados:  none,
		entity.ModuleProductos:  r,
		entity.ModuleClientes:   r,
		entity.ModuleVentas:     cr,
		entity.ModuleCaja:       cru,
		entity.ModuleCalendario: r,
		entity.ModuleReportes:   none,
	},
}

// landingPriority orden en que se elige el módulo inicial después del login.
var landingPriority = []entity.Module{
	entity.ModuleVentas, entity.ModuleClientes, entity.ModuleCaja, entity.ModuleProductos,
	entity.ModuleEmpleados, entity.ModuleReportes, entity.ModuleDashboard,
}

// RoleDefaults devuelve las acciones por defecto del rol sobre el módulo (nil si no hay).
func RoleDefaults(role entity.Role, m entity.Module) []entity.Action {
	return RolePermissions[role][m]
}

// CanAccess indica si el empleado puede entrar al módulo.
func CanAccess(e *entity.Employee, m entity.Module) bool {
	if e == nil || !e.Active {
		return false
	}
	if e.Role == entity.RoleAdministrador {
		return true
	}
	if len(e.ModulePermissions) > 0 {
		return lo.Contains(e.ModulePermissions, m)
	}
	return len(RoleDefaults(e.Role, m)) > 0
}

// CanPerform indica si el empleado puede ejecutar la acción sobre el módulo.
// Las acciones salen siempre de la tabla del rol; permisos_modulos solo habilita la entrada.
func CanPerform(e *entity.Employee, m entity.Module, a entity.Action) bool {
	if !CanAccess(e, m) {
		return false
	}
	if e.Role == entity.RoleAdministrador {
		return true
	}
	granted := RoleDefaults(e.Role, m)
	return lo.Contains(granted, entity.ActionManage) || lo.Contains(granted, a)
}

// Motivos de rechazo de CheckModuleAccess.
const (
	ReasonNoSession    = "sin_sesion"
	ReasonInactive     = "inactivo"
	ReasonNoPermission = "sin_permiso"
)

// RedirectLogin destino cuando no hay sesión válida.
const RedirectLogin = "login"

// AccessResult resultado detallado de un chequeo de acceso.
type AccessResult struct {
	Allowed    bool
	Reason     string
	RedirectTo string
}

// CheckModuleAccess como CanAccess, pero explica el rechazo y sugiere a dónde redirigir.
func CheckModuleAccess(e *entity.Employee, m entity.Module) AccessResult {
	switch {
	case e == nil:
		return AccessResult{Reason: ReasonNoSession, RedirectTo: RedirectLogin}
	case !e.Active:
		return AccessResult{Reason: ReasonInactive, RedirectTo: RedirectLogin}
	case !CanAccess(e, m):
		return AccessResult{Reason: ReasonNoPermission, RedirectTo: string(LandingModule(e))}
	}
	return AccessResult{Allowed: true}
}

// AccessibleModules módulos habilitados en orden canónico.
func AccessibleModules(e *entity.Employee) []entity.Module {
	return lo.Filter(entity.AllModules, func(m entity.Module, _ int) bool {
		return CanAccess(e, m)
	})
}

// LandingModule primer módulo accesible según la prioridad de navegación. Si ninguno de la
// lista está habilitado, el primer módulo accesible; dashboard si no hay ninguno.
func LandingModule(e *entity.Employee) entity.Module {
	if m, ok := lo.Find(landingPriority, func(m entity.Module) bool { return CanAccess(e, m) }); ok {
		return m
	}
	if mods := AccessibleModules(e); len(mods) > 0 {
		return mods[0]
	}
	return entity.ModuleDashboard
}

// EffectiveModules devuelve la lista explícita si existe; si no, la derivada del rol.
func EffectiveModules(e *entity.Employee) []entity.Module {
	if e == nil {
		return nil
	}
	if e.Role != entity.RoleAdministrador && len(e.ModulePermissions) > 0 {
		return lo.Intersect(entity.AllModules, e.ModulePermissions)
	}
	return AccessibleModules(e)
}

// IsAdmin indica si el empleado es Administrador.
func IsAdmin(e *entity.Employee) bool {
	return e != nil && e.Role == entity.RoleAdministrador
}

// IsManager indica si el empleado es Gerente o Administrador.
func IsManager(e *entity.Employee) bool {
	return e != nil && (e.Role == entity.RoleGerente || e.Role == entity.RoleAdministrador)
}

// ParseRole interpreta un rol ignorando mayúsculas y acentos ("tecnico" → Técnico).
func ParseRole(s string) (entity.Role, bool) {
	key := fold(s)
	return lo.Find(entity.AllRoles, func(r entity.Role) bool { return fold(string(r)) == key })
}

// ParseModule interpreta un nombre de módulo.
func ParseModule(s string) (entity.Module, bool) {
	key := fold(s)
	return lo.Find(entity.AllModules, func(m entity.Module) bool { return string(m) == key })
}

// ParseModules valida una lista de módulos, descartando duplicados. Devuelve el primer nombre inválido.
func ParseModules(names []string) ([]entity.Module, string, bool) {
	out := make([]entity.Module, 0, len(names))
	for _, n := range names {
		m, ok := ParseModule(n)
		if !ok {
			return nil, n, false
		}
		out = append(out, m)
	}
	return lo.Uniq(out), "", true
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
