package permission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/permission"
)

func emp(role entity.Role, mods ...entity.Module) *entity.Employee {
	return &entity.Employee{ID: "e1", Name: "Test", Role: role, Active: true, ModulePermissions: mods}
}

// ─── CanAccess ───────────────────────────────────────────────────────────────

func TestCanAccess_NilOInactivo(t *testing.T) {
	for _, m := range entity.AllModules {
		assert.False(t, permission.CanAccess(nil, m))
	}
	e := emp(entity.RoleAdministrador)
	e.Active = false
	for _, m := range entity.AllModules {
		assert.False(t, permission.CanAccess(e, m), "inactivo no debe acceder a %s", m)
	}
}

func TestCanAccess_AdministradorTodo(t *testing.T) {
	// la lista explícita no restringe al administrador
	e := emp(entity.RoleAdministrador, entity.ModuleVentas)
	for _, m := range entity.AllModules {
		assert.True(t, permission.CanAccess(e, m))
	}
}

func TestCanAccess_ListaExplicitaReemplazaRol(t *testing.T) {
	// Vendedor por defecto no ve empleados, pero la lista explícita manda
	e := emp(entity.RoleVendedor, entity.ModuleEmpleados)
	assert.True(t, permission.CanAccess(e, entity.ModuleEmpleados))
	assert.False(t, permission.CanAccess(e, entity.ModuleVentas))
	assert.False(t, permission.CanAccess(e, entity.ModuleDashboard))
}

func TestCanAccess_DefaultsDelRol(t *testing.T) {
	cases := []struct {
		role    entity.Role
		allowed []entity.Module
	}{
		{entity.RoleGerente, entity.AllModules},
		{entity.RoleVendedor, []entity.Module{entity.ModuleDashboard, entity.ModuleProductos, entity.ModuleClientes, entity.ModuleVentas, entity.ModuleCaja, entity.ModuleCalendario}},
		{entity.RoleTecnico, []entity.Module{entity.ModuleDashboard, entity.ModuleProductos, entity.ModuleClientes, entity.ModuleCalendario}},
		{entity.RoleAlmacen, []entity.Module{entity.ModuleDashboard, entity.ModuleProductos, entity.ModuleCalendario}},
		{entity.RoleCajero, []entity.Module{entity.ModuleDashboard, entity.ModuleProductos, entity.ModuleClientes, entity.ModuleVentas, entity.ModuleCaja, entity.ModuleCalendario}},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			assert.Equal(t, tc.allowed, permission.AccessibleModules(emp(tc.role)))
		})
	}
}

// Para todo empleado activo no administrador sin lista explícita,
// CanAccess coincide con "el rol tiene acciones sobre el módulo".
func TestCanAccess_CoincideConTabla(t *testing.T) {
	for _, role := range entity.AllRoles {
		if role == entity.RoleAdministrador {
			continue
		}
		for _, m := range entity.AllModules {
			want := len(permission.RoleDefaults(role, m)) > 0
			assert.Equal(t, want, permission.CanAccess(emp(role), m), "%s/%s", role, m)
		}
	}
}

// ─── CanPerform ──────────────────────────────────────────────────────────────

func TestCanPerform(t *testing.T) {
	vendedor := emp(entity.RoleVendedor)
	assert.True(t, permission.CanPerform(vendedor, entity.ModuleVentas, entity.ActionCreate))
	assert.False(t, permission.CanPerform(vendedor, entity.ModuleVentas, entity.ActionDelete))
	assert.False(t, permission.CanPerform(vendedor, entity.ModuleEmpleados, entity.ActionRead))

	// manage implica cualquier acción
	gerente := emp(entity.RoleGerente)
	assert.True(t, permission.CanPerform(gerente, entity.ModuleCaja, entity.ActionDelete))
	assert.False(t, permission.CanPerform(gerente, entity.ModuleEmpleados, entity.ActionDelete))

	// la lista explícita habilita la entrada, no acciones fuera del rol
	cajero := emp(entity.RoleCajero, entity.ModuleEmpleados)
	assert.False(t, permission.CanPerform(cajero, entity.ModuleEmpleados, entity.ActionRead))

	admin := emp(entity.RoleAdministrador)
	assert.True(t, permission.CanPerform(admin, entity.ModuleDashboard, entity.ActionDelete))
}

// ─── Landing / CheckModuleAccess ─────────────────────────────────────────────

func TestLandingModule_Mateo(t *testing.T) {
	mateo := emp(entity.RoleVendedor, entity.ModuleClientes, entity.ModuleCaja, entity.ModuleVentas)
	assert.Equal(t, entity.ModuleVentas, permission.LandingModule(mateo))
	assert.Equal(t, []entity.Module{entity.ModuleClientes, entity.ModuleVentas, entity.ModuleCaja}, permission.AccessibleModules(mateo))
	assert.False(t, permission.CanAccess(mateo, entity.ModuleDashboard))
}

func TestLandingModule_Fallbacks(t *testing.T) {
	assert.Equal(t, entity.ModuleDashboard, permission.LandingModule(nil))
	assert.Equal(t, entity.ModuleProductos, permission.LandingModule(emp(entity.RoleAlmacen)))
	assert.Equal(t, entity.ModuleCalendario, permission.LandingModule(emp(entity.RoleVendedor, entity.ModuleCalendario)))
	assert.Equal(t, entity.ModuleVentas, permission.LandingModule(emp(entity.RoleAdministrador)))
}

func TestCheckModuleAccess(t *testing.T) {
	res := permission.CheckModuleAccess(nil, entity.ModuleVentas)
	assert.False(t, res.Allowed)
	assert.Equal(t, permission.ReasonNoSession, res.Reason)

	inactive := emp(entity.RoleGerente)
	inactive.Active = false
	assert.Equal(t, permission.ReasonInactive, permission.CheckModuleAccess(inactive, entity.ModuleVentas).Reason)

	almacen := emp(entity.RoleAlmacen)
	res = permission.CheckModuleAccess(almacen, entity.ModuleVentas)
	assert.Equal(t, permission.ReasonNoPermission, res.Reason)
	assert.Equal(t, string(entity.ModuleProductos), res.RedirectTo)

	assert.True(t, permission.CheckModuleAccess(almacen, entity.ModuleProductos).Allowed)

	// solo calendario: la redirección apunta a un módulo que sí puede abrir
	agenda := emp(entity.RoleTecnico, entity.ModuleCalendario)
	res = permission.CheckModuleAccess(agenda, entity.ModuleDashboard)
	assert.False(t, res.Allowed)
	assert.Equal(t, string(entity.ModuleCalendario), res.RedirectTo)
	assert.True(t, permission.CheckModuleAccess(agenda, entity.ModuleCalendario).Allowed)
}

// ─── Parse ───────────────────────────────────────────────────────────────────

func TestParseRole_SinAcentos(t *testing.T) {
	r, ok := permission.ParseRole("tecnico")
	require.True(t, ok)
	assert.Equal(t, entity.RoleTecnico, r)

	r, ok = permission.ParseRole("  ALMACÉN ")
	require.True(t, ok)
	assert.Equal(t, entity.RoleAlmacen, r)

	_, ok = permission.ParseRole("Supervisor")
	assert.False(t, ok)
}

func TestParseModules(t *testing.T) {
	mods, _, ok := permission.ParseModules([]string{"ventas", "Caja", "ventas"})
	require.True(t, ok)
	assert.Equal(t, []entity.Module{entity.ModuleVentas, entity.ModuleCaja}, mods)

	_, bad, ok := permission.ParseModules([]string{"ventas", "compras"})
	assert.False(t, ok)
	assert.Equal(t, "compras", bad)
}

func TestIsManager(t *testing.T) {
	assert.True(t, permission.IsManager(emp(entity.RoleGerente)))
	assert.True(t, permission.IsManager(emp(entity.RoleAdministrador)))
	assert.False(t, permission.IsManager(emp(entity.RoleCajero)))
	assert.False(t, permission.IsAdmin(nil))
}
