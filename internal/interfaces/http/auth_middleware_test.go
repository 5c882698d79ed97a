package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	apphttp "github.com/jimmycarp966/motorepuestos-fl-sub004/internal/interfaces/http"
	pkgjwt "github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testEmployeeID = "00000000-0000-0000-0000-000000000001"
	testEmail      = "mostrador@motorepuestos.test"
	testIssuer     = "motorepuestos-test"
	testExpMin     = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testEmployeeID, testEmail, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdministradorAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp("Administrador")
	resp := doRequest(t, app, "/protected", tokenForRole(t, "Administrador"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "Administrador", body["role"])
}

func TestRequireRole_GerenteAccedeRutaAdminOGerente(t *testing.T) {
	app := buildTestApp("Administrador", "Gerente")
	resp := doRequest(t, app, "/protected", tokenForRole(t, "Gerente"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_VendedorBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp("Administrador")
	resp := doRequest(t, app, "/protected", tokenForRole(t, "Vendedor"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_TokenSinRol_Retorna403(t *testing.T) {
	app := buildTestApp("Administrador")
	resp := doRequest(t, app, "/protected", tokenForRole(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp("Administrador")
	resp := doRequest(t, app, "/protected", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp("Administrador")
	resp := doRequest(t, app, "/protected", "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_EsquemaDistintoDeBearer_Retorna401(t *testing.T) {
	app := buildTestApp("Administrador")
	resp := doRequest(t, app, "/protected", "Basic dXNlcjpwYXNz")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"employee_id": apphttp.GetEmployeeID(c),
			"role":        apphttp.GetRole(c),
		})
	})

	resp := doRequest(t, app, "/me", tokenForRole(t, "Cajero"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testEmployeeID, body["employee_id"])
	assert.Equal(t, "Cajero", body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireModule / RequirePermission
// ──────────────────────────────────────────────────────────────────────────────

// fakeLoader devuelve siempre el mismo empleado y cuenta las lecturas.
type fakeLoader struct {
	emp   *entity.Employee
	err   error
	calls int
}

func (f *fakeLoader) GetByID(_ context.Context, _ string) (*entity.Employee, error) {
	f.calls++
	return f.emp, f.err
}

func buildGuardApp(loader apphttp.EmployeeLoader, guards ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	handlers := append([]fiber.Handler{apphttp.AuthMiddleware(testJWTSecret)}, guards...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"name": apphttp.GetEmployee(c).Name})
	})
	app.Get("/modulo", handlers...)
	return app
}

func decodeDenied(t *testing.T, resp *http.Response) dto.AccessDeniedResponse {
	t.Helper()
	var body dto.AccessDeniedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestRequireModule_VendedorAccedeAVentas(t *testing.T) {
	loader := &fakeLoader{emp: &entity.Employee{ID: testEmployeeID, Name: "Lucía", Role: entity.RoleVendedor, Active: true}}
	app := buildGuardApp(loader, apphttp.RequireModule(entity.ModuleVentas, loader))

	resp := doRequest(t, app, "/modulo", tokenForRole(t, "Vendedor"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, loader.calls)
}

func TestRequireModule_VendedorSinEmpleados_RedirigeALanding(t *testing.T) {
	loader := &fakeLoader{emp: &entity.Employee{ID: testEmployeeID, Role: entity.RoleVendedor, Active: true}}
	app := buildGuardApp(loader, apphttp.RequireModule(entity.ModuleEmpleados, loader))

	resp := doRequest(t, app, "/modulo", tokenForRole(t, "Vendedor"))
	defer resp.Body.Close()

	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decodeDenied(t, resp)
	assert.Equal(t, "FORBIDDEN", body.Code)
	assert.Equal(t, "sin_permiso", body.Reason)
	assert.Equal(t, "ventas", body.RedirectTo)
}

func TestRequireModule_EmpleadoInactivo_RedirigeALogin(t *testing.T) {
	loader := &fakeLoader{emp: &entity.Employee{ID: testEmployeeID, Role: entity.RoleAdministrador, Active: false}}
	app := buildGuardApp(loader, apphttp.RequireModule(entity.ModuleDashboard, loader))

	resp := doRequest(t, app, "/modulo", tokenForRole(t, "Administrador"))
	defer resp.Body.Close()

	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decodeDenied(t, resp)
	assert.Equal(t, "inactivo", body.Reason)
	assert.Equal(t, "login", body.RedirectTo)
}

func TestRequireModule_EmpleadoBorrado_SinSesion(t *testing.T) {
	loader := &fakeLoader{}
	app := buildGuardApp(loader, apphttp.RequireModule(entity.ModuleVentas, loader))

	resp := doRequest(t, app, "/modulo", tokenForRole(t, "Vendedor"))
	defer resp.Body.Close()

	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "sin_sesion", decodeDenied(t, resp).Reason)
}

func TestRequireModule_PermisosExplicitosMandanSobreElRol(t *testing.T) {
	// cajero con lista explícita: solo clientes
	loader := &fakeLoader{emp: &entity.Employee{
		ID:                testEmployeeID, Role: entity.RoleCajero, Active: true,
		ModulePermissions: []entity.Module{entity.ModuleClientes},
	}}
	app := buildGuardApp(loader, apphttp.RequireModule(entity.ModuleCaja, loader))

	resp := doRequest(t, app, "/modulo", tokenForRole(t, "Cajero"))
	defer resp.Body.Close()

	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "clientes", decodeDenied(t, resp).RedirectTo)
}

func TestRequirePermission_VendedorNoAnulaVentas(t *testing.T) {
	loader := &fakeLoader{emp: &entity.Employee{ID: testEmployeeID, Role: entity.RoleVendedor, Active: true}}
	app := buildGuardApp(loader,
		apphttp.RequireModule(entity.ModuleVentas, loader),
		apphttp.RequirePermission(entity.ModuleVentas, entity.ActionDelete, loader),
	)

	resp := doRequest(t, app, "/modulo", tokenForRole(t, "Vendedor"))
	defer resp.Body.Close()

	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "sin_permiso", decodeDenied(t, resp).Reason)
	// el empleado se carga una sola vez por request
	assert.Equal(t, 1, loader.calls)
}

func TestRequirePermission_GerenteAnulaVentas(t *testing.T) {
	loader := &fakeLoader{emp: &entity.Employee{ID: testEmployeeID, Name: "Marta", Role: entity.RoleGerente, Active: true}}
	app := buildGuardApp(loader, apphttp.RequirePermission(entity.ModuleVentas, entity.ActionDelete, loader))

	resp := doRequest(t, app, "/modulo", tokenForRole(t, "Gerente"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireModule_ErrorDelLoader_Retorna500(t *testing.T) {
	loader := &fakeLoader{err: assert.AnError}
	app := buildGuardApp(loader, apphttp.RequireModule(entity.ModuleVentas, loader))

	resp := doRequest(t, app, "/modulo", tokenForRole(t, "Vendedor"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRequireAdmin_TokenDeAdminConEmpleadoDegradado_Retorna403(t *testing.T) {
	loader := &fakeLoader{emp: &entity.Employee{ID: testEmployeeID, Role: entity.RoleVendedor, Active: true}}
	app := buildGuardApp(loader, apphttp.RequireAdmin(loader))

	resp := doRequest(t, app, "/modulo", tokenForRole(t, "Administrador"))
	defer resp.Body.Close()

	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decodeDenied(t, resp)
	assert.Equal(t, "sin_permiso", body.Reason)
	assert.Equal(t, "ventas", body.RedirectTo)
}

func TestRequireAdmin_AdministradorInactivo_Retorna403(t *testing.T) {
	loader := &fakeLoader{emp: &entity.Employee{ID: testEmployeeID, Role: entity.RoleAdministrador, Active: false}}
	app := buildGuardApp(loader, apphttp.RequireAdmin(loader))

	resp := doRequest(t, app, "/modulo", tokenForRole(t, "Administrador"))
	defer resp.Body.Close()

	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "inactivo", decodeDenied(t, resp).Reason)
}

func TestRequireAdmin_AdministradorVigente(t *testing.T) {
	loader := &fakeLoader{emp: &entity.Employee{ID: testEmployeeID, Name: "Rosa", Role: entity.RoleAdministrador, Active: true}}
	app := buildGuardApp(loader, apphttp.RequireAdmin(loader))

	resp := doRequest(t, app, "/modulo", tokenForRole(t, "Administrador"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
