package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/auth"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/usecase"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/jwt"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/logger"
)

const secret = "clave-de-prueba"

// employeesByEmail repositorio mínimo para login.
type employeesByEmail map[string]*entity.Employee

func (m employeesByEmail) Create(context.Context, *entity.Employee) error { return nil }
func (m employeesByEmail) Update(context.Context, *entity.Employee) error { return nil }
func (m employeesByEmail) UpdatePermissions(context.Context, string, []entity.Module) error {
	return nil
}
func (m employeesByEmail) UpdatePassword(context.Context, string, string) error { return nil }
func (m employeesByEmail) List(context.Context, repository.EmployeeFilter) ([]*entity.Employee, error) {
	return nil, nil
}

func (m employeesByEmail) GetByEmail(_ context.Context, email string) (*entity.Employee, error) {
	return m[email], nil
}

func (m employeesByEmail) GetByID(_ context.Context, id string) (*entity.Employee, error) {
	for _, e := range m {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func newAuth(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	hash, err := usecase.HashPassword("moto1234")
	require.NoError(t, err)
	repo := employeesByEmail{
		"mateo@moto.com": {ID: "e1", Name: "Mateo", Email: "mateo@moto.com", PasswordHash: hash, Role: entity.RoleVendedor, Active: true},
		"ana@moto.com":   {ID: "e2", Name: "Ana", Email: "ana@moto.com", PasswordHash: hash, Role: entity.RoleCajero, Active: false},
		"luz@moto.com": {
			ID: "e3", Name: "Luz", Email: "luz@moto.com", PasswordHash: hash, Role: entity.RoleTecnico, Active: true,
			ModulePermissions: []entity.Module{entity.ModuleCalendario, entity.ModuleProductos},
		},
	}
	return auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "motorepuestos"}, logger.Nop())
}

func TestLogin_OK(t *testing.T) {
	uc := newAuth(t)
	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: " Mateo@Moto.com", Password: "moto1234"})
	require.NoError(t, err)

	assert.Equal(t, "ventas", out.LandingModule)
	assert.Contains(t, out.Modules, "clientes")
	assert.NotContains(t, out.Modules, "empleados")
	assert.Equal(t, "e1", out.Employee.ID)

	claims, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "e1", claims.EmployeeID)
	assert.Equal(t, string(entity.RoleVendedor), claims.Role)
}

func TestLogin_PermisosExplicitos(t *testing.T) {
	out, err := newAuth(t).Login(context.Background(), dto.LoginRequest{Email: "luz@moto.com", Password: "moto1234"})
	require.NoError(t, err)
	assert.Equal(t, []string{"productos", "calendario"}, out.Modules)
	assert.Equal(t, "productos", out.LandingModule)
}

func TestLogin_Rechazos(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "nadie@moto.com", Password: "moto1234"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "mateo@moto.com", Password: "otra"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@moto.com", Password: "moto1234"})
	require.ErrorIs(t, err, domain.ErrEmpleadoInactivo)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@moto.com", Password: "otra"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials, "la contraseña se verifica antes que el estado")
}

func TestMe(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	out, err := uc.Me(ctx, "e1")
	require.NoError(t, err)
	assert.Empty(t, out.Token)
	assert.Equal(t, "ventas", out.LandingModule)

	_, err = uc.Me(ctx, "e2")
	require.ErrorIs(t, err, domain.ErrEmpleadoInactivo)

	_, err = uc.Me(ctx, "zz")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}
