package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/jwt"
)

const (
	secret     = "test-secret-key-for-unit-tests"
	employeeID = "00000000-0000-0000-0000-000000000001"
)

func TestGenerateAndParse_ConRole(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, employeeID, "mateo@motorepuestos.local", "Vendedor", "test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, employeeID, claims.EmployeeID)
	assert.Equal(t, employeeID, claims.Subject)
	assert.Equal(t, "mateo@motorepuestos.local", claims.Email)
	assert.Equal(t, "Vendedor", claims.Role)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, employeeID, "a@b.c", "Administrador", "test", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, employeeID, "a@b.c", "Administrador", "test", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", employeeID, "a@b.c", "Administrador", "test", 60)
	assert.Error(t, err)
}
