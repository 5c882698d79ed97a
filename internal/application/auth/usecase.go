package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/usecase"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/permission"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/jwt"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login y sesión del empleado.
type AuthUseCase struct {
	employees repository.EmployeeRepository
	jwtCfg    JWTConfig
	log       *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(employees repository.EmployeeRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{employees: employees, jwtCfg: jwtCfg, log: log.Component("auth")}
}

// Login verifica email/password, genera el JWT y devuelve los módulos habilitados y el módulo inicial.
// Email inexistente y contraseña incorrecta devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.SessionResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	e, err := uc.employees.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(in.Password)); err != nil {
		uc.log.Info().Str("email", email).Msg("login rechazado")
		return nil, domain.ErrInvalidCredentials
	}
	if !e.Active {
		return nil, domain.ErrEmpleadoInactivo
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, e.ID, e.Email, string(e.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	out := Session(e)
	out.Token = token
	uc.log.Info().Str("empleado_id", e.ID).Str("landing", out.LandingModule).Msg("login")
	return &out, nil
}

// Me devuelve la sesión del empleado vigente (sin token).
func (uc *AuthUseCase) Me(ctx context.Context, employeeID string) (*dto.SessionResponse, error) {
	e, err := uc.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrUnauthorized
	}
	if !e.Active {
		return nil, domain.ErrEmpleadoInactivo
	}
	out := Session(e)
	return &out, nil
}

// Session arma la respuesta de sesión de un empleado.
func Session(e *entity.Employee) dto.SessionResponse {
	access := usecase.AccessFor(e)
	return dto.SessionResponse{
		Employee:      usecase.ToEmployeeResponse(e),
		Modules:       access.Modules,
		LandingModule: string(permission.LandingModule(e)),
	}
}
