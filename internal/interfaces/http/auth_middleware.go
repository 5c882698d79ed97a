package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/permission"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/jwt"
)

// Locals keys cargadas por los middlewares.
const (
	LocalEmployeeID = "employee_id"
	LocalEmail      = "email"
	LocalRole       = "role"
	LocalEmployee   = "employee"
)

// AuthMiddleware valida el Bearer Token JWT y deja EmployeeID, Email y Role en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalEmployeeID, claims.EmployeeID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireRole autoriza según el rol del token. Debe usarse después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if !lo.Contains(roles, role) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin acceso a este recurso"})
		}
		return c.Next()
	}
}

// GetEmployeeID devuelve el ID del empleado autenticado.
func GetEmployeeID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalEmployeeID).(string)
	return s
}

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetEmployee devuelve el empleado cargado por RequireModule/RequirePermission (nil antes).
func GetEmployee(c *fiber.Ctx) *entity.Employee {
	e, _ := c.Locals(LocalEmployee).(*entity.Employee)
	return e
}

// EmployeeLoader lectura del empleado vigente. Los permisos se evalúan contra la DB y no contra
// el token porque pueden cambiar durante la sesión.
type EmployeeLoader interface {
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
}

// RequireModule exige acceso al módulo (permission.CanAccess).
//   - 401 sin empleado en el contexto.
//   - 403 FORBIDDEN con reason y redirect_to si no tiene acceso o está inactivo.
func RequireModule(m entity.Module, loader EmployeeLoader) fiber.Handler {
	return guard(loader, func(e *entity.Employee) permission.AccessResult {
		return permission.CheckModuleAccess(e, m)
	})
}

// RequirePermission exige acceso al módulo y la acción pedida (permission.CanPerform).
func RequirePermission(m entity.Module, a entity.Action, loader EmployeeLoader) fiber.Handler {
	return guard(loader, func(e *entity.Employee) permission.AccessResult {
		res := permission.CheckModuleAccess(e, m)
		if res.Allowed && !permission.CanPerform(e, m, a) {
			return permission.AccessResult{Reason: permission.ReasonNoPermission, RedirectTo: string(m)}
		}
		return res
	})
}

// RequireAdmin exige rol Administrador sobre el empleado vigente, no sobre el rol del token.
func RequireAdmin(loader EmployeeLoader) fiber.Handler {
	return guard(loader, func(e *entity.Employee) permission.AccessResult {
		switch {
		case e == nil:
			return permission.AccessResult{Reason: permission.ReasonNoSession, RedirectTo: permission.RedirectLogin}
		case !e.Active:
			return permission.AccessResult{Reason: permission.ReasonInactive, RedirectTo: permission.RedirectLogin}
		case !permission.IsAdmin(e):
			return permission.AccessResult{Reason: permission.ReasonNoPermission, RedirectTo: string(permission.LandingModule(e))}
		}
		return permission.AccessResult{Allowed: true}
	})
}

func guard(loader EmployeeLoader, check func(*entity.Employee) permission.AccessResult) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := GetEmployeeID(c)
		if id == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
		}
		e := GetEmployee(c)
		if e == nil {
			var err error
			if e, err = loader.GetByID(c.UserContext(), id); err != nil {
				return respondError(c, err)
			}
			c.Locals(LocalEmployee, e)
		}
		res := check(e)
		if !res.Allowed {
			return c.Status(fiber.StatusForbidden).JSON(dto.AccessDeniedResponse{
				Code:       "FORBIDDEN",
				Message:    "sin permiso para este módulo",
				Reason:     res.Reason,
				RedirectTo: res.RedirectTo,
			})
		}
		return c.Next()
	}
}
