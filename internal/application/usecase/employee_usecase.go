package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/permission"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/logger"
)

// EmployeeUseCase alta, edición y permisos de empleados.
type EmployeeUseCase struct {
	repo  repository.EmployeeRepository
	audit repository.AuditRepository
	log   *logger.Logger
}

// NewEmployeeUseCase construye el caso de uso.
func NewEmployeeUseCase(repo repository.EmployeeRepository, audit repository.AuditRepository, log *logger.Logger) *EmployeeUseCase {
	return &EmployeeUseCase{repo: repo, audit: audit, log: log.Component("empleados")}
}

// HashPassword bcrypt con costo por defecto.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// canAssignRole solo un Administrador asigna el rol Administrador.
func canAssignRole(actor *entity.Employee, role entity.Role) bool {
	return role != entity.RoleAdministrador || permission.IsAdmin(actor)
}

// Create da de alta un empleado. Email único; rol y módulos deben ser válidos.
func (uc *EmployeeUseCase) Create(ctx context.Context, actor *entity.Employee, in dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	role, ok := permission.ParseRole(in.Role)
	if !ok {
		return nil, fmt.Errorf("%w: rol %q desconocido", domain.ErrInvalidInput, in.Role)
	}
	if !canAssignRole(actor, role) {
		return nil, fmt.Errorf("%w: solo un Administrador puede crear administradores", domain.ErrForbidden)
	}
	mods, bad, ok := permission.ParseModules(in.ModulePermissions)
	if !ok {
		return nil, fmt.Errorf("%w: módulo %q desconocido", domain.ErrInvalidInput, bad)
	}
	if in.Salary.IsNegative() {
		return nil, fmt.Errorf("%w: el salario no puede ser negativo", domain.ErrInvalidInput)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe un empleado con email %s", domain.ErrDuplicate, email)
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	e := &entity.Employee{
		ID:                newID(),
		Name:              strings.TrimSpace(in.Name),
		Email:             email,
		PasswordHash:      hash,
		Role:              role,
		Salary:            in.Salary,
		ModulePermissions: mods,
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	uc.record(ctx, actor, "create", e.ID, map[string]any{"email": e.Email, "role": e.Role})
	uc.log.Info().Str("empleado_id", e.ID).Str("rol", string(role)).Msg("empleado creado")
	out := ToEmployeeResponse(e)
	return &out, nil
}

// Get devuelve un empleado.
func (uc *EmployeeUseCase) Get(ctx context.Context, id string) (*dto.EmployeeResponse, error) {
	e, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToEmployeeResponse(e)
	return &out, nil
}

func (uc *EmployeeUseCase) find(ctx context.Context, id string) (*entity.Employee, error) {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%w: empleado %s", domain.ErrNotFound, id)
	}
	return e, nil
}

// List lista empleados filtrando por activo y rol.
func (uc *EmployeeUseCase) List(ctx context.Context, in dto.EmployeeFilterRequest) ([]dto.EmployeeResponse, error) {
	f := repository.EmployeeFilter{Active: in.Active}
	if in.Role != "" {
		role, ok := permission.ParseRole(in.Role)
		if !ok {
			return nil, fmt.Errorf("%w: rol %q desconocido", domain.ErrInvalidInput, in.Role)
		}
		f.Role = role
	}
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(e *entity.Employee, _ int) dto.EmployeeResponse { return ToEmployeeResponse(e) }), nil
}

// Update modifica datos básicos, rol, estado o contraseña.
func (uc *EmployeeUseCase) Update(ctx context.Context, actor *entity.Employee, id string, in dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	e, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Role == entity.RoleAdministrador && !permission.IsAdmin(actor) {
		return nil, fmt.Errorf("%w: solo un Administrador puede modificar administradores", domain.ErrForbidden)
	}
	if in.Name != nil {
		e.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		e.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Role != nil {
		role, ok := permission.ParseRole(*in.Role)
		if !ok {
			return nil, fmt.Errorf("%w: rol %q desconocido", domain.ErrInvalidInput, *in.Role)
		}
		if !canAssignRole(actor, role) {
			return nil, fmt.Errorf("%w: solo un Administrador puede asignar el rol Administrador", domain.ErrForbidden)
		}
		e.Role = role
	}
	if in.Salary != nil {
		if in.Salary.IsNegative() {
			return nil, fmt.Errorf("%w: el salario no puede ser negativo", domain.ErrInvalidInput)
		}
		e.Salary = *in.Salary
	}
	if in.Active != nil {
		if !*in.Active && actor != nil && actor.ID == e.ID {
			return nil, fmt.Errorf("%w: no puede desactivarse a sí mismo", domain.ErrConflict)
		}
		e.Active = *in.Active
	}
	e.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	if in.Password != nil {
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		if err := uc.repo.UpdatePassword(ctx, e.ID, hash); err != nil {
			return nil, err
		}
	}
	uc.record(ctx, actor, "update", e.ID, updateAuditDetails(in))
	out := ToEmployeeResponse(e)
	return &out, nil
}

// UpdatePermissions reemplaza la lista explícita de módulos. Lista vacía vuelve a los permisos del rol.
func (uc *EmployeeUseCase) UpdatePermissions(ctx context.Context, actor *entity.Employee, id string, in dto.UpdatePermissionsRequest) (*dto.EmployeeAccessResponse, error) {
	e, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	mods, bad, ok := permission.ParseModules(in.Modules)
	if !ok {
		return nil, fmt.Errorf("%w: módulo %q desconocido", domain.ErrInvalidInput, bad)
	}
	if err := uc.repo.UpdatePermissions(ctx, e.ID, mods); err != nil {
		return nil, err
	}
	e.ModulePermissions = mods
	uc.record(ctx, actor, "permisos", e.ID, map[string]any{"modules": modulesToStrings(mods)})
	uc.log.Info().Str("empleado_id", e.ID).Strs("modulos", modulesToStrings(mods)).Msg("permisos actualizados")
	out := AccessFor(e)
	return &out, nil
}

// Deactivate baja lógica del empleado.
func (uc *EmployeeUseCase) Deactivate(ctx context.Context, actor *entity.Employee, id string) error {
	inactive := false
	_, err := uc.Update(ctx, actor, id, dto.UpdateEmployeeRequest{Active: &inactive})
	return err
}

// Access módulos efectivos, módulo inicial y acciones por módulo del empleado.
func (uc *EmployeeUseCase) Access(ctx context.Context, id string) (*dto.EmployeeAccessResponse, error) {
	e, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := AccessFor(e)
	return &out, nil
}

// AccessFor resume el acceso de un empleado.
func AccessFor(e *entity.Employee) dto.EmployeeAccessResponse {
	mods := permission.AccessibleModules(e)
	actions := make(map[string][]string, len(mods))
	for _, m := range mods {
		var granted []string
		for _, a := range []entity.Action{entity.ActionRead, entity.ActionCreate, entity.ActionUpdate, entity.ActionDelete} {
			if permission.CanPerform(e, m, a) {
				granted = append(granted, string(a))
			}
		}
		actions[string(m)] = granted
	}
	return dto.EmployeeAccessResponse{
		EmployeeID:    e.ID,
		Role:          string(e.Role),
		Explicit:      e.Role != entity.RoleAdministrador && len(e.ModulePermissions) > 0,
		Modules:       modulesToStrings(mods),
		LandingModule: string(permission.LandingModule(e)),
		Actions:       actions,
	}
}

// updateAuditDetails campos modificados; de la contraseña solo queda constancia del cambio.
func updateAuditDetails(in dto.UpdateEmployeeRequest) map[string]any {
	details := make(map[string]any)
	if in.Name != nil {
		details["name"] = *in.Name
	}
	if in.Email != nil {
		details["email"] = *in.Email
	}
	if in.Role != nil {
		details["role"] = *in.Role
	}
	if in.Salary != nil {
		details["salary"] = in.Salary.String()
	}
	if in.Active != nil {
		details["active"] = *in.Active
	}
	if in.Password != nil {
		details["password_changed"] = true
	}
	return details
}

func (uc *EmployeeUseCase) record(ctx context.Context, actor *entity.Employee, action, id string, details any) {
	actorID := ""
	if actor != nil {
		actorID = actor.ID
	}
	if err := uc.audit.Create(ctx, newAuditLog(actorID, action, "empleado", id, details)); err != nil {
		uc.log.Warn().Err(err).Str("empleado_id", id).Msg("no se pudo registrar auditoría")
	}
}
