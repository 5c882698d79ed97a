package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// EmployeeRepo implementación de EmployeeRepository sobre PostgreSQL (usable con pool o tx).
type EmployeeRepo struct {
	q Querier
}

// NewEmployeeRepository construye el adaptador de persistencia para empleados.
func NewEmployeeRepository(q Querier) *EmployeeRepo {
	return &EmployeeRepo{q: q}
}

const employeeColumns = `id, name, email, password_hash, role, salary, module_permissions, active, created_at, updated_at`

func modulesToStrings(mods []entity.Module) []string {
	return lo.Map(mods, func(m entity.Module, _ int) string { return string(m) })
}

func scanEmployee(row interface{ Scan(...any) error }) (*entity.Employee, error) {
	var (
		e    entity.Employee
		role string
		mods []string
	)
	if err := row.Scan(&e.ID, &e.Name, &e.Email, &e.PasswordHash, &role, &e.Salary, &mods, &e.Active, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Role = entity.Role(role)
	e.ModulePermissions = lo.Map(mods, func(s string, _ int) entity.Module { return entity.Module(s) })
	return &e, nil
}

// Create persiste un empleado nuevo. Email duplicado → ErrDuplicate.
func (r *EmployeeRepo) Create(ctx context.Context, e *entity.Employee) error {
	query := `INSERT INTO employees (` + employeeColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.Name, e.Email, e.PasswordHash, string(e.Role), e.Salary,
		modulesToStrings(e.ModulePermissions), e.Active, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

// GetByID obtiene un empleado por ID.
func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	e, err := scanEmployee(r.q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

// GetByEmail obtiene un empleado por email (sin distinguir mayúsculas).
func (r *EmployeeRepo) GetByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	e, err := scanEmployee(r.q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE lower(email) = lower($1)`, email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee by email: %w", err)
	}
	return e, nil
}

// Update actualiza datos básicos. Los permisos y la contraseña tienen sus propios métodos.
func (r *EmployeeRepo) Update(ctx context.Context, e *entity.Employee) error {
	query := `
		UPDATE employees SET name = $2, email = $3, role = $4, salary = $5, active = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, e.ID, e.Name, e.Email, string(e.Role), e.Salary, e.Active, e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update employee: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePermissions reemplaza la lista explícita de módulos (vacía = usar el rol).
func (r *EmployeeRepo) UpdatePermissions(ctx context.Context, id string, modules []entity.Module) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE employees SET module_permissions = $2, updated_at = now() WHERE id = $1`,
		id, modulesToStrings(modules),
	)
	if err != nil {
		return fmt.Errorf("update employee permissions: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePassword reemplaza el hash de contraseña.
func (r *EmployeeRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE employees SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update employee password: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista empleados ordenados por nombre.
func (r *EmployeeRepo) List(ctx context.Context, f repository.EmployeeFilter) ([]*entity.Employee, error) {
	stmt := sq.Select(employeeColumns).From("employees").OrderBy("name").PlaceholderFormat(sq.Dollar)
	if f.Active != nil {
		stmt = stmt.Where(sq.Eq{"active": *f.Active})
	}
	if f.Role != "" {
		stmt = stmt.Where(sq.Eq{"role": string(f.Role)})
	}
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build employees query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()
	var list []*entity.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
