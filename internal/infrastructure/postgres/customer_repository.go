package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype/zeronull"
	"github.com/shopspring/decimal"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
)

var (
	_ repository.CustomerRepository        = (*CustomerRepo)(nil)
	_ repository.AccountMovementRepository = (*AccountMovementRepo)(nil)
)

// CustomerRepo clientes y su saldo de cuenta corriente.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador de persistencia para clientes.
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, name, email, phone, address, tax_id, iva_condition, credit_limit, balance, active, created_at, updated_at`

func scanCustomer(row interface{ Scan(...any) error }) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(&c.ID, &c.Name, (*zeronull.Text)(&c.Email), &c.Phone, &c.Address, &c.TaxID, &c.IVACondition,
		&c.CreditLimit, &c.Balance, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un cliente. Email vacío se guarda como NULL.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `INSERT INTO customers (` + customerColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, zeronull.Text(c.Email), c.Phone, c.Address, c.TaxID, c.IVACondition,
		c.CreditLimit, c.Balance, c.Active, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) getOne(ctx context.Context, op, where string, arg any) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE `+where, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.getOne(ctx, "get customer", "id = $1", id)
}

// GetByIDForUpdate bloquea la fila del cliente (cargos y pagos concurrentes).
func (r *CustomerRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.getOne(ctx, "lock customer", "id = $1 FOR UPDATE", id)
}

// GetByEmail obtiene un cliente por email.
func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	return r.getOne(ctx, "get customer by email", "lower(email) = lower($1)", email)
}

// Update actualiza los datos del cliente salvo el saldo.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers SET name = $2, email = $3, phone = $4, address = $5, tax_id = $6, iva_condition = $7,
			credit_limit = $8, active = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.Name, zeronull.Text(c.Email), c.Phone, c.Address, c.TaxID, c.IVACondition,
		c.CreditLimit, c.Active, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateBalance fija el saldo de cuenta corriente.
func (r *CustomerRepo) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE customers SET balance = $2, updated_at = now() WHERE id = $1`, id, balance)
	if err != nil {
		return fmt.Errorf("update customer balance: %w", err)
	}
	return nil
}

// SetActive baja lógica del cliente.
func (r *CustomerRepo) SetActive(ctx context.Context, id string, active bool) error {
	cmd, err := r.q.Exec(ctx, `UPDATE customers SET active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set customer active: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func customerListQuery(f repository.CustomerFilter) sq.SelectBuilder {
	stmt := sq.Select(customerColumns).From("customers").OrderBy("name").PlaceholderFormat(sq.Dollar)
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		stmt = stmt.Where(sq.Or{sq.Like{"lower(name)": like}, sq.Like{"tax_id": like}, sq.Like{"lower(email)": like}})
	}
	if f.Active != nil {
		stmt = stmt.Where(sq.Eq{"active": *f.Active})
	}
	if f.WithDebt {
		stmt = stmt.Where(sq.Gt{"balance": 0})
	}
	if f.Limit > 0 {
		stmt = stmt.Limit(uint64(f.Limit)).Offset(uint64(f.Offset))
	}
	return stmt
}

// List lista clientes aplicando los filtros presentes.
func (r *CustomerRepo) List(ctx context.Context, f repository.CustomerFilter) ([]*entity.Customer, error) {
	stmt := customerListQuery(f)
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build customers query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// AccountMovementRepo estado de cuenta de clientes.
type AccountMovementRepo struct {
	q Querier
}

// NewAccountMovementRepository construye el adaptador.
func NewAccountMovementRepository(q Querier) *AccountMovementRepo {
	return &AccountMovementRepo{q: q}
}

// Create registra un cargo o pago.
func (r *AccountMovementRepo) Create(ctx context.Context, m *entity.AccountMovement) error {
	query := `
		INSERT INTO account_movements (id, customer_id, type, amount, balance_after, concept, sale_id, employee_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CustomerID, m.Type, m.Amount, m.BalanceAfter, m.Concept, nullIDPtr(m.SaleID), nullID(m.EmployeeID), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account movement: %w", err)
	}
	return nil
}

// ListByCustomer movimientos del cliente en orden cronológico.
func (r *AccountMovementRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.AccountMovement, error) {
	query := `
		SELECT id, customer_id, type, amount, balance_after, concept, sale_id, employee_id, created_at
		FROM account_movements WHERE customer_id = $1 ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list account movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.AccountMovement
	for rows.Next() {
		var (
			m   entity.AccountMovement
			emp *string
		)
		if err := rows.Scan(&m.ID, &m.CustomerID, &m.Type, &m.Amount, &m.BalanceAfter, &m.Concept, &m.SaleID, &emp, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account movement: %w", err)
		}
		m.EmployeeID = derefID(emp)
		list = append(list, &m)
	}
	return list, rows.Err()
}
