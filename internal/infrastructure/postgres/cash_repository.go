package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
)

var (
	_ repository.CashRegisterRepository = (*CashRegisterRepo)(nil)
	_ repository.CashMovementRepository = (*CashMovementRepo)(nil)
	_ repository.CashCountRepository    = (*CashCountRepo)(nil)
)

// CashRegisterRepo cajas diarias sobre PostgreSQL.
type CashRegisterRepo struct {
	q Querier
}

// NewCashRegisterRepository construye el adaptador.
func NewCashRegisterRepository(q Querier) *CashRegisterRepo {
	return &CashRegisterRepo{q: q}
}

const cashRegisterColumns = `id, date, employee_id, status, opening_balance, closing_balance, total_income, total_expense, sales_count, sales_total, closed_at, created_at, updated_at`

func scanCashRegister(row interface{ Scan(...any) error }) (*entity.CashRegister, error) {
	var c entity.CashRegister
	err := row.Scan(&c.ID, &c.Date, &c.EmployeeID, &c.Status, &c.OpeningBalance, &c.ClosingBalance,
		&c.TotalIncome, &c.TotalExpense, &c.SalesCount, &c.SalesTotal, &c.ClosedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create abre una caja. Una segunda caja abierta el mismo día viola el índice parcial → ErrCajaYaAbierta.
func (r *CashRegisterRepo) Create(ctx context.Context, c *entity.CashRegister) error {
	query := `INSERT INTO cash_registers (` + cashRegisterColumns + `) VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Date.Format("2006-01-02"), c.EmployeeID, c.Status, c.OpeningBalance, c.ClosingBalance,
		c.TotalIncome, c.TotalExpense, c.SalesCount, c.SalesTotal, c.ClosedAt, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCajaYaAbierta
		}
		return fmt.Errorf("insert cash register: %w", err)
	}
	return nil
}

func (r *CashRegisterRepo) getOne(ctx context.Context, op, where string, args ...any) (*entity.CashRegister, error) {
	c, err := scanCashRegister(r.q.QueryRow(ctx, `SELECT `+cashRegisterColumns+` FROM cash_registers WHERE `+where, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// GetByID obtiene una caja por ID.
func (r *CashRegisterRepo) GetByID(ctx context.Context, id string) (*entity.CashRegister, error) {
	return r.getOne(ctx, "get cash register", "id = $1", id)
}

// GetByIDForUpdate bloquea la caja (egresos y cierre concurrentes).
func (r *CashRegisterRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.CashRegister, error) {
	return r.getOne(ctx, "lock cash register", "id = $1 FOR UPDATE", id)
}

// GetOpenByDate devuelve la caja abierta del día.
func (r *CashRegisterRepo) GetOpenByDate(ctx context.Context, date time.Time) (*entity.CashRegister, error) {
	return r.getOne(ctx, "get open cash register", "date = $1::date AND status = $2", date.Format("2006-01-02"), entity.CashRegisterOpen)
}

// Update persiste estado, saldo final, totales y fecha de cierre.
func (r *CashRegisterRepo) Update(ctx context.Context, c *entity.CashRegister) error {
	query := `
		UPDATE cash_registers SET status = $2, closing_balance = $3, total_income = $4, total_expense = $5,
			sales_count = $6, sales_total = $7, closed_at = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.Status, c.ClosingBalance, c.TotalIncome, c.TotalExpense, c.SalesCount, c.SalesTotal, c.ClosedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update cash register: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CashRegisterRepo) list(ctx context.Context, where string, args ...any) ([]*entity.CashRegister, error) {
	rows, err := r.q.Query(ctx, `SELECT `+cashRegisterColumns+` FROM cash_registers WHERE `+where+` ORDER BY date DESC, created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list cash registers: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashRegister
	for rows.Next() {
		c, err := scanCashRegister(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash register: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// List historial de cajas entre dos fechas (inclusive).
func (r *CashRegisterRepo) List(ctx context.Context, from, to time.Time) ([]*entity.CashRegister, error) {
	return r.list(ctx, "date BETWEEN $1::date AND $2::date", from.Format("2006-01-02"), to.Format("2006-01-02"))
}

// ListOpenByDate cajas que siguen abiertas en una fecha dada.
func (r *CashRegisterRepo) ListOpenByDate(ctx context.Context, date time.Time) ([]*entity.CashRegister, error) {
	return r.list(ctx, "date = $1::date AND status = $2", date.Format("2006-01-02"), entity.CashRegisterOpen)
}

// CashMovementRepo ingresos y egresos.
type CashMovementRepo struct {
	q Querier
}

// NewCashMovementRepository construye el adaptador.
func NewCashMovementRepository(q Querier) *CashMovementRepo {
	return &CashMovementRepo{q: q}
}

const cashMovementColumns = `id, cash_register_id, type, amount, concept, payment_method, employee_id, sale_id, customer_id, date`

// Create registra un movimiento de caja.
func (r *CashMovementRepo) Create(ctx context.Context, m *entity.CashMovement) error {
	query := `INSERT INTO cash_movements (` + cashMovementColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CashRegisterID, m.Type, m.Amount, m.Concept, m.PaymentMethod,
		nullID(m.EmployeeID), nullIDPtr(m.SaleID), nullIDPtr(m.CustomerID), m.Date,
	)
	if err != nil {
		return fmt.Errorf("insert cash movement: %w", err)
	}
	return nil
}

func (r *CashMovementRepo) list(ctx context.Context, where string, args ...any) ([]entity.CashMovement, error) {
	rows, err := r.q.Query(ctx, `SELECT `+cashMovementColumns+` FROM cash_movements WHERE `+where+` ORDER BY date`, args...)
	if err != nil {
		return nil, fmt.Errorf("list cash movements: %w", err)
	}
	defer rows.Close()
	var list []entity.CashMovement
	for rows.Next() {
		var (
			m   entity.CashMovement
			emp *string
		)
		if err := rows.Scan(&m.ID, &m.CashRegisterID, &m.Type, &m.Amount, &m.Concept, &m.PaymentMethod,
			&emp, &m.SaleID, &m.CustomerID, &m.Date); err != nil {
			return nil, fmt.Errorf("scan cash movement: %w", err)
		}
		m.EmployeeID = derefID(emp)
		list = append(list, m)
	}
	return list, rows.Err()
}

// ListByRegister movimientos de una caja en orden cronológico.
func (r *CashMovementRepo) ListByRegister(ctx context.Context, cashRegisterID string) ([]entity.CashMovement, error) {
	return r.list(ctx, "cash_register_id = $1", cashRegisterID)
}

// ListByRange movimientos con fecha en [from, to).
func (r *CashMovementRepo) ListByRange(ctx context.Context, from, to time.Time) ([]entity.CashMovement, error) {
	return r.list(ctx, "date >= $1 AND date < $2", from, to)
}

// CashCountRepo arqueos.
type CashCountRepo struct {
	q Querier
}

// NewCashCountRepository construye el adaptador.
func NewCashCountRepository(q Querier) *CashCountRepo {
	return &CashCountRepo{q: q}
}

// cashCountLineJSON representación de una línea de arqueo en la columna JSONB.
type cashCountLineJSON struct {
	Method     string          `json:"metodo"`
	Counted    decimal.Decimal `json:"real"`
	System     decimal.Decimal `json:"sistema"`
	Difference decimal.Decimal `json:"diferencia"`
}

// Create persiste el arqueo. Un segundo arqueo de la misma caja → ErrArqueoYaRealizado.
func (r *CashCountRepo) Create(ctx context.Context, c *entity.CashCount) error {
	lines := make([]cashCountLineJSON, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, cashCountLineJSON(l))
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cash count lines: %w", err)
	}
	query := `
		INSERT INTO cash_counts (id, cash_register_id, date, employee_id, lines, total_counted, total_system, total_difference, notes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.q.Exec(ctx, query,
		c.ID, c.CashRegisterID, c.Date, nullID(c.EmployeeID), raw, c.TotalCounted, c.TotalSystem,
		c.TotalDifference, c.Notes, c.Status, c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrArqueoYaRealizado
		}
		return fmt.Errorf("insert cash count: %w", err)
	}
	return nil
}

// GetByRegister devuelve el arqueo de una caja (nil si no se hizo).
func (r *CashCountRepo) GetByRegister(ctx context.Context, cashRegisterID string) (*entity.CashCount, error) {
	var (
		c     entity.CashCount
		emp   *string
		raw   []byte
		lines []cashCountLineJSON
	)
	err := r.q.QueryRow(ctx, `
		SELECT id, cash_register_id, date, employee_id, lines, total_counted, total_system, total_difference, notes, status, created_at
		FROM cash_counts WHERE cash_register_id = $1`, cashRegisterID,
	).Scan(&c.ID, &c.CashRegisterID, &c.Date, &emp, &raw, &c.TotalCounted, &c.TotalSystem, &c.TotalDifference, &c.Notes, &c.Status, &c.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash count: %w", err)
	}
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cash count lines: %w", err)
	}
	for _, l := range lines {
		c.Lines = append(c.Lines, entity.CashCountLine(l))
	}
	c.EmployeeID = derefID(emp)
	return &c, nil
}
