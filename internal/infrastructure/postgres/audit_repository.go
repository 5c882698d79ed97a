package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo registro de auditoría.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

const auditColumns = `id, action, entity, entity_id, details, employee_id, level, created_at`

// Create inserta un registro.
func (r *AuditRepo) Create(ctx context.Context, l *entity.AuditLog) error {
	var details any
	if len(l.Details) > 0 {
		details = []byte(l.Details)
	}
	_, err := r.q.Exec(ctx, `INSERT INTO audit_logs (`+auditColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		l.ID, l.Action, l.Entity, l.EntityID, details, nullID(l.EmployeeID), l.Level, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List registros más recientes primero.
func (r *AuditRepo) List(ctx context.Context, f repository.AuditFilter) ([]*entity.AuditLog, error) {
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	stmt := sq.Select(auditColumns).From("audit_logs").OrderBy("created_at DESC").
		Limit(uint64(limit)).PlaceholderFormat(sq.Dollar)
	if f.Entity != "" {
		stmt = stmt.Where(sq.Eq{"entity": f.Entity})
	}
	if f.EntityID != "" {
		stmt = stmt.Where(sq.Eq{"entity_id": f.EntityID})
	}
	if f.EmployeeID != "" {
		stmt = stmt.Where(sq.Eq{"employee_id": f.EmployeeID})
	}
	if f.From != nil {
		stmt = stmt.Where(sq.GtOrEq{"created_at": *f.From})
	}
	if f.To != nil {
		stmt = stmt.Where(sq.Lt{"created_at": *f.To})
	}
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLog
	for rows.Next() {
		var (
			l       entity.AuditLog
			details []byte
			emp     *string
		)
		if err := rows.Scan(&l.ID, &l.Action, &l.Entity, &l.EntityID, &details, &emp, &l.Level, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		l.Details = details
		l.EmployeeID = derefID(emp)
		list = append(list, &l)
	}
	return list, rows.Err()
}
