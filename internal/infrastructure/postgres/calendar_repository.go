package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
)

var _ repository.CalendarRepository = (*CalendarRepo)(nil)

// CalendarRepo eventos del calendario.
type CalendarRepo struct {
	q Querier
}

// NewCalendarRepository construye el adaptador.
func NewCalendarRepository(q Querier) *CalendarRepo {
	return &CalendarRepo{q: q}
}

const calendarColumns = `id, title, description, starts_at, ends_at, type, employee_id, created_at, updated_at`

func scanCalendarEvent(row interface{ Scan(...any) error }) (*entity.CalendarEvent, error) {
	var (
		e   entity.CalendarEvent
		emp *string
	)
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartsAt, &e.EndsAt, &e.Type, &emp, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.EmployeeID = derefID(emp)
	return &e, nil
}

// Create persiste un evento.
func (r *CalendarRepo) Create(ctx context.Context, e *entity.CalendarEvent) error {
	_, err := r.q.Exec(ctx, `INSERT INTO calendar_events (`+calendarColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.Title, e.Description, e.StartsAt, e.EndsAt, e.Type, nullID(e.EmployeeID), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert calendar event: %w", err)
	}
	return nil
}

// GetByID obtiene un evento.
func (r *CalendarRepo) GetByID(ctx context.Context, id string) (*entity.CalendarEvent, error) {
	e, err := scanCalendarEvent(r.q.QueryRow(ctx, `SELECT `+calendarColumns+` FROM calendar_events WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get calendar event: %w", err)
	}
	return e, nil
}

// Update modifica un evento.
func (r *CalendarRepo) Update(ctx context.Context, e *entity.CalendarEvent) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE calendar_events SET title = $2, description = $3, starts_at = $4, ends_at = $5, type = $6, updated_at = $7
		WHERE id = $1`,
		e.ID, e.Title, e.Description, e.StartsAt, e.EndsAt, e.Type, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update calendar event: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un evento.
func (r *CalendarRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM calendar_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List eventos que se solapan con [from, to).
func (r *CalendarRepo) List(ctx context.Context, from, to time.Time) ([]*entity.CalendarEvent, error) {
	rows, err := r.q.Query(ctx, `SELECT `+calendarColumns+` FROM calendar_events
		WHERE starts_at < $2 AND ends_at >= $1 ORDER BY starts_at`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list calendar events: %w", err)
	}
	defer rows.Close()
	var list []*entity.CalendarEvent
	for rows.Next() {
		e, err := scanCalendarEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calendar event: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
