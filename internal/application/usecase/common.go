package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/ports"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/logger"
)

// Clock zona horaria y reloj del negocio. "Hoy" es el día calendario en Location.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

// NewClock reloj real en la zona dada (UTC si es nil).
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Location: loc, Now: time.Now}
}

func (c Clock) now() time.Time {
	if c.Now == nil {
		return time.Now().In(c.loc())
	}
	return c.Now().In(c.loc())
}

// Current hora actual en la zona del negocio.
func (c Clock) Current() time.Time { return c.now() }

func (c Clock) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Today medianoche del día actual en la zona del negocio.
func (c Clock) Today() time.Time {
	return c.StartOfDay(c.now())
}

// StartOfDay medianoche del día de t en la zona del negocio.
func (c Clock) StartOfDay(t time.Time) time.Time {
	t = t.In(c.loc())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc())
}

// ParseDay interpreta 2006-01-02 en la zona del negocio.
func (c Clock) ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, c.loc())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q (formato esperado AAAA-MM-DD)", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// Range convierte from/to (días, "to" inclusive) en el intervalo [desde, hasta).
// Sin from: primer día del mes actual. Sin to: hoy.
func (c Clock) Range(from, to string) (time.Time, time.Time, error) {
	today := c.Today()
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, c.loc())
	end := today
	var err error
	if from != "" {
		if start, err = c.ParseDay(from); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if to != "" {
		if end, err = c.ParseDay(to); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: la fecha hasta es anterior a desde", domain.ErrInvalidInput)
	}
	return start, end.AddDate(0, 0, 1), nil
}

// newAuditLog arma un registro de auditoría. details se serializa a JSON (nil = sin detalles).
func newAuditLog(employeeID, action, ent, entityID string, details any) *entity.AuditLog {
	var raw json.RawMessage
	if details != nil {
		raw, _ = json.Marshal(details)
	}
	return &entity.AuditLog{
		ID:         uuid.New().String(),
		Action:     action,
		Entity:     ent,
		EntityID:   entityID,
		Details:    raw,
		EmployeeID: employeeID,
		Level:      entity.AuditInfo,
		CreatedAt:  time.Now(),
	}
}

// publish envía el evento y solo registra el error.
func publish(ctx context.Context, pub ports.EventPublisher, log *logger.Logger, typ, key string, payload any) {
	if pub == nil {
		return
	}
	ev := ports.Event{Type: typ, Key: key, Payload: payload, OccurredAt: time.Now()}
	if err := pub.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).Str("evento", typ).Str("key", key).Msg("no se pudo publicar el evento")
	}
}

func newID() string { return uuid.New().String() }
