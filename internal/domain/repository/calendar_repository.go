package repository

import (
	"context"
	"time"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

// CalendarRepository eventos del calendario.
type CalendarRepository interface {
	Create(ctx context.Context, e *entity.CalendarEvent) error
	GetByID(ctx context.Context, id string) (*entity.CalendarEvent, error)
	Update(ctx context.Context, e *entity.CalendarEvent) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, from, to time.Time) ([]*entity.CalendarEvent, error)
}
