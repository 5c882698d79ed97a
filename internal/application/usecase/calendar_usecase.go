package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
)

// CalendarUseCase agenda del local.
type CalendarUseCase struct {
	repo  repository.CalendarRepository
	clock Clock
}

// NewCalendarUseCase construye el caso de uso.
func NewCalendarUseCase(repo repository.CalendarRepository, clock Clock) *CalendarUseCase {
	return &CalendarUseCase{repo: repo, clock: clock}
}

func validateEvent(in dto.CalendarEventRequest) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: título requerido", domain.ErrInvalidInput)
	}
	if !lo.Contains(entity.EventTypes, in.Type) {
		return fmt.Errorf("%w: tipo de evento %q", domain.ErrInvalidInput, in.Type)
	}
	if in.EndsAt.Before(in.StartsAt) {
		return fmt.Errorf("%w: la fecha de fin es anterior al inicio", domain.ErrInvalidInput)
	}
	return nil
}

// Create agenda un evento.
func (uc *CalendarUseCase) Create(ctx context.Context, actorID string, in dto.CalendarEventRequest) (*dto.CalendarEventResponse, error) {
	if err := validateEvent(in); err != nil {
		return nil, err
	}
	now := uc.clock.now()
	e := &entity.CalendarEvent{
		ID:          newID(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		Type:        in.Type,
		EmployeeID:  actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	out := toCalendarEventResponse(e)
	return &out, nil
}

// Update reemplaza los datos del evento.
func (uc *CalendarUseCase) Update(ctx context.Context, id string, in dto.CalendarEventRequest) (*dto.CalendarEventResponse, error) {
	if err := validateEvent(in); err != nil {
		return nil, err
	}
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%w: evento %s", domain.ErrNotFound, id)
	}
	e.Title = strings.TrimSpace(in.Title)
	e.Description = in.Description
	e.StartsAt = in.StartsAt
	e.EndsAt = in.EndsAt
	e.Type = in.Type
	e.UpdatedAt = uc.clock.now()
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	out := toCalendarEventResponse(e)
	return &out, nil
}

// Delete elimina el evento.
func (uc *CalendarUseCase) Delete(ctx context.Context, id string) error {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("%w: evento %s", domain.ErrNotFound, id)
	}
	return uc.repo.Delete(ctx, id)
}

// List eventos que se superponen con el rango (días inclusive).
func (uc *CalendarUseCase) List(ctx context.Context, from, to string) ([]dto.CalendarEventResponse, error) {
	start, end, err := uc.clock.Range(from, to)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(e *entity.CalendarEvent, _ int) dto.CalendarEventResponse { return toCalendarEventResponse(e) }), nil
}
