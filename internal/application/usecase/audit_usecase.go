package usecase

import (
	"context"

	"github.com/samber/lo"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
)

const maxAuditRows = 500

// AuditUseCase consulta del registro de auditoría.
type AuditUseCase struct {
	repo  repository.AuditRepository
	clock Clock
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(repo repository.AuditRepository, clock Clock) *AuditUseCase {
	return &AuditUseCase{repo: repo, clock: clock}
}

// List registros más recientes primero.
func (uc *AuditUseCase) List(ctx context.Context, in dto.AuditFilterRequest) ([]dto.AuditLogResponse, error) {
	f := repository.AuditFilter{
		Entity:     in.Entity,
		EntityID:   in.EntityID,
		EmployeeID: in.EmployeeID,
		Limit:      in.Limit,
	}
	if f.Limit <= 0 || f.Limit > maxAuditRows {
		f.Limit = 100
	}
	if in.From != "" || in.To != "" {
		from, to, err := uc.clock.Range(in.From, in.To)
		if err != nil {
			return nil, err
		}
		f.From, f.To = &from, &to
	}
	list, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(l *entity.AuditLog, _ int) dto.AuditLogResponse { return toAuditLogResponse(l) }), nil
}
