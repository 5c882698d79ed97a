package usecase

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/ports"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/cashbook"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/logger"
)

// CashUseCase caja diaria: apertura, movimientos, arqueo y cierre.
type CashUseCase struct {
	registers repository.CashRegisterRepository
	movements repository.CashMovementRepository
	counts    repository.CashCountRepository
	tx        repository.TxRunner
	pub       ports.EventPublisher
	metrics   ports.Metrics
	clock     Clock
	log       *logger.Logger
}

// NewCashUseCase construye el caso de uso.
func NewCashUseCase(
	registers repository.CashRegisterRepository,
	movements repository.CashMovementRepository,
	counts repository.CashCountRepository,
	tx repository.TxRunner,
	pub ports.EventPublisher,
	metrics ports.Metrics,
	clock Clock,
	log *logger.Logger,
) *CashUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &CashUseCase{
		registers: registers,
		movements: movements,
		counts:    counts,
		tx:        tx,
		pub:       pub,
		metrics:   metrics,
		clock:     clock,
		log:       log.Component("caja"),
	}
}

func (uc *CashUseCase) toResponse(reg *entity.CashRegister, movs []entity.CashMovement) dto.CashRegisterResponse {
	out := dto.CashRegisterResponse{
		ID:             reg.ID,
		Date:           reg.Date.In(uc.clock.loc()).Format("2006-01-02"),
		EmployeeID:     reg.EmployeeID,
		Status:         reg.Status,
		OpeningBalance: reg.OpeningBalance,
		ClosingBalance: reg.ClosingBalance,
		TotalIncome:    reg.TotalIncome,
		TotalExpense:   reg.TotalExpense,
		SalesCount:     reg.SalesCount,
		SalesTotal:     reg.SalesTotal,
		ClosedAt:       reg.ClosedAt,
	}
	if reg.IsOpen() && movs != nil {
		t := cashbook.Sum(movs)
		out.TotalIncome, out.TotalExpense = t.Income, t.Expense
		out.SalesCount, out.SalesTotal = salesFrom(movs)
	}
	out.Balance = out.OpeningBalance.Add(out.TotalIncome).Sub(out.TotalExpense)
	return out
}

// salesFrom cantidad y total neto de ventas según los movimientos de caja (las anulaciones restan).
func salesFrom(movs []entity.CashMovement) (int, decimal.Decimal) {
	count, total := 0, decimal.Zero
	for _, m := range movs {
		if m.SaleID == nil {
			continue
		}
		if m.Type == entity.CashIncome {
			count++
		} else {
			count--
		}
		total = total.Add(m.Signed())
	}
	return count, total
}

func validCashMethod(method string) (string, error) {
	method = lo.Ternary(method == "", entity.PaymentCash, method)
	if !lo.Contains(entity.CashPaymentMethods, method) {
		return "", fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, method)
	}
	return method, nil
}

// Open abre la caja del día. Solo puede haber una abierta por día.
func (uc *CashUseCase) Open(ctx context.Context, actorID string, in dto.OpenCashRequest) (*dto.CashRegisterResponse, error) {
	if in.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: el saldo inicial no puede ser negativo", domain.ErrInvalidInput)
	}
	today := uc.clock.Today()
	now := uc.clock.now()
	reg := &entity.CashRegister{
		ID:             newID(),
		Date:           today,
		EmployeeID:     actorID,
		Status:         entity.CashRegisterOpen,
		OpeningBalance: in.OpeningBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		open, err := r.CashRegisters.GetOpenByDate(ctx, today)
		if err != nil {
			return err
		}
		if open != nil {
			return domain.ErrCajaYaAbierta
		}
		if err := r.CashRegisters.Create(ctx, reg); err != nil {
			return err
		}
		return r.Audit.Create(ctx, newAuditLog(actorID, "abrir", "caja", reg.ID, map[string]any{"opening_balance": in.OpeningBalance}))
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, uc.pub, uc.log, ports.EventCashOpened, reg.ID, map[string]any{"date": today.Format("2006-01-02"), "opening_balance": reg.OpeningBalance})
	uc.log.Info().Str("caja_id", reg.ID).Str("empleado_id", actorID).Str("saldo_inicial", reg.OpeningBalance.StringFixed(2)).Msg("caja abierta")
	out := uc.toResponse(reg, []entity.CashMovement{})
	return &out, nil
}

// resolve caja por id o, si id es vacío, la caja abierta de hoy.
func (uc *CashUseCase) resolve(ctx context.Context, regs repository.CashRegisterRepository, id string, lock bool) (*entity.CashRegister, error) {
	if id == "" {
		open, err := regs.GetOpenByDate(ctx, uc.clock.Today())
		if err != nil {
			return nil, err
		}
		if open == nil {
			return nil, domain.ErrCajaNoAbierta
		}
		id = open.ID
		if !lock {
			return open, nil
		}
	}
	get := regs.GetByID
	if lock {
		get = regs.GetByIDForUpdate
	}
	reg, err := get(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, fmt.Errorf("%w: caja %s", domain.ErrNotFound, id)
	}
	return reg, nil
}

// Close cierra la caja (id vacío = la abierta de hoy) y congela sus totales.
func (uc *CashUseCase) Close(ctx context.Context, actorID, id string, in dto.CloseCashRequest) (*dto.CashRegisterResponse, error) {
	if in.ClosingBalance.IsNegative() {
		return nil, fmt.Errorf("%w: el saldo final no puede ser negativo", domain.ErrInvalidInput)
	}
	var reg *entity.CashRegister
	var expected decimal.Decimal
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		if reg, err = uc.resolve(ctx, r.CashRegisters, id, true); err != nil {
			return err
		}
		if !reg.IsOpen() {
			return fmt.Errorf("%w: la caja ya está cerrada", domain.ErrConflict)
		}
		movs, err := r.CashMovements.ListByRegister(ctx, reg.ID)
		if err != nil {
			return err
		}
		t := cashbook.Sum(movs)
		expected = reg.OpeningBalance.Add(t.Net())
		now := uc.clock.now()
		closing := in.ClosingBalance
		reg.Status = entity.CashRegisterClosed
		reg.ClosingBalance = &closing
		reg.TotalIncome = t.Income
		reg.TotalExpense = t.Expense
		reg.SalesCount, reg.SalesTotal = salesFrom(movs)
		reg.ClosedAt = &now
		reg.UpdatedAt = now
		if err := r.CashRegisters.Update(ctx, reg); err != nil {
			return err
		}
		return r.Audit.Create(ctx, newAuditLog(actorID, "cerrar", "caja", reg.ID, map[string]any{
			"closing_balance": closing,
			"expected":        expected,
		}))
	})
	if err != nil {
		return nil, err
	}
	out := uc.toResponse(reg, nil)
	publish(ctx, uc.pub, uc.log, ports.EventCashClosed, reg.ID, out)
	ev := uc.log.Info()
	if !expected.Equal(in.ClosingBalance) {
		ev = uc.log.Warn().Str("esperado", expected.StringFixed(2))
	}
	ev.Str("caja_id", reg.ID).Str("empleado_id", actorID).Str("saldo_final", in.ClosingBalance.StringFixed(2)).Msg("caja cerrada")
	return &out, nil
}

// Income registra un ingreso manual en la caja abierta de hoy.
func (uc *CashUseCase) Income(ctx context.Context, actorID string, in dto.CashMovementRequest) (*dto.CashMovementResponse, error) {
	return uc.register(ctx, actorID, entity.CashIncome, in)
}

// Expense registra un egreso. La caja debe tener saldo suficiente.
func (uc *CashUseCase) Expense(ctx context.Context, actorID string, in dto.CashMovementRequest) (*dto.CashMovementResponse, error) {
	return uc.register(ctx, actorID, entity.CashExpense, in)
}

func (uc *CashUseCase) register(ctx context.Context, actorID, movType string, in dto.CashMovementRequest) (*dto.CashMovementResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser mayor a 0", domain.ErrInvalidInput)
	}
	method, err := validCashMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	m := &entity.CashMovement{
		ID:            newID(),
		Type:          movType,
		Amount:        in.Amount,
		Concept:       in.Concept,
		PaymentMethod: method,
		EmployeeID:    actorID,
		Date:          uc.clock.now(),
	}
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		reg, err := uc.resolve(ctx, r.CashRegisters, "", true)
		if err != nil {
			return err
		}
		m.CashRegisterID = reg.ID
		if movType == entity.CashExpense {
			movs, err := r.CashMovements.ListByRegister(ctx, reg.ID)
			if err != nil {
				return err
			}
			if err := cashbook.CheckExpense(reg.OpeningBalance, movs, in.Amount); err != nil {
				return err
			}
		}
		if err := r.CashMovements.Create(ctx, m); err != nil {
			return err
		}
		return r.Audit.Create(ctx, newAuditLog(actorID, movType, "caja", reg.ID, map[string]any{
			"amount":         in.Amount,
			"concept":        in.Concept,
			"payment_method": method,
		}))
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.CashMovement(movType, method)
	uc.log.Info().Str("caja_id", m.CashRegisterID).Str("tipo", movType).Str("monto", in.Amount.StringFixed(2)).Msg("movimiento de caja")
	out := toCashMovementResponse(*m)
	return &out, nil
}

// Current caja abierta de hoy con totales parciales.
func (uc *CashUseCase) Current(ctx context.Context) (*dto.CashRegisterResponse, error) {
	reg, err := uc.resolve(ctx, uc.registers, "", false)
	if err != nil {
		return nil, err
	}
	movs, err := uc.movements.ListByRegister(ctx, reg.ID)
	if err != nil {
		return nil, err
	}
	out := uc.toResponse(reg, movs)
	return &out, nil
}

// Balance saldo de la caja abierta de hoy.
func (uc *CashUseCase) Balance(ctx context.Context) (decimal.Decimal, error) {
	cur, err := uc.Current(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return cur.Balance, nil
}

// Movements movimientos de una caja (id vacío = la abierta de hoy).
func (uc *CashUseCase) Movements(ctx context.Context, id string) ([]dto.CashMovementResponse, error) {
	reg, err := uc.resolve(ctx, uc.registers, id, false)
	if err != nil {
		return nil, err
	}
	movs, err := uc.movements.ListByRegister(ctx, reg.ID)
	if err != nil {
		return nil, err
	}
	return lo.Map(movs, func(m entity.CashMovement, _ int) dto.CashMovementResponse { return toCashMovementResponse(m) }), nil
}

// History cajas del rango (días inclusive, formato 2006-01-02).
func (uc *CashUseCase) History(ctx context.Context, from, to string) ([]dto.CashRegisterResponse, error) {
	start, end, err := uc.clock.Range(from, to)
	if err != nil {
		return nil, err
	}
	// List es inclusivo en ambos extremos
	regs, err := uc.registers.List(ctx, start, end.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}
	out := make([]dto.CashRegisterResponse, 0, len(regs))
	for _, reg := range regs {
		var movs []entity.CashMovement
		if reg.IsOpen() {
			if movs, err = uc.movements.ListByRegister(ctx, reg.ID); err != nil {
				return nil, err
			}
		}
		out = append(out, uc.toResponse(reg, movs))
	}
	return out, nil
}

// Count realiza el arqueo de la caja (id vacío = la abierta de hoy). Uno por caja.
func (uc *CashUseCase) Count(ctx context.Context, actorID, id string, in dto.CashCountRequest) (*dto.CashCountResponse, error) {
	for method, amount := range in.Counted {
		if !lo.Contains(entity.CashPaymentMethods, method) {
			return nil, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, method)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("%w: el monto contado de %s no puede ser negativo", domain.ErrInvalidInput, method)
		}
	}
	var cc entity.CashCount
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		reg, err := uc.resolve(ctx, r.CashRegisters, id, true)
		if err != nil {
			return err
		}
		prev, err := r.CashCounts.GetByRegister(ctx, reg.ID)
		if err != nil {
			return err
		}
		if prev != nil {
			return domain.ErrArqueoYaRealizado
		}
		movs, err := r.CashMovements.ListByRegister(ctx, reg.ID)
		if err != nil {
			return err
		}
		cc = cashbook.Count(reg, movs, in.Counted)
		cc.ID = newID()
		cc.Date = uc.clock.now()
		cc.EmployeeID = actorID
		cc.Notes = in.Notes
		cc.CreatedAt = uc.clock.now()
		if err := r.CashCounts.Create(ctx, &cc); err != nil {
			return err
		}
		return r.Audit.Create(ctx, newAuditLog(actorID, "arqueo", "caja", reg.ID, map[string]any{
			"status":     cc.Status,
			"difference": cc.TotalDifference,
		}))
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("caja_id", cc.CashRegisterID).Str("estado", cc.Status).
		Str("diferencia", cc.TotalDifference.StringFixed(2)).Msg("arqueo realizado")
	out := toCashCountResponse(&cc)
	return &out, nil
}

// GetCount devuelve el arqueo de una caja.
func (uc *CashUseCase) GetCount(ctx context.Context, id string) (*dto.CashCountResponse, error) {
	reg, err := uc.resolve(ctx, uc.registers, id, false)
	if err != nil {
		return nil, err
	}
	cc, err := uc.counts.GetByRegister(ctx, reg.ID)
	if err != nil {
		return nil, err
	}
	if cc == nil {
		return nil, fmt.Errorf("%w: la caja no tiene arqueo", domain.ErrNotFound)
	}
	out := toCashCountResponse(cc)
	return &out, nil
}

// CloseStale cierra las cajas que quedaron abiertas en la fecha dada (YYYY-MM-DD) con el saldo
// esperado. Devuelve cuántas cerró.
func (uc *CashUseCase) CloseStale(ctx context.Context, actorID, date string) (int, error) {
	day, err := uc.clock.ParseDay(date)
	if err != nil {
		return 0, err
	}
	closed := 0
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		open, err := r.CashRegisters.ListOpenByDate(ctx, day)
		if err != nil {
			return err
		}
		for _, reg := range open {
			movs, err := r.CashMovements.ListByRegister(ctx, reg.ID)
			if err != nil {
				return err
			}
			t := cashbook.Sum(movs)
			expected := reg.OpeningBalance.Add(t.Net())
			now := uc.clock.now()
			reg.Status = entity.CashRegisterClosed
			reg.ClosingBalance = &expected
			reg.TotalIncome, reg.TotalExpense = t.Income, t.Expense
			reg.SalesCount, reg.SalesTotal = salesFrom(movs)
			reg.ClosedAt = &now
			reg.UpdatedAt = now
			if err := r.CashRegisters.Update(ctx, reg); err != nil {
				return err
			}
			if err := r.Audit.Create(ctx, newAuditLog(actorID, "cierre_forzado", "caja", reg.ID, map[string]any{"closing_balance": expected})); err != nil {
				return err
			}
			closed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if closed > 0 {
		uc.log.Warn().Str("fecha", date).Int("cajas", closed).Msg("cajas abiertas cerradas a la fuerza")
	}
	return closed, nil
}

// ImportLegacy crea una caja cerrada a partir de un turno del sistema anterior. Los montos se
// registran en efectivo. Si ya existe una caja ese día el turno se omite (false).
func (uc *CashUseCase) ImportLegacy(ctx context.Context, actorID string, in dto.LegacyShift) (bool, error) {
	if in.StartedAt.IsZero() {
		return false, fmt.Errorf("%w: turno %s sin fecha de inicio", domain.ErrInvalidInput, in.SourceID)
	}
	start := in.StartedAt.In(uc.clock.loc())
	day := uc.clock.StartOfDay(start)

	imported := false
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		existing, err := r.CashRegisters.List(ctx, day, day)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}
		reg := &entity.CashRegister{
			ID:             newID(),
			Date:           day,
			EmployeeID:     actorID,
			Status:         entity.CashRegisterOpen,
			OpeningBalance: in.OpeningBalance,
			CreatedAt:      start,
			UpdatedAt:      start,
		}
		if err := r.CashRegisters.Create(ctx, reg); err != nil {
			return err
		}
		movs := make([]entity.CashMovement, 0, len(in.Entries))
		for _, e := range in.Entries {
			if !e.Amount.IsPositive() {
				continue
			}
			m := entity.CashMovement{
				ID:             newID(),
				CashRegisterID: reg.ID,
				Type:           lo.Ternary(e.Expense, entity.CashExpense, entity.CashIncome),
				Amount:         e.Amount,
				Concept:        lo.Ternary(e.Concept == "", "importado", e.Concept),
				PaymentMethod:  entity.PaymentCash,
				EmployeeID:     actorID,
				Date:           start,
			}
			if err := r.CashMovements.Create(ctx, &m); err != nil {
				return err
			}
			movs = append(movs, m)
		}
		t := cashbook.Sum(movs)
		closing := reg.OpeningBalance.Add(t.Net())
		if in.ClosingBalance != nil {
			closing = *in.ClosingBalance
		}
		end := start
		reg.Status = entity.CashRegisterClosed
		reg.ClosingBalance = &closing
		reg.TotalIncome, reg.TotalExpense = t.Income, t.Expense
		reg.ClosedAt = &end
		if err := r.CashRegisters.Update(ctx, reg); err != nil {
			return err
		}
		imported = true
		return r.Audit.Create(ctx, newAuditLog(actorID, "importar", "caja", reg.ID, map[string]any{"origen": in.SourceID}))
	})
	if err != nil {
		return false, err
	}
	return imported, nil
}
