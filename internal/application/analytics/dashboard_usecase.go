package analytics

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/usecase"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/cashbook"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
)

const dashboardTopProducts = 5 // productos en el widget del dashboard

// DashboardUseCase KPIs del día: ventas, caja actual, stock bajo y deuda de clientes.
//
// Fuente de datos: ReportRepository (consultas read-only) y la caja abierta del día.
type DashboardUseCase struct {
	reports   repository.ReportRepository
	registers repository.CashRegisterRepository
	movements repository.CashMovementRepository
	clock     usecase.Clock
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	reports repository.ReportRepository,
	registers repository.CashRegisterRepository,
	movements repository.CashMovementRepository,
	clock usecase.Clock,
) *DashboardUseCase {
	return &DashboardUseCase{reports: reports, registers: registers, movements: movements, clock: clock}
}

// GetSummary arma el dashboard. Las consultas son independientes y corren en paralelo.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardResponse, error) {
	today := uc.clock.Today()
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := today.AddDate(0, 0, 1-today.Day())

	type salesResult struct {
		summary repository.SalesSummary
		err     error
	}
	type countResult struct {
		n   int
		err error
	}
	type debtResult struct {
		debt repository.CustomerDebtSummary
		err  error
	}
	type topResult struct {
		rows []repository.ProductReportRow
		err  error
	}
	type cashResult struct {
		reg  *entity.CashRegister
		movs []entity.CashMovement
		err  error
	}

	salesCh := make(chan salesResult, 1)
	lowCh := make(chan countResult, 1)
	debtCh := make(chan debtResult, 1)
	topCh := make(chan topResult, 1)
	cashCh := make(chan cashResult, 1)

	go func() {
		s, err := uc.reports.SalesSummary(ctx, today, tomorrow)
		salesCh <- salesResult{s, err}
	}()
	go func() {
		n, err := uc.reports.LowStockCount(ctx)
		lowCh <- countResult{n, err}
	}()
	go func() {
		d, err := uc.reports.CustomerDebt(ctx)
		debtCh <- debtResult{d, err}
	}()
	go func() {
		rows, err := uc.reports.Products(ctx, repository.ReportFilter{From: monthStart, To: tomorrow}, dashboardTopProducts)
		topCh <- topResult{rows, err}
	}()
	go func() {
		reg, err := uc.registers.GetOpenByDate(ctx, today)
		if err != nil || reg == nil {
			cashCh <- cashResult{err: err}
			return
		}
		movs, err := uc.movements.ListByRegister(ctx, reg.ID)
		cashCh <- cashResult{reg, movs, err}
	}()

	sales := <-salesCh
	low := <-lowCh
	debt := <-debtCh
	top := <-topCh
	cash := <-cashCh

	if sales.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", sales.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}
	if debt.err != nil {
		return nil, fmt.Errorf("dashboard: deuda de clientes: %w", debt.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", top.err)
	}
	if cash.err != nil {
		return nil, fmt.Errorf("dashboard: caja actual: %w", cash.err)
	}

	out := &dto.DashboardResponse{
		SalesTodayCount:   sales.summary.Count,
		SalesTodayTotal:   sales.summary.Total.Round(2),
		LowStockProducts:  low.n,
		ActiveCustomers:   debt.debt.ActiveCustomers,
		CustomersWithDebt: debt.debt.WithDebt,
		TotalDebt:         debt.debt.TotalDebt.Round(2),
		TopProducts:       lo.Map(top.rows, func(r repository.ProductReportRow, _ int) dto.ProductReportRow { return toProductRow(r) }),
	}

	// ── Caja actual ──
	if cash.reg != nil {
		t := cashbook.Sum(cash.movs)
		out.CashOpen = true
		out.CashIncome = t.Income
		out.CashExpense = t.Expense
		out.CashBalance = cash.reg.OpeningBalance.Add(t.Net())
	}
	return out, nil
}
