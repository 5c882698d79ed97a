// Package analytics contiene los reportes de ventas, productos y caja y el dashboard del local.
package analytics

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/usecase"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/logger"
)

const (
	defaultProductRows = 50
	maxProductRows     = 500
)

var hundred = decimal.NewFromInt(100)

// ReportUseCase reportes de solo lectura con filtros comunes.
type ReportUseCase struct {
	repo     repository.ReportRepository
	products repository.ProductRepository
	clock    usecase.Clock
	log      *logger.Logger
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(repo repository.ReportRepository, products repository.ProductRepository, clock usecase.Clock, log *logger.Logger) *ReportUseCase {
	return &ReportUseCase{repo: repo, products: products, clock: clock, log: log.Component("reportes")}
}

// filter traduce la query HTTP a filtros de repositorio. Valida método y tipo de precio.
func (uc *ReportUseCase) filter(in dto.ReportFilterRequest) (repository.ReportFilter, error) {
	from, to, err := uc.clock.Range(in.From, in.To)
	if err != nil {
		return repository.ReportFilter{}, err
	}
	if in.PaymentMethod != "" && !lo.Contains(entity.CashPaymentMethods, in.PaymentMethod) {
		return repository.ReportFilter{}, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, in.PaymentMethod)
	}
	if in.PriceType != "" && in.PriceType != string(entity.PriceRetail) && in.PriceType != string(entity.PriceWholesale) {
		return repository.ReportFilter{}, fmt.Errorf("%w: tipo de precio %q", domain.ErrInvalidInput, in.PriceType)
	}
	return repository.ReportFilter{
		From:          from,
		To:            to,
		EmployeeID:    in.EmployeeID,
		CustomerID:    in.CustomerID,
		PaymentMethod: in.PaymentMethod,
		PriceType:     in.PriceType,
	}, nil
}

// Sales reporte de ventas. Los totales consideran solo ventas completadas.
func (uc *ReportUseCase) Sales(ctx context.Context, in dto.ReportFilterRequest) (*dto.SalesReportResponse, error) {
	f, err := uc.filter(in)
	if err != nil {
		return nil, err
	}
	rows, err := uc.repo.Sales(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("reporte de ventas: %w", err)
	}
	out := &dto.SalesReportResponse{
		From:     f.From,
		To:       f.To.AddDate(0, 0, -1),
		ByMethod: make(map[string]decimal.Decimal),
		Rows:     make([]dto.SalesReportRow, 0, len(rows)),
	}
	for _, r := range rows {
		out.Rows = append(out.Rows, dto.SalesReportRow{
			SaleID:        r.SaleID,
			Date:          r.Date,
			Employee:      r.EmployeeName,
			Customer:      lo.Ternary(r.CustomerName == "", "Consumidor final", r.CustomerName),
			PaymentMethod: r.PaymentMethod,
			PriceType:     r.PriceType,
			Status:        r.Status,
			Items:         r.Items,
			Total:         r.Total,
		})
		if r.Status != entity.SaleCompleted {
			continue
		}
		out.Count++
		out.Total = out.Total.Add(r.Total)
		out.ByMethod[r.PaymentMethod] = out.ByMethod[r.PaymentMethod].Add(r.Total)
	}
	return out, nil
}

// Products rentabilidad por producto en el período y productos con stock bajo.
func (uc *ReportUseCase) Products(ctx context.Context, in dto.ReportFilterRequest, limit int) (*dto.ProductsReportResponse, error) {
	f, err := uc.filter(in)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultProductRows
	}
	if limit > maxProductRows {
		limit = maxProductRows
	}
	rows, err := uc.repo.Products(ctx, f, limit)
	if err != nil {
		return nil, fmt.Errorf("reporte de productos: %w", err)
	}
	active := true
	low, err := uc.products.List(ctx, repository.ProductFilter{Active: &active, LowStock: true})
	if err != nil {
		return nil, fmt.Errorf("productos con stock bajo: %w", err)
	}
	return &dto.ProductsReportResponse{
		From: f.From,
		To:   f.To.AddDate(0, 0, -1),
		Rows: lo.Map(rows, func(r repository.ProductReportRow, _ int) dto.ProductReportRow { return toProductRow(r) }),
		LowStock: lo.Map(low, func(p *entity.Product, _ int) dto.ProductResponse {
			return usecase.ToProductResponse(p, false)
		}),
	}, nil
}

func toProductRow(r repository.ProductReportRow) dto.ProductReportRow {
	pct := decimal.Zero
	if r.Revenue.IsPositive() {
		pct = r.Margin.Div(r.Revenue).Mul(hundred).Round(2)
	}
	return dto.ProductReportRow{
		ProductID: r.ProductID,
		SKU:       r.SKU,
		Name:      r.Name,
		UnitsSold: r.UnitsSold,
		Revenue:   r.Revenue.Round(2),
		Cost:      r.Cost.Round(2),
		Margin:    r.Margin.Round(2),
		MarginPct: pct,
	}
}

// Cash movimientos de caja del período con ingresos, egresos, neto y neto por método.
func (uc *ReportUseCase) Cash(ctx context.Context, in dto.ReportFilterRequest) (*dto.CashReportResponse, error) {
	f, err := uc.filter(in)
	if err != nil {
		return nil, err
	}
	rows, err := uc.repo.CashMovements(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("reporte de caja: %w", err)
	}
	out := &dto.CashReportResponse{
		From:     f.From,
		To:       f.To.AddDate(0, 0, -1),
		ByMethod: make(map[string]decimal.Decimal),
		Rows:     make([]dto.CashReportRow, 0, len(rows)),
	}
	for _, r := range rows {
		out.Rows = append(out.Rows, dto.CashReportRow{
			MovementID:     r.MovementID,
			CashRegisterID: r.CashRegisterID,
			Date:           r.Date,
			Type:           r.Type,
			PaymentMethod:  r.PaymentMethod,
			Concept:        r.Concept,
			Employee:       r.EmployeeName,
			Amount:         r.Amount,
		})
		signed := r.Amount
		if r.Type == entity.CashExpense {
			out.Expense = out.Expense.Add(r.Amount)
			signed = r.Amount.Neg()
		} else {
			out.Income = out.Income.Add(r.Amount)
		}
		out.ByMethod[r.PaymentMethod] = out.ByMethod[r.PaymentMethod].Add(signed)
	}
	out.Net = out.Income.Sub(out.Expense)
	return out, nil
}
