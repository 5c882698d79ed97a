package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/ports"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/account"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/cashbook"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/inventory"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/logger"
)

// SaleUseCase registro y anulación de ventas.
type SaleUseCase struct {
	repo    repository.SaleRepository
	tx      repository.TxRunner
	pub     ports.EventPublisher
	metrics ports.Metrics
	clock   Clock
	log     *logger.Logger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(repo repository.SaleRepository, tx repository.TxRunner, pub ports.EventPublisher, metrics ports.Metrics, clock Clock, log *logger.Logger) *SaleUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &SaleUseCase{repo: repo, tx: tx, pub: pub, metrics: metrics, clock: clock, log: log.Component("ventas")}
}

func parsePriceType(s string, def entity.PriceType) (entity.PriceType, error) {
	switch entity.PriceType(s) {
	case "":
		return def, nil
	case entity.PriceRetail, entity.PriceWholesale:
		return entity.PriceType(s), nil
	}
	return "", fmt.Errorf("%w: tipo de precio %q", domain.ErrInvalidInput, s)
}

// validateSale controles previos a la transacción.
func validateSale(in dto.CreateSaleRequest) (entity.PriceType, error) {
	if len(in.Items) == 0 {
		return "", fmt.Errorf("%w: la venta debe tener al menos un item", domain.ErrInvalidInput)
	}
	if !lo.Contains(entity.SalePaymentMethods, in.PaymentMethod) {
		return "", fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, in.PaymentMethod)
	}
	if in.PaymentMethod == entity.PaymentAccount && (in.CustomerID == nil || *in.CustomerID == "") {
		return "", fmt.Errorf("%w: la venta en cuenta corriente requiere cliente", domain.ErrInvalidInput)
	}
	pt, err := parsePriceType(in.PriceType, entity.PriceRetail)
	if err != nil {
		return "", err
	}
	for i, it := range in.Items {
		if it.Quantity <= 0 {
			return "", fmt.Errorf("%w: item %d: la cantidad debe ser mayor a 0", domain.ErrInvalidInput, i+1)
		}
		if it.UnitPrice != nil && !it.UnitPrice.IsPositive() {
			return "", fmt.Errorf("%w: item %d: el precio debe ser mayor a 0", domain.ErrInvalidInput, i+1)
		}
		if _, err := parsePriceType(it.PriceType, pt); err != nil {
			return "", err
		}
	}
	return pt, nil
}

// Create registra una venta en una única transacción: caja abierta, stock, cuenta corriente y caja.
func (uc *SaleUseCase) Create(ctx context.Context, actorID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	priceType, err := validateSale(in)
	if err != nil {
		return nil, err
	}
	now := uc.clock.now()
	sale := &entity.Sale{
		ID:            newID(),
		EmployeeID:    actorID,
		PaymentMethod: in.PaymentMethod,
		PriceType:     priceType,
		Status:        entity.SaleCompleted,
		Date:          now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.CustomerID != nil && *in.CustomerID != "" {
		id := *in.CustomerID
		sale.CustomerID = &id
	}
	var lowStock []*entity.Product

	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		// ── 1. Caja del día ──
		reg, err := r.CashRegisters.GetOpenByDate(ctx, uc.clock.Today())
		if err != nil {
			return err
		}
		if reg == nil {
			return domain.ErrCajaNoAbierta
		}
		sale.CashRegisterID = reg.ID

		// ── 2. Productos bloqueados en orden fijo ──
		ids := lo.Uniq(lo.Map(in.Items, func(it dto.SaleItemRequest, _ int) string { return it.ProductID }))
		sort.Strings(ids)
		products := make(map[string]*entity.Product, len(ids))
		for _, id := range ids {
			p, err := r.Products.GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if p == nil || !p.Active {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
			}
			products[id] = p
		}

		// ── 3. Items y total ──
		requested := make(map[string]int, len(ids))
		for _, it := range in.Items {
			p := products[it.ProductID]
			pt, _ := parsePriceType(it.PriceType, priceType)
			price := p.PriceFor(pt)
			if it.UnitPrice != nil {
				price = *it.UnitPrice
			}
			subtotal := price.Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2)
			sale.Items = append(sale.Items, entity.SaleItem{
				ID:        newID(),
				SaleID:    sale.ID,
				ProductID: p.ID,
				Quantity:  it.Quantity,
				UnitPrice: price,
				Subtotal:  subtotal,
				PriceType: pt,
			})
			sale.Total = sale.Total.Add(subtotal)
			requested[p.ID] += it.Quantity
		}
		for _, id := range ids {
			p := products[id]
			if p.Stock < requested[id] {
				return fmt.Errorf("%w: %s (disponible %d, solicitado %d)", domain.ErrInsufficientStock, p.Name, p.Stock, requested[id])
			}
		}

		// ── 4. Cuenta corriente ──
		if sale.PaymentMethod == entity.PaymentAccount {
			c, err := lockCustomer(ctx, r, *sale.CustomerID)
			if err != nil {
				return err
			}
			next, err := account.ApplyCharge(c, sale.Total)
			if err != nil {
				return err
			}
			if err := r.Customers.UpdateBalance(ctx, c.ID, next); err != nil {
				return err
			}
			saleID := sale.ID
			if err := r.AccountMovements.Create(ctx, &entity.AccountMovement{
				ID:           newID(),
				CustomerID:   c.ID,
				Type:         entity.AccountCharge,
				Amount:       sale.Total,
				BalanceAfter: next,
				Concept:      "venta",
				SaleID:       &saleID,
				EmployeeID:   actorID,
				CreatedAt:    now,
			}); err != nil {
				return err
			}
		} else if sale.CustomerID != nil {
			c, err := r.Customers.GetByID(ctx, *sale.CustomerID)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, *sale.CustomerID)
			}
		}

		if err := r.Sales.Create(ctx, sale); err != nil {
			return err
		}

		// ── 5. Stock ──
		for _, id := range ids {
			p := products[id]
			delta, err := inventory.Delta(entity.StockMovementSale, p.Stock, requested[id])
			if err != nil {
				return err
			}
			p.Stock += delta
			if err := r.Products.UpdateStock(ctx, p.ID, p.Stock); err != nil {
				return err
			}
			if err := r.StockMovements.Create(ctx, &entity.StockMovement{
				ID:         newID(),
				ProductID:  p.ID,
				Type:       entity.StockMovementSale,
				Quantity:   delta,
				StockAfter: p.Stock,
				UnitCost:   p.Cost,
				Reference:  sale.ID,
				EmployeeID: actorID,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
			if p.LowStock() {
				lowStock = append(lowStock, p)
			}
		}

		// ── 6. Caja ──
		saleID := sale.ID
		if err := r.CashMovements.Create(ctx, &entity.CashMovement{
			ID:             newID(),
			CashRegisterID: reg.ID,
			Type:           entity.CashIncome,
			Amount:         sale.Total,
			Concept:        "venta",
			PaymentMethod:  sale.PaymentMethod,
			EmployeeID:     actorID,
			SaleID:         &saleID,
			CustomerID:     sale.CustomerID,
			Date:           now,
		}); err != nil {
			return err
		}
		return r.Audit.Create(ctx, newAuditLog(actorID, "create", "venta", sale.ID, map[string]any{
			"total":          sale.Total,
			"payment_method": sale.PaymentMethod,
			"items":          len(sale.Items),
		}))
	})
	if err != nil {
		return nil, err
	}

	// ── 7. Post-commit ──
	uc.metrics.SaleRegistered(sale.PaymentMethod, sale.Total)
	uc.metrics.CashMovement(entity.CashIncome, sale.PaymentMethod)
	out := toSaleResponse(sale)
	publish(ctx, uc.pub, uc.log, ports.EventSaleCreated, sale.ID, out)
	for _, p := range lowStock {
		publish(ctx, uc.pub, uc.log, ports.EventStockLow, p.ID, map[string]any{"sku": p.SKU, "stock": p.Stock, "min_stock": p.MinStock})
	}
	uc.log.Info().Str("venta_id", sale.ID).Str("empleado_id", actorID).Str("metodo", sale.PaymentMethod).
		Str("total", sale.Total.StringFixed(2)).Msg("venta registrada")
	return &out, nil
}

// Void anula una venta: devuelve stock, revierte el cargo en cuenta corriente y registra el egreso en caja.
func (uc *SaleUseCase) Void(ctx context.Context, actorID, id string, in dto.VoidSaleRequest) (*dto.SaleResponse, error) {
	var sale *entity.Sale
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		sale, err = r.Sales.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
		}
		if sale.Status == entity.SaleVoided {
			return fmt.Errorf("%w: la venta ya está anulada", domain.ErrConflict)
		}
		inv, err := r.Invoices.GetBySaleID(ctx, sale.ID)
		if err != nil {
			return err
		}
		if inv != nil && inv.HasCAE() {
			return fmt.Errorf("%w: la venta tiene factura autorizada", domain.ErrConflict)
		}

		reg, err := r.CashRegisters.GetOpenByDate(ctx, uc.clock.Today())
		if err != nil {
			return err
		}
		if reg == nil {
			return domain.ErrCajaNoAbierta
		}
		if reg, err = r.CashRegisters.GetByIDForUpdate(ctx, reg.ID); err != nil {
			return err
		}
		movs, err := r.CashMovements.ListByRegister(ctx, reg.ID)
		if err != nil {
			return err
		}
		// la devolución sale de la caja abierta, que puede no ser la de la venta
		if err := cashbook.CheckExpense(reg.OpeningBalance, movs, sale.Total); err != nil {
			return err
		}
		now := uc.clock.now()

		returned := make(map[string]int)
		for _, it := range sale.Items {
			returned[it.ProductID] += it.Quantity
		}
		ids := lo.Keys(returned)
		sort.Strings(ids)
		for _, pid := range ids {
			p, err := r.Products.GetByIDForUpdate(ctx, pid)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, pid)
			}
			delta, err := inventory.Delta(entity.StockMovementVoid, p.Stock, returned[pid])
			if err != nil {
				return err
			}
			p.Stock += delta
			if err := r.Products.UpdateStock(ctx, p.ID, p.Stock); err != nil {
				return err
			}
			if err := r.StockMovements.Create(ctx, &entity.StockMovement{
				ID:         newID(),
				ProductID:  p.ID,
				Type:       entity.StockMovementVoid,
				Quantity:   delta,
				StockAfter: p.Stock,
				UnitCost:   p.Cost,
				Reference:  sale.ID,
				Reason:     in.Reason,
				EmployeeID: actorID,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
		}

		if sale.PaymentMethod == entity.PaymentAccount && sale.CustomerID != nil {
			c, err := r.Customers.GetByIDForUpdate(ctx, *sale.CustomerID)
			if err != nil {
				return err
			}
			if c != nil {
				next := account.Reverse(c, sale.Total)
				if err := r.Customers.UpdateBalance(ctx, c.ID, next); err != nil {
					return err
				}
				saleID := sale.ID
				if err := r.AccountMovements.Create(ctx, &entity.AccountMovement{
					ID:           newID(),
					CustomerID:   c.ID,
					Type:         entity.AccountPayment,
					Amount:       sale.Total,
					BalanceAfter: next,
					Concept:      "anulación de venta",
					SaleID:       &saleID,
					EmployeeID:   actorID,
					CreatedAt:    now,
				}); err != nil {
					return err
				}
			}
		}

		saleID := sale.ID
		if err := r.CashMovements.Create(ctx, &entity.CashMovement{
			ID:             newID(),
			CashRegisterID: reg.ID,
			Type:           entity.CashExpense,
			Amount:         sale.Total,
			Concept:        "anulación de venta: " + in.Reason,
			PaymentMethod:  sale.PaymentMethod,
			EmployeeID:     actorID,
			SaleID:         &saleID,
			CustomerID:     sale.CustomerID,
			Date:           now,
		}); err != nil {
			return err
		}
		if err := r.Sales.UpdateStatus(ctx, sale.ID, entity.SaleVoided, in.Reason); err != nil {
			return err
		}
		sale.Status = entity.SaleVoided
		sale.VoidReason = in.Reason
		return r.Audit.Create(ctx, newAuditLog(actorID, "delete", "venta", sale.ID, map[string]any{"reason": in.Reason, "total": sale.Total}))
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.SaleVoided()
	uc.metrics.CashMovement(entity.CashExpense, sale.PaymentMethod)
	out := toSaleResponse(sale)
	publish(ctx, uc.pub, uc.log, ports.EventSaleVoided, sale.ID, out)
	uc.log.Info().Str("venta_id", sale.ID).Str("empleado_id", actorID).Str("motivo", in.Reason).Msg("venta anulada")
	return &out, nil
}

// Get devuelve una venta con sus items.
func (uc *SaleUseCase) Get(ctx context.Context, id string) (*dto.SaleResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	out := toSaleResponse(s)
	return &out, nil
}

// List lista ventas por rango de fechas y filtros.
func (uc *SaleUseCase) List(ctx context.Context, in dto.SaleFilterRequest) ([]dto.SaleResponse, error) {
	in.DefaultPage()
	from, to, err := uc.clock.Range(in.From, in.To)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, repository.SaleFilter{
		From:          &from,
		To:            &to,
		EmployeeID:    in.EmployeeID,
		CustomerID:    in.CustomerID,
		PaymentMethod: in.PaymentMethod,
		Status:        in.Status,
		Limit:         in.Limit,
		Offset:        in.Offset,
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(s *entity.Sale, _ int) dto.SaleResponse { return toSaleResponse(s) }), nil
}
