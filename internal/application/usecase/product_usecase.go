package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/ports"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/inventory"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/logger"
)

// ProductUseCase catálogo de repuestos. Stock y costo se modifican solo vía movimientos.
type ProductUseCase struct {
	repo      repository.ProductRepository
	movements repository.StockMovementRepository
	tx        repository.TxRunner
	audit     repository.AuditRepository
	pub       ports.EventPublisher
	log       *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	movements repository.StockMovementRepository,
	tx repository.TxRunner,
	audit repository.AuditRepository,
	pub ports.EventPublisher,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, movements: movements, tx: tx, audit: audit, pub: pub, log: log.Component("productos")}
}

// Create crea un producto. El stock inicial queda registrado como movimiento de entrada.
func (uc *ProductUseCase) Create(ctx context.Context, actorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	p := &entity.Product{
		ID:             newID(),
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		SKU:            strings.ToUpper(strings.TrimSpace(in.SKU)),
		RetailPrice:    in.RetailPrice,
		WholesalePrice: in.WholesalePrice,
		Cost:           in.Cost,
		Stock:          in.Stock,
		MinStock:       in.MinStock,
		Category:       in.Category,
		UnitMeasure:    lo.Ternary(in.UnitMeasure == "", "unidad", in.UnitMeasure),
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := inventory.ValidateProduct(p); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetBySKU(ctx, p.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe un producto con código %s", domain.ErrDuplicate, p.SKU)
	}
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		if err := r.Products.Create(ctx, p); err != nil {
			return err
		}
		if p.Stock > 0 {
			if err := r.StockMovements.Create(ctx, &entity.StockMovement{
				ID:         newID(),
				ProductID:  p.ID,
				Type:       entity.StockMovementIn,
				Quantity:   p.Stock,
				StockAfter: p.Stock,
				UnitCost:   p.Cost,
				Reason:     "stock inicial",
				EmployeeID: actorID,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
		}
		return r.Audit.Create(ctx, newAuditLog(actorID, "create", "producto", p.ID, map[string]any{"sku": p.SKU}))
	})
	if err != nil {
		return nil, err
	}
	out := ToProductResponse(p, true)
	return &out, nil
}

// Get devuelve un producto.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToProductResponse(p, false)
	return &out, nil
}

func (uc *ProductUseCase) find(ctx context.Context, id string) (*entity.Product, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return p, nil
}

// List lista el catálogo con búsqueda por nombre o SKU.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductFilterRequest) ([]dto.ProductResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Search:   strings.TrimSpace(in.Search),
		Category: in.Category,
		Active:   in.Active,
		LowStock: in.LowStock,
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(p *entity.Product, _ int) dto.ProductResponse { return ToProductResponse(p, false) }), nil
}

// LowStock productos activos con stock en o por debajo del mínimo.
func (uc *ProductUseCase) LowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	active := true
	list, err := uc.repo.List(ctx, repository.ProductFilter{Active: &active, LowStock: true})
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(p *entity.Product, _ int) dto.ProductResponse { return ToProductResponse(p, false) }), nil
}

// Update modifica datos del producto. Devuelve advertencias (precio bajo costo, mayorista > minorista).
func (uc *ProductUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.SKU != nil {
		sku := strings.ToUpper(strings.TrimSpace(*in.SKU))
		if sku != p.SKU {
			other, err := uc.repo.GetBySKU(ctx, sku)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != p.ID {
				return nil, fmt.Errorf("%w: ya existe un producto con código %s", domain.ErrDuplicate, sku)
			}
		}
		p.SKU = sku
	}
	if in.RetailPrice != nil {
		p.RetailPrice = *in.RetailPrice
	}
	if in.WholesalePrice != nil {
		p.WholesalePrice = *in.WholesalePrice
	}
	if in.MinStock != nil {
		p.MinStock = *in.MinStock
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.UnitMeasure != nil {
		p.UnitMeasure = *in.UnitMeasure
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	if err := inventory.ValidateProduct(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.record(ctx, actorID, "update", p.ID, in)
	out := ToProductResponse(p, true)
	return &out, nil
}

// Deactivate baja lógica: el producto deja de ofrecerse en ventas.
func (uc *ProductUseCase) Deactivate(ctx context.Context, actorID, id string) error {
	if _, err := uc.find(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	uc.record(ctx, actorID, "delete", id, nil)
	return nil
}

// AdjustStock registra una entrada, salida o ajuste manual.
// En una entrada con costo unitario se recalcula el costo promedio ponderado.
func (uc *ProductUseCase) AdjustStock(ctx context.Context, actorID, id string, in dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	var p *entity.Product
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		p, err = r.Products.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		delta, err := inventory.Delta(in.Type, p.Stock, in.Quantity)
		if err != nil {
			return err
		}
		unitCost := p.Cost
		if in.Type == entity.StockMovementIn && in.UnitCost != nil {
			if in.UnitCost.IsNegative() {
				return fmt.Errorf("%w: el costo unitario no puede ser negativo", domain.ErrInvalidInput)
			}
			unitCost = *in.UnitCost
			newCost := inventory.WeightedCost(p.Stock, p.Cost, in.Quantity, unitCost)
			if !newCost.Equal(p.Cost) {
				if err := r.Products.UpdateCost(ctx, p.ID, newCost); err != nil {
					return err
				}
				p.Cost = newCost
			}
		}
		p.Stock += delta
		if err := r.Products.UpdateStock(ctx, p.ID, p.Stock); err != nil {
			return err
		}
		if err := r.StockMovements.Create(ctx, &entity.StockMovement{
			ID:         newID(),
			ProductID:  p.ID,
			Type:       in.Type,
			Quantity:   delta,
			StockAfter: p.Stock,
			UnitCost:   unitCost,
			Reason:     in.Reason,
			EmployeeID: actorID,
			CreatedAt:  time.Now(),
		}); err != nil {
			return err
		}
		return r.Audit.Create(ctx, newAuditLog(actorID, "stock", "producto", p.ID, map[string]any{
			"type":        in.Type,
			"quantity":    in.Quantity,
			"stock_after": p.Stock,
			"reason":      in.Reason,
		}))
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("producto_id", p.ID).Str("tipo", in.Type).Int("stock", p.Stock).Msg("stock ajustado")
	if p.LowStock() {
		publish(ctx, uc.pub, uc.log, ports.EventStockLow, p.ID, map[string]any{"sku": p.SKU, "stock": p.Stock, "min_stock": p.MinStock})
	}
	out := ToProductResponse(p, true)
	return &out, nil
}

// Movements últimos movimientos de stock de un producto.
func (uc *ProductUseCase) Movements(ctx context.Context, id string, limit int) ([]dto.StockMovementResponse, error) {
	if _, err := uc.find(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	list, err := uc.movements.ListByProduct(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(m *entity.StockMovement, _ int) dto.StockMovementResponse { return toStockMovementResponse(m) }), nil
}

// InventoryValue valor del inventario a costo.
func (uc *ProductUseCase) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	active := true
	list, err := uc.repo.List(ctx, repository.ProductFilter{Active: &active})
	if err != nil {
		return decimal.Zero, err
	}
	return lo.Reduce(list, func(acc decimal.Decimal, p *entity.Product, _ int) decimal.Decimal {
		return acc.Add(p.Cost.Mul(decimal.NewFromInt(int64(p.Stock))))
	}, decimal.Zero), nil
}

func (uc *ProductUseCase) record(ctx context.Context, actorID, action, id string, details any) {
	if err := uc.audit.Create(ctx, newAuditLog(actorID, action, "producto", id, details)); err != nil {
		uc.log.Warn().Err(err).Str("producto_id", id).Msg("no se pudo registrar auditoría")
	}
}
