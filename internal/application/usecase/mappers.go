package usecase

import (
	"github.com/samber/lo"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/inventory"
)

// ToEmployeeResponse convierte un empleado sin exponer el hash.
func ToEmployeeResponse(e *entity.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:                e.ID,
		Name:              e.Name,
		Email:             e.Email,
		Role:              string(e.Role),
		Salary:            e.Salary,
		ModulePermissions: modulesToStrings(e.ModulePermissions),
		Active:            e.Active,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func modulesToStrings(mods []entity.Module) []string {
	out := lo.Map(mods, func(m entity.Module, _ int) string { return string(m) })
	if out == nil {
		return []string{}
	}
	return out
}

// ToProductResponse mapea un producto; withWarnings agrega las advertencias de negocio.
func ToProductResponse(p *entity.Product, withWarnings bool) dto.ProductResponse {
	r := dto.ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		SKU:            p.SKU,
		RetailPrice:    p.RetailPrice,
		WholesalePrice: p.WholesalePrice,
		Cost:           p.Cost,
		Stock:          p.Stock,
		MinStock:       p.MinStock,
		LowStock:       p.LowStock(),
		Category:       p.Category,
		UnitMeasure:    p.UnitMeasure,
		Active:         p.Active,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if withWarnings {
		r.Warnings = inventory.ProductWarnings(p)
	}
	return r
}

func toStockMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:         m.ID,
		ProductID:  m.ProductID,
		Type:       m.Type,
		Quantity:   m.Quantity,
		StockAfter: m.StockAfter,
		UnitCost:   m.UnitCost,
		Reference:  m.Reference,
		Reason:     m.Reason,
		EmployeeID: m.EmployeeID,
		CreatedAt:  m.CreatedAt,
	}
}

func toCustomerResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:              c.ID,
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		Address:         c.Address,
		TaxID:           c.TaxID,
		IVACondition:    c.IVACondition,
		CreditLimit:     c.CreditLimit,
		Balance:         c.Balance,
		AvailableCredit: c.AvailableCredit(),
		Active:          c.Active,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func toAccountMovementResponse(m *entity.AccountMovement) dto.AccountMovementResponse {
	return dto.AccountMovementResponse{
		ID:           m.ID,
		Type:         m.Type,
		Amount:       m.Amount,
		BalanceAfter: m.BalanceAfter,
		Concept:      m.Concept,
		SaleID:       m.SaleID,
		CreatedAt:    m.CreatedAt,
	}
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	r := dto.SaleResponse{
		ID:             s.ID,
		CustomerID:     s.CustomerID,
		EmployeeID:     s.EmployeeID,
		CashRegisterID: s.CashRegisterID,
		Total:          s.Total,
		PaymentMethod:  s.PaymentMethod,
		PriceType:      string(s.PriceType),
		Status:         s.Status,
		VoidReason:     s.VoidReason,
		Date:           s.Date,
	}
	for _, it := range s.Items {
		r.Items = append(r.Items, dto.SaleItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
			PriceType: string(it.PriceType),
		})
	}
	return r
}

func toCashMovementResponse(m entity.CashMovement) dto.CashMovementResponse {
	return dto.CashMovementResponse{
		ID:            m.ID,
		Type:          m.Type,
		Amount:        m.Amount,
		Concept:       m.Concept,
		PaymentMethod: m.PaymentMethod,
		EmployeeID:    m.EmployeeID,
		SaleID:        m.SaleID,
		CustomerID:    m.CustomerID,
		Date:          m.Date,
	}
}

func toCashCountResponse(c *entity.CashCount) dto.CashCountResponse {
	r := dto.CashCountResponse{
		ID:              c.ID,
		CashRegisterID:  c.CashRegisterID,
		Date:            c.Date,
		TotalCounted:    c.TotalCounted,
		TotalSystem:     c.TotalSystem,
		TotalDifference: c.TotalDifference,
		Notes:           c.Notes,
		Status:          c.Status,
	}
	for _, l := range c.Lines {
		r.Lines = append(r.Lines, dto.CashCountLineResponse{
			PaymentMethod: l.Method,
			Counted:       l.Counted,
			System:        l.System,
			Difference:    l.Difference,
		})
	}
	return r
}

func toCalendarEventResponse(e *entity.CalendarEvent) dto.CalendarEventResponse {
	return dto.CalendarEventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		Type:        e.Type,
		EmployeeID:  e.EmployeeID,
	}
}

func toAuditLogResponse(l *entity.AuditLog) dto.AuditLogResponse {
	return dto.AuditLogResponse{
		ID:         l.ID,
		Action:     l.Action,
		Entity:     l.Entity,
		EntityID:   l.EntityID,
		Details:    l.Details,
		EmployeeID: l.EmployeeID,
		Level:      l.Level,
		CreatedAt:  l.CreatedAt,
	}
}
