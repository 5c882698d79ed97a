package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest body para POST /api/v1/ventas.
type CreateSaleRequest struct {
	CustomerID    *string           `json:"customer_id,omitempty"`
	PaymentMethod string            `json:"payment_method" validate:"required"`
	PriceType     string            `json:"price_type" validate:"omitempty,oneof=minorista mayorista"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleItemRequest línea de venta. UnitPrice opcional reemplaza el precio de lista.
type SaleItemRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity" validate:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	PriceType string           `json:"price_type,omitempty" validate:"omitempty,oneof=minorista mayorista"`
}

// VoidSaleRequest body para POST /api/v1/ventas/:id/anular.
type VoidSaleRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// SaleFilterRequest query de GET /api/v1/ventas. Fechas en formato 2006-01-02.
type SaleFilterRequest struct {
	From          string `query:"from"`
	To            string `query:"to"`
	EmployeeID    string `query:"employee_id"`
	CustomerID    string `query:"customer_id"`
	PaymentMethod string `query:"payment_method"`
	Status        string `query:"status"`
	PageRequest
}

// SaleResponse venta en respuestas.
type SaleResponse struct {
	ID             string             `json:"id"`
	CustomerID     *string            `json:"customer_id,omitempty"`
	EmployeeID     string             `json:"employee_id"`
	CashRegisterID string             `json:"cash_register_id"`
	Total          decimal.Decimal    `json:"total"`
	PaymentMethod  string             `json:"payment_method"`
	PriceType      string             `json:"price_type"`
	Status         string             `json:"status"`
	VoidReason     string             `json:"void_reason,omitempty"`
	Date           time.Time          `json:"date"`
	Items          []SaleItemResponse `json:"items,omitempty"`
}

// SaleItemResponse línea de venta en respuestas.
type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	PriceType string          `json:"price_type"`
}
