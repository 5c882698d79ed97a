package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/v1/productos.
type CreateProductRequest struct {
	Name           string          `json:"name" validate:"required,max=200"`
	Description    string          `json:"description"`
	SKU            string          `json:"sku" validate:"required,max=60"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	Cost           decimal.Decimal `json:"cost"`
	Stock          int             `json:"stock" validate:"min=0"`
	MinStock       int             `json:"min_stock" validate:"min=0"`
	Category       string          `json:"category"`
	UnitMeasure    string          `json:"unit_measure"`
}

// UpdateProductRequest body para PUT /api/v1/productos/:id. Stock y costo se modifican con /stock.
type UpdateProductRequest struct {
	Name           *string          `json:"name,omitempty"`
	Description    *string          `json:"description,omitempty"`
	SKU            *string          `json:"sku,omitempty"`
	RetailPrice    *decimal.Decimal `json:"retail_price,omitempty"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price,omitempty"`
	MinStock       *int             `json:"min_stock,omitempty" validate:"omitempty,min=0"`
	Category       *string          `json:"category,omitempty"`
	UnitMeasure    *string          `json:"unit_measure,omitempty"`
	Active         *bool            `json:"active,omitempty"`
}

// AdjustStockRequest body para POST /api/v1/productos/:id/stock.
// Type: entrada | salida | ajuste. En ajuste, Quantity es el stock resultante.
type AdjustStockRequest struct {
	Type     string           `json:"type" validate:"required,oneof=entrada salida ajuste"`
	Quantity int              `json:"quantity" validate:"min=0"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason   string           `json:"reason" validate:"required"`
}

// ProductFilterRequest query de GET /api/v1/productos.
type ProductFilterRequest struct {
	Search   string `query:"search"`
	Category string `query:"category"`
	Active   *bool  `query:"active"`
	LowStock bool   `query:"low_stock"`
	PageRequest
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	SKU            string          `json:"sku"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	Cost           decimal.Decimal `json:"cost"`
	Stock          int             `json:"stock"`
	MinStock       int             `json:"min_stock"`
	LowStock       bool            `json:"low_stock"`
	Category       string          `json:"category"`
	UnitMeasure    string          `json:"unit_measure"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Warnings       []string        `json:"warnings,omitempty"`
}

// StockMovementResponse movimiento de stock en respuestas.
type StockMovementResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Type       string          `json:"type"`
	Quantity   int             `json:"quantity"`
	StockAfter int             `json:"stock_after"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Reference  string          `json:"reference,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	EmployeeID string          `json:"employee_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
