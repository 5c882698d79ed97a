package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceType lista de precios aplicada a una venta.
type PriceType string

const (
	PriceRetail    PriceType = "minorista"
	PriceWholesale PriceType = "mayorista"
)

// Product representa un repuesto del catálogo. Cost es promedio ponderado de las entradas.
type Product struct {
	ID             string
	Name           string
	Description    string
	SKU            string // código único
	RetailPrice    decimal.Decimal
	WholesalePrice decimal.Decimal
	Cost           decimal.Decimal
	Stock          int
	MinStock       int
	Category       string
	UnitMeasure    string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PriceFor devuelve el precio según la lista solicitada (minorista por defecto).
func (p *Product) PriceFor(t PriceType) decimal.Decimal {
	if t == PriceWholesale {
		return p.WholesalePrice
	}
	return p.RetailPrice
}

// LowStock indica si el stock está en o por debajo del mínimo.
func (p *Product) LowStock() bool {
	return p.Stock <= p.MinStock
}
