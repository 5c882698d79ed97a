package inventory

import (
	"fmt"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

// Delta calcula la variación de stock de un movimiento.
// entrada suma qty; salida y venta restan qty; anulacion suma qty;
// ajuste fija el stock en qty (la variación es qty - stock actual).
func Delta(movType string, current, qty int) (int, error) {
	switch movType {
	case entity.StockMovementIn, entity.StockMovementVoid:
		if qty <= 0 {
			return 0, fmt.Errorf("%w: la cantidad debe ser mayor a 0", domain.ErrInvalidInput)
		}
		return qty, nil
	case entity.StockMovementOut, entity.StockMovementSale:
		if qty <= 0 {
			return 0, fmt.Errorf("%w: la cantidad debe ser mayor a 0", domain.ErrInvalidInput)
		}
		if current < qty {
			return 0, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, current, qty)
		}
		return -qty, nil
	case entity.StockMovementAdjust:
		if qty < 0 {
			return 0, fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
		}
		return qty - current, nil
	}
	return 0, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, movType)
}

// ProductWarnings devuelve advertencias de negocio que no impiden guardar el producto.
func ProductWarnings(p *entity.Product) []string {
	var out []string
	if p.RetailPrice.LessThanOrEqual(p.Cost) {
		out = append(out, "el precio minorista es menor o igual al costo")
	}
	if p.WholesalePrice.GreaterThan(p.RetailPrice) {
		out = append(out, "el precio mayorista es mayor al minorista")
	}
	if p.LowStock() {
		out = append(out, fmt.Sprintf("stock bajo: %d (mínimo %d)", p.Stock, p.MinStock))
	}
	return out
}

// ValidateProduct controla las reglas de forma de un producto.
func ValidateProduct(p *entity.Product) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	case p.SKU == "":
		return fmt.Errorf("%w: código SKU requerido", domain.ErrInvalidInput)
	case !p.RetailPrice.IsPositive() || !p.WholesalePrice.IsPositive():
		return fmt.Errorf("%w: los precios deben ser mayores a 0", domain.ErrInvalidInput)
	case p.Cost.IsNegative():
		return fmt.Errorf("%w: el costo no puede ser negativo", domain.ErrInvalidInput)
	case p.Stock < 0 || p.MinStock < 0:
		return fmt.Errorf("%w: stock y stock mínimo no pueden ser negativos", domain.ErrInvalidInput)
	}
	return nil
}
