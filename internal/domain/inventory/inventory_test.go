package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCostCalculator(t *testing.T) {
	// 10 u a 100 + 10 u a 200 → 150
	got := inventory.CostCalculator(d("10"), d("100"), d("10"), d("200"))
	assert.True(t, d("150").Equal(got), got.String())

	assert.True(t, inventory.CostCalculator(d("0"), d("0"), d("0"), d("50")).IsZero())
}

func TestWeightedCost(t *testing.T) {
	assert.True(t, d("120").Equal(inventory.WeightedCost(0, d("80"), 5, d("120"))))
	// 3 u a 10 + 1 u a 20 → 12.5
	assert.True(t, d("12.5").Equal(inventory.WeightedCost(3, d("10"), 1, d("20"))))
}

func TestDelta(t *testing.T) {
	cases := []struct {
		name    string
		typ     string
		current int
		qty     int
		want    int
		err     error
	}{
		{"entrada", entity.StockMovementIn, 5, 3, 3, nil},
		{"salida", entity.StockMovementOut, 5, 3, -3, nil},
		{"venta sin stock", entity.StockMovementSale, 2, 3, 0, domain.ErrInsufficientStock},
		{"ajuste a menos", entity.StockMovementAdjust, 10, 4, -6, nil},
		{"ajuste negativo", entity.StockMovementAdjust, 10, -1, 0, domain.ErrInvalidInput},
		{"entrada cero", entity.StockMovementIn, 10, 0, 0, domain.ErrInvalidInput},
		{"tipo desconocido", "regalo", 10, 1, 0, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := inventory.Delta(tc.typ, tc.current, tc.qty)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestProductWarnings(t *testing.T) {
	p := &entity.Product{Name: "Cubierta", SKU: "CUB-1", RetailPrice: d("100"), WholesalePrice: d("120"), Cost: d("110"), Stock: 1, MinStock: 2}
	require.NoError(t, inventory.ValidateProduct(p))
	assert.Len(t, inventory.ProductWarnings(p), 3)

	p.RetailPrice = d("0")
	assert.ErrorIs(t, inventory.ValidateProduct(p), domain.ErrInvalidInput)
}
