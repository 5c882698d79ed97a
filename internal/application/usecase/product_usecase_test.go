package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/ports"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

// ─── Catálogo ────────────────────────────────────────────────────────────────

func TestProduct_Create(t *testing.T) {
	f := newFixture()
	uc := f.products()
	ctx := context.Background()

	out, err := uc.Create(ctx, "emp-1", dto.CreateProductRequest{
		Name:           "Kit de arrastre",
		SKU:            " kit-110 ",
		RetailPrice:    dec("25000"),
		WholesalePrice: dec("21000"),
		Cost:           dec("15000"),
		Stock:          4,
		MinStock:       2,
	})
	require.NoError(t, err)
	assert.Equal(t, "KIT-110", out.SKU)
	assert.Equal(t, "unidad", out.UnitMeasure)
	require.Len(t, f.store.stockMovs, 1, "stock inicial como entrada")
	assert.Equal(t, entity.StockMovementIn, f.store.stockMovs[0].Type)

	_, err = uc.Create(ctx, "emp-1", dto.CreateProductRequest{Name: "Otro", SKU: "KIT-110", RetailPrice: dec("1"), WholesalePrice: dec("1")})
	require.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, "emp-1", dto.CreateProductRequest{Name: "Sin precio", SKU: "X-1"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProduct_UpdateNoTocaStock(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "FIL-001", 10, 2, "100", "80")
	f.addProduct("p2", "BUJ-002", 3, 1, "50", "40")
	uc := f.products()

	out, err := uc.Update(context.Background(), "emp-1", "p1", dto.UpdateProductRequest{RetailPrice: ptr(dec("120"))})
	require.NoError(t, err)
	assert.True(t, dec("120").Equal(out.RetailPrice))
	assert.Equal(t, 10, f.store.products["p1"].Stock)

	_, err = uc.Update(context.Background(), "emp-1", "p1", dto.UpdateProductRequest{SKU: ptr("buj-002")})
	require.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProduct_AdjustStock(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "FIL-001", 10, 2, "100", "80") // costo 40
	uc := f.products()
	ctx := context.Background()

	out, err := uc.AdjustStock(ctx, "emp-1", "p1", dto.AdjustStockRequest{
		Type:     entity.StockMovementIn,
		Quantity: 10,
		UnitCost: ptr(dec("60")),
		Reason:   "compra",
	})
	require.NoError(t, err)
	assert.Equal(t, 20, out.Stock)
	assert.True(t, dec("50").Equal(f.store.products["p1"].Cost), "costo promedio ponderado")

	_, err = uc.AdjustStock(ctx, "emp-1", "p1", dto.AdjustStockRequest{Type: entity.StockMovementOut, Quantity: 21, Reason: "rotura"})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	out, err = uc.AdjustStock(ctx, "emp-1", "p1", dto.AdjustStockRequest{Type: entity.StockMovementAdjust, Quantity: 2, Reason: "inventario"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Stock)
	assert.Contains(t, f.pub.types(), ports.EventStockLow)

	movs, err := uc.Movements(ctx, "p1", 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, -18, movs[0].Quantity, "el más reciente primero")
}

func TestProduct_LowStockEInventario(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "FIL-001", 10, 2, "100", "80") // costo 40
	f.addProduct("p2", "BUJ-002", 1, 3, "50", "40")   // costo 20
	uc := f.products()
	ctx := context.Background()

	low, err := uc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "BUJ-002", low[0].SKU)

	val, err := uc.InventoryValue(ctx)
	require.NoError(t, err)
	assert.True(t, dec("420").Equal(val), val.String())

	require.NoError(t, uc.Deactivate(ctx, "emp-1", "p1"))
	val, err = uc.InventoryValue(ctx)
	require.NoError(t, err)
	assert.True(t, dec("20").Equal(val))
}

// ─── Importación CSV ─────────────────────────────────────────────────────────

const productosCSV = `sku;nombre;precio_minorista;precio_mayorista;costo;stock;stock_minimo;categoria
FIL-001;Filtro de aceite;$ 1.234,50;1000;800,5;10;2;filtros
;fila sin sku;1;1;1;1;1;x
BUJ-002; Bujía NGK ;4500.75;4000;3000;0;5;encendido
`

func TestReadProductsCSV(t *testing.T) {
	rows, err := ReadProductsCSV(strings.NewReader(productosCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "FIL-001", rows[0].SKU)
	assert.True(t, dec("1234.50").Equal(rows[0].RetailPrice), rows[0].RetailPrice.String())
	assert.True(t, dec("800.5").Equal(rows[0].Cost))
	assert.Equal(t, 10, rows[0].Stock)
	assert.Equal(t, "filtros", rows[0].Category)

	assert.Equal(t, "Bujía NGK", rows[1].Name)
	assert.True(t, dec("4500.75").Equal(rows[1].RetailPrice))
	assert.Equal(t, 5, rows[1].MinStock)
}

func TestReadProductsCSV_Errores(t *testing.T) {
	_, err := ReadProductsCSV(strings.NewReader(""))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ReadProductsCSV(strings.NewReader("sku;nombre\n"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ReadProductsCSV(strings.NewReader("sku;nombre;precio_minorista;precio_mayorista;costo;stock;stock_minimo;categoria\nA;B;diez;1;1;1;1;c\n"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "línea 2")
	assert.Contains(t, err.Error(), "precio_minorista")
}

func TestProduct_Import(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "FIL-001", 3, 1, "900", "700") // costo 350
	uc := f.products()

	rows, err := ReadProductsCSV(strings.NewReader(productosCSV))
	require.NoError(t, err)
	rows = append(rows, dto.CreateProductRequest{SKU: "MAL-1", Name: "Sin precio"})

	res := uc.Import(context.Background(), "emp-1", rows)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	require.Len(t, res.Failed, 1)
	assert.ErrorIs(t, res.Failed["MAL-1"], domain.ErrInvalidInput)

	p := f.store.products["p1"]
	assert.Equal(t, "Filtro de aceite", p.Name)
	assert.True(t, dec("1234.50").Equal(p.RetailPrice))
	assert.Equal(t, 10, p.Stock)
	assert.True(t, dec("350").Equal(p.Cost), "la importación no modifica el costo")

	last := f.store.stockMovs[len(f.store.stockMovs)-1]
	assert.Equal(t, entity.StockMovementAdjust, last.Type)
	assert.Equal(t, "importación csv", last.Reason)

	created, err := f.repos.Products.GetBySKU(context.Background(), "BUJ-002")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Zero(t, created.Stock)
}
