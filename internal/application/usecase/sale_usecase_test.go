package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/ports"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

func saleFixture() *fixture {
	f := newFixture()
	f.openRegister("caja-1", "1000")
	f.addProduct("p1", "FIL-001", 10, 2, "100", "80")
	f.addProduct("p2", "BUJ-002", 3, 3, "50", "40")
	return f
}

func item(productID string, qty int) dto.SaleItemRequest {
	return dto.SaleItemRequest{ProductID: productID, Quantity: qty}
}

// ─── Create ──────────────────────────────────────────────────────────────────

func TestSale_Create_Contado(t *testing.T) {
	f := saleFixture()
	out, err := f.sales().Create(context.Background(), "emp-1", dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentCash,
		Items:         []dto.SaleItemRequest{item("p1", 2), item("p1", 1)},
	})
	require.NoError(t, err)

	assert.True(t, dec("300").Equal(out.Total), out.Total.String())
	assert.Equal(t, "caja-1", out.CashRegisterID)
	assert.Equal(t, string(entity.PriceRetail), out.PriceType)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 7, f.store.products["p1"].Stock)

	require.Len(t, f.store.stockMovs, 1, "un movimiento por producto")
	assert.Equal(t, entity.StockMovementSale, f.store.stockMovs[0].Type)
	assert.Equal(t, -3, f.store.stockMovs[0].Quantity)
	assert.Equal(t, 7, f.store.stockMovs[0].StockAfter)

	require.Len(t, f.store.cashMovs, 1)
	m := f.store.cashMovs[0]
	assert.Equal(t, entity.CashIncome, m.Type)
	assert.True(t, dec("300").Equal(m.Amount))
	require.NotNil(t, m.SaleID)
	assert.Equal(t, out.ID, *m.SaleID)

	assert.Len(t, f.store.audit, 1)
	assert.Equal(t, 1, f.metrics.sales)
	assert.Contains(t, f.pub.types(), ports.EventSaleCreated)
}

func TestSale_Create_PrecioMayoristaYManual(t *testing.T) {
	f := saleFixture()
	manual := dec("45.50")
	out, err := f.sales().Create(context.Background(), "emp-1", dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentTransfer,
		PriceType:     string(entity.PriceWholesale),
		Items: []dto.SaleItemRequest{
			item("p1", 2),
			{ProductID: "p2", Quantity: 1, UnitPrice: &manual},
			{ProductID: "p2", Quantity: 1, PriceType: string(entity.PriceRetail)},
		},
	})
	require.NoError(t, err)
	// 2*80 + 45.50 + 50
	assert.True(t, dec("255.50").Equal(out.Total), out.Total.String())
	assert.Equal(t, string(entity.PriceRetail), out.Items[2].PriceType)
}

func TestSale_Create_SinCajaAbierta(t *testing.T) {
	f := newFixture()
	f.addProduct("p1", "FIL-001", 10, 2, "100", "80")

	_, err := f.sales().Create(context.Background(), "emp-1", dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentCash,
		Items:         []dto.SaleItemRequest{item("p1", 1)},
	})
	require.ErrorIs(t, err, domain.ErrCajaNoAbierta)
	assert.Empty(t, f.store.sales)
	assert.Equal(t, 10, f.store.products["p1"].Stock)
}

func TestSale_Create_StockInsuficiente(t *testing.T) {
	f := saleFixture()
	_, err := f.sales().Create(context.Background(), "emp-1", dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentCash,
		Items:         []dto.SaleItemRequest{item("p1", 1), item("p2", 2), item("p2", 2)},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "disponible 3, solicitado 4")
	assert.Equal(t, 10, f.store.products["p1"].Stock)
	assert.Empty(t, f.store.cashMovs)
	assert.Zero(t, f.metrics.sales)
}

func TestSale_Create_Validaciones(t *testing.T) {
	f := saleFixture()
	uc := f.sales()
	zero := dec("0")
	cases := []struct {
		name string
		in   dto.CreateSaleRequest
		err  error
	}{
		{"sin items", dto.CreateSaleRequest{PaymentMethod: entity.PaymentCash}, domain.ErrInvalidInput},
		{"método inválido", dto.CreateSaleRequest{PaymentMethod: "cheque", Items: []dto.SaleItemRequest{item("p1", 1)}}, domain.ErrInvalidInput},
		{"cuenta corriente sin cliente", dto.CreateSaleRequest{PaymentMethod: entity.PaymentAccount, Items: []dto.SaleItemRequest{item("p1", 1)}}, domain.ErrInvalidInput},
		{"cantidad cero", dto.CreateSaleRequest{PaymentMethod: entity.PaymentCash, Items: []dto.SaleItemRequest{item("p1", 0)}}, domain.ErrInvalidInput},
		{"precio cero", dto.CreateSaleRequest{PaymentMethod: entity.PaymentCash, Items: []dto.SaleItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: &zero}}}, domain.ErrInvalidInput},
		{"tipo de precio", dto.CreateSaleRequest{PaymentMethod: entity.PaymentCash, PriceType: "distribuidor", Items: []dto.SaleItemRequest{item("p1", 1)}}, domain.ErrInvalidInput},
		{"producto inexistente", dto.CreateSaleRequest{PaymentMethod: entity.PaymentCash, Items: []dto.SaleItemRequest{item("nada", 1)}}, domain.ErrNotFound},
		{"cliente inexistente", dto.CreateSaleRequest{PaymentMethod: entity.PaymentCash, CustomerID: ptr("nadie"), Items: []dto.SaleItemRequest{item("p1", 1)}}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), "emp-1", tc.in)
			require.ErrorIs(t, err, tc.err)
		})
	}
	assert.Empty(t, f.store.sales)
}

func TestSale_Create_ProductoInactivo(t *testing.T) {
	f := saleFixture()
	p := f.store.products["p1"]
	p.Active = false
	f.store.products["p1"] = p

	_, err := f.sales().Create(context.Background(), "emp-1", dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentCash,
		Items:         []dto.SaleItemRequest{item("p1", 1)},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSale_Create_CuentaCorriente(t *testing.T) {
	f := saleFixture()
	f.addCustomer("c1", "500", "100")

	out, err := f.sales().Create(context.Background(), "emp-1", dto.CreateSaleRequest{
		CustomerID:    ptr("c1"),
		PaymentMethod: entity.PaymentAccount,
		Items:         []dto.SaleItemRequest{item("p1", 4)},
	})
	require.NoError(t, err)
	assert.True(t, dec("400").Equal(out.Total))
	assert.True(t, dec("500").Equal(f.store.customers["c1"].Balance))

	require.Len(t, f.store.accMovs, 1)
	mov := f.store.accMovs[0]
	assert.Equal(t, entity.AccountCharge, mov.Type)
	assert.True(t, dec("500").Equal(mov.BalanceAfter))
	require.NotNil(t, mov.SaleID)
	assert.Equal(t, out.ID, *mov.SaleID)

	require.Len(t, f.store.cashMovs, 1)
	assert.Equal(t, entity.PaymentAccount, f.store.cashMovs[0].PaymentMethod)
}

func TestSale_Create_LimiteDeCredito(t *testing.T) {
	f := saleFixture()
	f.addCustomer("c1", "500", "450")

	_, err := f.sales().Create(context.Background(), "emp-1", dto.CreateSaleRequest{
		CustomerID:    ptr("c1"),
		PaymentMethod: entity.PaymentAccount,
		Items:         []dto.SaleItemRequest{item("p1", 1)},
	})
	require.ErrorIs(t, err, domain.ErrCreditLimitExceeded)
	assert.True(t, dec("450").Equal(f.store.customers["c1"].Balance))
	assert.Empty(t, f.store.accMovs)
	assert.Equal(t, 10, f.store.products["p1"].Stock)
}

func TestSale_Create_ClienteInactivo(t *testing.T) {
	f := saleFixture()
	f.addCustomer("c1", "500", "0")
	c := f.store.customers["c1"]
	c.Active = false
	f.store.customers["c1"] = c

	_, err := f.sales().Create(context.Background(), "emp-1", dto.CreateSaleRequest{
		CustomerID:    ptr("c1"),
		PaymentMethod: entity.PaymentAccount,
		Items:         []dto.SaleItemRequest{item("p1", 1)},
	})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestSale_Create_StockBajoPublicaEvento(t *testing.T) {
	f := saleFixture()
	_, err := f.sales().Create(context.Background(), "emp-1", dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentCash,
		Items:         []dto.SaleItemRequest{item("p1", 1), item("p2", 1)},
	})
	require.NoError(t, err)
	types := f.pub.types()
	assert.Contains(t, types, ports.EventStockLow)
	assert.Len(t, types, 2, "venta.creada + stock bajo de p2")
}

func TestSale_Create_FallaEnCajaRevierte(t *testing.T) {
	f := saleFixture()
	f.addCustomer("c1", "1000", "0")
	f.store.failOn = "cash.create"

	_, err := f.sales().Create(context.Background(), "emp-1", dto.CreateSaleRequest{
		CustomerID:    ptr("c1"),
		PaymentMethod: entity.PaymentAccount,
		Items:         []dto.SaleItemRequest{item("p1", 2)},
	})
	require.ErrorIs(t, err, errForced)
	assert.Empty(t, f.store.sales)
	assert.Empty(t, f.store.stockMovs)
	assert.Empty(t, f.store.accMovs)
	assert.Equal(t, 10, f.store.products["p1"].Stock)
	assert.True(t, f.store.customers["c1"].Balance.IsZero())
	assert.Empty(t, f.pub.types())
}

func TestSale_Create_ErrorDePublicacionNoFalla(t *testing.T) {
	f := saleFixture()
	f.pub.err = errors.New("broker caído")

	_, err := f.sales().Create(context.Background(), "emp-1", dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentCash,
		Items:         []dto.SaleItemRequest{item("p1", 1)},
	})
	require.NoError(t, err)
	assert.Len(t, f.store.sales, 1)
}

// ─── Void ────────────────────────────────────────────────────────────────────

func createSale(t *testing.T, f *fixture, in dto.CreateSaleRequest) *dto.SaleResponse {
	t.Helper()
	out, err := f.sales().Create(context.Background(), "emp-1", in)
	require.NoError(t, err)
	return out
}

func TestSale_Void(t *testing.T) {
	f := saleFixture()
	sale := createSale(t, f, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentCash,
		Items:         []dto.SaleItemRequest{item("p1", 3)},
	})
	require.Equal(t, 7, f.store.products["p1"].Stock)

	out, err := f.sales().Void(context.Background(), "emp-2", sale.ID, dto.VoidSaleRequest{Reason: "error de carga"})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleVoided, out.Status)
	assert.Equal(t, "error de carga", out.VoidReason)
	assert.Equal(t, 10, f.store.products["p1"].Stock)
	assert.Equal(t, entity.SaleVoided, f.store.sales[sale.ID].Status)

	require.Len(t, f.store.cashMovs, 2)
	egreso := f.store.cashMovs[1]
	assert.Equal(t, entity.CashExpense, egreso.Type)
	assert.True(t, sale.Total.Equal(egreso.Amount))

	last := f.store.stockMovs[len(f.store.stockMovs)-1]
	assert.Equal(t, entity.StockMovementVoid, last.Type)
	assert.Equal(t, 3, last.Quantity)
	assert.Equal(t, 1, f.metrics.voided)
	assert.Contains(t, f.pub.types(), ports.EventSaleVoided)

	t.Run("ya anulada", func(t *testing.T) {
		_, err := f.sales().Void(context.Background(), "emp-2", sale.ID, dto.VoidSaleRequest{Reason: "otra vez"})
		require.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, 10, f.store.products["p1"].Stock)
	})
}

func TestSale_Void_CuentaCorrienteRevierteSaldo(t *testing.T) {
	f := saleFixture()
	f.addCustomer("c1", "1000", "0")
	sale := createSale(t, f, dto.CreateSaleRequest{
		CustomerID:    ptr("c1"),
		PaymentMethod: entity.PaymentAccount,
		Items:         []dto.SaleItemRequest{item("p1", 2)},
	})
	require.True(t, dec("200").Equal(f.store.customers["c1"].Balance))

	_, err := f.sales().Void(context.Background(), "emp-1", sale.ID, dto.VoidSaleRequest{Reason: "devolución"})
	require.NoError(t, err)
	assert.True(t, f.store.customers["c1"].Balance.IsZero())
	require.Len(t, f.store.accMovs, 2)
	assert.Equal(t, entity.AccountPayment, f.store.accMovs[1].Type)
}

func TestSale_Void_ConCAE(t *testing.T) {
	f := saleFixture()
	sale := createSale(t, f, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentCard,
		Items:         []dto.SaleItemRequest{item("p1", 1)},
	})
	exp := time.Now().AddDate(0, 0, 10)
	f.store.invoices["f1"] = entity.Invoice{ID: "f1", SaleID: sale.ID, CAE: "75123456789012", CAEExpiration: &exp, AFIPStatus: entity.AFIPStatusApproved}

	_, err := f.sales().Void(context.Background(), "emp-1", sale.ID, dto.VoidSaleRequest{Reason: "x"})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 9, f.store.products["p1"].Stock)
}

func TestSale_Void_SinCaja(t *testing.T) {
	f := saleFixture()
	sale := createSale(t, f, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentCash,
		Items:         []dto.SaleItemRequest{item("p1", 1)},
	})
	reg := f.store.registers["caja-1"]
	reg.Status = entity.CashRegisterClosed
	f.store.registers["caja-1"] = reg

	_, err := f.sales().Void(context.Background(), "emp-1", sale.ID, dto.VoidSaleRequest{Reason: "x"})
	require.ErrorIs(t, err, domain.ErrCajaNoAbierta)

	_, err = f.sales().Void(context.Background(), "emp-1", "no-existe", dto.VoidSaleRequest{Reason: "x"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSale_Void_SaldoInsuficienteEnOtraCaja(t *testing.T) {
	f := saleFixture()
	sale := createSale(t, f, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentCash,
		Items:         []dto.SaleItemRequest{item("p1", 3)},
	})
	require.True(t, dec("300").Equal(sale.Total))

	// la caja de la venta se cerró y la nueva arranca vacía
	closed := f.store.registers["caja-1"]
	closed.Status = entity.CashRegisterClosed
	f.store.registers["caja-1"] = closed
	f.openRegister("caja-2", "0")

	_, err := f.sales().Void(context.Background(), "emp-1", sale.ID, dto.VoidSaleRequest{Reason: "devolución"})
	require.ErrorIs(t, err, domain.ErrInsufficientCash)
	assert.Equal(t, entity.SaleCompleted, f.store.sales[sale.ID].Status)
	assert.Equal(t, 7, f.store.products["p1"].Stock)
	require.Len(t, f.store.cashMovs, 1)

	_, err = f.cash().Income(context.Background(), "emp-1", dto.CashMovementRequest{Amount: dec("300"), Concept: "cambio", PaymentMethod: entity.PaymentCash})
	require.NoError(t, err)

	_, err = f.sales().Void(context.Background(), "emp-1", sale.ID, dto.VoidSaleRequest{Reason: "devolución"})
	require.NoError(t, err)
	egreso := f.store.cashMovs[len(f.store.cashMovs)-1]
	assert.Equal(t, "caja-2", egreso.CashRegisterID)
	assert.Equal(t, entity.CashExpense, egreso.Type)
}

// ─── Consultas ───────────────────────────────────────────────────────────────

func TestSale_GetYList(t *testing.T) {
	f := saleFixture()
	sale := createSale(t, f, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentCash,
		Items:         []dto.SaleItemRequest{item("p1", 1)},
	})
	createSale(t, f, dto.CreateSaleRequest{
		PaymentMethod: entity.PaymentTransfer,
		Items:         []dto.SaleItemRequest{item("p2", 1)},
	})

	got, err := f.sales().Get(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.ID, got.ID)
	assert.Len(t, got.Items, 1)

	_, err = f.sales().Get(context.Background(), "x")
	require.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.sales().List(context.Background(), dto.SaleFilterRequest{From: "2025-03-15", To: "2025-03-15"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = f.sales().List(context.Background(), dto.SaleFilterRequest{From: "2025-03-16", To: "2025-03-20"})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.sales().List(context.Background(), dto.SaleFilterRequest{From: "15/03/2025"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
