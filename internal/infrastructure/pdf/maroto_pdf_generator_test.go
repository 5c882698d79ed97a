package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/billing"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/afip"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "0,00",
		"999.5":     "999,50",
		"1234":      "1.234,00",
		"1234567.8": "1.234.567,80",
		"-1500":     "-1.500,00",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestFormatCUIT(t *testing.T) {
	assert.Equal(t, "20-40937847-2", formatCUIT("20409378472"))
	assert.Equal(t, "123", formatCUIT("123"))
}

func TestGenerateInvoicePDF_FacturaB(t *testing.T) {
	vto := time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)
	inv := &entity.Invoice{
		VoucherType:   afip.CbteFacturaB,
		PointOfSale:   1,
		Number:        42,
		DocType:       afip.DocConsumidorFinal,
		NetAmount:     decimal.NewFromInt(100),
		VATAmount:     decimal.NewFromInt(21),
		TotalAmount:   decimal.NewFromInt(121),
		CAE:           "74123456789012",
		CAEExpiration: &vto,
		AFIPStatus:    entity.AFIPStatusSimulated,
		QRURL:         afip.QRBaseURL + "eyJ2ZXIiOjF9",
		Date:          time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	issuer := appbilling.Issuer{CUIT: "20409378472", Name: "Motorepuestos F.L.", IVACondition: entity.IVAResponsableInscripto, PointOfSale: 1}
	lines := []appbilling.InvoiceLineForPDF{{
		Quantity: 2, SKU: "FIL-001", Description: "Filtro de aceite",
		UnitPrice: decimal.RequireFromString("60.50"), Subtotal: decimal.NewFromInt(121),
	}}

	out, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), inv, issuer, nil, lines)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestGenerateInvoicePDF_TipoDesconocido(t *testing.T) {
	_, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(),
		&entity.Invoice{VoucherType: 999}, appbilling.Issuer{}, nil, nil)
	assert.Error(t, err)
}
