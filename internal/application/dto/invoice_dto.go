package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/v1/facturas.
// VoucherType: "A" | "B" | "C"; vacío = se decide por condición de IVA.
// DocType/DocNumber: si se omiten se toman del cliente (o consumidor final).
type CreateInvoiceRequest struct {
	SaleID      string `json:"sale_id" validate:"required"`
	VoucherType string `json:"voucher_type" validate:"omitempty,oneof=A B C"`
	DocType     int    `json:"doc_type,omitempty"`
	DocNumber   string `json:"doc_number,omitempty"`
}

// SendInvoiceRequest body para POST /api/v1/facturas/:id/email.
type SendInvoiceRequest struct {
	To string `json:"to" validate:"omitempty,email"`
}

// InvoiceFilterRequest query de GET /api/v1/facturas.
type InvoiceFilterRequest struct {
	From   string `query:"from"`
	To     string `query:"to"`
	Status string `query:"status"`
	PageRequest
}

// InvoiceResponse factura en respuestas.
type InvoiceResponse struct {
	ID            string          `json:"id"`
	SaleID        string          `json:"sale_id"`
	CustomerID    *string         `json:"customer_id,omitempty"`
	VoucherType   int             `json:"voucher_type"`
	VoucherLetter string          `json:"voucher_letter"`
	PointOfSale   int             `json:"point_of_sale"`
	Number        int64           `json:"number"`
	FullNumber    string          `json:"full_number"` // 0001-00000042
	IssuerCUIT    string          `json:"issuer_cuit"`
	DocType       int             `json:"doc_type"`
	DocNumber     int64           `json:"doc_number"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	VATAmount     decimal.Decimal `json:"vat_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CAE           string          `json:"cae,omitempty"`
	CAEExpiration *time.Time      `json:"cae_expiration,omitempty"`
	AFIPStatus    string          `json:"afip_status"`
	Observations  string          `json:"observations,omitempty"`
	QRURL         string          `json:"qr_url,omitempty"`
	Date          time.Time       `json:"date"`
}
