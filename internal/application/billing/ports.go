package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

// Issuer datos fiscales del emisor (el local).
type Issuer struct {
	CUIT         string
	Name         string
	Address      string
	IVACondition string
	PointOfSale  int
}

// CAERequest datos de un comprobante para FECAESolicitar.
type CAERequest struct {
	PointOfSale int
	VoucherType int
	Number      int64
	Concept     int
	DocType     int
	DocNumber   int64
	Date        time.Time
	Net         decimal.Decimal
	VAT         decimal.Decimal
	Total       decimal.Decimal
}

// CAEResult respuesta de AFIP. Result: A aprobado, R rechazado.
type CAEResult struct {
	Result        string
	CAE           string
	CAEExpiration time.Time
	Observations  []string
	Simulated     bool // CAE generado localmente (sin certificado)
}

// AFIPClient puerto hacia WSFEv1 (real o simulado).
type AFIPClient interface {
	// LastAuthorized FECompUltimoAutorizado.
	LastAuthorized(ctx context.Context, pointOfSale, voucherType int) (int64, error)
	// RequestCAE FECAESolicitar para un único comprobante.
	RequestCAE(ctx context.Context, req CAERequest) (*CAEResult, error)
}

// InvoiceLineForPDF línea de la factura con datos del producto.
type InvoiceLineForPDF struct {
	Quantity    int
	SKU         string
	Description string
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// InvoicePDFGenerator genera la representación impresa del comprobante.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, inv *entity.Invoice, issuer Issuer, customer *entity.Customer, lines []InvoiceLineForPDF) ([]byte, error)
}

// Attachment adjunto de un email.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// MailMessage email saliente.
type MailMessage struct {
	To          []string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// Mailer envío de emails.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

func newID() string { return uuid.New().String() }
