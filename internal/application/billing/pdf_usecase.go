package billing

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/afip"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/logger"
)

// PDFUseCase genera la representación impresa de una factura y la envía por email.
// Solo se permite para facturas con CAE (aprobadas o simuladas).
type PDFUseCase struct {
	invoices  repository.InvoiceRepository
	sales     repository.SaleRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
	generator InvoicePDFGenerator
	mailer    Mailer // nil si no hay SMTP configurado
	issuer    Issuer
	log       *logger.Logger
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoices repository.InvoiceRepository,
	sales repository.SaleRepository,
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	generator InvoicePDFGenerator,
	mailer Mailer,
	issuer Issuer,
	log *logger.Logger,
) *PDFUseCase {
	return &PDFUseCase{
		invoices:  invoices,
		sales:     sales,
		customers: customers,
		products:  products,
		generator: generator,
		mailer:    mailer,
		issuer:    issuer,
		log:       log.Component("facturacion_pdf"),
	}
}

// DownloadInvoicePDF arma el PDF de la factura.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la factura no existe.
//   - domain.ErrConflict        si la factura no tiene CAE.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, customer, err := uc.load(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}

	// ── Líneas de la venta con datos de producto ──
	sale, err := uc.sales.GetByID(ctx, inv.SaleID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", fmt.Errorf("%w: venta %s", domain.ErrNotFound, inv.SaleID)
	}
	lines := make([]InvoiceLineForPDF, 0, len(sale.Items))
	for _, it := range sale.Items {
		line := InvoiceLineForPDF{
			Quantity:    it.Quantity,
			Description: "Producto " + it.ProductID,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		}
		if p, pErr := uc.products.GetByID(ctx, it.ProductID); pErr == nil && p != nil {
			line.SKU = p.SKU
			line.Description = p.Name
		}
		lines = append(lines, line)
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, uc.issuer, customer, lines)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("factura_%s_%s.pdf", afip.LetterByCbte[inv.VoucherType], FullNumber(inv))
	return pdfBytes, filename, nil
}

// load factura con CAE y su cliente (nil para consumidor final).
func (uc *PDFUseCase) load(ctx context.Context, invoiceID string) (*entity.Invoice, *entity.Customer, error) {
	inv, err := uc.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, nil, fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoiceID)
	}
	if !inv.HasCAE() {
		return nil, nil, fmt.Errorf("%w: la factura está %s y no tiene CAE", domain.ErrConflict, inv.AFIPStatus)
	}
	var customer *entity.Customer
	if inv.CustomerID != nil {
		if customer, err = uc.customers.GetByID(ctx, *inv.CustomerID); err != nil {
			return nil, nil, fmt.Errorf("pdf: obtener cliente: %w", err)
		}
	}
	return inv, customer, nil
}

// SendByEmail envía la factura en PDF. Sin destinatario usa el email del cliente.
func (uc *PDFUseCase) SendByEmail(ctx context.Context, invoiceID, to string) error {
	if uc.mailer == nil {
		return fmt.Errorf("%w: el envío de emails no está configurado", domain.ErrConflict)
	}
	inv, customer, err := uc.load(ctx, invoiceID)
	if err != nil {
		return err
	}
	to = strings.TrimSpace(to)
	if to == "" && customer != nil {
		to = customer.Email
	}
	if to == "" {
		return fmt.Errorf("%w: no hay email de destino", domain.ErrInvalidInput)
	}
	pdfBytes, filename, err := uc.DownloadInvoicePDF(ctx, invoiceID)
	if err != nil {
		return err
	}
	letter := afip.LetterByCbte[inv.VoucherType]
	msg := MailMessage{
		To:      []string{to},
		Subject: fmt.Sprintf("Factura %s %s - %s", letter, FullNumber(inv), uc.issuer.Name),
		HTMLBody: fmt.Sprintf(
			"<p>Hola,</p><p>Adjuntamos la factura %s %s por un total de $ %s.</p><p>CAE: %s</p><p>%s</p>",
			letter, FullNumber(inv), inv.TotalAmount.StringFixed(2), inv.CAE, html.EscapeString(uc.issuer.Name),
		),
		Attachments: []Attachment{{Filename: filename, ContentType: "application/pdf", Content: pdfBytes}},
	}
	if err := uc.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("email: %w", err)
	}
	uc.log.Info().Str("factura_id", inv.ID).Str("to", to).Msg("factura enviada por email")
	return nil
}
