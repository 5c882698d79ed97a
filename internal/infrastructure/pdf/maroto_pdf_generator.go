// Package pdf implementa la representación impresa del comprobante electrónico AFIP
// (RG 4291: datos del emisor, letra, CAE con vencimiento y código QR).
//
// Layout de la página A4:
//
//	┌───────────────────────────────────────────────────────────────┐
//	│  EMISOR: Razón social + CUIT  │  LETRA  │  N° + Fecha          │
//	│  ─────────────────────────────────────────────────────────    │
//	│  RECEPTOR: Nombre + documento + condición IVA                 │
//	│  ─────────────────────────────────────────────────────────    │
//	│  TABLA: Cant | Código | Descripción | P.Unit | Subtotal        │
//	│  ─────────────────────────────────────────────────────────    │
//	│  TOTALES: Neto / IVA 21% / TOTAL                              │
//	│  ─────────────────────────────────────────────────────────    │
//	│  FOOTER AFIP: QR + CAE + Vto. CAE                             │
//	└───────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/billing"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/afip"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 20, Green: 20, Blue: 20}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes. customer puede ser nil (consumidor final).
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	issuer appbilling.Issuer,
	customer *entity.Customer,
	lines []appbilling.InvoiceLineForPDF,
) ([]byte, error) {
	letter := afip.LetterByCbte[invoice.VoucherType]
	if letter == "" {
		return nil, fmt.Errorf("pdf: tipo de comprobante %d no soportado", invoice.VoucherType)
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+letter+" "+fullNumber(invoice), true).
		WithAuthor(issuer.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice, issuer, letter))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(receptorRow(invoice, customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(invoice))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(afipFooterRow(invoice))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor (izq), letra en recuadro (centro) y número + fecha (der).
func headerRow(invoice *entity.Invoice, issuer appbilling.Issuer, letter string) core.Row {
	return row.New(30).Add(
		col.New(5).Add(
			text.New(issuer.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Domicilio: "+nonEmpty(issuer.Address, "-"), props.Text{
				Size: 8, Top: 10, Color: colorGray,
			}),
			text.New("Condición frente al IVA: "+issuer.IVACondition, props.Text{
				Size: 8, Top: 15, Color: colorGray,
			}),
		),
		col.New(2).Add(
			text.New(letter, props.Text{
				Style: fontstyle.Bold, Size: 28, Align: align.Center, Top: 2,
			}),
			text.New(fmt.Sprintf("COD. %02d", invoice.VoucherType), props.Text{
				Size: 7, Align: align.Center, Top: 16,
			}),
		).WithStyle(&props.Cell{BorderType: border.Full, BorderThickness: 0.4}),
		col.New(5).Add(
			text.New("FACTURA", props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("N° "+fullNumber(invoice), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 8,
			}),
			text.New("Fecha de emisión: "+invoice.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 15, Color: colorGray,
			}),
			text.New("CUIT: "+formatCUIT(issuer.CUIT), props.Text{
				Size: 8, Align: align.Right, Top: 20, Color: colorGray,
			}),
		),
	)
}

// receptorRow: datos del comprador; sin cliente se imprime consumidor final.
func receptorRow(invoice *entity.Invoice, customer *entity.Customer) core.Row {
	name, cond, addr := "Consumidor Final", entity.IVAConsumidorFinal, "-"
	if customer != nil {
		name, addr = customer.Name, nonEmpty(customer.Address, "-")
		cond = nonEmpty(customer.IVACondition, entity.IVAConsumidorFinal)
	}
	doc := "-"
	if invoice.DocType != afip.DocConsumidorFinal && invoice.DocNumber > 0 {
		doc = fmt.Sprintf("%s %d", docLabel(invoice.DocType), invoice.DocNumber)
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("RECEPTOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Documento: %s   |   Condición IVA: %s   |   Domicilio: %s", doc, cond, addr),
				props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow cabecera de la tabla de ítems.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Código", 2, align.Left),
		h("Descripción", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

func tableDetailRows(lines []appbilling.InvoiceLineForPDF) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, d := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", d.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				d.SKU,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(5).Add(text.New(
				d.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"$ "+formatMoney(d.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				"$ "+formatMoney(d.Subtotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: A y B discriminan neto e IVA; C muestra solo el total.
func totalsRow(invoice *entity.Invoice) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}

	labels := col.New(3)
	values := col.New(3)
	top := 0.0
	if afip.DiscriminaIVA(invoice.VoucherType) {
		labels.Add(label("Importe neto gravado:", top), label("IVA 21%:", top+6))
		values.Add(value("$ "+formatMoney(invoice.NetAmount), top), value("$ "+formatMoney(invoice.VATAmount), top+6))
		top += 12
	}
	labels.Add(text.New("TOTAL:", props.Text{
		Style: fontstyle.Bold, Size: 11, Align: align.Right, Right: 2, Top: top,
	}))
	values.Add(text.New("$ "+formatMoney(invoice.TotalAmount), props.Text{
		Style: fontstyle.Bold, Size: 11, Align: align.Right, Right: 1, Top: top,
	}))

	return row.New(22).Add(col.New(6), labels, values)
}

// afipFooterRow: QR de AFIP + CAE y vencimiento.
func afipFooterRow(invoice *entity.Invoice) core.Row {
	vto := "-"
	if invoice.CAEExpiration != nil {
		vto = invoice.CAEExpiration.Format("02/01/2006")
	}
	legend := "Comprobante autorizado por AFIP"
	if invoice.AFIPStatus == entity.AFIPStatusSimulated {
		legend = "Comprobante SIMULADO, sin validez fiscal"
	}
	info := col.New(8).Add(
		text.New(legend, props.Text{
			Style: fontstyle.Bold, Size: 10, Top: 4, Left: 3, Color: colorPrimary,
		}),
		text.New("CAE N°: "+invoice.CAE, props.Text{Size: 9, Top: 14, Left: 3}),
		text.New("Fecha de Vto. de CAE: "+vto, props.Text{Size: 9, Top: 20, Left: 3}),
	)
	if invoice.QRURL == "" {
		return row.New(30).Add(col.New(4), info)
	}
	return row.New(45).Add(
		col.New(4).Add(code.NewQr(invoice.QRURL, props.Rect{Percent: 95, Center: true})),
		info,
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func fullNumber(invoice *entity.Invoice) string {
	return fmt.Sprintf("%04d-%08d", invoice.PointOfSale, invoice.Number)
}

func docLabel(docType int) string {
	switch docType {
	case afip.DocCUIT:
		return "CUIT"
	case afip.DocCUIL:
		return "CUIL"
	case afip.DocDNI:
		return "DNI"
	}
	return "Doc."
}

func formatCUIT(cuit string) string {
	c := afip.NormalizeCUIT(cuit)
	if len(c) != 11 {
		return cuit
	}
	return c[:2] + "-" + c[2:10] + "-" + c[10:]
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formato es-AR: puntos de miles y coma decimal.
// Ej: 1234567.5 → "1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3+3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "," + frac
	if neg {
		return "-" + out
	}
	return out
}
