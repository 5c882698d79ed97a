package analytics

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
)

// Exportación CSV para planillas en es-AR: separador ';' y coma decimal.
const (
	csvSeparator  = ';'
	csvDateLayout = "02/01/2006 15:04"
)

func newCSVWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = csvSeparator
	return cw
}

// money formatea un importe con dos decimales y coma decimal.
func money(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

// WriteSalesCSV escribe el reporte de ventas.
func WriteSalesCSV(w io.Writer, r *dto.SalesReportResponse) error {
	cw := newCSVWriter(w)
	_ = cw.Write([]string{"Fecha", "Venta", "Empleado", "Cliente", "Método de pago", "Tipo de precio", "Estado", "Ítems", "Total"})
	for _, row := range r.Rows {
		_ = cw.Write([]string{
			row.Date.Format(csvDateLayout),
			row.SaleID,
			row.Employee,
			row.Customer,
			row.PaymentMethod,
			row.PriceType,
			row.Status,
			strconv.Itoa(row.Items),
			money(row.Total),
		})
	}
	_ = cw.Write([]string{"", "", "", "", "", "", "Total", strconv.Itoa(r.Count), money(r.Total)})
	cw.Flush()
	return cw.Error()
}

// WriteProductsCSV escribe el reporte de rentabilidad por producto.
func WriteProductsCSV(w io.Writer, r *dto.ProductsReportResponse) error {
	cw := newCSVWriter(w)
	_ = cw.Write([]string{"Código", "Producto", "Unidades vendidas", "Ingresos", "Costo", "Margen", "Margen %"})
	for _, row := range r.Rows {
		_ = cw.Write([]string{
			row.SKU,
			row.Name,
			strconv.FormatInt(row.UnitsSold, 10),
			money(row.Revenue),
			money(row.Cost),
			money(row.Margin),
			money(row.MarginPct),
		})
	}
	cw.Flush()
	return cw.Error()
}

// WriteCashCSV escribe el reporte de movimientos de caja.
func WriteCashCSV(w io.Writer, r *dto.CashReportResponse) error {
	cw := newCSVWriter(w)
	_ = cw.Write([]string{"Fecha", "Caja", "Tipo", "Método de pago", "Concepto", "Empleado", "Monto"})
	for _, row := range r.Rows {
		_ = cw.Write([]string{
			row.Date.Format(csvDateLayout),
			row.CashRegisterID,
			row.Type,
			row.PaymentMethod,
			row.Concept,
			row.Employee,
			money(row.Amount),
		})
	}
	_ = cw.Write([]string{"", "", "", "", "", "Ingresos", money(r.Income)})
	_ = cw.Write([]string{"", "", "", "", "", "Egresos", money(r.Expense)})
	_ = cw.Write([]string{"", "", "", "", "", "Neto", money(r.Net)})
	cw.Flush()
	return cw.Error()
}
