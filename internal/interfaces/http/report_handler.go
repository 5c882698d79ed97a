package http

import (
	"bytes"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/analytics"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
)

const defaultTopProducts = 20

// ReportHandler reportes y dashboard. Los reportes aceptan ?format=csv.
type ReportHandler struct {
	reports   *analytics.ReportUseCase
	dashboard *analytics.DashboardUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(reports *analytics.ReportUseCase, dashboard *analytics.DashboardUseCase) *ReportHandler {
	return &ReportHandler{reports: reports, dashboard: dashboard}
}

// Dashboard godoc
// @Summary      KPIs del día
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/v1/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.dashboard.GetSummary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Sales godoc
// @Summary      Reporte de ventas
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Produce      text/csv
// @Param        from            query  string  false  "Desde (2006-01-02)"
// @Param        to              query  string  false  "Hasta inclusive"
// @Param        employee_id     query  string  false  "Empleado"
// @Param        customer_id     query  string  false  "Cliente"
// @Param        payment_method  query  string  false  "Método de pago"
// @Param        price_type      query  string  false  "minorista | mayorista"
// @Param        format          query  string  false  "json | csv"
// @Success      200             {object}  dto.SalesReportResponse
// @Router       /api/v1/reportes/ventas [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	var in dto.ReportFilterRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	out, err := h.reports.Sales(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	if wantsCSV(in) {
		return sendCSV(c, "ventas.csv", func(w io.Writer) error { return analytics.WriteSalesCSV(w, out) })
	}
	return c.JSON(out)
}

// Products GET /api/v1/reportes/productos?limit=&format=
func (h *ReportHandler) Products(c *fiber.Ctx) error {
	var in dto.ReportFilterRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	out, err := h.reports.Products(c.UserContext(), in, c.QueryInt("limit", defaultTopProducts))
	if err != nil {
		return respondError(c, err)
	}
	if wantsCSV(in) {
		return sendCSV(c, "productos.csv", func(w io.Writer) error { return analytics.WriteProductsCSV(w, out) })
	}
	return c.JSON(out)
}

// Cash GET /api/v1/reportes/caja?from=&to=&format=
func (h *ReportHandler) Cash(c *fiber.Ctx) error {
	var in dto.ReportFilterRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	out, err := h.reports.Cash(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	if wantsCSV(in) {
		return sendCSV(c, "caja.csv", func(w io.Writer) error { return analytics.WriteCashCSV(w, out) })
	}
	return c.JSON(out)
}

func wantsCSV(in dto.ReportFilterRequest) bool {
	return in.Format == "csv"
}

func sendCSV(c *fiber.Ctx, filename string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
