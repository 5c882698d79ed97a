package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/analytics"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/auth"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/billing"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/usecase"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
)

// Pinger chequeo de la base para /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	EmployeeUC  *usecase.EmployeeUseCase
	ProductUC   *usecase.ProductUseCase
	CustomerUC  *usecase.CustomerUseCase
	SaleUC      *usecase.SaleUseCase
	CashUC      *usecase.CashUseCase
	InvoiceUC   *billing.InvoiceUseCase
	PDFUC       *billing.PDFUseCase
	ReportUC    *analytics.ReportUseCase
	DashboardUC *analytics.DashboardUseCase
	CalendarUC  *usecase.CalendarUseCase
	AuditUC     *usecase.AuditUseCase

	Employees      EmployeeLoader
	DB             Pinger
	MetricsHandler http.Handler // nil = sin /metrics
	JWTSecret      string
	LoginRate      string // formato ulule, ej. "10-M"
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) error {
	app.Get("/health", health(deps.DB))
	if deps.MetricsHandler != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.MetricsHandler))
	}

	api := app.Group("/api/v1")

	// Auth (público, login con rate limit)
	authHandler := NewAuthHandler(deps.AuthUC)
	loginLimit, err := RateLimit(deps.LoginRate)
	if err != nil {
		return err
	}
	api.Post("/auth/login", loginLimit, authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	mod := func(m entity.Module) fiber.Handler { return RequireModule(m, deps.Employees) }
	can := func(m entity.Module, a entity.Action) fiber.Handler {
		return RequirePermission(m, a, deps.Employees)
	}

	// Empleados
	employees := protected.Group("/empleados", mod(entity.ModuleEmpleados))
	employeeHandler := NewEmployeeHandler(deps.EmployeeUC)
	employees.Get("/", can(entity.ModuleEmpleados, entity.ActionRead), employeeHandler.List)
	employees.Post("/", can(entity.ModuleEmpleados, entity.ActionCreate), employeeHandler.Create)
	employees.Get("/:id", can(entity.ModuleEmpleados, entity.ActionRead), employeeHandler.Get)
	employees.Put("/:id", can(entity.ModuleEmpleados, entity.ActionUpdate), employeeHandler.Update)
	employees.Delete("/:id", can(entity.ModuleEmpleados, entity.ActionDelete), employeeHandler.Deactivate)
	employees.Get("/:id/permisos", can(entity.ModuleEmpleados, entity.ActionRead), employeeHandler.Permissions)
	employees.Put("/:id/permisos", can(entity.ModuleEmpleados, entity.ActionManage), employeeHandler.UpdatePermissions)

	// Productos
	products := protected.Group("/productos", mod(entity.ModuleProductos))
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", can(entity.ModuleProductos, entity.ActionCreate), productHandler.Create)
	products.Get("/bajo-stock", productHandler.LowStock)
	products.Get("/valor-inventario", can(entity.ModuleProductos, entity.ActionUpdate), productHandler.InventoryValue)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", can(entity.ModuleProductos, entity.ActionUpdate), productHandler.Update)
	products.Delete("/:id", can(entity.ModuleProductos, entity.ActionDelete), productHandler.Deactivate)
	products.Post("/:id/stock", can(entity.ModuleProductos, entity.ActionUpdate), productHandler.AdjustStock)
	products.Get("/:id/movimientos", productHandler.Movements)

	// Clientes y cuenta corriente
	customers := protected.Group("/clientes", mod(entity.ModuleClientes))
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Post("/", can(entity.ModuleClientes, entity.ActionCreate), customerHandler.Create)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", can(entity.ModuleClientes, entity.ActionUpdate), customerHandler.Update)
	customers.Delete("/:id", can(entity.ModuleClientes, entity.ActionDelete), customerHandler.Deactivate)
	customers.Post("/:id/cargo", can(entity.ModuleClientes, entity.ActionUpdate), customerHandler.Charge)
	// el cobro entra a la caja: lo autoriza el permiso de caja, no el de clientes
	customers.Post("/:id/pago", can(entity.ModuleCaja, entity.ActionCreate), customerHandler.Pay)
	customers.Get("/:id/cuenta", customerHandler.Statement)

	// Ventas
	sales := protected.Group("/ventas", mod(entity.ModuleVentas))
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales.Get("/", saleHandler.List)
	sales.Post("/", can(entity.ModuleVentas, entity.ActionCreate), saleHandler.Create)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Post("/:id/anular", can(entity.ModuleVentas, entity.ActionDelete), saleHandler.Void)

	// Caja diaria
	cash := protected.Group("/caja", mod(entity.ModuleCaja))
	cashHandler := NewCashHandler(deps.CashUC)
	cash.Post("/abrir", can(entity.ModuleCaja, entity.ActionCreate), cashHandler.Open)
	cash.Post("/cerrar", can(entity.ModuleCaja, entity.ActionUpdate), cashHandler.Close)
	cash.Post("/ingreso", can(entity.ModuleCaja, entity.ActionCreate), cashHandler.Income)
	cash.Post("/egreso", can(entity.ModuleCaja, entity.ActionCreate), cashHandler.Expense)
	cash.Get("/actual", cashHandler.Current)
	cash.Get("/saldo", cashHandler.Balance)
	cash.Get("/movimientos", cashHandler.Movements)
	cash.Post("/arqueo", can(entity.ModuleCaja, entity.ActionUpdate), cashHandler.Count)
	cash.Get("/arqueo", cashHandler.GetCount)
	cash.Get("/historial", cashHandler.History)

	// Facturación: cuelga del módulo ventas
	invoices := protected.Group("/facturas", mod(entity.ModuleVentas))
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", can(entity.ModuleVentas, entity.ActionCreate), invoiceHandler.Emit)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Post("/:id/email", can(entity.ModuleVentas, entity.ActionCreate), invoiceHandler.SendEmail)

	// Reportes y dashboard
	reportHandler := NewReportHandler(deps.ReportUC, deps.DashboardUC)
	protected.Get("/dashboard", mod(entity.ModuleDashboard), reportHandler.Dashboard)
	reports := protected.Group("/reportes", mod(entity.ModuleReportes))
	reports.Get("/ventas", reportHandler.Sales)
	reports.Get("/productos", reportHandler.Products)
	reports.Get("/caja", reportHandler.Cash)

	// Calendario
	calendar := protected.Group("/calendario", mod(entity.ModuleCalendario))
	calendarHandler := NewCalendarHandler(deps.CalendarUC)
	calendar.Get("/", calendarHandler.List)
	calendar.Post("/", can(entity.ModuleCalendario, entity.ActionCreate), calendarHandler.Create)
	calendar.Put("/:id", can(entity.ModuleCalendario, entity.ActionUpdate), calendarHandler.Update)
	calendar.Delete("/:id", can(entity.ModuleCalendario, entity.ActionDelete), calendarHandler.Delete)

	// Auditoría (solo administradores)
	auditHandler := NewAuditHandler(deps.AuditUC)
	protected.Get("/auditoria", RequireAdmin(deps.Employees), auditHandler.List)

	return nil
}

func health(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db == nil {
			return c.JSON(fiber.Map{"status": "ok"})
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "db": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok", "db": "ok"})
	}
}
