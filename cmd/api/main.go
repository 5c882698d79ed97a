package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/analytics"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/auth"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/billing"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/ports"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/usecase"
	infraafip "github.com/jimmycarp966/motorepuestos-fl-sub004/internal/infrastructure/afip"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/infrastructure/broker"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/infrastructure/cache"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/infrastructure/mail"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/infrastructure/metrics"
	infrapdf "github.com/jimmycarp966/motorepuestos-fl-sub004/internal/infrastructure/pdf"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/infrastructure/postgres"
	httpRouter "github.com/jimmycarp966/motorepuestos-fl-sub004/internal/interfaces/http"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/config"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/logger"
)

// @title                       Motorepuestos F.L. API
// @version                     1.0
// @description                 Ventas, caja diaria, cuenta corriente y facturación AFIP.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("timezone", cfg.App.Location().String()).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.MigrateOnStart {
		if err := postgres.NewMigrator(cfg.DB.ConnectionString(), log).Up(ctx); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool)
	clock := usecase.NewClock(cfg.App.Location())
	prom := metrics.New()

	// Eventos de dominio: Kafka si hay brokers, si no se descartan.
	var publisher ports.EventPublisher = broker.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(log.Component("kafka").Zerolog(), cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = producer
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publicando eventos en Kafka")
	}

	// Facturación: WSFEv1 con certificado; sin él, CAE simulado.
	var afipClient billing.AFIPClient
	if cfg.AFIP.Enabled() {
		var ticketCache infraafip.TicketCache
		if cfg.Redis.Enabled() {
			rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
			if err != nil {
				log.Warn().Err(err).Msg("redis no disponible, ticket WSAA en memoria")
			} else {
				defer rdb.Close()
				ticketCache = infraafip.NewRedisTicketCache(rdb)
			}
		}
		wsfe, err := infraafip.NewClient(cfg.AFIP, ticketCache, log.Component("afip").Zerolog())
		if err != nil {
			log.Fatal().Err(err).Msg("cliente AFIP")
		}
		afipClient = wsfe
		log.Info().Str("ambiente", cfg.AFIP.Environment).Int("punto_venta", cfg.AFIP.PuntoVenta).Msg("facturación AFIP habilitada")
	} else {
		afipClient = infraafip.NewSimulator(cfg.AFIP.CUIT, repos.Invoices, log.Component("afip_simulador").Zerolog())
		log.Warn().Msg("sin certificado AFIP: los CAE serán simulados")
	}
	issuer := billing.Issuer{
		CUIT:         cfg.AFIP.CUIT,
		Name:         cfg.AFIP.RazonSocial,
		Address:      cfg.AFIP.Domicilio,
		IVACondition: cfg.AFIP.CondicionIVA,
		PointOfSale:  cfg.AFIP.PuntoVenta,
	}

	var mailer billing.Mailer
	if cfg.SMTP.Enabled() {
		mailer = mail.NewSMTPMailer(cfg.SMTP, cfg.AFIP.RazonSocial)
	}

	authUC := auth.NewAuthUseCase(repos.Employees, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	employeeUC := usecase.NewEmployeeUseCase(repos.Employees, repos.Audit, log)
	productUC := usecase.NewProductUseCase(repos.Products, repos.StockMovements, txRunner, repos.Audit, publisher, log)
	customerUC := usecase.NewCustomerUseCase(repos.Customers, repos.AccountMovements, txRunner, repos.Audit, publisher, prom, clock, log)
	saleUC := usecase.NewSaleUseCase(repos.Sales, txRunner, publisher, prom, clock, log)
	cashUC := usecase.NewCashUseCase(repos.CashRegisters, repos.CashMovements, repos.CashCounts, txRunner, publisher, prom, clock, log)
	invoiceUC := billing.NewInvoiceUseCase(repos.Invoices, repos.Sales, repos.Customers, afipClient, issuer, publisher, prom, clock, log).
		WithNumberingLock(postgres.NewAdvisoryNumberingLock(pool))
	pdfUC := billing.NewPDFUseCase(repos.Invoices, repos.Sales, repos.Customers, repos.Products,
		infrapdf.NewMarotoPDFGenerator(), mailer, issuer, log)
	reportRepo := postgres.NewReportRepository(pool)
	reportUC := analytics.NewReportUseCase(reportRepo, repos.Products, clock, log)
	dashboardUC := analytics.NewDashboardUseCase(reportRepo, repos.CashRegisters, repos.CashMovements, clock)
	calendarUC := usecase.NewCalendarUseCase(postgres.NewCalendarRepository(pool), clock)
	auditUC := usecase.NewAuditUseCase(repos.Audit, clock)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30, // WSFE puede tardar
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(httpRouter.Metrics(prom))

	// Swagger UI: http://localhost:<port>/docs (solo si se generó docs/swagger.json con swag init)
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Motorepuestos F.L. API",
		}))
	}

	if err := httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		EmployeeUC:     employeeUC,
		ProductUC:      productUC,
		CustomerUC:     customerUC,
		SaleUC:         saleUC,
		CashUC:         cashUC,
		InvoiceUC:      invoiceUC,
		PDFUC:          pdfUC,
		ReportUC:       reportUC,
		DashboardUC:    dashboardUC,
		CalendarUC:     calendarUC,
		AuditUC:        auditUC,
		Employees:      repos.Employees,
		DB:             pool,
		MetricsHandler: prom.Handler(),
		JWTSecret:      cfg.JWT.Secret,
		LoginRate:      cfg.RateLimit.Login,
	}); err != nil {
		log.Fatal().Err(err).Msg("configurar rutas")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
