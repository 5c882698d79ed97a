// Package metrics expone contadores de negocio y de HTTP en formato Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/ports"
)

const namespace = "motorepuestos"

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus registro propio con las métricas de la aplicación.
type Prometheus struct {
	reg *prometheus.Registry

	salesTotal       *prometheus.CounterVec
	salesAmount      *prometheus.CounterVec
	salesVoided      prometheus.Counter
	customerPayments prometheus.Counter
	paymentsAmount   prometheus.Counter
	cashMovements    *prometheus.CounterVec
	invoices         *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New registra todas las métricas (más las del runtime de Go) en un registro nuevo.
func New() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Prometheus{
		reg: reg,
		salesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ventas",
			Name:      "registradas_total",
			Help:      "Ventas registradas por método de pago.",
		}, []string{"metodo_pago"}),
		salesAmount: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ventas",
			Name:      "importe_pesos_total",
			Help:      "Importe vendido en pesos por método de pago.",
		}, []string{"metodo_pago"}),
		salesVoided: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ventas",
			Name:      "anuladas_total",
			Help:      "Ventas anuladas.",
		}),
		customerPayments: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clientes",
			Name:      "pagos_total",
			Help:      "Pagos de cuenta corriente recibidos.",
		}),
		paymentsAmount: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clientes",
			Name:      "pagos_pesos_total",
			Help:      "Importe cobrado de cuentas corrientes.",
		}),
		cashMovements: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "caja",
			Name:      "movimientos_total",
			Help:      "Movimientos de caja por tipo y método.",
		}, []string{"tipo", "metodo_pago"}),
		invoices: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "facturacion",
			Name:      "comprobantes_total",
			Help:      "Comprobantes procesados por estado AFIP.",
		}, []string{"estado"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Requests HTTP por ruta, método y código.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latencia de requests HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (p *Prometheus) SaleRegistered(paymentMethod string, total decimal.Decimal) {
	p.salesTotal.WithLabelValues(paymentMethod).Inc()
	p.salesAmount.WithLabelValues(paymentMethod).Add(total.InexactFloat64())
}

func (p *Prometheus) SaleVoided() { p.salesVoided.Inc() }

func (p *Prometheus) CustomerPayment(amount decimal.Decimal) {
	p.customerPayments.Inc()
	p.paymentsAmount.Add(amount.InexactFloat64())
}

func (p *Prometheus) CashMovement(movType, paymentMethod string) {
	p.cashMovements.WithLabelValues(movType, paymentMethod).Inc()
}

func (p *Prometheus) InvoiceIssued(status string) { p.invoices.WithLabelValues(status).Inc() }

// ObserveHTTP registra un request terminado. route es el patrón (no la URL) para acotar la cardinalidad.
func (p *Prometheus) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler endpoint /metrics.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{Registry: p.reg})
}

// Registry expone el registro (tests).
func (p *Prometheus) Registry() *prometheus.Registry { return p.reg }
