package ports

import (
	"context"
	"time"
)

// Tipos de evento de dominio publicados tras confirmar la transacción.
const (
	EventSaleCreated   = "venta.creada"
	EventSaleVoided    = "venta.anulada"
	EventCustomerPaid  = "cliente.pago"
	EventCashOpened    = "caja.abierta"
	EventCashClosed    = "caja.cerrada"
	EventInvoiceIssued = "factura.emitida"
	EventStockLow      = "producto.stock_bajo"
)

// Event evento de dominio. Key identifica el agregado (particionado en el broker).
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher publica eventos de dominio. Un error de publicación nunca revierte la operación de negocio.
type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
}
