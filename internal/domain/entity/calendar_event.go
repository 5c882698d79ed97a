package entity

import "time"

// Tipos de evento de calendario.
const (
	EventSale        = "venta"
	EventPurchase    = "compra"
	EventMaintenance = "mantenimiento"
	EventMeeting     = "reunion"
	EventOther       = "otro"
)

// EventTypes tipos válidos.
var EventTypes = []string{EventSale, EventPurchase, EventMaintenance, EventMeeting, EventOther}

// CalendarEvent evento del calendario del local.
type CalendarEvent struct {
	ID          string
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	Type        string
	EmployeeID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
