package dto

import "time"

// CalendarEventRequest body para POST/PUT /api/v1/calendario.
type CalendarEventRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required"`
	Type        string    `json:"type" validate:"required,oneof=venta compra mantenimiento reunion otro"`
}

// CalendarEventResponse evento en respuestas.
type CalendarEventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Type        string    `json:"type"`
	EmployeeID  string    `json:"employee_id,omitempty"`
}
