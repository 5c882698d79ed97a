package entity

import (
	"encoding/json"
	"time"
)

// Niveles de auditoría.
const (
	AuditInfo    = "info"
	AuditWarning = "warning"
	AuditError   = "error"
)

// AuditLog registro de una acción relevante (quién, qué, sobre qué entidad).
type AuditLog struct {
	ID         string
	Action     string // create, update, delete, permisos, anular...
	Entity     string // venta, cliente, producto, caja, empleado
	EntityID   string
	Details    json.RawMessage
	EmployeeID string
	Level      string
	CreatedAt  time.Time
}
