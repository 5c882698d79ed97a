package dto

import (
	"encoding/json"
	"time"
)

// AuditFilterRequest query de GET /api/v1/auditoria.
type AuditFilterRequest struct {
	Entity     string `query:"entity"`
	EntityID   string `query:"entity_id"`
	EmployeeID string `query:"employee_id"`
	From       string `query:"from"`
	To         string `query:"to"`
	Limit      int    `query:"limit"`
}

// AuditLogResponse registro de auditoría en respuestas.
type AuditLogResponse struct {
	ID         string          `json:"id"`
	Action     string          `json:"action"`
	Entity     string          `json:"entity"`
	EntityID   string          `json:"entity_id"`
	Details    json.RawMessage `json:"details,omitempty"`
	EmployeeID string          `json:"employee_id,omitempty"`
	Level      string          `json:"level"`
	CreatedAt  time.Time       `json:"created_at"`
}
