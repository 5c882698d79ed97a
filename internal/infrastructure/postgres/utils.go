package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isNoRows indica que QueryRow no encontró filas.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// nullID convierte "" en NULL para columnas UUID opcionales.
func nullID(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// derefID devuelve "" si el puntero es nil.
func derefID(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// nullIDPtr normaliza punteros a string vacíos como NULL.
func nullIDPtr(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return p
}
