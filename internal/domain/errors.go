package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrInvalidCredentials  = errors.New("email o contraseña incorrectos")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrCreditLimitExceeded = errors.New("límite de crédito excedido")
	ErrInsufficientCash    = errors.New("saldo insuficiente en caja")
	ErrCajaNoAbierta       = errors.New("no hay caja abierta")
	ErrCajaYaAbierta       = errors.New("ya existe una caja abierta para hoy")
	ErrArqueoYaRealizado   = errors.New("ya se realizó un arqueo para esta caja")
	ErrEmpleadoInactivo    = errors.New("empleado inactivo")
	ErrAFIPRejected        = errors.New("comprobante rechazado por AFIP")
)
