package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest body para POST /api/v1/clientes.
type CreateCustomerRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Email        string          `json:"email" validate:"omitempty,email"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	TaxID        string          `json:"tax_id"`
	IVACondition string          `json:"iva_condition"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
}

// UpdateCustomerRequest body para PUT /api/v1/clientes/:id.
type UpdateCustomerRequest struct {
	Name         *string          `json:"name,omitempty"`
	Email        *string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone        *string          `json:"phone,omitempty"`
	Address      *string          `json:"address,omitempty"`
	TaxID        *string          `json:"tax_id,omitempty"`
	IVACondition *string          `json:"iva_condition,omitempty"`
	CreditLimit  *decimal.Decimal `json:"credit_limit,omitempty"`
}

// ChargeRequest body para POST /api/v1/clientes/:id/cargo.
type ChargeRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Concept string          `json:"concept" validate:"required"`
}

// PaymentRequest body para POST /api/v1/clientes/:id/pago.
type PaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
}

// CustomerFilterRequest query de GET /api/v1/clientes.
type CustomerFilterRequest struct {
	Search   string `query:"search"`
	Active   *bool  `query:"active"`
	WithDebt bool   `query:"with_debt"`
	PageRequest
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	Address         string          `json:"address,omitempty"`
	TaxID           string          `json:"tax_id,omitempty"`
	IVACondition    string          `json:"iva_condition"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	Balance         decimal.Decimal `json:"balance"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AccountMovementResponse línea del estado de cuenta.
type AccountMovementResponse struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Concept      string          `json:"concept"`
	SaleID       *string         `json:"sale_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// AccountStatementResponse estado de cuenta del cliente.
type AccountStatementResponse struct {
	Customer  CustomerResponse          `json:"customer"`
	Movements []AccountMovementResponse `json:"movements"`
}
