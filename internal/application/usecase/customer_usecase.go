package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/ports"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/account"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/logger"
)

// CustomerUseCase clientes y cuenta corriente (fiado).
type CustomerUseCase struct {
	repo      repository.CustomerRepository
	movements repository.AccountMovementRepository
	tx        repository.TxRunner
	audit     repository.AuditRepository
	pub       ports.EventPublisher
	metrics   ports.Metrics
	clock     Clock
	log       *logger.Logger
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(
	repo repository.CustomerRepository,
	movements repository.AccountMovementRepository,
	tx repository.TxRunner,
	audit repository.AuditRepository,
	pub ports.EventPublisher,
	metrics ports.Metrics,
	clock Clock,
	log *logger.Logger,
) *CustomerUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &CustomerUseCase{
		repo:      repo,
		movements: movements,
		tx:        tx,
		audit:     audit,
		pub:       pub,
		metrics:   metrics,
		clock:     clock,
		log:       log.Component("clientes"),
	}
}

func validIVACondition(s string) bool {
	return lo.Contains([]string{entity.IVAResponsableInscripto, entity.IVAMonotributo, entity.IVAExento, entity.IVAConsumidorFinal}, s)
}

// Create da de alta un cliente. El email, si se informa, no puede repetirse.
func (uc *CustomerUseCase) Create(ctx context.Context, actorID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.CreditLimit.IsNegative() {
		return nil, fmt.Errorf("%w: el límite de crédito no puede ser negativo", domain.ErrInvalidInput)
	}
	cond := lo.Ternary(in.IVACondition == "", entity.IVAConsumidorFinal, in.IVACondition)
	if !validIVACondition(cond) {
		return nil, fmt.Errorf("%w: condición de IVA %q", domain.ErrInvalidInput, in.IVACondition)
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := uc.checkEmail(ctx, email, ""); err != nil {
		return nil, err
	}
	now := uc.clock.now()
	c := &entity.Customer{
		ID:           newID(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        in.Phone,
		Address:      in.Address,
		TaxID:        strings.TrimSpace(in.TaxID),
		IVACondition: cond,
		CreditLimit:  in.CreditLimit,
		Balance:      decimal.Zero,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.record(ctx, actorID, "create", c.ID, map[string]any{"name": c.Name})
	out := toCustomerResponse(c)
	return &out, nil
}

func (uc *CustomerUseCase) checkEmail(ctx context.Context, email, selfID string) error {
	if email == "" {
		return nil
	}
	other, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return fmt.Errorf("%w: ya existe un cliente con email %s", domain.ErrDuplicate, email)
	}
	return nil
}

func (uc *CustomerUseCase) find(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	return c, nil
}

// Get devuelve un cliente.
func (uc *CustomerUseCase) Get(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toCustomerResponse(c)
	return &out, nil
}

// List lista clientes.
func (uc *CustomerUseCase) List(ctx context.Context, in dto.CustomerFilterRequest) ([]dto.CustomerResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.CustomerFilter{
		Search:   strings.TrimSpace(in.Search),
		Active:   in.Active,
		WithDebt: in.WithDebt,
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(c *entity.Customer, _ int) dto.CustomerResponse { return toCustomerResponse(c) }), nil
}

// Update modifica los datos del cliente. El saldo solo cambia con cargos y pagos.
func (uc *CustomerUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if err := uc.checkEmail(ctx, email, c.ID); err != nil {
			return nil, err
		}
		c.Email = email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.TaxID != nil {
		c.TaxID = strings.TrimSpace(*in.TaxID)
	}
	if in.IVACondition != nil {
		if !validIVACondition(*in.IVACondition) {
			return nil, fmt.Errorf("%w: condición de IVA %q", domain.ErrInvalidInput, *in.IVACondition)
		}
		c.IVACondition = *in.IVACondition
	}
	if in.CreditLimit != nil {
		if in.CreditLimit.IsNegative() {
			return nil, fmt.Errorf("%w: el límite de crédito no puede ser negativo", domain.ErrInvalidInput)
		}
		c.CreditLimit = *in.CreditLimit
	}
	if c.Name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	c.UpdatedAt = uc.clock.now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	uc.record(ctx, actorID, "update", c.ID, in)
	out := toCustomerResponse(c)
	return &out, nil
}

// Deactivate baja lógica del cliente.
func (uc *CustomerUseCase) Deactivate(ctx context.Context, actorID, id string) error {
	if _, err := uc.find(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	uc.record(ctx, actorID, "delete", id, nil)
	return nil
}

// Charge registra un cargo (fiado) en la cuenta corriente.
func (uc *CustomerUseCase) Charge(ctx context.Context, actorID, id string, in dto.ChargeRequest) (*dto.CustomerResponse, error) {
	var c *entity.Customer
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		if c, err = lockCustomer(ctx, r, id); err != nil {
			return err
		}
		next, err := account.ApplyCharge(c, in.Amount)
		if err != nil {
			return err
		}
		if err := r.Customers.UpdateBalance(ctx, c.ID, next); err != nil {
			return err
		}
		c.Balance = next
		if err := r.AccountMovements.Create(ctx, &entity.AccountMovement{
			ID:           newID(),
			CustomerID:   c.ID,
			Type:         entity.AccountCharge,
			Amount:       in.Amount,
			BalanceAfter: next,
			Concept:      in.Concept,
			EmployeeID:   actorID,
			CreatedAt:    uc.clock.now(),
		}); err != nil {
			return err
		}
		return r.Audit.Create(ctx, newAuditLog(actorID, "cargo", "cliente", c.ID, map[string]any{"amount": in.Amount, "balance": next}))
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("cliente_id", c.ID).Str("monto", in.Amount.StringFixed(2)).Msg("cargo registrado")
	out := toCustomerResponse(c)
	return &out, nil
}

// Pay registra un pago de deuda. El dinero entra en la caja abierta del día.
func (uc *CustomerUseCase) Pay(ctx context.Context, actorID, id string, in dto.PaymentRequest) (*dto.CustomerResponse, error) {
	method := lo.Ternary(in.PaymentMethod == "", entity.PaymentCash, in.PaymentMethod)
	if method == entity.PaymentAccount || !lo.Contains(entity.CashPaymentMethods, method) {
		return nil, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, method)
	}
	var c *entity.Customer
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		if c, err = lockAnyCustomer(ctx, r, id); err != nil {
			return err
		}
		next, err := account.ApplyPayment(c, in.Amount)
		if err != nil {
			return err
		}
		reg, err := r.CashRegisters.GetOpenByDate(ctx, uc.clock.Today())
		if err != nil {
			return err
		}
		if reg == nil {
			return domain.ErrCajaNoAbierta
		}
		if err := r.Customers.UpdateBalance(ctx, c.ID, next); err != nil {
			return err
		}
		c.Balance = next
		now := uc.clock.now()
		if err := r.AccountMovements.Create(ctx, &entity.AccountMovement{
			ID:           newID(),
			CustomerID:   c.ID,
			Type:         entity.AccountPayment,
			Amount:       in.Amount,
			BalanceAfter: next,
			Concept:      "pago de deuda",
			EmployeeID:   actorID,
			CreatedAt:    now,
		}); err != nil {
			return err
		}
		customerID := c.ID
		if err := r.CashMovements.Create(ctx, &entity.CashMovement{
			ID:             newID(),
			CashRegisterID: reg.ID,
			Type:           entity.CashIncome,
			Amount:         in.Amount,
			Concept:        "pago de deuda: " + c.Name,
			PaymentMethod:  method,
			EmployeeID:     actorID,
			CustomerID:     &customerID,
			Date:           now,
		}); err != nil {
			return err
		}
		return r.Audit.Create(ctx, newAuditLog(actorID, "pago", "cliente", c.ID, map[string]any{
			"amount":         in.Amount,
			"payment_method": method,
			"balance":        next,
		}))
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.CustomerPayment(in.Amount)
	uc.metrics.CashMovement(entity.CashIncome, method)
	publish(ctx, uc.pub, uc.log, ports.EventCustomerPaid, c.ID, map[string]any{
		"customer_id":    c.ID,
		"amount":         in.Amount,
		"payment_method": method,
		"balance":        c.Balance,
	})
	uc.log.Info().Str("cliente_id", c.ID).Str("monto", in.Amount.StringFixed(2)).Str("metodo", method).Msg("pago registrado")
	out := toCustomerResponse(c)
	return &out, nil
}

// Statement estado de cuenta: cliente y sus movimientos.
func (uc *CustomerUseCase) Statement(ctx context.Context, id string) (*dto.AccountStatementResponse, error) {
	c, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	movs, err := uc.movements.ListByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.AccountStatementResponse{
		Customer:  toCustomerResponse(c),
		Movements: lo.Map(movs, func(m *entity.AccountMovement, _ int) dto.AccountMovementResponse { return toAccountMovementResponse(m) }),
	}, nil
}

// lockCustomer bloquea al cliente; debe existir y estar activo.
func lockCustomer(ctx context.Context, r repository.Repos, id string) (*entity.Customer, error) {
	c, err := lockAnyCustomer(ctx, r, id)
	if err != nil {
		return nil, err
	}
	if !c.Active {
		return nil, fmt.Errorf("%w: el cliente está inactivo", domain.ErrConflict)
	}
	return c, nil
}

// lockAnyCustomer bloquea al cliente aunque esté dado de baja: la deuda pendiente se puede cobrar igual.
func lockAnyCustomer(ctx context.Context, r repository.Repos, id string) (*entity.Customer, error) {
	c, err := r.Customers.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	return c, nil
}

func (uc *CustomerUseCase) record(ctx context.Context, actorID, action, id string, details any) {
	if err := uc.audit.Create(ctx, newAuditLog(actorID, action, "cliente", id, details)); err != nil {
		uc.log.Warn().Err(err).Str("cliente_id", id).Msg("no se pudo registrar auditoría")
	}
}
