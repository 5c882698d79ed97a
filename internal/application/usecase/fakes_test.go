package usecase

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/ports"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/logger"
)

// ─── Store en memoria ────────────────────────────────────────────────────────

// memStore guarda copias de las entidades; fakeTx restaura el estado si fn falla.
type memStore struct {
	employees map[string]entity.Employee
	products  map[string]entity.Product
	stockMovs []entity.StockMovement
	customers map[string]entity.Customer
	accMovs   []entity.AccountMovement
	sales     map[string]entity.Sale
	registers map[string]entity.CashRegister
	cashMovs  []entity.CashMovement
	counts    map[string]entity.CashCount
	invoices  map[string]entity.Invoice
	audit     []entity.AuditLog

	// failOn fuerza un error en la operación indicada ("cash.create", "audit.create", ...).
	failOn string
}

var errForced = errors.New("falla forzada")

func newMemStore() *memStore {
	return &memStore{
		employees: map[string]entity.Employee{},
		products:  map[string]entity.Product{},
		customers: map[string]entity.Customer{},
		sales:     map[string]entity.Sale{},
		registers: map[string]entity.CashRegister{},
		counts:    map[string]entity.CashCount{},
		invoices:  map[string]entity.Invoice{},
	}
}

func (s *memStore) fail(op string) error {
	if s.failOn == op {
		return errForced
	}
	return nil
}

func (s *memStore) snapshot() *memStore {
	return &memStore{
		employees: maps.Clone(s.employees),
		products:  maps.Clone(s.products),
		stockMovs: slices.Clone(s.stockMovs),
		customers: maps.Clone(s.customers),
		accMovs:   slices.Clone(s.accMovs),
		sales:     maps.Clone(s.sales),
		registers: maps.Clone(s.registers),
		cashMovs:  slices.Clone(s.cashMovs),
		counts:    maps.Clone(s.counts),
		invoices:  maps.Clone(s.invoices),
		audit:     slices.Clone(s.audit),
	}
}

func (s *memStore) restore(snap *memStore) {
	s.employees, s.products, s.stockMovs = snap.employees, snap.products, snap.stockMovs
	s.customers, s.accMovs, s.sales = snap.customers, snap.accMovs, snap.sales
	s.registers, s.cashMovs, s.counts = snap.registers, snap.cashMovs, snap.counts
	s.invoices, s.audit = snap.invoices, snap.audit
}

func (s *memStore) repos() repository.Repos {
	return repository.Repos{
		Employees:        employeeRepo{s},
		Products:         productRepo{s},
		StockMovements:   stockMovementRepo{s},
		Customers:        customerRepo{s},
		AccountMovements: accountMovementRepo{s},
		Sales:            saleRepo{s},
		CashRegisters:    cashRegisterRepo{s},
		CashMovements:    cashMovementRepo{s},
		CashCounts:       cashCountRepo{s},
		Invoices:         invoiceRepo{s},
		Audit:            auditRepo{s},
	}
}

// fakeTx deshace los cambios si fn devuelve error.
type fakeTx struct{ s *memStore }

func (t fakeTx) Run(_ context.Context, fn func(r repository.Repos) error) error {
	snap := t.s.snapshot()
	if err := fn(t.s.repos()); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

// ─── Empleados ───────────────────────────────────────────────────────────────

type employeeRepo struct{ s *memStore }

func (r employeeRepo) Create(_ context.Context, e *entity.Employee) error {
	r.s.employees[e.ID] = *e
	return nil
}

func (r employeeRepo) GetByID(_ context.Context, id string) (*entity.Employee, error) {
	if e, ok := r.s.employees[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (r employeeRepo) GetByEmail(_ context.Context, email string) (*entity.Employee, error) {
	for _, e := range r.s.employees {
		if strings.EqualFold(e.Email, email) {
			return &e, nil
		}
	}
	return nil, nil
}

func (r employeeRepo) Update(_ context.Context, e *entity.Employee) error {
	r.s.employees[e.ID] = *e
	return nil
}

func (r employeeRepo) UpdatePermissions(_ context.Context, id string, modules []entity.Module) error {
	e := r.s.employees[id]
	e.ModulePermissions = slices.Clone(modules)
	r.s.employees[id] = e
	return nil
}

func (r employeeRepo) UpdatePassword(_ context.Context, id, hash string) error {
	e := r.s.employees[id]
	e.PasswordHash = hash
	r.s.employees[id] = e
	return nil
}

func (r employeeRepo) List(_ context.Context, f repository.EmployeeFilter) ([]*entity.Employee, error) {
	var out []*entity.Employee
	for _, e := range r.s.employees {
		e := e
		if f.Active != nil && e.Active != *f.Active {
			continue
		}
		if f.Role != "" && e.Role != f.Role {
			continue
		}
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ─── Productos ───────────────────────────────────────────────────────────────

type productRepo struct{ s *memStore }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.products[p.ID] = *p
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := r.s.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r productRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	cur := r.s.products[p.ID]
	next := *p
	next.Stock, next.Cost = cur.Stock, cur.Cost
	r.s.products[p.ID] = next
	return nil
}

func (r productRepo) UpdateStock(_ context.Context, id string, stock int) error {
	p := r.s.products[id]
	p.Stock = stock
	r.s.products[id] = p
	return nil
}

func (r productRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	p := r.s.products[id]
	p.Cost = cost
	r.s.products[id] = p
	return nil
}

func (r productRepo) SetActive(_ context.Context, id string, active bool) error {
	p := r.s.products[id]
	p.Active = active
	r.s.products[id] = p
	return nil
}

func (r productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		p := p
		if f.Active != nil && p.Active != *f.Active {
			continue
		}
		if f.LowStock && !p.LowStock() {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.SKU), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

type stockMovementRepo struct{ s *memStore }

func (r stockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.stockMovs = append(r.s.stockMovs, *m)
	return nil
}

func (r stockMovementRepo) ListByProduct(_ context.Context, productID string, limit int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := len(r.s.stockMovs) - 1; i >= 0 && len(out) < limit; i-- {
		if m := r.s.stockMovs[i]; m.ProductID == productID {
			out = append(out, &m)
		}
	}
	return out, nil
}

// ─── Clientes ────────────────────────────────────────────────────────────────

type customerRepo struct{ s *memStore }

func (r customerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.s.customers[c.ID] = *c
	return nil
}

func (r customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	if c, ok := r.s.customers[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r customerRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.GetByID(ctx, id)
}

func (r customerRepo) GetByEmail(_ context.Context, email string) (*entity.Customer, error) {
	for _, c := range r.s.customers {
		if c.Email != "" && c.Email == email {
			return &c, nil
		}
	}
	return nil, nil
}

func (r customerRepo) Update(_ context.Context, c *entity.Customer) error {
	next := *c
	next.Balance = r.s.customers[c.ID].Balance
	r.s.customers[c.ID] = next
	return nil
}

func (r customerRepo) UpdateBalance(_ context.Context, id string, balance decimal.Decimal) error {
	c := r.s.customers[id]
	c.Balance = balance
	r.s.customers[id] = c
	return nil
}

func (r customerRepo) SetActive(_ context.Context, id string, active bool) error {
	c := r.s.customers[id]
	c.Active = active
	r.s.customers[id] = c
	return nil
}

func (r customerRepo) List(_ context.Context, f repository.CustomerFilter) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.s.customers {
		c := c
		if f.Active != nil && c.Active != *f.Active {
			continue
		}
		if f.WithDebt && !c.Balance.IsPositive() {
			continue
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type accountMovementRepo struct{ s *memStore }

func (r accountMovementRepo) Create(_ context.Context, m *entity.AccountMovement) error {
	r.s.accMovs = append(r.s.accMovs, *m)
	return nil
}

func (r accountMovementRepo) ListByCustomer(_ context.Context, customerID string) ([]*entity.AccountMovement, error) {
	var out []*entity.AccountMovement
	for _, m := range r.s.accMovs {
		m := m
		if m.CustomerID == customerID {
			out = append(out, &m)
		}
	}
	return out, nil
}

// ─── Ventas ──────────────────────────────────────────────────────────────────

type saleRepo struct{ s *memStore }

func (r saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	if err := r.s.fail("sale.create"); err != nil {
		return err
	}
	cp := *sale
	cp.Items = slices.Clone(sale.Items)
	r.s.sales[sale.ID] = cp
	return nil
}

func (r saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	if sale, ok := r.s.sales[id]; ok {
		sale.Items = slices.Clone(sale.Items)
		return &sale, nil
	}
	return nil, nil
}

func (r saleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r saleRepo) UpdateStatus(_ context.Context, id, status, reason string) error {
	sale := r.s.sales[id]
	sale.Status, sale.VoidReason = status, reason
	r.s.sales[id] = sale
	return nil
}

func (r saleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range r.s.sales {
		sale := sale
		if f.From != nil && sale.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && !sale.Date.Before(*f.To) {
			continue
		}
		if f.Status != "" && sale.Status != f.Status {
			continue
		}
		if f.PaymentMethod != "" && sale.PaymentMethod != f.PaymentMethod {
			continue
		}
		out = append(out, &sale)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// ─── Caja ────────────────────────────────────────────────────────────────────

type cashRegisterRepo struct{ s *memStore }

func (r cashRegisterRepo) Create(_ context.Context, c *entity.CashRegister) error {
	r.s.registers[c.ID] = *c
	return nil
}

func (r cashRegisterRepo) GetByID(_ context.Context, id string) (*entity.CashRegister, error) {
	if c, ok := r.s.registers[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r cashRegisterRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.CashRegister, error) {
	return r.GetByID(ctx, id)
}

func (r cashRegisterRepo) GetOpenByDate(ctx context.Context, date time.Time) (*entity.CashRegister, error) {
	open, _ := r.ListOpenByDate(ctx, date)
	if len(open) == 0 {
		return nil, nil
	}
	return open[0], nil
}

func (r cashRegisterRepo) Update(_ context.Context, c *entity.CashRegister) error {
	r.s.registers[c.ID] = *c
	return nil
}

func (r cashRegisterRepo) List(_ context.Context, from, to time.Time) ([]*entity.CashRegister, error) {
	var out []*entity.CashRegister
	for _, c := range r.s.registers {
		c := c
		if c.Date.Before(from) || c.Date.After(to) {
			continue
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r cashRegisterRepo) ListOpenByDate(_ context.Context, date time.Time) ([]*entity.CashRegister, error) {
	var out []*entity.CashRegister
	for _, c := range r.s.registers {
		c := c
		if c.IsOpen() && c.Date.Equal(date) {
			out = append(out, &c)
		}
	}
	return out, nil
}

type cashMovementRepo struct{ s *memStore }

func (r cashMovementRepo) Create(_ context.Context, m *entity.CashMovement) error {
	if err := r.s.fail("cash.create"); err != nil {
		return err
	}
	r.s.cashMovs = append(r.s.cashMovs, *m)
	return nil
}

func (r cashMovementRepo) ListByRegister(_ context.Context, id string) ([]entity.CashMovement, error) {
	out := []entity.CashMovement{}
	for _, m := range r.s.cashMovs {
		if m.CashRegisterID == id {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r cashMovementRepo) ListByRange(_ context.Context, from, to time.Time) ([]entity.CashMovement, error) {
	out := []entity.CashMovement{}
	for _, m := range r.s.cashMovs {
		if !m.Date.Before(from) && m.Date.Before(to) {
			out = append(out, m)
		}
	}
	return out, nil
}

type cashCountRepo struct{ s *memStore }

func (r cashCountRepo) Create(_ context.Context, c *entity.CashCount) error {
	cp := *c
	cp.Lines = slices.Clone(c.Lines)
	r.s.counts[c.CashRegisterID] = cp
	return nil
}

func (r cashCountRepo) GetByRegister(_ context.Context, id string) (*entity.CashCount, error) {
	if c, ok := r.s.counts[id]; ok {
		return &c, nil
	}
	return nil, nil
}

// ─── Facturas y auditoría ────────────────────────────────────────────────────

type invoiceRepo struct{ s *memStore }

func (r invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	if inv, ok := r.s.invoices[id]; ok {
		return &inv, nil
	}
	return nil, nil
}

func (r invoiceRepo) GetBySaleID(_ context.Context, saleID string) (*entity.Invoice, error) {
	for _, inv := range r.s.invoices {
		if inv.SaleID == saleID {
			return &inv, nil
		}
	}
	return nil, nil
}

func (r invoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r invoiceRepo) List(_ context.Context, _ repository.InvoiceFilter) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.s.invoices {
		inv := inv
		out = append(out, &inv)
	}
	return out, nil
}

func (r invoiceRepo) LastNumber(_ context.Context, pointOfSale, voucherType int) (int64, error) {
	var last int64
	for _, inv := range r.s.invoices {
		if inv.PointOfSale == pointOfSale && inv.VoucherType == voucherType && inv.HasCAE() && inv.Number > last {
			last = inv.Number
		}
	}
	return last, nil
}

type auditRepo struct{ s *memStore }

func (r auditRepo) Create(_ context.Context, l *entity.AuditLog) error {
	if err := r.s.fail("audit.create"); err != nil {
		return err
	}
	r.s.audit = append(r.s.audit, *l)
	return nil
}

func (r auditRepo) List(_ context.Context, f repository.AuditFilter) ([]*entity.AuditLog, error) {
	var out []*entity.AuditLog
	for i := len(r.s.audit) - 1; i >= 0; i-- {
		l := r.s.audit[i]
		if f.Entity != "" && l.Entity != f.Entity {
			continue
		}
		if f.EntityID != "" && l.EntityID != f.EntityID {
			continue
		}
		out = append(out, &l)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

// ─── Eventos y métricas ──────────────────────────────────────────────────────

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e ports.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type countingMetrics struct {
	ports.NopMetrics
	sales    int
	voided   int
	payments int
}

func (m *countingMetrics) SaleRegistered(string, decimal.Decimal) { m.sales++ }
func (m *countingMetrics) SaleVoided()                            { m.voided++ }
func (m *countingMetrics) CustomerPayment(decimal.Decimal)        { m.payments++ }

// ─── Fixture ─────────────────────────────────────────────────────────────────

var testLoc = func() *time.Location {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		return time.FixedZone("ART", -3*60*60)
	}
	return loc
}()

// fixedClock 15/03/2025 10:30 hora local.
func fixedClock() Clock {
	now := time.Date(2025, 3, 15, 10, 30, 0, 0, testLoc)
	return Clock{Location: testLoc, Now: func() time.Time { return now }}
}

type fixture struct {
	store   *memStore
	repos   repository.Repos
	tx      fakeTx
	pub     *recordingPublisher
	metrics *countingMetrics
	clock   Clock
	log     *logger.Logger
}

func newFixture() *fixture {
	s := newMemStore()
	return &fixture{
		store:   s,
		repos:   s.repos(),
		tx:      fakeTx{s},
		pub:     &recordingPublisher{},
		metrics: &countingMetrics{},
		clock:   fixedClock(),
		log:     logger.Nop(),
	}
}

func (f *fixture) sales() *SaleUseCase {
	return NewSaleUseCase(f.repos.Sales, f.tx, f.pub, f.metrics, f.clock, f.log)
}

func (f *fixture) cash() *CashUseCase {
	return NewCashUseCase(f.repos.CashRegisters, f.repos.CashMovements, f.repos.CashCounts, f.tx, f.pub, f.metrics, f.clock, f.log)
}

func (f *fixture) customers() *CustomerUseCase {
	return NewCustomerUseCase(f.repos.Customers, f.repos.AccountMovements, f.tx, f.repos.Audit, f.pub, f.metrics, f.clock, f.log)
}

func (f *fixture) products() *ProductUseCase {
	return NewProductUseCase(f.repos.Products, f.repos.StockMovements, f.tx, f.repos.Audit, f.pub, f.log)
}

func (f *fixture) employees() *EmployeeUseCase {
	return NewEmployeeUseCase(f.repos.Employees, f.repos.Audit, f.log)
}

func (f *fixture) addProduct(id, sku string, stock, minStock int, retail, wholesale string) {
	f.store.products[id] = entity.Product{
		ID:             id,
		Name:           "Producto " + sku,
		SKU:            sku,
		RetailPrice:    decimal.RequireFromString(retail),
		WholesalePrice: decimal.RequireFromString(wholesale),
		Cost:           decimal.RequireFromString(wholesale).Div(decimal.NewFromInt(2)),
		Stock:          stock,
		MinStock:       minStock,
		UnitMeasure:    "unidad",
		Active:         true,
	}
}

func (f *fixture) addCustomer(id, limit, balance string) {
	f.store.customers[id] = entity.Customer{
		ID:           id,
		Name:         "Cliente " + id,
		IVACondition: entity.IVAConsumidorFinal,
		CreditLimit:  decimal.RequireFromString(limit),
		Balance:      decimal.RequireFromString(balance),
		Active:       true,
	}
}

// openRegister abre la caja de hoy directamente en el store.
func (f *fixture) openRegister(id, opening string) {
	f.store.registers[id] = entity.CashRegister{
		ID:             id,
		Date:           f.clock.Today(),
		EmployeeID:     "emp-1",
		Status:         entity.CashRegisterOpen,
		OpeningBalance: decimal.RequireFromString(opening),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }
