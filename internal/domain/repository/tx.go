package repository

import "context"

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Employees        EmployeeRepository
	Products         ProductRepository
	StockMovements   StockMovementRepository
	Customers        CustomerRepository
	AccountMovements AccountMovementRepository
	Sales            SaleRepository
	CashRegisters    CashRegisterRepository
	CashMovements    CashMovementRepository
	CashCounts       CashCountRepository
	Invoices         InvoiceRepository
	Audit            AuditRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
