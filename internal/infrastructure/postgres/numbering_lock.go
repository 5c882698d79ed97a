package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/billing"
)

var _ billing.NumberingLock = (*AdvisoryNumberingLock)(nil)

// AdvisoryNumberingLock serializa la numeración AFIP entre instancias con pg_advisory_lock(pto_vta, tipo).
// El lock es de sesión: la conexión queda reservada hasta el unlock.
type AdvisoryNumberingLock struct {
	pool *pgxpool.Pool
}

// NewAdvisoryNumberingLock construye el adaptador.
func NewAdvisoryNumberingLock(pool *pgxpool.Pool) *AdvisoryNumberingLock {
	return &AdvisoryNumberingLock{pool: pool}
}

// Lock toma el advisory lock del par punto de venta / tipo de comprobante.
func (l *AdvisoryNumberingLock) Lock(ctx context.Context, pointOfSale, voucherType int) (func(), error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire: %w", err)
	}
	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1::int4, $2::int4)", pointOfSale, voucherType); err != nil {
		conn.Release()
		return nil, fmt.Errorf("pg_advisory_lock: %w", err)
	}
	return func() {
		uctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := conn.Exec(uctx, "SELECT pg_advisory_unlock($1::int4, $2::int4)", pointOfSale, voucherType); err != nil {
			// una sesión cerrada libera sus advisory locks
			_ = conn.Conn().Close(uctx)
		}
		conn.Release()
	}, nil
}
