package billing

import (
	"context"
	"sync"
)

// NumberingLock serializa la numeración de un punto de venta y tipo de comprobante entre
// FECompUltimoAutorizado y la persistencia del comprobante emitido.
type NumberingLock interface {
	Lock(ctx context.Context, pointOfSale, voucherType int) (unlock func(), err error)
}

type numberingKey struct {
	pointOfSale int
	voucherType int
}

// LocalNumberingLock un mutex por par punto de venta / tipo. Alcanza con una sola instancia.
type LocalNumberingLock struct {
	mu    sync.Mutex
	locks map[numberingKey]chan struct{}
}

// NewLocalNumberingLock construye el lock en proceso.
func NewLocalNumberingLock() *LocalNumberingLock {
	return &LocalNumberingLock{locks: make(map[numberingKey]chan struct{})}
}

// Lock espera el turno del par o la cancelación del contexto.
func (l *LocalNumberingLock) Lock(ctx context.Context, pointOfSale, voucherType int) (func(), error) {
	key := numberingKey{pointOfSale, voucherType}
	l.mu.Lock()
	ch, ok := l.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[key] = ch
	}
	l.mu.Unlock()

	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	var once sync.Once
	return func() { once.Do(func() { <-ch }) }, nil
}
