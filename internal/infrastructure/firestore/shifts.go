// Package firestore lee los turnos de caja del sistema anterior (Firebase) para importarlos.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
)

// EmployeeShift documento de turno tal como lo guardaba la app anterior.
type EmployeeShift struct {
	StartCash   float64     `firestore:"start_cash"`
	EndCash     *float64    `firestore:"end_cash"`
	StartTime   time.Time   `firestore:"start_time"`
	CashEntries []CashEntry `firestore:"cash_entries"`
}

// CashEntry movimiento dentro de un turno.
type CashEntry struct {
	Description string  `firestore:"description"`
	Value       float64 `firestore:"value"`
	Expense     bool    `firestore:"expense"`
}

// ShiftReader cliente de sólo lectura sobre la colección de turnos.
type ShiftReader struct {
	client *firestore.Client
}

// NewShiftReader abre el cliente. credentialsFile vacío usa las credenciales por defecto del entorno.
func NewShiftReader(ctx context.Context, projectID, credentialsFile string) (*ShiftReader, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore: crear cliente: %w", err)
	}
	return &ShiftReader{client: client}, nil
}

// Close libera el cliente.
func (r *ShiftReader) Close() error { return r.client.Close() }

// Each recorre los turnos ordenados por inicio y llama fn con cada uno ya convertido.
// Un documento que no se puede decodificar corta la iteración.
func (r *ShiftReader) Each(ctx context.Context, collection string, fn func(dto.LegacyShift) error) error {
	it := r.client.Collection(collection).OrderBy("start_time", firestore.Asc).Documents(ctx)
	defer it.Stop()
	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("firestore: leer %s: %w", collection, err)
		}
		var s EmployeeShift
		if err := doc.DataTo(&s); err != nil {
			return fmt.Errorf("firestore: decodificar %s/%s: %w", collection, doc.Ref.ID, err)
		}
		if err := fn(ToLegacyShift(doc.Ref.ID, s)); err != nil {
			return err
		}
	}
}

// ToLegacyShift convierte el documento a montos decimales redondeados a centavos.
func ToLegacyShift(id string, s EmployeeShift) dto.LegacyShift {
	out := dto.LegacyShift{
		SourceID:       id,
		StartedAt:      s.StartTime,
		OpeningBalance: money(s.StartCash),
		Entries:        make([]dto.LegacyCashEntry, 0, len(s.CashEntries)),
	}
	if s.EndCash != nil {
		end := money(*s.EndCash)
		out.ClosingBalance = &end
	}
	for _, e := range s.CashEntries {
		out.Entries = append(out.Entries, dto.LegacyCashEntry{
			Concept: e.Description,
			Amount:  money(e.Value).Abs(),
			Expense: e.Expense || e.Value < 0,
		})
	}
	return out
}

func money(f float64) decimal.Decimal { return decimal.NewFromFloat(f).Round(2) }
