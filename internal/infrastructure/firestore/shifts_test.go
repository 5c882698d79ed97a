package firestore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToLegacyShift(t *testing.T) {
	end := 15250.499
	start := time.Date(2023, 11, 3, 8, 30, 0, 0, time.UTC)
	got := ToLegacyShift("turno-1", EmployeeShift{
		StartCash: 10000,
		EndCash:   &end,
		StartTime: start,
		CashEntries: []CashEntry{
			{Description: "venta mostrador", Value: 6000},
			{Description: "flete", Value: 750.5, Expense: true},
			{Description: "vuelto", Value: -100},
		},
	})

	assert.Equal(t, "turno-1", got.SourceID)
	assert.True(t, got.StartedAt.Equal(start))
	assert.Equal(t, "10000.00", got.OpeningBalance.StringFixed(2))
	require.NotNil(t, got.ClosingBalance)
	assert.Equal(t, "15250.50", got.ClosingBalance.StringFixed(2))

	require.Len(t, got.Entries, 3)
	assert.False(t, got.Entries[0].Expense)
	assert.True(t, got.Entries[1].Expense)
	assert.Equal(t, "750.50", got.Entries[1].Amount.StringFixed(2))
	assert.True(t, got.Entries[2].Expense, "monto negativo se toma como egreso")
	assert.Equal(t, "100.00", got.Entries[2].Amount.StringFixed(2))
}

func TestToLegacyShift_SinCierre(t *testing.T) {
	got := ToLegacyShift("turno-2", EmployeeShift{StartCash: 500, StartTime: time.Now()})
	assert.Nil(t, got.ClosingBalance)
	assert.Empty(t, got.Entries)
}
