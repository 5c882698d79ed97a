package afip

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// VATRate alícuota general (21%).
var VATRate = decimal.NewFromFloat(0.21)

// Amounts importes de un comprobante.
type Amounts struct {
	Net   decimal.Decimal
	VAT   decimal.Decimal
	Total decimal.Decimal
}

// SplitAmounts separa neto e IVA de un total con IVA incluido.
// A y B discriminan 21%; C informa neto = total y sin IVA.
func SplitAmounts(cbteTipo int, total decimal.Decimal) Amounts {
	total = total.Round(2)
	if !DiscriminaIVA(cbteTipo) {
		return Amounts{Net: total, VAT: decimal.Zero, Total: total}
	}
	net := total.Div(decimal.NewFromInt(1).Add(VATRate)).Round(2)
	return Amounts{Net: net, VAT: total.Sub(net), Total: total}
}

// SimulatedCAE genera un CAE de 14 dígitos determinístico para el modo sin certificado.
// El vencimiento es a 10 días de la fecha del comprobante.
func SimulatedCAE(cuit string, ptoVta, cbteTipo int, nro int64, fecha time.Time) (string, time.Time) {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d|%d|%s", NormalizeCUIT(cuit), ptoVta, cbteTipo, nro, fecha.Format("20060102"))))
	n := binary.BigEndian.Uint64(sum[:8]) % 1e13
	// primer dígito fijo en 7 como los CAE reales
	return fmt.Sprintf("7%013d", n), fecha.AddDate(0, 0, 10)
}

// LetterForCustomer decide la letra del comprobante según la condición de IVA del emisor y del receptor.
// Un emisor monotributista siempre emite C; un responsable inscripto emite A a otro inscripto y B al resto.
func LetterForCustomer(emisorCondicion, receptorCondicion string) string {
	if emisorCondicion != "Responsable Inscripto" {
		return "C"
	}
	if receptorCondicion == "Responsable Inscripto" {
		return "A"
	}
	return "B"
}

// FormatDate formato yyyymmdd usado por WSFEv1.
func FormatDate(t time.Time) string { return t.Format("20060102") }

// ParseDate interpreta una fecha yyyymmdd de WSFEv1.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("20060102", s)
}
