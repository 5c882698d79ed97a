package afip

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// QRBaseURL es el prefijo oficial del código QR de comprobantes (RG 4892).
const QRBaseURL = "https://www.afip.gob.ar/fe/qr/?p="

// QRData datos que se codifican en el QR del comprobante.
type QRData struct {
	Fecha      time.Time
	CUIT       string
	PtoVta     int
	TipoCmp    int
	NroCmp     int64
	Importe    decimal.Decimal
	TipoDocRec int
	NroDocRec  int64
	CAE        string
}

type qrPayload struct {
	Ver        int         `json:"ver"`
	Fecha      string      `json:"fecha"`
	Cuit       int64       `json:"cuit"`
	PtoVta     int         `json:"ptoVta"`
	TipoCmp    int         `json:"tipoCmp"`
	NroCmp     int64       `json:"nroCmp"`
	Importe    json.Number `json:"importe"`
	Moneda     string      `json:"moneda"`
	Ctz        int         `json:"ctz"`
	TipoDocRec int         `json:"tipoDocRec,omitempty"`
	NroDocRec  int64       `json:"nroDocRec,omitempty"`
	TipoCodAut string      `json:"tipoCodAut"`
	CodAut     json.Number `json:"codAut"`
}

// BuildQRURL arma la URL del QR: prefijo + base64(JSON).
func BuildQRURL(d QRData) (string, error) {
	cuit, err := CUITAsInt(d.CUIT)
	if err != nil {
		return "", err
	}
	if d.CAE == "" {
		return "", fmt.Errorf("afip: QR requiere CAE")
	}
	p := qrPayload{
		Ver:        1,
		Fecha:      d.Fecha.Format("2006-01-02"),
		Cuit:       cuit,
		PtoVta:     d.PtoVta,
		TipoCmp:    d.TipoCmp,
		NroCmp:     d.NroCmp,
		Importe:    json.Number(d.Importe.Round(2).StringFixed(2)),
		Moneda:     MonedaPesos,
		Ctz:        1,
		TipoDocRec: d.TipoDocRec,
		NroDocRec:  d.NroDocRec,
		TipoCodAut: "E",
		CodAut:     json.Number(string(extractDigits(d.CAE))),
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("afip: serializar QR: %w", err)
	}
	return QRBaseURL + base64.StdEncoding.EncodeToString(raw), nil
}
