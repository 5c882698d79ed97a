package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de autorización AFIP.
const (
	AFIPStatusPending   = "pendiente"
	AFIPStatusApproved  = "aprobada"
	AFIPStatusRejected  = "rechazada"
	AFIPStatusSimulated = "simulada" // sin certificado: CAE generado localmente
)

// Invoice comprobante electrónico emitido para una venta.
type Invoice struct {
	ID            string
	SaleID        string
	CustomerID    *string
	VoucherType   int // 1=A, 6=B, 11=C
	PointOfSale   int
	Number        int64
	IssuerCUIT    string
	DocType       int // 80=CUIT, 96=DNI, 99=Consumidor final
	DocNumber     int64
	NetAmount     decimal.Decimal
	VATAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	CAE           string
	CAEExpiration *time.Time
	AFIPStatus    string
	Observations  string
	QRURL         string
	Date          time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasCAE indica si el comprobante quedó autorizado (real o simulado).
func (i *Invoice) HasCAE() bool {
	return i.CAE != "" && (i.AFIPStatus == AFIPStatusApproved || i.AFIPStatus == AFIPStatusSimulated)
}
