// Package billing emite comprobantes electrónicos AFIP para las ventas y genera su PDF.
package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/ports"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/usecase"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/entity"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/afip"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/logger"
)

// InvoiceUseCase emisión de facturas A, B y C contra WSFEv1.
//
// Flujo síncrono: venta completada → letra y documento → importes → último autorizado + 1
// → FECAESolicitar → persistencia con CAE y QR. Sin certificado el cliente es el simulador
// y el estado queda en "simulada".
type InvoiceUseCase struct {
	invoices  repository.InvoiceRepository
	sales     repository.SaleRepository
	customers repository.CustomerRepository
	client    AFIPClient
	issuer    Issuer
	pub       ports.EventPublisher
	metrics   ports.Metrics
	numbering NumberingLock
	clock     usecase.Clock
	log       *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	invoices repository.InvoiceRepository,
	sales repository.SaleRepository,
	customers repository.CustomerRepository,
	client AFIPClient,
	issuer Issuer,
	pub ports.EventPublisher,
	metrics ports.Metrics,
	clock usecase.Clock,
	log *logger.Logger,
) *InvoiceUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &InvoiceUseCase{
		invoices:  invoices,
		sales:     sales,
		customers: customers,
		client:    client,
		issuer:    issuer,
		pub:       pub,
		metrics:   metrics,
		numbering: NewLocalNumberingLock(),
		clock:     clock,
		log:       log.Component("facturacion"),
	}
}

// WithNumberingLock reemplaza el lock de numeración en proceso (p. ej. advisory lock de PostgreSQL
// cuando hay más de una instancia emitiendo).
func (uc *InvoiceUseCase) WithNumberingLock(l NumberingLock) *InvoiceUseCase {
	if l != nil {
		uc.numbering = l
	}
	return uc
}

// Emit emite la factura de una venta. Un rechazo de AFIP queda persistido y devuelve ErrAFIPRejected.
func (uc *InvoiceUseCase) Emit(ctx context.Context, actorID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	// ── 1. Venta facturable ──
	sale, err := uc.sales.GetByID(ctx, in.SaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, in.SaleID)
	}
	if sale.Status != entity.SaleCompleted {
		return nil, fmt.Errorf("%w: la venta está %s", domain.ErrConflict, sale.Status)
	}
	existing, err := uc.invoices.GetBySaleID(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.AFIPStatus != entity.AFIPStatusRejected && existing.AFIPStatus != entity.AFIPStatusPending {
		return nil, fmt.Errorf("%w: la venta ya tiene factura %s", domain.ErrDuplicate, FullNumber(existing))
	}

	var customer *entity.Customer
	if sale.CustomerID != nil {
		if customer, err = uc.customers.GetByID(ctx, *sale.CustomerID); err != nil {
			return nil, err
		}
	}

	// ── 2. Letra y documento del receptor ──
	letter, err := uc.letter(in.VoucherType, customer)
	if err != nil {
		return nil, err
	}
	cbte := afip.CbteByLetter[letter]
	docType, docNumber, err := resolveDoc(in, customer, letter)
	if err != nil {
		return nil, err
	}

	// ── 3. Importes y numeración ──
	// El número se toma y se confirma con el lock del par punto de venta / tipo tomado.
	amounts := afip.SplitAmounts(cbte, sale.Total)
	unlock, err := uc.numbering.Lock(ctx, uc.issuer.PointOfSale, cbte)
	if err != nil {
		return nil, fmt.Errorf("lock de numeración: %w", err)
	}
	defer unlock()
	last, err := uc.client.LastAuthorized(ctx, uc.issuer.PointOfSale, cbte)
	if err != nil {
		return nil, fmt.Errorf("afip: último comprobante autorizado: %w", err)
	}
	now := uc.clock.Current()
	inv := existing
	if inv == nil {
		inv = &entity.Invoice{ID: newID(), SaleID: sale.ID, CreatedAt: now}
	}
	inv.CustomerID = sale.CustomerID
	inv.VoucherType = cbte
	inv.PointOfSale = uc.issuer.PointOfSale
	inv.Number = last + 1
	inv.IssuerCUIT = afip.NormalizeCUIT(uc.issuer.CUIT)
	inv.DocType = docType
	inv.DocNumber = docNumber
	inv.NetAmount = amounts.Net
	inv.VATAmount = amounts.VAT
	inv.TotalAmount = amounts.Total
	inv.CAE = ""
	inv.CAEExpiration = nil
	inv.QRURL = ""
	inv.Date = now
	inv.UpdatedAt = now

	// ── 4. FECAESolicitar ──
	res, reqErr := uc.client.RequestCAE(ctx, CAERequest{
		PointOfSale: inv.PointOfSale,
		VoucherType: cbte,
		Number:      inv.Number,
		Concept:     afip.ConceptoProductos,
		DocType:     docType,
		DocNumber:   docNumber,
		Date:        now,
		Net:         amounts.Net,
		VAT:         amounts.VAT,
		Total:       amounts.Total,
	})
	switch {
	case reqErr != nil:
		inv.AFIPStatus = entity.AFIPStatusPending
		inv.Observations = reqErr.Error()
	case res.Result == afip.ResultadoAprobado:
		inv.AFIPStatus = lo.Ternary(res.Simulated, entity.AFIPStatusSimulated, entity.AFIPStatusApproved)
		inv.CAE = res.CAE
		exp := res.CAEExpiration
		inv.CAEExpiration = &exp
		inv.Observations = strings.Join(res.Observations, "; ")
	default:
		inv.AFIPStatus = entity.AFIPStatusRejected
		inv.Observations = strings.Join(res.Observations, "; ")
	}
	if inv.CAE != "" {
		qr, err := afip.BuildQRURL(afip.QRData{
			Fecha:      inv.Date,
			CUIT:       inv.IssuerCUIT,
			PtoVta:     inv.PointOfSale,
			TipoCmp:    inv.VoucherType,
			NroCmp:     inv.Number,
			Importe:    inv.TotalAmount,
			TipoDocRec: inv.DocType,
			NroDocRec:  inv.DocNumber,
			CAE:        inv.CAE,
		})
		if err != nil {
			uc.log.Warn().Err(err).Str("factura_id", inv.ID).Msg("no se pudo generar el QR")
		}
		inv.QRURL = qr
	}

	// ── 5. Persistencia ──
	if existing != nil {
		err = uc.invoices.Update(ctx, inv)
	} else {
		err = uc.invoices.Create(ctx, inv)
	}
	if err != nil {
		return nil, err
	}
	uc.metrics.InvoiceIssued(inv.AFIPStatus)
	if reqErr != nil {
		uc.log.Error().Err(reqErr).Str("factura_id", inv.ID).Msg("FECAESolicitar falló")
		return nil, fmt.Errorf("afip: solicitar CAE: %w", reqErr)
	}
	if inv.AFIPStatus == entity.AFIPStatusRejected {
		uc.log.Warn().Str("factura_id", inv.ID).Str("venta_id", sale.ID).Str("observaciones", inv.Observations).Msg("factura rechazada")
		return nil, fmt.Errorf("%w: %s", domain.ErrAFIPRejected, inv.Observations)
	}
	uc.log.Info().Str("factura_id", inv.ID).Str("venta_id", sale.ID).Str("numero", FullNumber(inv)).
		Str("estado", inv.AFIPStatus).Str("empleado_id", actorID).Msg("factura emitida")
	out := ToInvoiceResponse(inv)
	publish(ctx, uc.pub, uc.log, out)
	return &out, nil
}

// letter resuelve la letra pedida o la que corresponde por condición de IVA.
func (uc *InvoiceUseCase) letter(requested string, customer *entity.Customer) (string, error) {
	receptor := entity.IVAConsumidorFinal
	if customer != nil && customer.IVACondition != "" {
		receptor = customer.IVACondition
	}
	def := afip.LetterForCustomer(uc.issuer.IVACondition, receptor)
	if requested == "" {
		return def, nil
	}
	if _, ok := afip.CbteByLetter[requested]; !ok {
		return "", fmt.Errorf("%w: tipo de comprobante %q", domain.ErrInvalidInput, requested)
	}
	if def == "C" && requested != "C" {
		return "", fmt.Errorf("%w: un emisor %s solo emite facturas C", domain.ErrInvalidInput, uc.issuer.IVACondition)
	}
	if def != "C" && requested == "C" {
		return "", fmt.Errorf("%w: un responsable inscripto no emite facturas C", domain.ErrInvalidInput)
	}
	return requested, nil
}

// resolveDoc documento del receptor: el informado, el del cliente o consumidor final.
// La factura A exige CUIT válido.
func resolveDoc(in dto.CreateInvoiceRequest, customer *entity.Customer, letter string) (int, int64, error) {
	docType, raw := in.DocType, in.DocNumber
	if docType == 0 && customer != nil && customer.TaxID != "" {
		raw = customer.TaxID
		docType = lo.Ternary(len(afip.NormalizeCUIT(raw)) == 11, afip.DocCUIT, afip.DocDNI)
	}
	if docType == 0 {
		docType = afip.DocConsumidorFinal
	}
	if letter == "A" && docType != afip.DocCUIT {
		return 0, 0, fmt.Errorf("%w: la factura A requiere CUIT del receptor", domain.ErrInvalidInput)
	}
	switch docType {
	case afip.DocConsumidorFinal:
		return docType, 0, nil
	case afip.DocCUIT, afip.DocCUIL:
		if err := afip.ValidateCUIT(raw); err != nil {
			return 0, 0, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	case afip.DocDNI:
		if n := len(afip.NormalizeCUIT(raw)); n < 7 || n > 8 {
			return 0, 0, fmt.Errorf("%w: DNI inválido", domain.ErrInvalidInput)
		}
	default:
		return 0, 0, fmt.Errorf("%w: tipo de documento %d", domain.ErrInvalidInput, docType)
	}
	n, err := strconv.ParseInt(afip.NormalizeCUIT(raw), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: número de documento %q", domain.ErrInvalidInput, raw)
	}
	return docType, n, nil
}

// Get devuelve una factura.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	out := ToInvoiceResponse(inv)
	return &out, nil
}

// List lista facturas por fecha y estado.
func (uc *InvoiceUseCase) List(ctx context.Context, in dto.InvoiceFilterRequest) ([]dto.InvoiceResponse, error) {
	in.DefaultPage()
	f := repository.InvoiceFilter{Status: in.Status, Limit: in.Limit, Offset: in.Offset}
	if in.From != "" || in.To != "" {
		from, to, err := uc.clock.Range(in.From, in.To)
		if err != nil {
			return nil, err
		}
		f.From, f.To = &from, &to
	}
	list, err := uc.invoices.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(inv *entity.Invoice, _ int) dto.InvoiceResponse { return ToInvoiceResponse(inv) }), nil
}

// FullNumber formato impreso PPPP-NNNNNNNN.
func FullNumber(inv *entity.Invoice) string {
	return fmt.Sprintf("%04d-%08d", inv.PointOfSale, inv.Number)
}

// ToInvoiceResponse mapea la factura.
func ToInvoiceResponse(inv *entity.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:            inv.ID,
		SaleID:        inv.SaleID,
		CustomerID:    inv.CustomerID,
		VoucherType:   inv.VoucherType,
		VoucherLetter: afip.LetterByCbte[inv.VoucherType],
		PointOfSale:   inv.PointOfSale,
		Number:        inv.Number,
		FullNumber:    FullNumber(inv),
		IssuerCUIT:    inv.IssuerCUIT,
		DocType:       inv.DocType,
		DocNumber:     inv.DocNumber,
		NetAmount:     inv.NetAmount,
		VATAmount:     inv.VATAmount,
		TotalAmount:   inv.TotalAmount,
		CAE:           inv.CAE,
		CAEExpiration: inv.CAEExpiration,
		AFIPStatus:    inv.AFIPStatus,
		Observations:  inv.Observations,
		QRURL:         inv.QRURL,
		Date:          inv.Date,
	}
}

func publish(ctx context.Context, pub ports.EventPublisher, log *logger.Logger, out dto.InvoiceResponse) {
	if pub == nil {
		return
	}
	err := pub.Publish(ctx, ports.Event{Type: ports.EventInvoiceIssued, Key: out.SaleID, Payload: out, OccurredAt: time.Now()})
	if err != nil {
		log.Warn().Err(err).Str("factura_id", out.ID).Msg("no se pudo publicar el evento")
	}
}

// IsRejected indica si err proviene de un rechazo de AFIP.
func IsRejected(err error) bool { return errors.Is(err, domain.ErrAFIPRejected) }
