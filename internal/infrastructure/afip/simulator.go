package afip

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/billing"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
	pkgafip "github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/afip"
)

var _ billing.AFIPClient = (*Simulator)(nil)

// Simulator responde como WSFEv1 sin salir a la red. La numeración se toma de las facturas
// ya guardadas y el CAE es determinístico. Las facturas quedan marcadas como simuladas.
type Simulator struct {
	cuit     string
	invoices repository.InvoiceRepository
	log      zerolog.Logger
}

// NewSimulator crea el simulador para el CUIT del emisor.
func NewSimulator(cuit string, invoices repository.InvoiceRepository, log zerolog.Logger) *Simulator {
	return &Simulator{cuit: cuit, invoices: invoices, log: log}
}

func (s *Simulator) LastAuthorized(ctx context.Context, pointOfSale, voucherType int) (int64, error) {
	n, err := s.invoices.LastNumber(ctx, pointOfSale, voucherType)
	if err != nil {
		return 0, fmt.Errorf("simulador: último comprobante: %w", err)
	}
	return n, nil
}

func (s *Simulator) RequestCAE(_ context.Context, req billing.CAERequest) (*billing.CAEResult, error) {
	if req.Number <= 0 {
		return &billing.CAEResult{
			Result:       pkgafip.ResultadoRechazado,
			Observations: []string{"10016: número de comprobante inválido"},
			Simulated:    true,
		}, nil
	}
	if pkgafip.DiscriminaIVA(req.VoucherType) && !req.Net.Add(req.VAT).Equal(req.Total) {
		return &billing.CAEResult{
			Result:       pkgafip.ResultadoRechazado,
			Observations: []string{"10048: neto más IVA no coincide con el total"},
			Simulated:    true,
		}, nil
	}
	cae, vto := pkgafip.SimulatedCAE(s.cuit, req.PointOfSale, req.VoucherType, req.Number, req.Date)
	s.log.Info().
		Int("pto_vta", req.PointOfSale).
		Int("cbte_tipo", req.VoucherType).
		Int64("numero", req.Number).
		Msg("CAE simulado")
	return &billing.CAEResult{
		Result:        pkgafip.ResultadoAprobado,
		CAE:           cae,
		CAEExpiration: vto,
		Simulated:     true,
	}, nil
}
