package afip

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	pkgafip "github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/afip"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/config"
)

// NewClient arma WSAA + WSFEv1 a partir de la configuración: carga el certificado, comparte un
// cliente HTTP con reintentos y cachea el ticket en cache (memoria si es nil).
func NewClient(cfg config.AFIPConfig, cache TicketCache, log zerolog.Logger) (*WSFEClient, error) {
	cert, err := LoadCertificate(cfg.CertPath, cfg.KeyPath, cfg.CertPassword)
	if err != nil {
		return nil, fmt.Errorf("wsaa: %w", err)
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := newHTTPClient(timeout, cfg.RetryMax)

	wsaa := NewWSAAClient(pkgafip.WSAAURL(cfg.Environment), cfg.CUIT, cert, PKCS7Signer{}, cache, httpClient,
		log.With().Str("service", "wsaa").Logger())
	return NewWSFEClient(pkgafip.WSFEURL(cfg.Environment), cfg.CUIT, wsaa, httpClient,
		log.With().Str("service", "wsfe").Logger())
}
