package afip

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/billing"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain/repository"
	pkgafip "github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/afip"
)

const cuitEmisor = "20409378472"

// ─── helpers ──────────────────────────────────────────────────────────────────

type staticTickets struct{ t *Ticket }

func (s staticTickets) Ticket(context.Context) (*Ticket, error) { return s.t, nil }

type invoicesStub struct {
	repository.InvoiceRepository
	last int64
}

func (s invoicesStub) LastNumber(context.Context, int, int) (int64, error) { return s.last, nil }

func newWSFE(t *testing.T, handler http.HandlerFunc) *WSFEClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewWSFEClient(srv.URL, cuitEmisor,
		staticTickets{&Ticket{Token: "TK", Sign: "SG", ExpiresAt: time.Now().Add(time.Hour)}},
		newHTTPClient(5*time.Second, 0), zerolog.Nop())
	require.NoError(t, err)
	return c
}

// ─── WSAA ────────────────────────────────────────────────────────────────────

func TestParseLoginCmsResponse_TicketValido(t *testing.T) {
	raw := `<?xml version="1.0" encoding="UTF-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
<soapenv:Body><loginCmsResponse xmlns="http://wsaa.view.sua.dvadac.desein.afip.gov">
<loginCmsReturn>&lt;?xml version="1.0" encoding="UTF-8"?&gt;
&lt;loginTicketResponse version="1.0"&gt;&lt;header&gt;&lt;expirationTime&gt;2024-03-15T22:00:00.000-03:00&lt;/expirationTime&gt;&lt;/header&gt;&lt;credentials&gt;&lt;token&gt;TOKEN123&lt;/token&gt;&lt;sign&gt;SIGN456&lt;/sign&gt;&lt;/credentials&gt;&lt;/loginTicketResponse&gt;</loginCmsReturn>
</loginCmsResponse></soapenv:Body></soapenv:Envelope>`

	tk, err := parseLoginCmsResponse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "TOKEN123", tk.Token)
	assert.Equal(t, "SIGN456", tk.Sign)
	assert.Equal(t, 2024, tk.ExpiresAt.Year())
	assert.True(t, tk.Valid(time.Date(2024, 3, 15, 20, 0, 0, 0, time.FixedZone("ART", -3*3600))))
	assert.False(t, tk.Valid(time.Date(2024, 3, 15, 21, 59, 0, 0, time.FixedZone("ART", -3*3600))), "dentro del margen de seguridad")
}

func TestParseLoginCmsResponse_Fault(t *testing.T) {
	raw := `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/"><soapenv:Body>
<soapenv:Fault><faultcode>ns1:coe.alreadyAuthenticated</faultcode><faultstring>El CEE ya posee un TA valido</faultstring></soapenv:Fault>
</soapenv:Body></soapenv:Envelope>`

	_, err := parseLoginCmsResponse([]byte(raw))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alreadyAuthenticated")
}

func TestBuildLoginCmsEnvelope_IncluyeCMS(t *testing.T) {
	out, err := buildLoginCmsEnvelope("QUJD")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<wsaa:in0>QUJD</wsaa:in0>")
	assert.Contains(t, string(out), wsaaNamespace)
}

func TestMemoryTicketCache(t *testing.T) {
	c := NewMemoryTicketCache()
	ctx := context.Background()
	key := TicketKey(cuitEmisor, pkgafip.ServiceWSFE)
	assert.Equal(t, "afip:wsaa:20409378472:wsfe", key)

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, key, &Ticket{Token: "T", Sign: "S", ExpiresAt: time.Now().Add(time.Hour)}))
	got, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "T", got.Token)
}

// ─── WSFE ────────────────────────────────────────────────────────────────────

func TestWSFE_LastAuthorized(t *testing.T) {
	c := newWSFE(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wsfeActionNS+"FECompUltimoAutorizado", r.Header.Get("SOAPAction"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "<Token>TK</Token>")
		assert.Contains(t, string(body), "<PtoVta>3</PtoVta>")
		_, _ = w.Write([]byte(`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>
<FECompUltimoAutorizadoResponse xmlns="http://ar.gov.afip.dif.FEV1/"><FECompUltimoAutorizadoResult>
<PtoVta>3</PtoVta><CbteTipo>6</CbteTipo><CbteNro>41</CbteNro>
</FECompUltimoAutorizadoResult></FECompUltimoAutorizadoResponse></soap:Body></soap:Envelope>`))
	})

	n, err := c.LastAuthorized(context.Background(), 3, pkgafip.CbteFacturaB)
	require.NoError(t, err)
	assert.Equal(t, int64(41), n)
}

func TestWSFE_RequestCAE_Aprobado(t *testing.T) {
	c := newWSFE(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s := string(body)
		assert.Contains(t, s, "<ImpTotal>121.00</ImpTotal>")
		assert.Contains(t, s, "<ImpNeto>100.00</ImpNeto>")
		assert.Contains(t, s, "<AlicIva><Id>5</Id>")
		_, _ = w.Write([]byte(`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>
<FECAESolicitarResponse xmlns="http://ar.gov.afip.dif.FEV1/"><FECAESolicitarResult>
<FeCabResp><Resultado>A</Resultado></FeCabResp>
<FeDetResp><FECAEDetResponse><Resultado>A</Resultado><CAE>74123456789012</CAE><CAEFchVto>20240325</CAEFchVto></FECAEDetResponse></FeDetResp>
</FECAESolicitarResult></FECAESolicitarResponse></soap:Body></soap:Envelope>`))
	})

	res, err := c.RequestCAE(context.Background(), billing.CAERequest{
		PointOfSale: 3,
		VoucherType: pkgafip.CbteFacturaB,
		Number:      42,
		Concept:     pkgafip.ConceptoProductos,
		DocType:     pkgafip.DocConsumidorFinal,
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Net:         decimal.NewFromInt(100),
		VAT:         decimal.NewFromInt(21),
		Total:       decimal.NewFromInt(121),
	})
	require.NoError(t, err)
	assert.Equal(t, pkgafip.ResultadoAprobado, res.Result)
	assert.Equal(t, "74123456789012", res.CAE)
	assert.Equal(t, time.March, res.CAEExpiration.Month())
	assert.False(t, res.Simulated)
}

func TestWSFE_RequestCAE_RechazadoConObservaciones(t *testing.T) {
	c := newWSFE(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>
<FECAESolicitarResponse xmlns="http://ar.gov.afip.dif.FEV1/"><FECAESolicitarResult>
<FeCabResp><Resultado>R</Resultado></FeCabResp>
<FeDetResp><FECAEDetResponse><Resultado>R</Resultado><Observaciones><Obs><Code>10015</Code><Msg>DocNro invalido</Msg></Obs></Observaciones></FECAEDetResponse></FeDetResp>
</FECAESolicitarResult></FECAESolicitarResponse></soap:Body></soap:Envelope>`))
	})

	res, err := c.RequestCAE(context.Background(), billing.CAERequest{
		PointOfSale: 1, VoucherType: pkgafip.CbteFacturaC, Number: 1, Date: time.Now(),
		Net:         decimal.NewFromInt(50), Total: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	assert.Equal(t, pkgafip.ResultadoRechazado, res.Result)
	assert.Empty(t, res.CAE)
	require.Len(t, res.Observations, 1)
	assert.True(t, strings.HasPrefix(res.Observations[0], "10015"))
}

func TestWSFE_SOAPFault(t *testing.T) {
	c := newWSFE(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>
<soap:Fault><faultcode>soap:Server</faultcode><faultstring>token invalido</faultstring></soap:Fault></soap:Body></soap:Envelope>`))
	})

	_, err := c.LastAuthorized(context.Background(), 1, pkgafip.CbteFacturaB)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token invalido")
}

// ─── Simulador ───────────────────────────────────────────────────────────────

func TestSimulator_NumeraDesdeFacturasGuardadas(t *testing.T) {
	s := NewSimulator(cuitEmisor, invoicesStub{last: 7}, zerolog.Nop())
	n, err := s.LastAuthorized(context.Background(), 1, pkgafip.CbteFacturaB)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}

func TestSimulator_CAEDeterministico(t *testing.T) {
	s := NewSimulator(cuitEmisor, invoicesStub{}, zerolog.Nop())
	req := billing.CAERequest{
		PointOfSale: 1, VoucherType: pkgafip.CbteFacturaB, Number: 8,
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Net:         decimal.NewFromInt(100), VAT: decimal.NewFromInt(21), Total: decimal.NewFromInt(121),
	}
	a, err := s.RequestCAE(context.Background(), req)
	require.NoError(t, err)
	b, err := s.RequestCAE(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, pkgafip.ResultadoAprobado, a.Result)
	assert.True(t, a.Simulated)
	assert.Len(t, a.CAE, 14)
	assert.Equal(t, a.CAE, b.CAE)
}

func TestSimulator_RechazaImportesInconsistentes(t *testing.T) {
	s := NewSimulator(cuitEmisor, invoicesStub{}, zerolog.Nop())
	res, err := s.RequestCAE(context.Background(), billing.CAERequest{
		PointOfSale: 1, VoucherType: pkgafip.CbteFacturaA, Number: 1, Date: time.Now(),
		Net:         decimal.NewFromInt(100), VAT: decimal.NewFromInt(20), Total: decimal.NewFromInt(121),
	})
	require.NoError(t, err)
	assert.Equal(t, pkgafip.ResultadoRechazado, res.Result)
	assert.NotEmpty(t, res.Observations)
}
