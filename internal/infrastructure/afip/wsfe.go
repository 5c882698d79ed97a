package afip

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/billing"
	pkgafip "github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/afip"
)

const (
	soapNS       = "http://schemas.xmlsoap.org/soap/envelope/"
	wsfeNS       = "http://ar.gov.afip.dif.FEV1/"
	wsfeActionNS = "http://ar.gov.afip.dif.FEV1/"
)

var _ billing.AFIPClient = (*WSFEClient)(nil)

// TicketSource origen del token/sign de WSAA.
type TicketSource interface {
	Ticket(ctx context.Context) (*Ticket, error)
}

// WSFEClient cliente SOAP de WSFEv1 (factura electrónica mercado interno).
type WSFEClient struct {
	url     string
	cuit    int64
	tickets TicketSource
	http    *http.Client
	log     zerolog.Logger
}

// NewWSFEClient crea el cliente. cuit es el CUIT del emisor.
func NewWSFEClient(url, cuit string, tickets TicketSource, httpClient *http.Client, log zerolog.Logger) (*WSFEClient, error) {
	n, err := pkgafip.CUITAsInt(cuit)
	if err != nil {
		return nil, fmt.Errorf("wsfe: cuit emisor: %w", err)
	}
	return &WSFEClient{url: url, cuit: n, tickets: tickets, http: httpClient, log: log}, nil
}

// ── Estructuras SOAP ──────────────────────────────────────────────────────────

type soapEnvelope struct {
	XMLName xml.Name   `xml:"soap:Envelope"`
	XmlnsS  string     `xml:"xmlns:soap,attr"`
	Header  soapHeader `xml:"soap:Header"`
	Body    soapBody   `xml:"soap:Body"`
}

type soapHeader struct{}

type soapBody struct {
	Content interface{}
}

func (b soapBody) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name.Local = "soap:Body"
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.Encode(b.Content); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

type feAuth struct {
	Token string `xml:"Token"`
	Sign  string `xml:"Sign"`
	Cuit  int64  `xml:"Cuit"`
}

type feCompUltimoAutorizado struct {
	XMLName  xml.Name `xml:"FECompUltimoAutorizado"`
	Xmlns    string   `xml:"xmlns,attr"`
	Auth     feAuth   `xml:"Auth"`
	PtoVta   int      `xml:"PtoVta"`
	CbteTipo int      `xml:"CbteTipo"`
}

type feCAESolicitar struct {
	XMLName  xml.Name `xml:"FECAESolicitar"`
	Xmlns    string   `xml:"xmlns,attr"`
	Auth     feAuth   `xml:"Auth"`
	FeCAEReq feCAEReq `xml:"FeCAEReq"`
}

type feCAEReq struct {
	FeCabReq feCabReq          `xml:"FeCabReq"`
	FeDetReq []feCAEDetRequest `xml:"FeDetReq>FECAEDetRequest"`
}

type feCabReq struct {
	CantReg  int `xml:"CantReg"`
	PtoVta   int `xml:"PtoVta"`
	CbteTipo int `xml:"CbteTipo"`
}

type feCAEDetRequest struct {
	Concepto   int       `xml:"Concepto"`
	DocTipo    int       `xml:"DocTipo"`
	DocNro     int64     `xml:"DocNro"`
	CbteDesde  int64     `xml:"CbteDesde"`
	CbteHasta  int64     `xml:"CbteHasta"`
	CbteFch    string    `xml:"CbteFch"`
	ImpTotal   string    `xml:"ImpTotal"`
	ImpTotConc string    `xml:"ImpTotConc"`
	ImpNeto    string    `xml:"ImpNeto"`
	ImpOpEx    string    `xml:"ImpOpEx"`
	ImpTrib    string    `xml:"ImpTrib"`
	ImpIVA     string    `xml:"ImpIVA"`
	MonID      string    `xml:"MonId"`
	MonCotiz   string    `xml:"MonCotiz"`
	Iva        []alicIva `xml:"Iva>AlicIva,omitempty"`
}

type alicIva struct {
	ID      int    `xml:"Id"`
	BaseImp string `xml:"BaseImp"`
	Importe string `xml:"Importe"`
}

// ── Estructuras de respuesta ─────────────────────────────────────────────────

type soapResponseEnvelope struct {
	Body soapResponseBody `xml:"Body"`
}

type soapResponseBody struct {
	UltimoResponse *struct {
		Result struct {
			CbteNro int64   `xml:"CbteNro"`
			Errors  []feErr `xml:"Errors>Err"`
		} `xml:"FECompUltimoAutorizadoResult"`
	} `xml:"FECompUltimoAutorizadoResponse"`
	CAEResponse *struct {
		Result feCAEResult `xml:"FECAESolicitarResult"`
	} `xml:"FECAESolicitarResponse"`
	Fault *soapFault `xml:"Fault"`
}

type feCAEResult struct {
	FeCabResp struct {
		Resultado string `xml:"Resultado"`
	} `xml:"FeCabResp"`
	FeDetResp []struct {
		Resultado     string  `xml:"Resultado"`
		CAE           string  `xml:"CAE"`
		CAEFchVto     string  `xml:"CAEFchVto"`
		Observaciones []feErr `xml:"Observaciones>Obs"`
	} `xml:"FeDetResp>FECAEDetResponse"`
	Errors []feErr `xml:"Errors>Err"`
}

type feErr struct {
	Code int    `xml:"Code"`
	Msg  string `xml:"Msg"`
}

func (e feErr) String() string { return fmt.Sprintf("%d: %s", e.Code, e.Msg) }

type soapFault struct {
	FaultCode   string `xml:"faultcode"`
	FaultString string `xml:"faultstring"`
}

// ── Operaciones ───────────────────────────────────────────────────────────────

// LastAuthorized FECompUltimoAutorizado.
func (c *WSFEClient) LastAuthorized(ctx context.Context, pointOfSale, voucherType int) (int64, error) {
	auth, err := c.auth(ctx)
	if err != nil {
		return 0, err
	}
	resp, err := c.call(ctx, "FECompUltimoAutorizado", &feCompUltimoAutorizado{
		Xmlns:    wsfeNS,
		Auth:     auth,
		PtoVta:   pointOfSale,
		CbteTipo: voucherType,
	})
	if err != nil {
		return 0, err
	}
	if resp.UltimoResponse == nil {
		return 0, fmt.Errorf("wsfe: respuesta vacía de FECompUltimoAutorizado")
	}
	if errs := resp.UltimoResponse.Result.Errors; len(errs) > 0 {
		return 0, fmt.Errorf("wsfe: FECompUltimoAutorizado: %s", joinErrs(errs))
	}
	return resp.UltimoResponse.Result.CbteNro, nil
}

// RequestCAE FECAESolicitar. Un rechazo de AFIP no es error: viene en Result con las observaciones.
func (c *WSFEClient) RequestCAE(ctx context.Context, req billing.CAERequest) (*billing.CAEResult, error) {
	auth, err := c.auth(ctx)
	if err != nil {
		return nil, err
	}
	det := feCAEDetRequest{
		Concepto:   req.Concept,
		DocTipo:    req.DocType,
		DocNro:     req.DocNumber,
		CbteDesde:  req.Number,
		CbteHasta:  req.Number,
		CbteFch:    pkgafip.FormatDate(req.Date),
		ImpTotal:   money(req.Total),
		ImpTotConc: "0.00",
		ImpNeto:    money(req.Net),
		ImpOpEx:    "0.00",
		ImpTrib:    "0.00",
		ImpIVA:     money(req.VAT),
		MonID:      pkgafip.MonedaPesos,
		MonCotiz:   "1",
	}
	if pkgafip.DiscriminaIVA(req.VoucherType) {
		det.Iva = []alicIva{{ID: pkgafip.IvaVeintiUno, BaseImp: money(req.Net), Importe: money(req.VAT)}}
	}

	resp, err := c.call(ctx, "FECAESolicitar", &feCAESolicitar{
		Xmlns: wsfeNS,
		Auth:  auth,
		FeCAEReq: feCAEReq{
			FeCabReq: feCabReq{CantReg: 1, PtoVta: req.PointOfSale, CbteTipo: req.VoucherType},
			FeDetReq: []feCAEDetRequest{det},
		},
	})
	if err != nil {
		return nil, err
	}
	if resp.CAEResponse == nil {
		return nil, fmt.Errorf("wsfe: respuesta vacía de FECAESolicitar")
	}
	return toCAEResult(&resp.CAEResponse.Result)
}

func toCAEResult(r *feCAEResult) (*billing.CAEResult, error) {
	out := &billing.CAEResult{Result: r.FeCabResp.Resultado}
	for _, e := range r.Errors {
		out.Observations = append(out.Observations, e.String())
	}
	if len(r.FeDetResp) == 0 {
		if len(out.Observations) > 0 {
			out.Result = pkgafip.ResultadoRechazado
			return out, nil
		}
		return nil, fmt.Errorf("wsfe: respuesta sin detalle")
	}
	det := r.FeDetResp[0]
	if det.Resultado != "" {
		out.Result = det.Resultado
	}
	for _, o := range det.Observaciones {
		out.Observations = append(out.Observations, o.String())
	}
	if out.Result == pkgafip.ResultadoAprobado {
		out.CAE = strings.TrimSpace(det.CAE)
		vto, err := pkgafip.ParseDate(det.CAEFchVto)
		if err != nil {
			return nil, fmt.Errorf("wsfe: CAEFchVto %q: %w", det.CAEFchVto, err)
		}
		out.CAEExpiration = vto
	}
	return out, nil
}

func (c *WSFEClient) auth(ctx context.Context) (feAuth, error) {
	t, err := c.tickets.Ticket(ctx)
	if err != nil {
		return feAuth{}, err
	}
	return feAuth{Token: t.Token, Sign: t.Sign, Cuit: c.cuit}, nil
}

func (c *WSFEClient) call(ctx context.Context, op string, body interface{}) (*soapResponseBody, error) {
	payload, err := xml.Marshal(soapEnvelope{XmlnsS: soapNS, Body: soapBody{Content: body}})
	if err != nil {
		return nil, fmt.Errorf("wsfe: serializar %s: %w", op, err)
	}
	raw, err := postSOAP(ctx, c.http, c.url, wsfeActionNS+op, append([]byte(xml.Header), payload...))
	if err != nil {
		return nil, fmt.Errorf("wsfe %s: %w", op, err)
	}
	var env soapResponseEnvelope
	if err := xml.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("wsfe %s: respuesta inválida: %w", op, err)
	}
	if env.Body.Fault != nil {
		return nil, fmt.Errorf("wsfe %s: SOAP Fault [%s]: %s", op, env.Body.Fault.FaultCode, env.Body.Fault.FaultString)
	}
	c.log.Debug().Str("op", op).Msg("wsfe ok")
	return &env.Body, nil
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func joinErrs(errs []feErr) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.String()
	}
	return strings.Join(parts, "; ")
}
