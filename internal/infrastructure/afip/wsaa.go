package afip

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	pkgafip "github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/afip"
)

const wsaaNamespace = "http://wsaa.view.sua.dvadac.desein.afip.gov"

// WSAAClient obtiene y cachea el ticket de acceso (token + sign) del servicio WSFE.
type WSAAClient struct {
	url    string
	cuit   string
	cert   tls.Certificate
	signer pkgafip.CMSSigner
	cache  TicketCache
	http   *http.Client
	now    func() time.Time
	log    zerolog.Logger

	mu sync.Mutex
}

// NewWSAAClient crea el cliente de autenticación.
func NewWSAAClient(url, cuit string, cert tls.Certificate, signer pkgafip.CMSSigner, cache TicketCache, httpClient *http.Client, log zerolog.Logger) *WSAAClient {
	if cache == nil {
		cache = NewMemoryTicketCache()
	}
	return &WSAAClient{
		url:    url,
		cuit:   cuit,
		cert:   cert,
		signer: signer,
		cache:  cache,
		http:   httpClient,
		now:    time.Now,
		log:    log,
	}
}

// Ticket devuelve un ticket vigente; sólo llama a LoginCms cuando el cacheado venció.
func (c *WSAAClient) Ticket(ctx context.Context) (*Ticket, error) {
	key := TicketKey(c.cuit, pkgafip.ServiceWSFE)
	if t, err := c.cache.Get(ctx, key); err == nil && t.Valid(c.now()) {
		return t, nil
	} else if err != nil {
		c.log.Warn().Err(err).Msg("cache de ticket WSAA no disponible")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// otra goroutine pudo renovarlo mientras esperábamos
	if t, err := c.cache.Get(ctx, key); err == nil && t.Valid(c.now()) {
		return t, nil
	}

	t, err := c.login(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, t); err != nil {
		c.log.Warn().Err(err).Msg("no se pudo cachear el ticket WSAA")
	}
	c.log.Info().Time("expira", t.ExpiresAt).Msg("ticket WSAA renovado")
	return t, nil
}

func (c *WSAAClient) login(ctx context.Context) (*Ticket, error) {
	tra, err := pkgafip.BuildTRA(pkgafip.ServiceWSFE, c.now())
	if err != nil {
		return nil, err
	}
	cms, err := c.signer.Sign(tra, c.cert)
	if err != nil {
		return nil, fmt.Errorf("wsaa: firmar TRA: %w", err)
	}
	payload, err := buildLoginCmsEnvelope(base64.StdEncoding.EncodeToString(cms))
	if err != nil {
		return nil, err
	}
	raw, err := postSOAP(ctx, c.http, c.url, "", payload)
	if err != nil {
		return nil, fmt.Errorf("wsaa: %w", err)
	}
	return parseLoginCmsResponse(raw)
}

func buildLoginCmsEnvelope(cmsB64 string) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	env := doc.CreateElement("soapenv:Envelope")
	env.CreateAttr("xmlns:soapenv", "http://schemas.xmlsoap.org/soap/envelope/")
	env.CreateAttr("xmlns:wsaa", wsaaNamespace)
	env.CreateElement("soapenv:Header")
	body := env.CreateElement("soapenv:Body")
	body.CreateElement("wsaa:loginCms").CreateElement("wsaa:in0").SetText(cmsB64)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("wsaa: serializar envelope: %w", err)
	}
	return out, nil
}

func parseLoginCmsResponse(raw []byte) (*Ticket, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("wsaa: respuesta inválida: %w", err)
	}
	if fault := doc.FindElement("//Fault"); fault != nil {
		code, msg := "", ""
		if e := fault.FindElement("faultcode"); e != nil {
			code = e.Text()
		}
		if e := fault.FindElement("faultstring"); e != nil {
			msg = e.Text()
		}
		return nil, fmt.Errorf("wsaa: fault %s: %s", code, msg)
	}
	ret := doc.FindElement("//loginCmsReturn")
	if ret == nil {
		return nil, fmt.Errorf("wsaa: respuesta sin loginCmsReturn")
	}

	// loginCmsReturn trae el loginTicketResponse como XML escapado
	inner := etree.NewDocument()
	if err := inner.ReadFromString(strings.TrimSpace(ret.Text())); err != nil {
		return nil, fmt.Errorf("wsaa: ticket inválido: %w", err)
	}
	token := inner.FindElement("//credentials/token")
	sign := inner.FindElement("//credentials/sign")
	exp := inner.FindElement("//header/expirationTime")
	if token == nil || sign == nil || exp == nil {
		return nil, fmt.Errorf("wsaa: ticket incompleto")
	}
	expiresAt, err := time.Parse(time.RFC3339, strings.TrimSpace(exp.Text()))
	if err != nil {
		return nil, fmt.Errorf("wsaa: expirationTime %q: %w", exp.Text(), err)
	}
	return &Ticket{
		Token:     strings.TrimSpace(token.Text()),
		Sign:      strings.TrimSpace(sign.Text()),
		ExpiresAt: expiresAt,
	}, nil
}
