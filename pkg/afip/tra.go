package afip

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"
)

// ServiceWSFE nombre del servicio de facturación para el TRA.
const ServiceWSFE = "wsfe"

// BuildTRA arma el ticket de requerimiento de acceso (loginTicketRequest v1.0) canonicalizado.
// La ventana de validez es ±10 minutos alrededor de now.
func BuildTRA(service string, now time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("loginTicketRequest")
	root.CreateAttr("version", "1.0")
	header := root.CreateElement("header")
	header.CreateElement("uniqueId").SetText(fmt.Sprintf("%d", now.Unix()))
	header.CreateElement("generationTime").SetText(now.Add(-10 * time.Minute).Format(time.RFC3339))
	header.CreateElement("expirationTime").SetText(now.Add(10 * time.Minute).Format(time.RFC3339))
	root.CreateElement("service").SetText(service)

	raw, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("afip: serializar TRA: %w", err)
	}
	return Canonicalize(raw)
}

// Canonicalize aplica canonicalización C14N al XML.
func Canonicalize(raw []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Entity = map[string]string{}
	out, err := c14n.Canonicalize(dec)
	if err != nil {
		return nil, fmt.Errorf("afip: canonicalizar: %w", err)
	}
	return out, nil
}
