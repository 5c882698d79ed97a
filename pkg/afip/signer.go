package afip

import "crypto/tls"

// CMSSigner firma el ticket de requerimiento de acceso (TRA) en formato CMS/PKCS#7
// y devuelve el SignedData en DER, listo para codificar en base64 y enviar a LoginCms.
type CMSSigner interface {
	Sign(tra []byte, cert tls.Certificate) ([]byte, error)
}
