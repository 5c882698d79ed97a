package afip

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"

	"go.mozilla.org/pkcs7"

	pkgafip "github.com/jimmycarp966/motorepuestos-fl-sub004/pkg/afip"
)

var _ pkgafip.CMSSigner = (*PKCS7Signer)(nil)

// PKCS7Signer firma el TRA como CMS SignedData (SHA-256, contenido y certificado embebidos).
type PKCS7Signer struct{}

// Sign devuelve el SignedData en DER.
func (PKCS7Signer) Sign(tra []byte, cert tls.Certificate) ([]byte, error) {
	leaf := cert.Leaf
	if leaf == nil {
		if len(cert.Certificate) == 0 {
			return nil, fmt.Errorf("cms: certificado vacío")
		}
		var err error
		if leaf, err = x509.ParseCertificate(cert.Certificate[0]); err != nil {
			return nil, fmt.Errorf("cms: parsear certificado: %w", err)
		}
	}
	sd, err := pkcs7.NewSignedData(tra)
	if err != nil {
		return nil, fmt.Errorf("cms: signed data: %w", err)
	}
	sd.SetDigestAlgorithm(pkcs7.OIDDigestAlgorithmSHA256)
	if err := sd.AddSigner(leaf, cert.PrivateKey, pkcs7.SignerInfoConfig{}); err != nil {
		return nil, fmt.Errorf("cms: agregar firmante: %w", err)
	}
	der, err := sd.Finish()
	if err != nil {
		return nil, fmt.Errorf("cms: finalizar: %w", err)
	}
	return der, nil
}
