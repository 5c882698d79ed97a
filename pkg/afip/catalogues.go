// Package afip contiene catálogos y validaciones de facturación electrónica AFIP (Argentina),
// alineados a la especificación del WSFEv1 (RG 4291).
package afip

// =============================================================================
// Tipos de comprobante (FEParamGetTiposCbte)
// =============================================================================

const (
	CbteFacturaA     = 1
	CbteNotaDebitoA  = 2
	CbteNotaCreditoA = 3
	CbteFacturaB     = 6
	CbteNotaDebitoB  = 7
	CbteNotaCreditoB = 8
	CbteFacturaC     = 11
	CbteNotaDebitoC  = 12
	CbteNotaCreditoC = 13
)

// CbteByLetter traduce la letra de factura a su código AFIP.
var CbteByLetter = map[string]int{
	"A": CbteFacturaA,
	"B": CbteFacturaB,
	"C": CbteFacturaC,
}

// LetterByCbte es la inversa de CbteByLetter para facturas.
var LetterByCbte = map[int]string{
	CbteFacturaA: "A",
	CbteFacturaB: "B",
	CbteFacturaC: "C",
}

// DiscriminaIVA indica si el tipo de comprobante informa IVA por separado (A y B sí, C no).
func DiscriminaIVA(cbteTipo int) bool {
	switch cbteTipo {
	case CbteFacturaA, CbteNotaDebitoA, CbteNotaCreditoA,
		CbteFacturaB, CbteNotaDebitoB, CbteNotaCreditoB:
		return true
	}
	return false
}

// =============================================================================
// Tipos de documento del receptor (FEParamGetTiposDoc)
// =============================================================================

const (
	DocCUIT            = 80
	DocCUIL            = 86
	DocDNI             = 96
	DocConsumidorFinal = 99
)

// =============================================================================
// Alícuotas de IVA (FEParamGetTiposIva)
// =============================================================================

const (
	IvaCero        = 3 // 0%
	IvaDiezCinco   = 4 // 10.5%
	IvaVeintiUno   = 5 // 21%
	IvaVeintiSiete = 6 // 27%
)

// =============================================================================
// Concepto y moneda
// =============================================================================

const (
	ConceptoProductos          = 1
	ConceptoServicios          = 2
	ConceptoProductosServicios = 3

	MonedaPesos = "PES"
)

// Resultados de FECAESolicitar.
const (
	ResultadoAprobado  = "A"
	ResultadoRechazado = "R"
	ResultadoParcial   = "P"
)

// Ambientes.
const (
	EnvHomologacion = "homologacion"
	EnvProduccion   = "produccion"
)

// Endpoints por ambiente.
const (
	WSAAURLHomologacion = "https://wsaahomo.afip.gov.ar/ws/services/LoginCms"
	WSAAURLProduccion   = "https://wsaa.afip.gov.ar/ws/services/LoginCms"
	WSFEURLHomologacion = "https://wswhomo.afip.gov.ar/wsfev1/service.asmx"
	WSFEURLProduccion   = "https://servicios1.afip.gov.ar/wsfev1/service.asmx"
)

// WSAAURL devuelve el endpoint de autenticación según el ambiente.
func WSAAURL(env string) string {
	if env == EnvProduccion {
		return WSAAURLProduccion
	}
	return WSAAURLHomologacion
}

// WSFEURL devuelve el endpoint de facturación según el ambiente.
func WSFEURL(env string) string {
	if env == EnvProduccion {
		return WSFEURLProduccion
	}
	return WSFEURLHomologacion
}
