package afip

import (
	"fmt"
	"strconv"
	"unicode"
)

// pesos del dígito verificador de CUIT/CUIL, aplicados a los 10 primeros dígitos.
var cuitWeights = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// ValidateCUIT valida longitud y dígito verificador (módulo 11) de un CUIT/CUIL.
// Acepta "20-40937847-2", "20409378472" o con espacios.
func ValidateCUIT(cuit string) error {
	digits := extractDigits(cuit)
	if len(digits) != 11 {
		return fmt.Errorf("afip: CUIT debe tener 11 dígitos, se encontraron %d", len(digits))
	}
	expected, err := ComputeCUITCheckDigit(string(digits[:10]))
	if err != nil {
		return err
	}
	if digits[10] != expected {
		return fmt.Errorf("afip: dígito verificador del CUIT inválido: esperado %c, recibido %c", expected, digits[10])
	}
	return nil
}

// ComputeCUITCheckDigit calcula el dígito verificador para los 10 primeros dígitos.
func ComputeCUITCheckDigit(base string) (byte, error) {
	digits := extractDigits(base)
	if len(digits) < 10 {
		return 0, fmt.Errorf("afip: se requieren 10 dígitos para calcular el verificador, se encontraron %d", len(digits))
	}
	var sum int
	for i, d := range digits[:10] {
		sum += int(d-'0') * cuitWeights[i]
	}
	switch r := 11 - sum%11; r {
	case 11:
		return '0', nil
	case 10:
		return 0, fmt.Errorf("afip: combinación de prefijo y documento sin dígito verificador válido")
	default:
		return byte('0' + r), nil
	}
}

// NormalizeCUIT devuelve solo los dígitos del CUIT.
func NormalizeCUIT(cuit string) string {
	return string(extractDigits(cuit))
}

// CUITAsInt convierte el CUIT normalizado a entero (formato que esperan WSFE y el QR).
func CUITAsInt(cuit string) (int64, error) {
	n, err := strconv.ParseInt(NormalizeCUIT(cuit), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("afip: CUIT no numérico: %w", err)
	}
	return n, nil
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
