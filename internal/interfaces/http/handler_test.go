package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/domain"
)

// ──────────────────────────────────────────────────────────────────────────────
// respondError
// ──────────────────────────────────────────────────────────────────────────────

func TestRespondError_MapeaErroresDeDominio(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: producto x", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{fmt.Errorf("venta: %w", domain.ErrCajaNoAbierta), http.StatusConflict, "CAJA_CERRADA"},
		{domain.ErrCreditLimitExceeded, http.StatusConflict, "CREDIT_LIMIT"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrAFIPRejected, http.StatusUnprocessableEntity, "AFIP_ERROR"},
		{fmt.Errorf("wsfe: llamada HTTP fallida"), http.StatusBadGateway, "AFIP_ERROR"},
		{fmt.Errorf("pgx: conexión cerrada"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return respondError(c, tc.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestRespondError_InternoNoExponeDetalle(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return respondError(c, fmt.Errorf("password=secreto")) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotContains(t, body.Message, "secreto")
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de body
// ──────────────────────────────────────────────────────────────────────────────

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func saleValidationApp() *fiber.App {
	app := fiber.New()
	app.Post("/ventas", func(c *fiber.Ctx) error {
		var in dto.CreateSaleRequest
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestParseBody_VentaSinItems_DetallaCampos(t *testing.T) {
	resp := postJSON(t, saleValidationApp(), "/ventas", `{"payment_method":"efectivo","items":[]}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body dto.ValidationErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Fields, "items")
}

func TestParseBody_CantidadCeroEnItem(t *testing.T) {
	resp := postJSON(t, saleValidationApp(), "/ventas",
		`{"payment_method":"efectivo","items":[{"product_id":"p1","quantity":0}]}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body dto.ValidationErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body.Fields, "items[0].quantity")
}

func TestParseBody_JSONMalformado(t *testing.T) {
	resp := postJSON(t, saleValidationApp(), "/ventas", `{"items":`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INVALID_BODY", body.Code)
}

func TestParseBody_VentaValida(t *testing.T) {
	resp := postJSON(t, saleValidationApp(), "/ventas",
		`{"payment_method":"efectivo","price_type":"mayorista","items":[{"product_id":"p1","quantity":2}]}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestParsePagedQuery_AplicaLimitePorDefecto(t *testing.T) {
	app := fiber.New()
	app.Get("/ventas", func(c *fiber.Ctx) error {
		var in dto.SaleFilterRequest
		if ok, err := parsePagedQuery(c, &in); !ok {
			return err
		}
		return c.JSON(fiber.Map{"limit": in.Limit, "status": in.Status})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ventas?status=anulada", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.EqualValues(t, 20, body["limit"])
	assert.Equal(t, "anulada", body["status"])

	resp2, err := app.Test(httptest.NewRequest(http.MethodGet, "/ventas?limit=500", nil), -1)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rate limit del login
// ──────────────────────────────────────────────────────────────────────────────

func TestRateLimit_BloqueaAlSuperarElLimite(t *testing.T) {
	limit, err := RateLimit("2-M")
	require.NoError(t, err)
	app := fiber.New()
	app.Post("/login", limit, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 2; i++ {
		resp := postJSON(t, app, "/login", `{}`)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, "intento %d", i+1)
	}
	resp := postJSON(t, app, "/login", `{}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
}

func TestRateLimit_FormatoInvalido(t *testing.T) {
	_, err := RateLimit("diez por minuto")
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes CSV
// ──────────────────────────────────────────────────────────────────────────────

func TestSendCSV_Cabeceras(t *testing.T) {
	app := fiber.New()
	app.Get("/csv", func(c *fiber.Ctx) error {
		return sendCSV(c, "ventas.csv", func(w io.Writer) error {
			_, err := io.WriteString(w, "Fecha;Total\n")
			return err
		})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/csv", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "ventas.csv")
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Fecha;Total\n", string(raw))
}

func TestHealth_SinBase(t *testing.T) {
	app := fiber.New()
	app.Get("/health", health(nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
