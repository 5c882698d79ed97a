package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/usecase"
)

// CashHandler caja diaria: apertura, movimientos, arqueo y cierre.
type CashHandler struct {
	uc *usecase.CashUseCase
}

// NewCashHandler construye el handler.
func NewCashHandler(uc *usecase.CashUseCase) *CashHandler {
	return &CashHandler{uc: uc}
}

// Open godoc
// @Summary      Abrir caja del día
// @Tags         caja
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenCashRequest  true  "Saldo inicial"
// @Success      201   {object}  dto.CashRegisterResponse
// @Failure      409   {object}  dto.ErrorResponse  "ya hay una caja abierta hoy"
// @Router       /api/v1/caja/abrir [post]
func (h *CashHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenCashRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Open(c.UserContext(), GetEmployeeID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Close godoc
// @Summary      Cerrar caja
// @Description  Sin id cierra la caja abierta del día.
// @Tags         caja
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    query  string                false  "ID de la caja"
// @Param        body  body   dto.CloseCashRequest  true   "Saldo contado al cierre"
// @Success      200   {object}  dto.CashRegisterResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/caja/cerrar [post]
func (h *CashHandler) Close(c *fiber.Ctx) error {
	var in dto.CloseCashRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Close(c.UserContext(), GetEmployeeID(c), c.Query("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Income POST /api/v1/caja/ingreso
func (h *CashHandler) Income(c *fiber.Ctx) error {
	return h.movement(c, h.uc.Income)
}

// Expense POST /api/v1/caja/egreso
func (h *CashHandler) Expense(c *fiber.Ctx) error {
	return h.movement(c, h.uc.Expense)
}

type movementFunc func(ctx context.Context, actorID string, in dto.CashMovementRequest) (*dto.CashMovementResponse, error)

func (h *CashHandler) movement(c *fiber.Ctx, fn movementFunc) error {
	var in dto.CashMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := fn(c.UserContext(), GetEmployeeID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Current godoc
// @Summary      Caja abierta del día
// @Tags         caja
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CashRegisterResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/caja/actual [get]
func (h *CashHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.Current(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Balance GET /api/v1/caja/saldo
func (h *CashHandler) Balance(c *fiber.Ctx) error {
	b, err := h.uc.Balance(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"balance": b})
}

// Movements GET /api/v1/caja/movimientos?id=
func (h *CashHandler) Movements(c *fiber.Ctx) error {
	out, err := h.uc.Movements(c.UserContext(), c.Query("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// History GET /api/v1/caja/historial?from=&to=
func (h *CashHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), c.Query("from"), c.Query("to"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Count godoc
// @Summary      Arqueo de caja
// @Description  Compara lo contado por método de pago contra lo esperado por el sistema.
// @Tags         caja
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    query  string                false  "ID de la caja (por defecto la abierta)"
// @Param        body  body   dto.CashCountRequest  true   "Montos contados"
// @Success      201   {object}  dto.CashCountResponse
// @Router       /api/v1/caja/arqueo [post]
func (h *CashHandler) Count(c *fiber.Ctx) error {
	var in dto.CashCountRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Count(c.UserContext(), GetEmployeeID(c), c.Query("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetCount GET /api/v1/caja/arqueo?id=
func (h *CashHandler) GetCount(c *fiber.Ctx) error {
	out, err := h.uc.GetCount(c.UserContext(), c.Query("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
