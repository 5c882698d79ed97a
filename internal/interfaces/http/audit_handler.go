package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/dto"
	"github.com/jimmycarp966/motorepuestos-fl-sub004/internal/application/usecase"
)

// AuditHandler consulta del registro de auditoría (solo administradores).
type AuditHandler struct {
	uc *usecase.AuditUseCase
}

func NewAuditHandler(uc *usecase.AuditUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Registro de auditoría
// @Tags         auditoria
// @Security     Bearer
// @Produce      json
// @Param        entity       query  string  false  "Entidad (venta, caja, producto...)"
// @Param        entity_id    query  string  false  "ID de la entidad"
// @Param        employee_id  query  string  false  "Empleado que realizó la acción"
// @Param        from         query  string  false  "Desde (2006-01-02)"
// @Param        to           query  string  false  "Hasta inclusive"
// @Param        limit        query  int     false  "Máximo de registros"
// @Success      200          {array}   dto.AuditLogResponse
// @Failure      403          {object}  dto.ErrorResponse
// @Router       /api/v1/auditoria [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var in dto.AuditFilterRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
