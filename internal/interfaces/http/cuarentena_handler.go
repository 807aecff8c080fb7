package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/facturas-pro/internal/application/asignacion"
	"github.com/tu-usuario/facturas-pro/internal/application/dto"
	"github.com/tu-usuario/facturas-pro/internal/application/workflow"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
	"github.com/tu-usuario/facturas-pro/internal/domain/repository"
)

// CuarentenaHandler expone el triage de facturas sin asignación resoluble.
// Las rutas van protegidas con RequireRol(admin, superadmin).
type CuarentenaHandler struct {
	facturas     repository.FacturaRepository
	clasificador *asignacion.Clasificador
	engine       *workflow.Engine
}

// NewCuarentenaHandler construye el handler.
func NewCuarentenaHandler(
	facturas repository.FacturaRepository,
	clasificador *asignacion.Clasificador,
	engine *workflow.Engine,
) *CuarentenaHandler {
	return &CuarentenaHandler{facturas: facturas, clasificador: clasificador, engine: engine}
}

// List devuelve las facturas en cuarentena, más antiguas primero.
func (h *CuarentenaHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	items, err := h.facturas.ListCuarentena(page.Limit, page.Offset)
	if err != nil {
		return responderError(c, err)
	}
	out := make([]*dto.FacturaResponse, 0, len(items))
	for _, f := range items {
		out = append(out, toFacturaResponse(f))
	}
	return c.JSON(out)
}

// Resumen devuelve el agregado por NIT emisor: cantidad de facturas retenidas
// e impacto financiero, ordenado por impacto descendente.
func (h *CuarentenaHandler) Resumen(c *fiber.Ctx) error {
	items, err := h.clasificador.ResumenCuarentena()
	if err != nil {
		return responderError(c, err)
	}
	out := make([]dto.CuarentenaResumenResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.CuarentenaResumenResponse{
			NitEmisor:         it.NitEmisor,
			NombreEmisor:      it.NombreEmisor,
			Cantidad:          it.Cantidad,
			ImpactoFinanciero: it.ImpactoFinanciero,
		})
	}
	return c.JSON(out)
}

// Reasignar saca una factura de cuarentena asignándole grupo y responsable.
func (h *CuarentenaHandler) Reasignar(c *fiber.Ctx) error {
	var in dto.ReasignarRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if strings.TrimSpace(in.GrupoID) == "" || strings.TrimSpace(in.ResponsableID) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION",
			Message: "grupo_id y responsable_id son obligatorios"})
	}
	out, err := h.engine.Transicionar(c.Context(), c.Params("id"), entity.EventoReasignar, ActorDe(c), workflow.Payload{
		GrupoID:       in.GrupoID,
		ResponsableID: in.ResponsableID,
	})
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(toFacturaResponse(out))
}
