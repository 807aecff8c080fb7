package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/facturas-pro/internal/application/asignacion"
	"github.com/tu-usuario/facturas-pro/internal/application/dto"
	"github.com/tu-usuario/facturas-pro/pkg/dian"
)

// NitHandler expone la validación de NITs y la resolución de asignaciones.
type NitHandler struct {
	resolver *asignacion.Resolver
}

// NewNitHandler construye el handler.
func NewNitHandler(resolver *asignacion.Resolver) *NitHandler {
	return &NitHandler{resolver: resolver}
}

// Validar normaliza el NIT del query param y reporta si es válido. La
// validación fallida es una respuesta 200 con es_valido=false, no un error
// HTTP: el caller típico es un formulario que valida mientras se escribe.
func (h *NitHandler) Validar(c *fiber.Ctx) error {
	nit := c.Query("nit")
	if nit == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query param nit requerido"})
	}
	norm, err := dian.Normalizar(nit)
	if err != nil {
		return c.JSON(dto.ValidarNitResponse{EsValido: false, MensajeError: err.Error()})
	}
	return c.JSON(dto.ValidarNitResponse{EsValido: true, NitNormalizado: norm})
}

// Resolver resuelve el NIT contra las asignaciones bajo el contexto de la
// petición y devuelve el destino sin crear factura (dry-run del clasificador).
func (h *NitHandler) Resolver(c *fiber.Ctx) error {
	nit, err := dian.Normalizar(c.Query("nit"))
	if err != nil {
		return responderError(c, err)
	}
	res, err := h.resolver.Resolver(GetJerarquia(c), nit, GetGrupoCtx(c))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.ResolverAsignacionResponse{
		Asignada:      res.Asignada,
		EnCuarentena:  !res.Asignada || res.GrupoID == nil,
		GrupoID:       res.GrupoID,
		ResponsableID: res.ResponsableID,
	})
}
