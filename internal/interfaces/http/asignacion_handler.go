package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/facturas-pro/internal/application/asignacion"
	"github.com/tu-usuario/facturas-pro/internal/application/dto"
)

// AsignacionHandler maneja las asignaciones NIT -> responsable.
type AsignacionHandler struct {
	uc *asignacion.UseCase
}

// NewAsignacionHandler construye el handler.
func NewAsignacionHandler(uc *asignacion.UseCase) *AsignacionHandler {
	return &AsignacionHandler{uc: uc}
}

// Create crea (o reactiva) una asignación. Una reactivación responde 200, una
// creación 201.
func (h *AsignacionHandler) Create(c *fiber.Ctx) error {
	var in dto.CrearAsignacionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, reactivada, err := h.uc.Crear(GetJerarquia(c), in)
	if err != nil {
		return responderError(c, err)
	}
	if reactivada {
		return c.JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Importar procesa el lote ítem por ítem y devuelve el resumen estructurado.
func (h *AsignacionHandler) Importar(c *fiber.Ctx) error {
	var in dto.ImportarAsignacionesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items vacío"})
	}
	return c.JSON(h.uc.ImportarBulk(GetJerarquia(c), in))
}

// List devuelve asignaciones paginadas.
func (h *AsignacionHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	out, err := h.uc.Listar(page.Limit, page.Offset)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// Deactivate desactiva la asignación (nunca hay borrado físico).
func (h *AsignacionHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Desactivar(c.Params("id")); err != nil {
		return responderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
