package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/facturas-pro/internal/application/dto"
	"github.com/tu-usuario/facturas-pro/internal/application/usecase"
)

// ResponsableHandler maneja el CRUD de responsables (solo roles administrativos).
type ResponsableHandler struct {
	uc *usecase.ResponsableUseCase
}

// NewResponsableHandler construye el handler.
func NewResponsableHandler(uc *usecase.ResponsableUseCase) *ResponsableHandler {
	return &ResponsableHandler{uc: uc}
}

// Create crea un responsable con sus membresías iniciales.
func (h *ResponsableHandler) Create(c *fiber.Ctx) error {
	var in dto.CrearResponsableRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Crear(in)
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID obtiene un responsable por ID.
func (h *ResponsableHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Obtener(c.Params("id"))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// List devuelve responsables paginados.
func (h *ResponsableHandler) List(c *fiber.Ctx) error {
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

// SetGrupos reemplaza las membresías directas del responsable.
func (h *ResponsableHandler) SetGrupos(c *fiber.Ctx) error {
	var in dto.ActualizarGruposRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ActualizarGrupos(c.Params("id"), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// Deactivate desactiva al responsable.
func (h *ResponsableHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Desactivar(c.Params("id")); err != nil {
		return responderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
