package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/facturas-pro/internal/application/dto"
	"github.com/tu-usuario/facturas-pro/internal/application/usecase"
)

// GrupoHandler maneja el CRUD del árbol de grupos (solo roles administrativos).
type GrupoHandler struct {
	uc *usecase.GrupoUseCase
}

// NewGrupoHandler construye el handler.
func NewGrupoHandler(uc *usecase.GrupoUseCase) *GrupoHandler {
	return &GrupoHandler{uc: uc}
}

// Create crea un grupo; padre_id nulo crea la raíz corporativa.
func (h *GrupoHandler) Create(c *fiber.Ctx) error {
	var in dto.CrearGrupoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Crear(in)
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update renombra el grupo. El código y el padre son inmutables.
func (h *GrupoHandler) Update(c *fiber.Ctx) error {
	var in dto.ActualizarGrupoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Actualizar(c.Params("id"), in)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// GetByID obtiene un grupo por ID.
func (h *GrupoHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Obtener(c.Params("id"))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// List devuelve todos los grupos activos.
func (h *GrupoHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListarActivos()
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(out)
}

// Deactivate desactiva el grupo (sin borrado físico).
func (h *GrupoHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Desactivar(c.Params("id")); err != nil {
		return responderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
