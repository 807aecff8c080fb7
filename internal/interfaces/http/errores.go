package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/facturas-pro/internal/application/dto"
	"github.com/tu-usuario/facturas-pro/internal/domain"
	"github.com/tu-usuario/facturas-pro/pkg/dian"
)

// responderError traduce los errores tipados del dominio al status HTTP. Los
// handlers nunca interpretan errores por texto.
func responderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, dian.ErrFormatoInvalido), errors.Is(err, dian.ErrDigitoVerificacion):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_NIT", Message: err.Error()})
	case errors.Is(err, domain.ErrCampoRequerido), errors.Is(err, domain.ErrEntradaInvalida):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrContextoTenantAusente):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_GROUP_CONTEXT",
			Message: "el encabezado " + HeaderGrupo + " es obligatorio para este rol"})
	case errors.Is(err, domain.ErrNoAutorizado):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrUsuarioInactivo):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "INACTIVE_USER", Message: "el usuario está inactivo"})
	case errors.Is(err, domain.ErrAccesoDenegado), errors.Is(err, domain.ErrAlcanceDenegado):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrNoEncontrado):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrNitYaAsignado):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NIT_ALREADY_ASSIGNED", Message: err.Error()})
	case errors.Is(err, domain.ErrReferenciaDuplicada):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrTransicionNoPermitida):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrModificacionConcurrente):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENT_MODIFICATION",
			Message: "la factura fue modificada por otro actor, reintente"})
	case errors.Is(err, domain.ErrJerarquiaInvalida):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_HIERARCHY", Message: err.Error()})
	case errors.Is(err, domain.ErrSaldoInsuficiente):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "AMOUNT_EXCEEDS_BALANCE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
