package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/facturas-pro/internal/application/dto"
	"github.com/tu-usuario/facturas-pro/internal/application/workflow"
	"github.com/tu-usuario/facturas-pro/pkg/jwt"
)

// Locals keys cargadas por los middlewares.
const (
	LocalResponsableID = "responsable_id"
	LocalUsername      = "username"
	LocalRol           = "rol"
)

// AuthMiddleware valida el Bearer Token JWT y extrae la identidad del actor a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		responsableID, username, rol, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalResponsableID, responsableID)
		c.Locals(LocalUsername, username)
		c.Locals(LocalRol, rol)
		return c.Next()
	}
}

// RequireRol autoriza solo a los roles listados (después de AuthMiddleware).
func RequireRol(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rol := GetRol(c)
		for _, r := range roles {
			if r == rol {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code: "FORBIDDEN", Message: "el rol no tiene acceso a esta operación"})
	}
}

// GetResponsableID devuelve el ID del actor autenticado.
func GetResponsableID(c *fiber.Ctx) string { return getLocalString(c, LocalResponsableID) }

// GetUsername devuelve el username del actor autenticado.
func GetUsername(c *fiber.Ctx) string { return getLocalString(c, LocalUsername) }

// GetRol devuelve el rol del actor autenticado.
func GetRol(c *fiber.Ctx) string { return getLocalString(c, LocalRol) }

// ActorDe arma el actor del workflow desde los locals de la petición.
func ActorDe(c *fiber.Ctx) workflow.Actor {
	return workflow.Actor{
		ID:       GetResponsableID(c),
		Username: GetUsername(c),
		Rol:      GetRol(c),
	}
}

func getLocalString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
