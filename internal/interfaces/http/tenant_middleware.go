package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/facturas-pro/internal/application/tenancy"
	"github.com/tu-usuario/facturas-pro/internal/application/usecase"
	"github.com/tu-usuario/facturas-pro/internal/domain/repository"
)

// Locals keys del filtro de alcance.
const (
	LocalAlcance   = "alcance"
	LocalJerarquia = "jerarquia"
	LocalGrupoCtx  = "grupo_ctx"
)

// HeaderGrupo es el encabezado del contexto de grupo multi-tenant.
const HeaderGrupo = "X-Grupo-Id"

// TenantMiddleware resuelve el alcance de la petición desde X-Grupo-Id, el rol
// del actor y sus membresías. Corre después de AuthMiddleware; todo listado y
// detalle de facturas pasa por el alcance resultante.
func TenantMiddleware(grupoUC *usecase.GrupoUseCase, responsables repository.ResponsableRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		j, err := grupoUC.Jerarquia()
		if err != nil {
			return responderError(c, err)
		}

		var grupoCtx *string
		if h := strings.TrimSpace(c.Get(HeaderGrupo)); h != "" {
			grupoCtx = &h
		}

		var membresias []string
		if r, err := responsables.GetByID(GetResponsableID(c)); err != nil {
			return responderError(c, err)
		} else if r != nil {
			membresias = r.Grupos
		}

		alcance, err := tenancy.ResolverAlcance(j, grupoCtx, GetRol(c), membresias)
		if err != nil {
			return responderError(c, err)
		}

		c.Locals(LocalAlcance, alcance)
		c.Locals(LocalJerarquia, j)
		if grupoCtx != nil {
			c.Locals(LocalGrupoCtx, *grupoCtx)
		}
		return c.Next()
	}
}

// GetAlcance devuelve el alcance resuelto por TenantMiddleware.
func GetAlcance(c *fiber.Ctx) *tenancy.Alcance {
	v, _ := c.Locals(LocalAlcance).(*tenancy.Alcance)
	return v
}

// GetJerarquia devuelve la jerarquía de la petición.
func GetJerarquia(c *fiber.Ctx) *tenancy.Jerarquia {
	v, _ := c.Locals(LocalJerarquia).(*tenancy.Jerarquia)
	return v
}

// GetGrupoCtx devuelve el contexto de grupo de la petición (nil = global).
func GetGrupoCtx(c *fiber.Ctx) *string {
	v := c.Locals(LocalGrupoCtx)
	if v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}
