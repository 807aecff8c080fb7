package tenancy

import (
	"fmt"

	"github.com/tu-usuario/facturas-pro/internal/domain"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
)

// Alcance es el resultado del filtro multi-tenant: o vista global (solo roles
// elevados sin contexto de grupo) o un conjunto cerrado de grupos visibles.
// Todo camino de lectura pasa por aquí; es el único punto que impide fugas
// entre tenants.
type Alcance struct {
	Global   bool
	GrupoIDs []string // cierre de grupos visibles cuando no es global
}

// Incluye informa si un grupo está dentro del alcance.
func (a *Alcance) Incluye(grupoID string) bool {
	if a.Global {
		return true
	}
	for _, id := range a.GrupoIDs {
		if id == grupoID {
			return true
		}
	}
	return false
}

// ResolverAlcance aplica la regla del encabezado X-Grupo-Id:
//
//   - grupoID ausente: solo superadmin/admin; se interpreta como vista global.
//     Para los demás roles la ausencia es un error tipado, nunca un default.
//   - grupoID presente: el alcance es ese grupo más su cierre de
//     descendientes, intersectado con la autoridad transitiva del actor. El
//     filtro nunca amplía alcance más allá de las membresías propias, ni
//     siquiera para admin; solo superadmin ve cualquier grupo.
func ResolverAlcance(j *Jerarquia, grupoID *string, rol string, membresias []string) (*Alcance, error) {
	if grupoID == nil {
		if !entity.EsRolElevado(rol) {
			return nil, domain.ErrContextoTenantAusente
		}
		return &Alcance{Global: true}, nil
	}

	if !j.Existe(*grupoID) {
		return nil, fmt.Errorf("%w: grupo %s", domain.ErrNoEncontrado, *grupoID)
	}

	if rol != entity.RolSuperadmin && !tieneAutoridadSobre(j, membresias, *grupoID) {
		return nil, fmt.Errorf("%w: grupo %s", domain.ErrAlcanceDenegado, *grupoID)
	}

	desc := j.Descendientes(*grupoID)
	ids := make([]string, 0, len(desc))
	for id := range desc {
		ids = append(ids, id)
	}
	return &Alcance{GrupoIDs: ids}, nil
}

// tieneAutoridadSobre aplica la regla transitiva: pertenecer a un grupo da
// autoridad sobre ese grupo y todos sus descendientes (nunca hacia arriba).
func tieneAutoridadSobre(j *Jerarquia, membresias []string, grupoID string) bool {
	for _, m := range membresias {
		if m == grupoID || j.EsAncestroDe(m, grupoID) {
			return true
		}
	}
	return false
}
