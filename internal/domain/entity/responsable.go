package entity

import "time"

// Roles de la aplicación. La autoridad de un responsable sobre un grupo es
// transitiva: pertenecer a G implica autoridad sobre G y sus descendientes.
const (
	RolSuperadmin  = "superadmin"
	RolAdmin       = "admin"
	RolResponsable = "responsable"
	RolContador    = "contador"
	RolViewer      = "viewer"

	// ActorSistema identifica al motor en transiciones automáticas (auto-aprobación).
	ActorSistema = "system"
)

// RolValido informa si rol es uno de los roles conocidos.
func RolValido(rol string) bool {
	switch rol {
	case RolSuperadmin, RolAdmin, RolResponsable, RolContador, RolViewer:
		return true
	}
	return false
}

// EsRolElevado informa si el rol puede operar sin contexto de grupo (vista global).
func EsRolElevado(rol string) bool {
	return rol == RolSuperadmin || rol == RolAdmin
}

// Responsable es el revisor/operador humano de facturas.
type Responsable struct {
	ID           string
	Username     string
	Nombre       string
	Email        string
	PasswordHash string
	Rol          string
	Grupos       []string // IDs de grupos a los que pertenece (membresía directa)
	Activo       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PerteneceA informa si el responsable tiene membresía directa en el grupo.
func (r *Responsable) PerteneceA(grupoID string) bool {
	for _, g := range r.Grupos {
		if g == grupoID {
			return true
		}
	}
	return false
}
