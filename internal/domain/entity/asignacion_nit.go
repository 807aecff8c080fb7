package entity

import "time"

// AsignacionNit es la regla de ruteo NIT -> responsable. GrupoID nil denota una
// asignación global, visible transitivamente desde cualquier grupo del
// responsable dueño. Las asignaciones se desactivan, nunca se borran, para
// preservar la trazabilidad.
type AsignacionNit struct {
	ID                          string
	Nit                         string // siempre en forma canónica "dígitos-DV"
	NombreProveedor             string
	EmailProveedor              string // contacto del emisor para avisos de devolución
	ResponsableID               string
	GrupoID                     *string // nil = global
	PermiteAprobacionAutomatica bool
	RequiereRevisionSiempre     bool
	Activo                      bool
	CreatedAt                   time.Time
	UpdatedAt                   time.Time
}

// EsGlobal informa si la asignación aplica a todos los grupos del responsable.
func (a *AsignacionNit) EsGlobal() bool {
	return a.GrupoID == nil
}
