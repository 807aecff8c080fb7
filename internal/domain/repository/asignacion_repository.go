package repository

import "github.com/tu-usuario/facturas-pro/internal/domain/entity"

// AsignacionRepository define el puerto de persistencia para AsignacionNit.
type AsignacionRepository interface {
	// Create persiste la asignación. Si ya existe una asignación activa para
	// (nit, responsable, grupo) retorna domain.ErrNitYaAsignado tipado, nunca
	// un error genérico a interpretar por texto.
	Create(a *entity.AsignacionNit) error
	GetByID(id string) (*entity.AsignacionNit, error)
	// ListActivasPorNit devuelve las asignaciones activas del NIT canónico,
	// ordenadas por fecha de creación ascendente (desempate determinista).
	ListActivasPorNit(nit string) ([]*entity.AsignacionNit, error)
	// FindPorClave busca la asignación (activa o no) para la clave natural.
	// grupoID nil busca la asignación global.
	FindPorClave(nit, responsableID string, grupoID *string) (*entity.AsignacionNit, error)
	List(limit, offset int) ([]*entity.AsignacionNit, error)
	Reactivate(id string) error
	Deactivate(id string) error
	Update(a *entity.AsignacionNit) error
}
