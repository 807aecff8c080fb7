package repository

import "github.com/tu-usuario/facturas-pro/internal/domain/entity"

// ResponsableRepository define el puerto de persistencia para Responsable.
// Las lecturas cargan también las membresías de grupo (campo Grupos).
type ResponsableRepository interface {
	Create(r *entity.Responsable) error
	Update(r *entity.Responsable) error
	GetByID(id string) (*entity.Responsable, error)
	GetByUsername(username string) (*entity.Responsable, error)
	List(limit, offset int) ([]*entity.Responsable, error)
	ListByGrupo(grupoID string) ([]*entity.Responsable, error)
	// SetGrupos reemplaza las membresías directas del responsable.
	SetGrupos(responsableID string, grupoIDs []string) error
	Deactivate(id string) error
}
