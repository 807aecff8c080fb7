package repository

import "github.com/tu-usuario/facturas-pro/internal/domain/entity"

// GrupoRepository define el puerto de persistencia para Grupo (DIP).
type GrupoRepository interface {
	Create(g *entity.Grupo) error
	Update(g *entity.Grupo) error
	GetByID(id string) (*entity.Grupo, error)
	GetByCodigo(codigo string) (*entity.Grupo, error)
	// ListActivos devuelve todos los grupos activos; la jerarquía en memoria
	// se construye a partir de este conjunto completo.
	ListActivos() ([]*entity.Grupo, error)
	// Deactivate marca el grupo como inactivo. Nunca hay borrado físico
	// mientras existan asignaciones o facturas que lo referencien.
	Deactivate(id string) error
	// TieneReferenciasActivas informa si el grupo tiene asignaciones o
	// facturas activas que impiden desactivarlo.
	TieneReferenciasActivas(id string) (bool, error)
}
