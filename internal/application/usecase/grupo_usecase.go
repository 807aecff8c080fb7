package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/facturas-pro/internal/application/dto"
	"github.com/tu-usuario/facturas-pro/internal/application/tenancy"
	"github.com/tu-usuario/facturas-pro/internal/domain"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
	"github.com/tu-usuario/facturas-pro/internal/domain/repository"
)

// GrupoUseCase administra el árbol de grupos. La jerarquía se reconstruye del
// snapshot de grupos activos en cada operación; no se cachea entre requests.
type GrupoUseCase struct {
	grupos repository.GrupoRepository
}

// NewGrupoUseCase construye el caso de uso.
func NewGrupoUseCase(grupos repository.GrupoRepository) *GrupoUseCase {
	return &GrupoUseCase{grupos: grupos}
}

// Jerarquia arma la jerarquía en memoria desde los grupos activos.
func (uc *GrupoUseCase) Jerarquia() (*tenancy.Jerarquia, error) {
	activos, err := uc.grupos.ListActivos()
	if err != nil {
		return nil, err
	}
	return tenancy.NuevaJerarquia(activos), nil
}

// Crear valida y persiste un grupo nuevo. PadreID nulo crea la raíz
// corporativa; como política de la aplicación solo puede existir una raíz
// activa, aunque el modelo de datos no lo imponga.
func (uc *GrupoUseCase) Crear(in dto.CrearGrupoRequest) (*dto.GrupoResponse, error) {
	codigo := strings.ToUpper(strings.TrimSpace(in.Codigo))
	nombre := strings.TrimSpace(in.Nombre)
	if codigo == "" || nombre == "" {
		return nil, fmt.Errorf("%w: codigo y nombre", domain.ErrCampoRequerido)
	}

	existente, err := uc.grupos.GetByCodigo(codigo)
	if err != nil {
		return nil, err
	}
	if existente != nil {
		return nil, fmt.Errorf("%w: código %s", domain.ErrReferenciaDuplicada, codigo)
	}

	j, err := uc.Jerarquia()
	if err != nil {
		return nil, err
	}

	nivel := 0
	if in.PadreID != nil {
		padre := j.Grupo(*in.PadreID)
		if padre == nil {
			return nil, fmt.Errorf("%w: el padre %s no existe o está inactivo",
				domain.ErrJerarquiaInvalida, *in.PadreID)
		}
		nivel = padre.Nivel + 1
	} else if len(j.Raices()) > 0 {
		return nil, fmt.Errorf("%w: ya existe un grupo raíz activo", domain.ErrJerarquiaInvalida)
	}
	if err := j.ValidarPadre("", in.PadreID, nivel); err != nil {
		return nil, err
	}

	now := time.Now()
	g := &entity.Grupo{
		ID:        uuid.New().String(),
		Codigo:    codigo,
		Nombre:    nombre,
		PadreID:   in.PadreID,
		Nivel:     nivel,
		Activo:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.grupos.Create(g); err != nil {
		return nil, err
	}
	return toGrupoResponse(g), nil
}

// Actualizar renombra el grupo. El código y el padre son inmutables: mover un
// subárbol cambiaría retroactivamente el alcance de facturas ya ruteadas.
func (uc *GrupoUseCase) Actualizar(id string, in dto.ActualizarGrupoRequest) (*dto.GrupoResponse, error) {
	g, err := uc.grupos.GetByID(id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("%w: grupo %s", domain.ErrNoEncontrado, id)
	}
	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" {
		return nil, fmt.Errorf("%w: nombre", domain.ErrCampoRequerido)
	}
	g.Nombre = nombre
	g.UpdatedAt = time.Now()
	if err := uc.grupos.Update(g); err != nil {
		return nil, err
	}
	return toGrupoResponse(g), nil
}

// Obtener devuelve el grupo por ID.
func (uc *GrupoUseCase) Obtener(id string) (*dto.GrupoResponse, error) {
	g, err := uc.grupos.GetByID(id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("%w: grupo %s", domain.ErrNoEncontrado, id)
	}
	return toGrupoResponse(g), nil
}

// ListarActivos devuelve todos los grupos activos.
func (uc *GrupoUseCase) ListarActivos() ([]*dto.GrupoResponse, error) {
	activos, err := uc.grupos.ListActivos()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.GrupoResponse, 0, len(activos))
	for _, g := range activos {
		out = append(out, toGrupoResponse(g))
	}
	return out, nil
}

// Desactivar marca el grupo como inactivo. Se rechaza si tiene hijos activos o
// asignaciones/facturas que lo referencien; nunca hay borrado físico.
func (uc *GrupoUseCase) Desactivar(id string) error {
	g, err := uc.grupos.GetByID(id)
	if err != nil {
		return err
	}
	if g == nil {
		return fmt.Errorf("%w: grupo %s", domain.ErrNoEncontrado, id)
	}

	j, err := uc.Jerarquia()
	if err != nil {
		return err
	}
	if len(j.Descendientes(id)) > 1 { // el cierre incluye al propio grupo
		return fmt.Errorf("%w: el grupo tiene hijos activos", domain.ErrJerarquiaInvalida)
	}

	ocupado, err := uc.grupos.TieneReferenciasActivas(id)
	if err != nil {
		return err
	}
	if ocupado {
		return fmt.Errorf("%w: el grupo tiene asignaciones o facturas activas", domain.ErrJerarquiaInvalida)
	}
	return uc.grupos.Deactivate(id)
}

func toGrupoResponse(g *entity.Grupo) *dto.GrupoResponse {
	return &dto.GrupoResponse{
		ID:        g.ID,
		Codigo:    g.Codigo,
		Nombre:    g.Nombre,
		PadreID:   g.PadreID,
		Nivel:     g.Nivel,
		Activo:    g.Activo,
		CreatedAt: g.CreatedAt,
	}
}
