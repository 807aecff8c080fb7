package asignacion

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/facturas-pro/internal/application/dto"
	"github.com/tu-usuario/facturas-pro/internal/application/tenancy"
	"github.com/tu-usuario/facturas-pro/internal/domain"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
	"github.com/tu-usuario/facturas-pro/internal/domain/repository"
	"github.com/tu-usuario/facturas-pro/pkg/dian"
)

// UseCase administra asignaciones NIT -> responsable: creación individual,
// import masivo, desactivación y reactivación. Las asignaciones nunca se
// borran físicamente para preservar la trazabilidad.
type UseCase struct {
	asignaciones repository.AsignacionRepository
	responsables repository.ResponsableRepository
	grupos       repository.GrupoRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	asignaciones repository.AsignacionRepository,
	responsables repository.ResponsableRepository,
	grupos repository.GrupoRepository,
) *UseCase {
	return &UseCase{asignaciones: asignaciones, responsables: responsables, grupos: grupos}
}

// Crear valida y persiste una asignación. El NIT se canonicaliza siempre antes
// de guardar. Si la clave (nit, responsable, grupo) ya existe activa retorna
// domain.ErrNitYaAsignado; si existe inactiva, la reactiva.
func (uc *UseCase) Crear(j *tenancy.Jerarquia, in dto.CrearAsignacionRequest) (*dto.AsignacionResponse, bool, error) {
	nit, err := dian.Normalizar(in.Nit)
	if err != nil {
		return nil, false, err
	}
	if in.ResponsableID == "" {
		return nil, false, fmt.Errorf("%w: responsable_id", domain.ErrCampoRequerido)
	}
	resp, err := uc.responsables.GetByID(in.ResponsableID)
	if err != nil {
		return nil, false, err
	}
	if resp == nil || !resp.Activo {
		return nil, false, fmt.Errorf("%w: responsable %s", domain.ErrNoEncontrado, in.ResponsableID)
	}
	if in.GrupoID != nil && !j.Existe(*in.GrupoID) {
		return nil, false, fmt.Errorf("%w: grupo %s", domain.ErrNoEncontrado, *in.GrupoID)
	}

	existente, err := uc.asignaciones.FindPorClave(nit, in.ResponsableID, in.GrupoID)
	if err != nil {
		return nil, false, err
	}
	if existente != nil {
		if existente.Activo {
			return nil, false, domain.ErrNitYaAsignado
		}
		if err := uc.asignaciones.Reactivate(existente.ID); err != nil {
			return nil, false, err
		}
		existente.Activo = true
		return toAsignacionResponse(existente), true, nil
	}

	now := time.Now()
	a := &entity.AsignacionNit{
		ID:                          uuid.New().String(),
		Nit:                         nit,
		NombreProveedor:             strings.TrimSpace(in.NombreProveedor),
		EmailProveedor:              strings.ToLower(strings.TrimSpace(in.EmailProveedor)),
		ResponsableID:               in.ResponsableID,
		GrupoID:                     in.GrupoID,
		PermiteAprobacionAutomatica: in.PermiteAprobacionAutomatica,
		RequiereRevisionSiempre:     in.RequiereRevisionSiempre,
		Activo:                      true,
		CreatedAt:                   now,
		UpdatedAt:                   now,
	}
	if err := uc.asignaciones.Create(a); err != nil {
		return nil, false, err
	}
	return toAsignacionResponse(a), false, nil
}

// ImportarBulk procesa cada ítem de forma independiente, cada uno en su propia
// transacción: un ítem inválido nunca aborta el lote. El resultado es el
// resumen estructurado creadas/reactivadas/omitidas/con_error.
func (uc *UseCase) ImportarBulk(j *tenancy.Jerarquia, in dto.ImportarAsignacionesRequest) *dto.ResumenImportacion {
	resumen := &dto.ResumenImportacion{}
	for _, item := range in.Items {
		_, reactivada, err := uc.Crear(j, item)
		switch {
		case err == nil && reactivada:
			resumen.Reactivadas++
		case err == nil:
			resumen.Creadas++
		case errors.Is(err, domain.ErrNitYaAsignado):
			resumen.Omitidas++
		default:
			resumen.ConError = append(resumen.ConError, dto.ItemConError{
				Nit:   item.Nit,
				Error: err.Error(),
			})
		}
	}
	return resumen
}

// Desactivar marca la asignación como inactiva.
func (uc *UseCase) Desactivar(id string) error {
	a, err := uc.asignaciones.GetByID(id)
	if err != nil {
		return err
	}
	if a == nil {
		return domain.ErrNoEncontrado
	}
	return uc.asignaciones.Deactivate(id)
}

// Listar devuelve asignaciones paginadas.
func (uc *UseCase) Listar(limit, offset int) ([]*dto.AsignacionResponse, error) {
	items, err := uc.asignaciones.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AsignacionResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAsignacionResponse(a))
	}
	return out, nil
}

func toAsignacionResponse(a *entity.AsignacionNit) *dto.AsignacionResponse {
	return &dto.AsignacionResponse{
		ID:                          a.ID,
		Nit:                         a.Nit,
		NombreProveedor:             a.NombreProveedor,
		EmailProveedor:              a.EmailProveedor,
		ResponsableID:               a.ResponsableID,
		GrupoID:                     a.GrupoID,
		PermiteAprobacionAutomatica: a.PermiteAprobacionAutomatica,
		RequiereRevisionSiempre:     a.RequiereRevisionSiempre,
		Activo:                      a.Activo,
		CreatedAt:                   a.CreatedAt,
	}
}
