package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/facturas-pro/internal/application/dto"
	"github.com/tu-usuario/facturas-pro/internal/domain"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
	"github.com/tu-usuario/facturas-pro/internal/domain/repository"
)

const passwordMinLen = 8

// ResponsableUseCase administra responsables y sus membresías de grupo.
type ResponsableUseCase struct {
	responsables repository.ResponsableRepository
	grupos       repository.GrupoRepository
}

// NewResponsableUseCase construye el caso de uso.
func NewResponsableUseCase(
	responsables repository.ResponsableRepository,
	grupos repository.GrupoRepository,
) *ResponsableUseCase {
	return &ResponsableUseCase{responsables: responsables, grupos: grupos}
}

// Crear valida y persiste un responsable: hashea el password con bcrypt y
// registra las membresías iniciales.
func (uc *ResponsableUseCase) Crear(in dto.CrearResponsableRequest) (*dto.ResponsableResponse, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if username == "" || strings.TrimSpace(in.Email) == "" {
		return nil, fmt.Errorf("%w: username y email", domain.ErrCampoRequerido)
	}
	if len(in.Password) < passwordMinLen {
		return nil, fmt.Errorf("%w: el password requiere al menos %d caracteres",
			domain.ErrEntradaInvalida, passwordMinLen)
	}
	if !entity.RolValido(in.Rol) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrEntradaInvalida, in.Rol)
	}

	existente, err := uc.responsables.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existente != nil {
		return nil, fmt.Errorf("%w: username %s", domain.ErrReferenciaDuplicada, username)
	}

	for _, grupoID := range in.Grupos {
		g, err := uc.grupos.GetByID(grupoID)
		if err != nil {
			return nil, err
		}
		if g == nil || !g.Activo {
			return nil, fmt.Errorf("%w: grupo %s", domain.ErrNoEncontrado, grupoID)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	r := &entity.Responsable{
		ID:           uuid.New().String(),
		Username:     username,
		Nombre:       strings.TrimSpace(in.Nombre),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		Rol:          in.Rol,
		Grupos:       in.Grupos,
		Activo:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.responsables.Create(r); err != nil {
		return nil, err
	}
	return toResponsableResponse(r), nil
}

// Obtener devuelve el responsable por ID.
func (uc *ResponsableUseCase) Obtener(id string) (*dto.ResponsableResponse, error) {
	r, err := uc.responsables.GetByID(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: responsable %s", domain.ErrNoEncontrado, id)
	}
	return toResponsableResponse(r), nil
}

// Listar devuelve responsables paginados.
func (uc *ResponsableUseCase) Listar(limit, offset int) ([]*dto.ResponsableResponse, error) {
	items, err := uc.responsables.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ResponsableResponse, 0, len(items))
	for _, r := range items {
		out = append(out, toResponsableResponse(r))
	}
	return out, nil
}

// ActualizarGrupos reemplaza las membresías directas del responsable.
func (uc *ResponsableUseCase) ActualizarGrupos(id string, in dto.ActualizarGruposRequest) (*dto.ResponsableResponse, error) {
	r, err := uc.responsables.GetByID(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: responsable %s", domain.ErrNoEncontrado, id)
	}
	for _, grupoID := range in.Grupos {
		g, err := uc.grupos.GetByID(grupoID)
		if err != nil {
			return nil, err
		}
		if g == nil || !g.Activo {
			return nil, fmt.Errorf("%w: grupo %s", domain.ErrNoEncontrado, grupoID)
		}
	}
	if err := uc.responsables.SetGrupos(id, in.Grupos); err != nil {
		return nil, err
	}
	r.Grupos = in.Grupos
	return toResponsableResponse(r), nil
}

// Desactivar marca al responsable como inactivo. Sus asignaciones quedan en
// pie pero dejan de calificar en el resolutor hasta reasignarse.
func (uc *ResponsableUseCase) Desactivar(id string) error {
	r, err := uc.responsables.GetByID(id)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("%w: responsable %s", domain.ErrNoEncontrado, id)
	}
	return uc.responsables.Deactivate(id)
}

func toResponsableResponse(r *entity.Responsable) *dto.ResponsableResponse {
	return &dto.ResponsableResponse{
		ID:        r.ID,
		Username:  r.Username,
		Nombre:    r.Nombre,
		Email:     r.Email,
		Rol:       r.Rol,
		Grupos:    r.Grupos,
		Activo:    r.Activo,
		CreatedAt: r.CreatedAt,
	}
}
