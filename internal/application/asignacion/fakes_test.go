package asignacion_test

import (
	"sort"
	"time"

	"github.com/tu-usuario/facturas-pro/internal/application/tenancy"
	"github.com/tu-usuario/facturas-pro/internal/domain"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
)

// Repos en memoria para los tests del resolutor y del caso de uso.

type fakeAsignaciones struct {
	items []*entity.AsignacionNit
}

func (r *fakeAsignaciones) Create(a *entity.AsignacionNit) error {
	for _, e := range r.items {
		if e.Activo && e.Nit == a.Nit && e.ResponsableID == a.ResponsableID && mismoGrupo(e.GrupoID, a.GrupoID) {
			return domain.ErrNitYaAsignado
		}
	}
	copia := *a
	r.items = append(r.items, &copia)
	return nil
}

func (r *fakeAsignaciones) GetByID(id string) (*entity.AsignacionNit, error) {
	for _, e := range r.items {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeAsignaciones) ListActivasPorNit(nit string) ([]*entity.AsignacionNit, error) {
	var out []*entity.AsignacionNit
	for _, e := range r.items {
		if e.Activo && e.Nit == nit {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, k int) bool {
		return out[i].CreatedAt.Before(out[k].CreatedAt)
	})
	return out, nil
}

func (r *fakeAsignaciones) FindPorClave(nit, responsableID string, grupoID *string) (*entity.AsignacionNit, error) {
	for _, e := range r.items {
		if e.Nit == nit && e.ResponsableID == responsableID && mismoGrupo(e.GrupoID, grupoID) {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeAsignaciones) List(limit, offset int) ([]*entity.AsignacionNit, error) {
	return r.items, nil
}

func (r *fakeAsignaciones) Reactivate(id string) error { return r.setActivo(id, true) }
func (r *fakeAsignaciones) Deactivate(id string) error { return r.setActivo(id, false) }

func (r *fakeAsignaciones) setActivo(id string, activo bool) error {
	for _, e := range r.items {
		if e.ID == id {
			e.Activo = activo
			return nil
		}
	}
	return domain.ErrNoEncontrado
}

func (r *fakeAsignaciones) Update(a *entity.AsignacionNit) error { return nil }

func mismoGrupo(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type fakeResponsables struct {
	m map[string]*entity.Responsable
}

func (r *fakeResponsables) Create(*entity.Responsable) error { return nil }
func (r *fakeResponsables) Update(*entity.Responsable) error { return nil }
func (r *fakeResponsables) GetByID(id string) (*entity.Responsable, error) {
	return r.m[id], nil
}
func (r *fakeResponsables) GetByUsername(string) (*entity.Responsable, error) { return nil, nil }
func (r *fakeResponsables) List(int, int) ([]*entity.Responsable, error) { return nil, nil }
func (r *fakeResponsables) ListByGrupo(string) ([]*entity.Responsable, error) { return nil, nil }
func (r *fakeResponsables) SetGrupos(string, []string) error { return nil }
func (r *fakeResponsables) Deactivate(string) error { return nil }

type fakeGrupos struct {
	grupos []*entity.Grupo
}

func (r *fakeGrupos) Create(*entity.Grupo) error { return nil }
func (r *fakeGrupos) Update(*entity.Grupo) error { return nil }
func (r *fakeGrupos) GetByID(id string) (*entity.Grupo, error) {
	for _, g := range r.grupos {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, nil
}
func (r *fakeGrupos) GetByCodigo(string) (*entity.Grupo, error) { return nil, nil }
func (r *fakeGrupos) ListActivos() ([]*entity.Grupo, error) { return r.grupos, nil }
func (r *fakeGrupos) Deactivate(string) error { return nil }
func (r *fakeGrupos) TieneReferenciasActivas(string) (bool, error) { return false, nil }

// jerarquiaDePrueba arma el árbol usado en todos los tests del paquete:
//
//	g-root (0)
//	├── g-bog (1)
//	│   └── g-bog-norte (2)
//	└── g-med (1)
func jerarquiaDePrueba() *tenancy.Jerarquia {
	root := "g-root"
	bog := "g-bog"
	grupos := []*entity.Grupo{
		{ID: "g-root", Codigo: "CORP", Nombre: "Corporativo", Nivel: 0, Activo: true},
		{ID: "g-bog", Codigo: "BOG", Nombre: "Sede Bogotá", PadreID: &root, Nivel: 1, Activo: true},
		{ID: "g-med", Codigo: "MED", Nombre: "Sede Medellín", PadreID: &root, Nivel: 1, Activo: true},
		{ID: "g-bog-norte", Codigo: "BOG-N", Nombre: "Sub-sede Bogotá Norte", PadreID: &bog, Nivel: 2, Activo: true},
	}
	return tenancy.NuevaJerarquia(grupos)
}

func ptr(s string) *string { return &s }

func asignacion(id, nit, responsableID string, grupoID *string, creada time.Time) *entity.AsignacionNit {
	return &entity.AsignacionNit{
		ID:            id,
		Nit:           nit,
		ResponsableID: responsableID,
		GrupoID:       grupoID,
		Activo:        true,
		CreatedAt:     creada,
		UpdatedAt:     creada,
	}
}
