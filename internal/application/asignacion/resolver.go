package asignacion

import (
	"sort"

	"github.com/tu-usuario/facturas-pro/internal/application/tenancy"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
	"github.com/tu-usuario/facturas-pro/internal/domain/repository"
)

// Resolucion es el resultado de resolver un NIT contra las asignaciones.
// Asignada=false significa "sin asignación": la factura va a cuarentena.
type Resolucion struct {
	Asignada      bool
	Asignacion    *entity.AsignacionNit
	ResponsableID string
	// GrupoID es el grupo resuelto para la factura: el de la asignación si lo
	// tiene, si no el contexto de la petición, si no la membresía más cercana
	// a la raíz del responsable (determinista). nil solo cuando nada aplica.
	GrupoID *string
}

// Resolver aplica la regla transitiva de asignación. Es determinista dado un
// snapshot consistente de asignaciones y grupos: entradas idénticas producen
// siempre la misma resolución, requisito para auditar por qué una factura
// quedó con un revisor dado.
type Resolver struct {
	asignaciones repository.AsignacionRepository
	responsables repository.ResponsableRepository
}

// NewResolver construye el resolutor con sus puertos de lectura.
func NewResolver(asignaciones repository.AsignacionRepository, responsables repository.ResponsableRepository) *Resolver {
	return &Resolver{asignaciones: asignaciones, responsables: responsables}
}

// Resolver busca la asignación responsable del NIT canónico bajo el contexto
// de grupo dado (nil = vista global). Una asignación es candidata si:
//
//	(a) no tiene grupo (global), o
//	(b) su grupo es exactamente el contexto, o
//	(c) el contexto es ancestro de su grupo (descendiente visible desde arriba), o
//	(d) su responsable tiene membresía en el cierre ancestro/descendiente del
//	    contexto, sin importar el grupo de la propia asignación.
//
// Desempate: grupo más específico (nivel más profundo) primero; a igualdad, la
// asignación activa más antigua.
func (r *Resolver) Resolver(j *tenancy.Jerarquia, nit string, grupoCtx *string) (*Resolucion, error) {
	activas, err := r.asignaciones.ListActivasPorNit(nit)
	if err != nil {
		return nil, err
	}
	if len(activas) == 0 {
		return &Resolucion{}, nil
	}

	var candidatas []*entity.AsignacionNit
	for _, a := range activas {
		ok, err := r.esCandidata(j, a, grupoCtx)
		if err != nil {
			return nil, err
		}
		if ok {
			candidatas = append(candidatas, a)
		}
	}
	if len(candidatas) == 0 {
		return &Resolucion{}, nil
	}

	elegida := r.desempatar(j, candidatas)
	grupo, err := r.grupoResuelto(j, elegida, grupoCtx)
	if err != nil {
		return nil, err
	}
	return &Resolucion{
		Asignada:      true,
		Asignacion:    elegida,
		ResponsableID: elegida.ResponsableID,
		GrupoID:       grupo,
	}, nil
}

func (r *Resolver) esCandidata(j *tenancy.Jerarquia, a *entity.AsignacionNit, grupoCtx *string) (bool, error) {
	if grupoCtx == nil {
		// vista global: toda asignación activa es candidata
		return true, nil
	}
	if a.GrupoID == nil {
		return r.responsableEnCierre(j, a.ResponsableID, *grupoCtx)
	}
	if *a.GrupoID == *grupoCtx || j.EsAncestroDe(*grupoCtx, *a.GrupoID) {
		return true, nil
	}
	return r.responsableEnCierre(j, a.ResponsableID, *grupoCtx)
}

// responsableEnCierre informa si el responsable de la asignación tiene alguna
// membresía en el cierre ancestro/descendiente del grupo de contexto.
func (r *Resolver) responsableEnCierre(j *tenancy.Jerarquia, responsableID, grupoCtx string) (bool, error) {
	resp, err := r.responsables.GetByID(responsableID)
	if err != nil {
		return false, err
	}
	if resp == nil || !resp.Activo {
		return false, nil
	}
	desc := j.Descendientes(grupoCtx)
	for _, m := range resp.Grupos {
		if _, ok := desc[m]; ok {
			return true, nil
		}
		if j.EsAncestroDe(m, grupoCtx) {
			return true, nil
		}
	}
	return false, nil
}

// desempatar ordena las candidatas: grupo más profundo primero (global cuenta
// como nivel -1), luego fecha de creación ascendente, luego ID para
// estabilidad total.
func (r *Resolver) desempatar(j *tenancy.Jerarquia, candidatas []*entity.AsignacionNit) *entity.AsignacionNit {
	nivel := func(a *entity.AsignacionNit) int {
		if a.GrupoID == nil {
			return -1
		}
		return j.Nivel(*a.GrupoID)
	}
	sort.SliceStable(candidatas, func(i, k int) bool {
		ni, nk := nivel(candidatas[i]), nivel(candidatas[k])
		if ni != nk {
			return ni > nk // más profundo primero
		}
		if !candidatas[i].CreatedAt.Equal(candidatas[k].CreatedAt) {
			return candidatas[i].CreatedAt.Before(candidatas[k].CreatedAt)
		}
		return candidatas[i].ID < candidatas[k].ID
	})
	return candidatas[0]
}

// grupoResuelto determina el grupo que recibirá la factura.
func (r *Resolver) grupoResuelto(j *tenancy.Jerarquia, a *entity.AsignacionNit, grupoCtx *string) (*string, error) {
	if a.GrupoID != nil {
		return a.GrupoID, nil
	}
	if grupoCtx != nil {
		return grupoCtx, nil
	}
	// asignación global resuelta en vista global: cae en la membresía del
	// responsable más cercana a la raíz (con ID como desempate estable)
	resp, err := r.responsables.GetByID(a.ResponsableID)
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Grupos) == 0 {
		return nil, nil
	}
	elegido := ""
	mejorNivel := int(^uint(0) >> 1)
	for _, m := range resp.Grupos {
		n := j.Nivel(m)
		if n < 0 {
			continue
		}
		if n < mejorNivel || (n == mejorNivel && m < elegido) {
			mejorNivel = n
			elegido = m
		}
	}
	if elegido == "" {
		return nil, nil
	}
	return &elegido, nil
}
