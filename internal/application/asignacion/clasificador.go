package asignacion

import (
	"github.com/tu-usuario/facturas-pro/internal/application/tenancy"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
	"github.com/tu-usuario/facturas-pro/internal/domain/repository"
)

// Clasificacion decide el destino de una factura entrante: o queda asignada a
// un grupo y responsable, o entra en cuarentena (grupo nulo).
type Clasificacion struct {
	EnCuarentena  bool
	GrupoID       *string
	ResponsableID string
	Asignacion    *entity.AsignacionNit
}

// Clasificador rutea facturas entrantes delegando en el resolutor. La
// visibilidad de la cuarentena (solo admin/superadmin) la impone el filtro de
// alcance en la capa HTTP, no este componente.
type Clasificador struct {
	resolver *Resolver
	facturas repository.FacturaRepository
}

// NewClasificador construye el clasificador.
func NewClasificador(resolver *Resolver, facturas repository.FacturaRepository) *Clasificador {
	return &Clasificador{resolver: resolver, facturas: facturas}
}

// Clasificar resuelve el NIT bajo el contexto dado. Sin asignación resoluble,
// o sin grupo determinable, la factura va a cuarentena.
func (c *Clasificador) Clasificar(j *tenancy.Jerarquia, nit string, grupoCtx *string) (*Clasificacion, error) {
	res, err := c.resolver.Resolver(j, nit, grupoCtx)
	if err != nil {
		return nil, err
	}
	if !res.Asignada || res.GrupoID == nil {
		return &Clasificacion{EnCuarentena: true}, nil
	}
	return &Clasificacion{
		GrupoID:       res.GrupoID,
		ResponsableID: res.ResponsableID,
		Asignacion:    res.Asignacion,
	}, nil
}

// ResumenCuarentena devuelve el agregado por NIT (cantidad e impacto
// financiero) de las facturas en cuarentena. Vista derivada, recomputable.
func (c *Clasificador) ResumenCuarentena() ([]*repository.CuarentenaResumenItem, error) {
	return c.facturas.ResumenCuarentena()
}
