package tenancy

import (
	"fmt"

	"github.com/tu-usuario/facturas-pro/internal/domain"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
)

// Jerarquia es el árbol de grupos activos construido una vez por request a
// partir del conjunto completo. Los árboles observados son poco profundos
// (niveles 0 a 3), así que los recorridos son triviales: O(profundidad) para
// ancestros y O(n) para el cierre de descendientes.
type Jerarquia struct {
	porID map[string]*entity.Grupo
	hijos map[string][]string
}

// NuevaJerarquia indexa los grupos activos. No valida invariantes: la
// validación de escritura es responsabilidad de ValidarPadre.
func NuevaJerarquia(grupos []*entity.Grupo) *Jerarquia {
	j := &Jerarquia{
		porID: make(map[string]*entity.Grupo, len(grupos)),
		hijos: make(map[string][]string),
	}
	for _, g := range grupos {
		j.porID[g.ID] = g
	}
	for _, g := range grupos {
		if g.PadreID != nil {
			j.hijos[*g.PadreID] = append(j.hijos[*g.PadreID], g.ID)
		}
	}
	return j
}

// Existe informa si el grupo está en el conjunto activo.
func (j *Jerarquia) Existe(id string) bool {
	_, ok := j.porID[id]
	return ok
}

// Grupo devuelve el grupo por ID, o nil si no existe.
func (j *Jerarquia) Grupo(id string) *entity.Grupo {
	return j.porID[id]
}

// EsRaiz informa si el grupo es raíz (sin padre): el grupo de vista global.
func (j *Jerarquia) EsRaiz(id string) bool {
	g, ok := j.porID[id]
	return ok && g.PadreID == nil
}

// Nivel devuelve el nivel declarado del grupo; -1 si no existe.
func (j *Jerarquia) Nivel(id string) int {
	g, ok := j.porID[id]
	if !ok {
		return -1
	}
	return g.Nivel
}

// Ancestros devuelve la cadena raíz -> id, incluyendo al propio grupo.
// Devuelve nil si el grupo no existe o la cadena está rota.
func (j *Jerarquia) Ancestros(id string) []string {
	g, ok := j.porID[id]
	if !ok {
		return nil
	}
	var invertida []string
	for g != nil {
		invertida = append(invertida, g.ID)
		if g.PadreID == nil {
			break
		}
		padre, ok := j.porID[*g.PadreID]
		if !ok {
			return nil // cadena rota: el padre no está activo
		}
		g = padre
	}
	// invertir a orden raíz -> id
	out := make([]string, len(invertida))
	for i, v := range invertida {
		out[len(invertida)-1-i] = v
	}
	return out
}

// Descendientes devuelve el cierre de descendientes incluyendo al propio
// grupo. Conjunto vacío si el grupo no existe.
func (j *Jerarquia) Descendientes(id string) map[string]struct{} {
	out := make(map[string]struct{})
	if !j.Existe(id) {
		return out
	}
	cola := []string{id}
	for len(cola) > 0 {
		actual := cola[0]
		cola = cola[1:]
		if _, visto := out[actual]; visto {
			continue
		}
		out[actual] = struct{}{}
		cola = append(cola, j.hijos[actual]...)
	}
	return out
}

// EsAncestroDe informa si ancestro está en la cadena de padres de id
// (estricto: un grupo no es ancestro de sí mismo).
func (j *Jerarquia) EsAncestroDe(ancestro, id string) bool {
	cadena := j.Ancestros(id)
	for _, a := range cadena {
		if a == id {
			continue
		}
		if a == ancestro {
			return true
		}
	}
	return false
}

// ValidarPadre valida la asignación de padre antes de una escritura: rechaza
// ciclos, padres inexistentes o inactivos y niveles inconsistentes con
// domain.ErrJerarquiaInvalida. grupoID vacío valida un grupo nuevo.
func (j *Jerarquia) ValidarPadre(grupoID string, padreID *string, nivel int) error {
	if padreID == nil {
		if nivel != 0 {
			return fmt.Errorf("%w: un grupo raíz debe tener nivel 0, se recibió %d", domain.ErrJerarquiaInvalida, nivel)
		}
		return nil
	}
	padre, ok := j.porID[*padreID]
	if !ok {
		return fmt.Errorf("%w: el padre %s no existe o está inactivo", domain.ErrJerarquiaInvalida, *padreID)
	}
	if nivel != padre.Nivel+1 {
		return fmt.Errorf("%w: nivel %d inconsistente, el padre tiene nivel %d", domain.ErrJerarquiaInvalida, nivel, padre.Nivel)
	}
	if grupoID != "" {
		if grupoID == *padreID {
			return fmt.Errorf("%w: un grupo no puede ser su propio padre", domain.ErrJerarquiaInvalida)
		}
		// el nuevo padre no puede ser descendiente del grupo (ciclo)
		if _, desc := j.Descendientes(grupoID)[*padreID]; desc {
			return fmt.Errorf("%w: el padre %s es descendiente del grupo %s", domain.ErrJerarquiaInvalida, *padreID, grupoID)
		}
	}
	return nil
}

// Raices devuelve los IDs de los grupos raíz activos. La política de la
// aplicación asume una sola raíz corporativa, pero el modelo de datos no lo
// impone; el caso de uso de grupos la hace cumplir en la creación.
func (j *Jerarquia) Raices() []string {
	var out []string
	for id, g := range j.porID {
		if g.PadreID == nil {
			out = append(out, id)
		}
	}
	return out
}
