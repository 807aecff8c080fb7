package entity

import "time"

// Grupo representa un nodo del árbol multi-tenant: raíz corporativa (nivel 0),
// sedes (nivel 1) y sub-sedes. La raíz es exactamente el grupo sin padre.
type Grupo struct {
	ID        string
	Codigo    string // código corto único (ej. "BOG", "MED")
	Nombre    string
	PadreID   *string // nil = grupo raíz (vista global)
	Nivel     int     // 0 para la raíz; hijos = nivel del padre + 1
	Activo    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EsRaiz informa si el grupo es raíz (sin padre).
func (g *Grupo) EsRaiz() bool {
	return g.PadreID == nil
}
