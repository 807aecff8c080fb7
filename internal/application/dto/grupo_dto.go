package dto

import "time"

// CrearGrupoRequest body para POST /api/grupos. PadreID nulo crea la raíz.
type CrearGrupoRequest struct {
	Codigo  string  `json:"codigo"`
	Nombre  string  `json:"nombre"`
	PadreID *string `json:"padre_id,omitempty"`
}

// ActualizarGrupoRequest body para PUT /api/grupos/:id.
type ActualizarGrupoRequest struct {
	Nombre string `json:"nombre"`
}

// GrupoResponse grupo en respuestas.
type GrupoResponse struct {
	ID        string    `json:"id"`
	Codigo    string    `json:"codigo"`
	Nombre    string    `json:"nombre"`
	PadreID   *string   `json:"padre_id,omitempty"`
	Nivel     int       `json:"nivel"`
	Activo    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
}
