package dto

import "time"

// CrearResponsableRequest body para POST /api/responsables.
type CrearResponsableRequest struct {
	Username string   `json:"username"`
	Nombre   string   `json:"nombre"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Rol      string   `json:"rol"`
	Grupos   []string `json:"grupos,omitempty"`
}

// ActualizarGruposRequest body para PUT /api/responsables/:id/grupos.
type ActualizarGruposRequest struct {
	Grupos []string `json:"grupos"`
}

// ResponsableResponse responsable en respuestas (nunca incluye el hash).
type ResponsableResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Nombre    string    `json:"nombre"`
	Email     string    `json:"email"`
	Rol       string    `json:"rol"`
	Grupos    []string  `json:"grupos,omitempty"`
	Activo    bool      `json:"activo"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse token + responsable autenticado.
type LoginResponse struct {
	Token       string              `json:"token"`
	Responsable ResponsableResponse `json:"responsable"`
}
