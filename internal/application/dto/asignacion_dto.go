package dto

import "time"

// ValidarNitResponse resultado de GET /api/nits/validar.
type ValidarNitResponse struct {
	EsValido       bool   `json:"es_valido"`
	NitNormalizado string `json:"nit_normalizado,omitempty"`
	MensajeError   string `json:"mensaje_error,omitempty"`
}

// CrearAsignacionRequest body para POST /api/asignaciones.
// GrupoID nulo crea una asignación global (visible desde todos los grupos del
// responsable).
type CrearAsignacionRequest struct {
	Nit                         string  `json:"nit"`
	NombreProveedor             string  `json:"nombre_proveedor"`
	EmailProveedor              string  `json:"email_proveedor,omitempty"`
	ResponsableID               string  `json:"responsable_id"`
	GrupoID                     *string `json:"grupo_id,omitempty"`
	PermiteAprobacionAutomatica bool    `json:"permite_aprobacion_automatica"`
	RequiereRevisionSiempre     bool    `json:"requiere_revision_siempre"`
}

// AsignacionResponse asignación en respuestas.
type AsignacionResponse struct {
	ID                          string    `json:"id"`
	Nit                         string    `json:"nit"`
	NombreProveedor             string    `json:"nombre_proveedor"`
	EmailProveedor              string    `json:"email_proveedor,omitempty"`
	ResponsableID               string    `json:"responsable_id"`
	GrupoID                     *string   `json:"grupo_id,omitempty"`
	PermiteAprobacionAutomatica bool      `json:"permite_aprobacion_automatica"`
	RequiereRevisionSiempre     bool      `json:"requiere_revision_siempre"`
	Activo                      bool      `json:"activo"`
	CreatedAt                   time.Time `json:"created_at"`
}

// ImportarAsignacionesRequest body para POST /api/asignaciones/importar.
type ImportarAsignacionesRequest struct {
	Items []CrearAsignacionRequest `json:"items"`
}

// ItemConError detalle de un ítem fallido del import masivo.
type ItemConError struct {
	Nit   string `json:"nit"`
	Error string `json:"error"`
}

// ResumenImportacion resultado estructurado del import masivo: un ítem
// inválido nunca aborta el lote.
type ResumenImportacion struct {
	Creadas     int            `json:"creadas"`
	Reactivadas int            `json:"reactivadas"`
	Omitidas    int            `json:"omitidas"`
	ConError    []ItemConError `json:"con_error,omitempty"`
}

// ResolverAsignacionResponse resultado de resolver un NIT bajo un contexto.
type ResolverAsignacionResponse struct {
	Asignada      bool    `json:"asignada"`
	EnCuarentena  bool    `json:"en_cuarentena"`
	GrupoID       *string `json:"grupo_id,omitempty"`
	ResponsableID string  `json:"responsable_id,omitempty"`
}
