package domain

import "errors"

// Errores de dominio (sin dependencias externas). Siempre se comparan con
// errors.Is; el texto es solo para humanos.
var (
	ErrNoEncontrado    = errors.New("recurso no encontrado")
	ErrEntradaInvalida = errors.New("entrada inválida")
	ErrNoAutorizado    = errors.New("no autorizado")
	ErrAccesoDenegado  = errors.New("acceso denegado")
	ErrUsuarioInactivo = errors.New("responsable inactivo")

	// Jerarquía de grupos
	ErrJerarquiaInvalida = errors.New("asignación de padre inválida en la jerarquía de grupos")

	// Contexto multi-tenant
	ErrContextoTenantAusente = errors.New("contexto de grupo requerido para este rol")
	ErrAlcanceDenegado       = errors.New("alcance de grupo denegado")

	// Workflow
	ErrTransicionNoPermitida = errors.New("transición de estado no permitida")
	ErrCampoRequerido        = errors.New("campo requerido ausente o inválido")

	// Pagos
	ErrReferenciaDuplicada = errors.New("referencia de pago duplicada")
	ErrSaldoInsuficiente   = errors.New("el monto excede el saldo pendiente de la factura")

	// Concurrencia optimista
	ErrModificacionConcurrente = errors.New("la factura fue modificada por otra operación")

	// Asignaciones
	ErrNitYaAsignado = errors.New("el NIT ya tiene una asignación activa para ese responsable y grupo")
)
