package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// IngresarFacturaRequest body para POST /api/facturas (pipeline de ingesta).
// GrupoID opcional: contexto de grupo conocido por el pipeline; si va nulo la
// resolución corre en vista global.
type IngresarFacturaRequest struct {
	NumeroFactura string          `json:"numero_factura"`
	CUFE          string          `json:"cufe,omitempty"`
	NitEmisor     string          `json:"nit_emisor"`
	NombreEmisor  string          `json:"nombre_emisor"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Impuestos     decimal.Decimal `json:"impuestos"`
	Total         decimal.Decimal `json:"total"`
	TotalAPagar   decimal.Decimal `json:"total_a_pagar"`
	Moneda        string          `json:"moneda,omitempty"`
	GrupoID       *string         `json:"grupo_id,omitempty"`
}

// FacturaResponse factura en respuestas.
type FacturaResponse struct {
	ID             string          `json:"id"`
	NumeroFactura  string          `json:"numero_factura"`
	CUFE           string          `json:"cufe,omitempty"`
	NitEmisor      string          `json:"nit_emisor"`
	NombreEmisor   string          `json:"nombre_emisor"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Impuestos      decimal.Decimal `json:"impuestos"`
	Total          decimal.Decimal `json:"total"`
	TotalAPagar    decimal.Decimal `json:"total_a_pagar"`
	Moneda         string          `json:"moneda"`
	Estado         string          `json:"estado"`
	Aprobador      string          `json:"aprobador,omitempty"`
	TipoAprobacion string          `json:"tipo_aprobacion,omitempty"`
	MotivoRechazo  string          `json:"motivo_rechazo,omitempty"`
	GrupoID        *string         `json:"grupo_id,omitempty"`
	ResponsableID  *string         `json:"responsable_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TransicionRequest body para POST /api/facturas/:id/<evento>.
type TransicionRequest struct {
	// Nota: obligatoria en rechazo (motivo) y devolución (10-1000 caracteres).
	Nota string `json:"nota,omitempty"`
	// Flags de notificación para la devolución a contabilidad.
	NotificarResponsable bool `json:"notificar_responsable,omitempty"`
	NotificarProveedor   bool `json:"notificar_proveedor,omitempty"`
}

// ReasignarRequest body para POST /api/cuarentena/:id/reasignar (salida de
// cuarentena por triage manual).
type ReasignarRequest struct {
	GrupoID       string `json:"grupo_id"`
	ResponsableID string `json:"responsable_id"`
}

// RegistrarPagoRequest body para POST /api/facturas/:id/pagos.
type RegistrarPagoRequest struct {
	Monto      decimal.Decimal `json:"monto"`
	Referencia string          `json:"referencia"`
	Metodo     string          `json:"metodo,omitempty"`
}

// PagoResponse pago en respuestas.
type PagoResponse struct {
	ID            string          `json:"id"`
	FacturaID     string          `json:"factura_id"`
	Monto         decimal.Decimal `json:"monto"`
	Referencia    string          `json:"referencia"`
	Metodo        string          `json:"metodo,omitempty"`
	RegistradoPor string          `json:"registrado_por"`
	RegistradoEn  time.Time       `json:"registrado_en"`
}

// AuditoriaResponse entrada del log de transiciones.
type AuditoriaResponse struct {
	EstadoOrigen  string    `json:"estado_origen"`
	EstadoDestino string    `json:"estado_destino"`
	Actor         string    `json:"actor"`
	RolActor      string    `json:"rol_actor"`
	Nota          string    `json:"nota,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// FacturaDetalleResponse factura con pagos y trazabilidad.
type FacturaDetalleResponse struct {
	FacturaResponse
	Pagos          []PagoResponse      `json:"pagos"`
	SaldoPendiente decimal.Decimal     `json:"saldo_pendiente"`
	Auditoria      []AuditoriaResponse `json:"auditoria"`
}

// CuarentenaResumenResponse fila del agregado de cuarentena por NIT.
type CuarentenaResumenResponse struct {
	NitEmisor         string          `json:"nit_emisor"`
	NombreEmisor      string          `json:"nombre_emisor"`
	Cantidad          int             `json:"cantidad"`
	ImpactoFinanciero decimal.Decimal `json:"impacto_financiero"`
}
