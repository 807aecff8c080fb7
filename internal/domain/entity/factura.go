package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EstadoFactura es el conjunto cerrado de estados del ciclo de vida.
// Toda comparación de estados usa estas constantes; nunca strings sueltos.
type EstadoFactura string

const (
	// EstadoCuarentena: el NIT emisor no tiene asignación resoluble. Pre-estado
	// fuera del flujo de revisión; solo sale por reasignación manual de grupo.
	EstadoCuarentena EstadoFactura = "cuarentena"
	// EstadoEnRevision: asignada a un responsable, pendiente de decisión.
	EstadoEnRevision EstadoFactura = "en_revision"
	// EstadoAprobada: aprobada manualmente por el responsable.
	EstadoAprobada EstadoFactura = "aprobada"
	// EstadoAprobadaAuto: aprobada por el motor según regla de patrón histórico.
	EstadoAprobadaAuto EstadoFactura = "aprobada_auto"
	// EstadoRechazada: rechazada por el responsable (terminal).
	EstadoRechazada EstadoFactura = "rechazada"
	// EstadoValidadaContabilidad: el contador validó la factura aprobada.
	EstadoValidadaContabilidad EstadoFactura = "validada_contabilidad"
	// EstadoDevueltaContabilidad: el contador la devolvió con observaciones.
	EstadoDevueltaContabilidad EstadoFactura = "devuelta_contabilidad"
	// EstadoPagada: saldada por completo (terminal).
	EstadoPagada EstadoFactura = "pagada"
)

// Tipos de aprobación registrados en la factura.
const (
	AprobacionAutomatica = "automatica"
	AprobacionManual     = "manual"
)

// EstadoValido informa si e es un estado conocido.
func EstadoValido(e EstadoFactura) bool {
	switch e {
	case EstadoCuarentena, EstadoEnRevision, EstadoAprobada, EstadoAprobadaAuto,
		EstadoRechazada, EstadoValidadaContabilidad, EstadoDevueltaContabilidad, EstadoPagada:
		return true
	}
	return false
}

// Factura es la cabecera de una factura de proveedor en revisión.
// GrupoID nil equivale a estado cuarentena: aún no es ruteable a un revisor.
type Factura struct {
	ID             string
	NumeroFactura  string
	CUFE           string
	NitEmisor      string // forma canónica "dígitos-DV"
	NombreEmisor   string
	Subtotal       decimal.Decimal
	Impuestos      decimal.Decimal
	Total          decimal.Decimal
	TotalAPagar    decimal.Decimal
	Moneda         string
	Estado         EstadoFactura
	Aprobador      string // username o ActorSistema
	TipoAprobacion string // AprobacionAutomatica | AprobacionManual | ""
	MotivoRechazo  string
	GrupoID        *string
	ResponsableID  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EnCuarentena informa si la factura está en cuarentena (sin grupo resuelto).
func (f *Factura) EnCuarentena() bool {
	return f.Estado == EstadoCuarentena
}
