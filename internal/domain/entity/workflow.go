package entity

// EventoWorkflow es el conjunto cerrado de eventos que mueven una factura
// entre estados. La tabla de transiciones es la única fuente de verdad: los
// handlers y casos de uso no comparan estados por su cuenta.
type EventoWorkflow string

const (
	EventoAprobarAuto   EventoWorkflow = "aprobar_auto"   // sistema, regla de patrón histórico
	EventoAprobar       EventoWorkflow = "aprobar"        // responsable
	EventoRechazar      EventoWorkflow = "rechazar"       // responsable, motivo obligatorio
	EventoValidar       EventoWorkflow = "validar"        // contador
	EventoDevolver      EventoWorkflow = "devolver"       // contador, nota 10-1000 caracteres
	EventoRegistrarPago EventoWorkflow = "registrar_pago" // contador, desde validada
	EventoReenviar      EventoWorkflow = "reenviar"       // corrección externa, vuelve a revisión
	EventoReasignar     EventoWorkflow = "reasignar"      // salida de cuarentena, admin
)

// Longitud permitida de la nota de devolución a contabilidad.
const (
	NotaDevolucionMin = 10
	NotaDevolucionMax = 1000
)

// Transicion es una fila de la tabla de transiciones del workflow.
type Transicion struct {
	Desde  EstadoFactura
	Evento EventoWorkflow
	Hacia  EstadoFactura
	Roles  []string // roles que pueden ejecutar el evento
}

// PermiteRol informa si el rol puede ejecutar esta transición.
func (t Transicion) PermiteRol(rol string) bool {
	for _, r := range t.Roles {
		if r == rol {
			return true
		}
	}
	return false
}

// tablaTransiciones es exhaustiva: una transición que no aparece aquí no
// existe, sin importar quién la pida. No hay saltos de estados intermedios.
var tablaTransiciones = []Transicion{
	{Desde: EstadoCuarentena, Evento: EventoReasignar, Hacia: EstadoEnRevision,
		Roles: []string{RolAdmin, RolSuperadmin}},

	{Desde: EstadoEnRevision, Evento: EventoAprobarAuto, Hacia: EstadoAprobadaAuto,
		Roles: []string{ActorSistema}},
	{Desde: EstadoEnRevision, Evento: EventoAprobar, Hacia: EstadoAprobada,
		Roles: []string{RolResponsable, RolAdmin, RolSuperadmin}},
	{Desde: EstadoEnRevision, Evento: EventoRechazar, Hacia: EstadoRechazada,
		Roles: []string{RolResponsable, RolAdmin, RolSuperadmin}},

	{Desde: EstadoAprobada, Evento: EventoValidar, Hacia: EstadoValidadaContabilidad,
		Roles: []string{RolContador, RolSuperadmin}},
	{Desde: EstadoAprobadaAuto, Evento: EventoValidar, Hacia: EstadoValidadaContabilidad,
		Roles: []string{RolContador, RolSuperadmin}},
	{Desde: EstadoAprobada, Evento: EventoDevolver, Hacia: EstadoDevueltaContabilidad,
		Roles: []string{RolContador, RolSuperadmin}},
	{Desde: EstadoAprobadaAuto, Evento: EventoDevolver, Hacia: EstadoDevueltaContabilidad,
		Roles: []string{RolContador, RolSuperadmin}},

	{Desde: EstadoValidadaContabilidad, Evento: EventoRegistrarPago, Hacia: EstadoPagada,
		Roles: []string{RolContador, RolSuperadmin}},

	{Desde: EstadoDevueltaContabilidad, Evento: EventoReenviar, Hacia: EstadoEnRevision,
		Roles: []string{RolResponsable, RolAdmin, RolSuperadmin, ActorSistema}},
}

// BuscarTransicion devuelve la transición para (desde, evento) si existe.
func BuscarTransicion(desde EstadoFactura, evento EventoWorkflow) (Transicion, bool) {
	for _, t := range tablaTransiciones {
		if t.Desde == desde && t.Evento == evento {
			return t, true
		}
	}
	return Transicion{}, false
}

// TransicionesDesde devuelve las transiciones disponibles desde un estado.
func TransicionesDesde(desde EstadoFactura) []Transicion {
	var out []Transicion
	for _, t := range tablaTransiciones {
		if t.Desde == desde {
			out = append(out, t)
		}
	}
	return out
}
