package ports

import "context"

// NotificacionDevolucion describe el aviso que se envía cuando contabilidad
// devuelve una factura aprobada.
type NotificacionDevolucion struct {
	FacturaID        string
	NumeroFactura    string
	NitEmisor        string
	NombreEmisor     string
	Nota             string
	EmailResponsable string // vacío = no notificar al responsable
	EmailProveedor   string // vacío = no notificar al proveedor
}

// Notificador es el colaborador de salida para avisos del workflow. Las
// implementaciones no deben bloquear la transición: un fallo de envío se
// reporta al caller pero la transición ya quedó confirmada.
type Notificador interface {
	NotificarDevolucion(ctx context.Context, n NotificacionDevolucion) error
}
