package notify

import (
	"context"

	"github.com/tu-usuario/facturas-pro/internal/application/ports"
	"github.com/tu-usuario/facturas-pro/pkg/logger"
)

var _ ports.Notificador = (*LogNotificador)(nil)

// LogNotificador registra los avisos en el log en lugar de enviarlos. Es el
// notificador por defecto cuando SMTP_HOST no está configurado (desarrollo,
// staging sin correo).
type LogNotificador struct {
	log *logger.Logger
}

// NewLogNotificador construye el notificador de solo log.
func NewLogNotificador(log *logger.Logger) *LogNotificador {
	return &LogNotificador{log: log}
}

// NotificarDevolucion loguea el aviso y retorna siempre nil.
func (n *LogNotificador) NotificarDevolucion(_ context.Context, nd ports.NotificacionDevolucion) error {
	n.log.Info().
		Str("factura_id", nd.FacturaID).
		Str("numero_factura", nd.NumeroFactura).
		Str("nit_emisor", nd.NitEmisor).
		Str("email_responsable", nd.EmailResponsable).
		Str("nota", nd.Nota).
		Msg("devolución de contabilidad (notificador de log)")
	return nil
}
