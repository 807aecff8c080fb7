// Package notify implementa los colaboradores de salida para avisos del
// workflow: correo SMTP en producción y un notificador de solo log para
// entornos sin servidor de correo.
package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/tu-usuario/facturas-pro/internal/application/ports"
	"github.com/tu-usuario/facturas-pro/pkg/config"
	"github.com/tu-usuario/facturas-pro/pkg/logger"
)

var _ ports.Notificador = (*SMTPNotificador)(nil)

// SMTPNotificador envía los avisos de devolución por correo. Los destinatarios
// con email vacío se omiten en silencio; un fallo de envío se reporta al
// caller pero nunca revierte la transición ya confirmada.
type SMTPNotificador struct {
	dialer *gomail.Dialer
	from   string
	log    *logger.Logger
}

// NewSMTPNotificador construye el notificador con la configuración SMTP.
func NewSMTPNotificador(cfg config.SMTPConfig, log *logger.Logger) *SMTPNotificador {
	return &SMTPNotificador{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		log:    log,
	}
}

// NotificarDevolucion envía el aviso a los destinatarios con email.
func (n *SMTPNotificador) NotificarDevolucion(_ context.Context, nd ports.NotificacionDevolucion) error {
	var destinatarios []string
	if nd.EmailResponsable != "" {
		destinatarios = append(destinatarios, nd.EmailResponsable)
	}
	if nd.EmailProveedor != "" {
		destinatarios = append(destinatarios, nd.EmailProveedor)
	}
	if len(destinatarios) == 0 {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", destinatarios...)
	m.SetHeader("Subject", fmt.Sprintf("Factura %s devuelta por contabilidad", nd.NumeroFactura))
	m.SetBody("text/plain", fmt.Sprintf(
		"La factura %s del emisor %s (%s) fue devuelta por contabilidad.\n\nObservaciones:\n%s\n",
		nd.NumeroFactura, nd.NombreEmisor, nd.NitEmisor, nd.Nota,
	))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("enviar correo de devolución: %w", err)
	}
	n.log.Info().
		Str("factura_id", nd.FacturaID).
		Strs("destinatarios", destinatarios).
		Msg("aviso de devolución enviado")
	return nil
}
