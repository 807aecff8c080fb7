package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/facturas-pro/internal/application/ports"
	"github.com/tu-usuario/facturas-pro/internal/domain"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
	"github.com/tu-usuario/facturas-pro/internal/domain/repository"
	"github.com/tu-usuario/facturas-pro/pkg/logger"
)

// TxRunner ejecuta un callback con repos atados a una misma transacción:
// leer estado, validar, escribir estado nuevo más fila de auditoría, y
// commit-o-rollback como una sola unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		facturas repository.FacturaRepository,
		pagos repository.PagoRepository,
		auditoria repository.AuditoriaRepository,
	) error) error
}

// Actor es quien ejecuta una transición. Para transiciones automáticas los
// tres campos de identidad valen entity.ActorSistema.
type Actor struct {
	ID       string
	Username string
	Rol      string
}

// SistemaActor es el actor de las transiciones disparadas por el motor.
func SistemaActor() Actor {
	return Actor{ID: entity.ActorSistema, Username: entity.ActorSistema, Rol: entity.ActorSistema}
}

// Payload acompaña una transición: nota/motivo, flags de notificación y, en la
// reasignación de cuarentena, el destino.
type Payload struct {
	Nota                 string
	NotificarResponsable bool
	NotificarProveedor   bool
	GrupoID              string // solo reasignar
	ResponsableID        string // solo reasignar
}

// TransitionError detalla por qué se rechazó una transición. Envuelve
// domain.ErrTransicionNoPermitida para que errors.Is funcione.
type TransitionError struct {
	Desde  entity.EstadoFactura
	Evento entity.EventoWorkflow
	Motivo string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transición %s desde %s no permitida: %s", e.Evento, e.Desde, e.Motivo)
}

func (e *TransitionError) Unwrap() error { return domain.ErrTransicionNoPermitida }

// Engine es el motor de estados de facturas. Es request-scoped y sin estado
// propio entre invocaciones; toda mutación corre dentro de una transacción con
// compare-and-swap sobre el estado actual.
type Engine struct {
	tx              TxRunner
	facturas        repository.FacturaRepository
	responsables    repository.ResponsableRepository
	grupos          repository.GrupoRepository
	asignaciones    repository.AsignacionRepository
	analizador      ports.AnalizadorPatronHistorico
	notificador     ports.Notificador
	log             *logger.Logger
	confianzaMinima float64
}

// NewEngine construye el motor.
func NewEngine(
	tx TxRunner,
	facturas repository.FacturaRepository,
	responsables repository.ResponsableRepository,
	grupos repository.GrupoRepository,
	asignaciones repository.AsignacionRepository,
	analizador ports.AnalizadorPatronHistorico,
	notificador ports.Notificador,
	log *logger.Logger,
	confianzaMinima float64,
) *Engine {
	return &Engine{
		tx:              tx,
		facturas:        facturas,
		responsables:    responsables,
		grupos:          grupos,
		asignaciones:    asignaciones,
		analizador:      analizador,
		notificador:     notificador,
		log:             log,
		confianzaMinima: confianzaMinima,
	}
}

// Transicionar valida y ejecuta un evento del workflow sobre la factura.
// Ante ErrModificacionConcurrente reintenta una sola vez de forma
// transparente (releyendo el estado); si el segundo intento también falla, el
// error se propaga al caller.
func (e *Engine) Transicionar(
	ctx context.Context,
	facturaID string,
	evento entity.EventoWorkflow,
	actor Actor,
	payload Payload,
) (*entity.Factura, error) {
	f, err := e.intentarTransicion(ctx, facturaID, evento, actor, payload)
	if errors.Is(err, domain.ErrModificacionConcurrente) {
		e.log.Warn().
			Str("factura_id", facturaID).
			Str("evento", string(evento)).
			Msg("modificación concurrente, reintentando una vez")
		f, err = e.intentarTransicion(ctx, facturaID, evento, actor, payload)
	}
	if err != nil {
		return nil, err
	}

	if evento == entity.EventoDevolver {
		e.notificarDevolucion(ctx, f, payload)
	}
	return f, nil
}

func (e *Engine) intentarTransicion(
	ctx context.Context,
	facturaID string,
	evento entity.EventoWorkflow,
	actor Actor,
	payload Payload,
) (*entity.Factura, error) {
	var resultado *entity.Factura
	err := e.tx.Run(ctx, func(
		facturas repository.FacturaRepository,
		_ repository.PagoRepository,
		auditoria repository.AuditoriaRepository,
	) error {
		f, err := facturas.GetByID(facturaID)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("%w: factura %s", domain.ErrNoEncontrado, facturaID)
		}

		t, ok := entity.BuscarTransicion(f.Estado, evento)
		if !ok {
			return &TransitionError{Desde: f.Estado, Evento: evento,
				Motivo: "el evento no está definido para el estado actual"}
		}
		if !t.PermiteRol(actor.Rol) {
			return &TransitionError{Desde: f.Estado, Evento: evento,
				Motivo: fmt.Sprintf("el rol %s no puede ejecutar este evento", actor.Rol)}
		}
		if err := validarPayload(evento, payload); err != nil {
			return err
		}

		estadoAnterior := f.Estado
		if err := e.aplicarEfectos(f, t, actor, payload); err != nil {
			return err
		}
		f.Estado = t.Hacia
		f.UpdatedAt = time.Now()

		if err := facturas.UpdateEstado(f, estadoAnterior); err != nil {
			return err
		}
		if err := auditoria.Append(&entity.AuditoriaWorkflow{
			ID:            uuid.New().String(),
			FacturaID:     f.ID,
			EstadoOrigen:  estadoAnterior,
			EstadoDestino: f.Estado,
			Actor:         actor.Username,
			RolActor:      actor.Rol,
			Nota:          payload.Nota,
			CreatedAt:     time.Now(),
		}); err != nil {
			return err
		}
		resultado = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info().
		Str("factura_id", resultado.ID).
		Str("evento", string(evento)).
		Str("estado", string(resultado.Estado)).
		Str("actor", actor.Username).
		Msg("transición aplicada")
	return resultado, nil
}

// validarPayload impone los campos obligatorios por evento. Las violaciones se
// rechazan, nunca se ignoran en silencio.
func validarPayload(evento entity.EventoWorkflow, p Payload) error {
	switch evento {
	case entity.EventoRechazar:
		if strings.TrimSpace(p.Nota) == "" {
			return fmt.Errorf("%w: el rechazo requiere un motivo", domain.ErrCampoRequerido)
		}
	case entity.EventoDevolver:
		n := len(strings.TrimSpace(p.Nota))
		if n < entity.NotaDevolucionMin || n > entity.NotaDevolucionMax {
			return fmt.Errorf("%w: la nota de devolución debe tener entre %d y %d caracteres",
				domain.ErrCampoRequerido, entity.NotaDevolucionMin, entity.NotaDevolucionMax)
		}
	case entity.EventoReasignar:
		if p.GrupoID == "" || p.ResponsableID == "" {
			return fmt.Errorf("%w: la reasignación requiere grupo y responsable", domain.ErrCampoRequerido)
		}
	}
	return nil
}

// aplicarEfectos registra en la factura los efectos del evento previo al
// cambio de estado.
func (e *Engine) aplicarEfectos(f *entity.Factura, t entity.Transicion, actor Actor, p Payload) error {
	switch t.Evento {
	case entity.EventoAprobarAuto:
		f.Aprobador = entity.ActorSistema
		f.TipoAprobacion = entity.AprobacionAutomatica
	case entity.EventoAprobar:
		f.Aprobador = actor.Username
		f.TipoAprobacion = entity.AprobacionManual
	case entity.EventoRechazar:
		f.MotivoRechazo = p.Nota
	case entity.EventoReasignar:
		g, err := e.grupos.GetByID(p.GrupoID)
		if err != nil {
			return err
		}
		if g == nil || !g.Activo {
			return fmt.Errorf("%w: grupo %s", domain.ErrNoEncontrado, p.GrupoID)
		}
		r, err := e.responsables.GetByID(p.ResponsableID)
		if err != nil {
			return err
		}
		if r == nil || !r.Activo {
			return fmt.Errorf("%w: responsable %s", domain.ErrNoEncontrado, p.ResponsableID)
		}
		grupoID := p.GrupoID
		responsableID := p.ResponsableID
		f.GrupoID = &grupoID
		f.ResponsableID = &responsableID
	}
	return nil
}

// notificarDevolucion dispara los avisos configurados tras confirmar la
// transición. Un fallo de envío no revierte la transición: se loguea y sigue.
func (e *Engine) notificarDevolucion(ctx context.Context, f *entity.Factura, p Payload) {
	if e.notificador == nil || (!p.NotificarResponsable && !p.NotificarProveedor) {
		return
	}
	n := ports.NotificacionDevolucion{
		FacturaID:     f.ID,
		NumeroFactura: f.NumeroFactura,
		NitEmisor:     f.NitEmisor,
		NombreEmisor:  f.NombreEmisor,
		Nota:          p.Nota,
	}
	if p.NotificarResponsable && f.ResponsableID != nil {
		if r, err := e.responsables.GetByID(*f.ResponsableID); err == nil && r != nil {
			n.EmailResponsable = r.Email
		}
	}
	if p.NotificarProveedor {
		n.EmailProveedor = e.emailProveedor(f)
	}
	if err := e.notificador.NotificarDevolucion(ctx, n); err != nil {
		e.log.Error().Err(err).
			Str("factura_id", f.ID).
			Msg("fallo al notificar devolución")
	}
}

// emailProveedor busca el contacto del emisor en las asignaciones activas del
// NIT. Prefiere la asignación del responsable de la factura; si esa no tiene
// email registrado, toma el primero disponible (orden de creación).
func (e *Engine) emailProveedor(f *entity.Factura) string {
	lista, err := e.asignaciones.ListActivasPorNit(f.NitEmisor)
	if err != nil {
		e.log.Error().Err(err).
			Str("factura_id", f.ID).
			Str("nit_emisor", f.NitEmisor).
			Msg("fallo al buscar el contacto del proveedor")
		return ""
	}
	var primero string
	for _, a := range lista {
		if a.EmailProveedor == "" {
			continue
		}
		if f.ResponsableID != nil && a.ResponsableID == *f.ResponsableID {
			return a.EmailProveedor
		}
		if primero == "" {
			primero = a.EmailProveedor
		}
	}
	return primero
}
