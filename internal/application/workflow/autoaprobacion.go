package workflow

import (
	"context"

	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
)

// IntentarAprobacionAutomatica evalúa la regla de auto-aprobación para una
// factura recién ingresada en revisión. Condiciones, todas obligatorias:
//
//  1. la asignación que la ruteó permite aprobación automática,
//  2. la asignación no exige revisión siempre,
//  3. el analizador histórico reporta el total dentro del rango esperado con
//     confianza sobre el umbral configurado.
//
// Ante cualquier duda (error del analizador, confianza baja, fuera de rango)
// la factura queda en revisión manual; la regla nunca auto-rechaza.
// Devuelve true si la factura pasó a aprobada_auto.
func (e *Engine) IntentarAprobacionAutomatica(
	ctx context.Context,
	f *entity.Factura,
	a *entity.AsignacionNit,
) (bool, error) {
	if f.Estado != entity.EstadoEnRevision {
		return false, nil
	}
	if a == nil || !a.PermiteAprobacionAutomatica || a.RequiereRevisionSiempre {
		return false, nil
	}
	if e.analizador == nil {
		return false, nil
	}

	ev, err := e.analizador.Evaluar(ctx, f.NitEmisor, f.TotalAPagar)
	if err != nil {
		// duda = revisión manual; el error del colaborador no bloquea el ingreso
		e.log.Warn().Err(err).
			Str("factura_id", f.ID).
			Str("nit", f.NitEmisor).
			Msg("analizador histórico no disponible, la factura queda en revisión manual")
		return false, nil
	}
	if !ev.EnRango || ev.Confianza < e.confianzaMinima {
		e.log.Debug().
			Str("factura_id", f.ID).
			Bool("en_rango", ev.EnRango).
			Float64("confianza", ev.Confianza).
			Float64("umbral", e.confianzaMinima).
			Msg("auto-aprobación descartada, pasa a revisión manual")
		return false, nil
	}

	if _, err := e.Transicionar(ctx, f.ID, entity.EventoAprobarAuto, SistemaActor(), Payload{}); err != nil {
		return false, err
	}
	return true, nil
}
