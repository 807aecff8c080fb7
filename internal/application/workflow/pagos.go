package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/facturas-pro/internal/application/dto"
	"github.com/tu-usuario/facturas-pro/internal/domain"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
	"github.com/tu-usuario/facturas-pro/internal/domain/repository"
)

// RegistrarPago registra un abono sobre una factura validada por contabilidad.
// Reglas: referencia única global (en mayúsculas), monto positivo que no
// excede el saldo pendiente. Si el abono salda la factura, la transición a
// pagada ocurre en la misma transacción con su fila de auditoría.
func (e *Engine) RegistrarPago(
	ctx context.Context,
	facturaID string,
	in dto.RegistrarPagoRequest,
	actor Actor,
) (*entity.Pago, *entity.Factura, error) {
	pago, f, err := e.intentarRegistrarPago(ctx, facturaID, in, actor)
	if errors.Is(err, domain.ErrModificacionConcurrente) {
		e.log.Warn().
			Str("factura_id", facturaID).
			Msg("modificación concurrente registrando pago, reintentando una vez")
		pago, f, err = e.intentarRegistrarPago(ctx, facturaID, in, actor)
	}
	return pago, f, err
}

func (e *Engine) intentarRegistrarPago(
	ctx context.Context,
	facturaID string,
	in dto.RegistrarPagoRequest,
	actor Actor,
) (*entity.Pago, *entity.Factura, error) {
	referencia := strings.ToUpper(strings.TrimSpace(in.Referencia))
	if referencia == "" {
		return nil, nil, fmt.Errorf("%w: referencia de pago", domain.ErrCampoRequerido)
	}
	if !in.Monto.GreaterThan(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: el monto debe ser mayor que cero", domain.ErrCampoRequerido)
	}

	var (
		pago    *entity.Pago
		factura *entity.Factura
	)
	err := e.tx.Run(ctx, func(
		facturas repository.FacturaRepository,
		pagos repository.PagoRepository,
		auditoria repository.AuditoriaRepository,
	) error {
		f, err := facturas.GetByID(facturaID)
		if err != nil {
			return err
		}
		if f == nil {
			return fmt.Errorf("%w: factura %s", domain.ErrNoEncontrado, facturaID)
		}

		t, ok := entity.BuscarTransicion(f.Estado, entity.EventoRegistrarPago)
		if !ok {
			return &TransitionError{Desde: f.Estado, Evento: entity.EventoRegistrarPago,
				Motivo: "solo se registran pagos sobre facturas validadas por contabilidad"}
		}
		if !t.PermiteRol(actor.Rol) {
			return &TransitionError{Desde: f.Estado, Evento: entity.EventoRegistrarPago,
				Motivo: fmt.Sprintf("el rol %s no puede registrar pagos", actor.Rol)}
		}

		pagado, err := pagos.TotalPagado(f.ID)
		if err != nil {
			return err
		}
		saldo := f.TotalAPagar.Sub(pagado)
		if in.Monto.GreaterThan(saldo) {
			return fmt.Errorf("%w: saldo %s, monto %s", domain.ErrSaldoInsuficiente,
				saldo.String(), in.Monto.String())
		}

		p := &entity.Pago{
			ID:            uuid.New().String(),
			FacturaID:     f.ID,
			Monto:         in.Monto,
			Referencia:    referencia,
			Metodo:        in.Metodo,
			RegistradoPor: actor.Username,
			RegistradoEn:  time.Now(),
		}
		// la unicidad global de la referencia la impone el constraint de DB;
		// el repo traduce la violación a ErrReferenciaDuplicada
		if err := pagos.Create(p); err != nil {
			return err
		}

		if in.Monto.Equal(saldo) {
			estadoAnterior := f.Estado
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
				Nota:          fmt.Sprintf("pago %s por %s", referencia, in.Monto.String()),
				CreatedAt:     time.Now(),
			}); err != nil {
				return err
			}
		}
		pago = p
		factura = f
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	e.log.Info().
		Str("factura_id", factura.ID).
		Str("referencia", referencia).
		Str("monto", in.Monto.String()).
		Str("estado", string(factura.Estado)).
		Msg("pago registrado")
	return pago, factura, nil
}
