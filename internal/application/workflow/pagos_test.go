package workflow_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/facturas-pro/internal/application/dto"
	"github.com/tu-usuario/facturas-pro/internal/domain"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
)

func TestRegistrarPagoParcialYTotal(t *testing.T) {
	e := nuevoEntorno(nil)
	facturaEnEstado(e, entity.EstadoValidadaContabilidad) // total a pagar 999.600
	ctx := context.Background()

	pago, f, err := e.engine.RegistrarPago(ctx, "f-1", dto.RegistrarPagoRequest{
		Monto: decimal.NewFromInt(400_000), Referencia: "tx-001", Metodo: "transferencia",
	}, actorContador)
	require.NoError(t, err)
	assert.Equal(t, "TX-001", pago.Referencia, "la referencia se normaliza a mayúsculas")
	assert.Equal(t, entity.EstadoValidadaContabilidad, f.Estado, "un abono parcial no cambia el estado")

	entradas, _ := e.auditoria.ListByFactura("f-1")
	assert.Empty(t, entradas, "sin cambio de estado no hay fila de auditoría")

	// el segundo abono salda la factura
	_, f, err = e.engine.RegistrarPago(ctx, "f-1", dto.RegistrarPagoRequest{
		Monto: decimal.NewFromInt(599_600), Referencia: "TX-002",
	}, actorContador)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoPagada, f.Estado)

	total, _ := e.pagos.TotalPagado("f-1")
	assert.True(t, total.Equal(decimal.NewFromInt(999_600)))

	entradas, _ = e.auditoria.ListByFactura("f-1")
	require.Len(t, entradas, 1)
	assert.Equal(t, entity.EstadoValidadaContabilidad, entradas[0].EstadoOrigen)
	assert.Equal(t, entity.EstadoPagada, entradas[0].EstadoDestino)
	assert.Contains(t, entradas[0].Nota, "TX-002")
}

func TestRegistrarPagoExcedeSaldo(t *testing.T) {
	e := nuevoEntorno(nil)
	facturaEnEstado(e, entity.EstadoValidadaContabilidad)
	ctx := context.Background()

	_, _, err := e.engine.RegistrarPago(ctx, "f-1", dto.RegistrarPagoRequest{
		Monto: decimal.NewFromInt(1_000_000), Referencia: "TX-010",
	}, actorContador)
	assert.ErrorIs(t, err, domain.ErrSaldoInsuficiente)

	// el saldo se calcula sobre lo ya abonado, no sobre el total
	_, _, err = e.engine.RegistrarPago(ctx, "f-1", dto.RegistrarPagoRequest{
		Monto: decimal.NewFromInt(900_000), Referencia: "TX-011",
	}, actorContador)
	require.NoError(t, err)

	_, _, err = e.engine.RegistrarPago(ctx, "f-1", dto.RegistrarPagoRequest{
		Monto: decimal.NewFromInt(100_000), Referencia: "TX-012",
	}, actorContador)
	assert.ErrorIs(t, err, domain.ErrSaldoInsuficiente)
}

func TestRegistrarPagoReferenciaDuplicada(t *testing.T) {
	e := nuevoEntorno(nil)
	facturaEnEstado(e, entity.EstadoValidadaContabilidad)
	ctx := context.Background()

	_, _, err := e.engine.RegistrarPago(ctx, "f-1", dto.RegistrarPagoRequest{
		Monto: decimal.NewFromInt(100_000), Referencia: "TX-020",
	}, actorContador)
	require.NoError(t, err)

	// misma referencia con distinta caja: la unicidad es global y
	// case-insensitive por la normalización a mayúsculas
	_, _, err = e.engine.RegistrarPago(ctx, "f-1", dto.RegistrarPagoRequest{
		Monto: decimal.NewFromInt(100_000), Referencia: "tx-020",
	}, actorContador)
	assert.ErrorIs(t, err, domain.ErrReferenciaDuplicada)
}

func TestRegistrarPagoValidaciones(t *testing.T) {
	e := nuevoEntorno(nil)
	facturaEnEstado(e, entity.EstadoValidadaContabilidad)
	ctx := context.Background()

	t.Run("referencia obligatoria", func(t *testing.T) {
		_, _, err := e.engine.RegistrarPago(ctx, "f-1", dto.RegistrarPagoRequest{
			Monto: decimal.NewFromInt(100), Referencia: "  ",
		}, actorContador)
		assert.ErrorIs(t, err, domain.ErrCampoRequerido)
	})

	t.Run("monto positivo", func(t *testing.T) {
		for _, monto := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-100)} {
			_, _, err := e.engine.RegistrarPago(ctx, "f-1", dto.RegistrarPagoRequest{
				Monto: monto, Referencia: "TX-030",
			}, actorContador)
			assert.ErrorIs(t, err, domain.ErrCampoRequerido)
		}
	})

	t.Run("solo contador o superadmin", func(t *testing.T) {
		_, _, err := e.engine.RegistrarPago(ctx, "f-1", dto.RegistrarPagoRequest{
			Monto: decimal.NewFromInt(100), Referencia: "TX-031",
		}, actorMaria)
		assert.ErrorIs(t, err, domain.ErrTransicionNoPermitida)
	})

	t.Run("factura inexistente", func(t *testing.T) {
		_, _, err := e.engine.RegistrarPago(ctx, "f-999", dto.RegistrarPagoRequest{
			Monto: decimal.NewFromInt(100), Referencia: "TX-032",
		}, actorContador)
		assert.ErrorIs(t, err, domain.ErrNoEncontrado)
	})
}

func TestRegistrarPagoSoloSobreValidadas(t *testing.T) {
	estados := []entity.EstadoFactura{
		entity.EstadoEnRevision, entity.EstadoAprobada, entity.EstadoAprobadaAuto,
		entity.EstadoDevueltaContabilidad, entity.EstadoRechazada, entity.EstadoPagada,
	}
	for _, estado := range estados {
		t.Run(string(estado), func(t *testing.T) {
			e := nuevoEntorno(nil)
			facturaEnEstado(e, estado)
			_, _, err := e.engine.RegistrarPago(context.Background(), "f-1", dto.RegistrarPagoRequest{
				Monto: decimal.NewFromInt(100), Referencia: "TX-040",
			}, actorContador)
			assert.ErrorIs(t, err, domain.ErrTransicionNoPermitida)
		})
	}
}
