package workflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/facturas-pro/internal/application/ports"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
)

func asignacionAuto() *entity.AsignacionNit {
	grupoID := "g-bog"
	return &entity.AsignacionNit{
		ID:                          "a-1",
		Nit:                         "800185449-9",
		ResponsableID:               "r-maria",
		GrupoID:                     &grupoID,
		PermiteAprobacionAutomatica: true,
		Activo:                      true,
	}
}

func TestAutoAprobacionExitosa(t *testing.T) {
	e := nuevoEntorno(&fakeAnalizador{ev: &ports.EvaluacionPatron{EnRango: true, Confianza: 0.92}})
	f := facturaEnEstado(e, entity.EstadoEnRevision)

	aprobada, err := e.engine.IntentarAprobacionAutomatica(context.Background(), f, asignacionAuto())
	require.NoError(t, err)
	assert.True(t, aprobada)

	guardada, _ := e.facturas.GetByID("f-1")
	assert.Equal(t, entity.EstadoAprobadaAuto, guardada.Estado)
	assert.Equal(t, entity.ActorSistema, guardada.Aprobador)
	assert.Equal(t, entity.AprobacionAutomatica, guardada.TipoAprobacion)

	entradas, _ := e.auditoria.ListByFactura("f-1")
	require.Len(t, entradas, 1)
	assert.Equal(t, entity.ActorSistema, entradas[0].Actor)
}

func TestAutoAprobacionConfianzaBajoUmbral(t *testing.T) {
	// en rango pero con confianza 0.80 < umbral 0.85
	e := nuevoEntorno(&fakeAnalizador{ev: &ports.EvaluacionPatron{EnRango: true, Confianza: 0.80}})
	f := facturaEnEstado(e, entity.EstadoEnRevision)

	aprobada, err := e.engine.IntentarAprobacionAutomatica(context.Background(), f, asignacionAuto())
	require.NoError(t, err)
	assert.False(t, aprobada)

	guardada, _ := e.facturas.GetByID("f-1")
	assert.Equal(t, entity.EstadoEnRevision, guardada.Estado, "ante la duda queda en revisión manual")
}

func TestAutoAprobacionFueraDeRango(t *testing.T) {
	e := nuevoEntorno(&fakeAnalizador{ev: &ports.EvaluacionPatron{EnRango: false, Confianza: 0.99}})
	f := facturaEnEstado(e, entity.EstadoEnRevision)

	aprobada, err := e.engine.IntentarAprobacionAutomatica(context.Background(), f, asignacionAuto())
	require.NoError(t, err)
	assert.False(t, aprobada, "un total atípico nunca se auto-aprueba, pero tampoco se auto-rechaza")
}

func TestAutoAprobacionAnalizadorCaido(t *testing.T) {
	e := nuevoEntorno(&fakeAnalizador{err: errors.New("timeout consultando histórico")})
	f := facturaEnEstado(e, entity.EstadoEnRevision)

	aprobada, err := e.engine.IntentarAprobacionAutomatica(context.Background(), f, asignacionAuto())
	require.NoError(t, err, "el fallo del analizador no bloquea el ingreso")
	assert.False(t, aprobada)

	guardada, _ := e.facturas.GetByID("f-1")
	assert.Equal(t, entity.EstadoEnRevision, guardada.Estado)
}

func TestAutoAprobacionFlagsDeAsignacion(t *testing.T) {
	e := nuevoEntorno(&fakeAnalizador{ev: &ports.EvaluacionPatron{EnRango: true, Confianza: 0.99}})
	f := facturaEnEstado(e, entity.EstadoEnRevision)

	t.Run("asignación sin permiso", func(t *testing.T) {
		a := asignacionAuto()
		a.PermiteAprobacionAutomatica = false
		aprobada, err := e.engine.IntentarAprobacionAutomatica(context.Background(), f, a)
		require.NoError(t, err)
		assert.False(t, aprobada)
	})

	t.Run("revisión siempre manda sobre el permiso", func(t *testing.T) {
		a := asignacionAuto()
		a.RequiereRevisionSiempre = true
		aprobada, err := e.engine.IntentarAprobacionAutomatica(context.Background(), f, a)
		require.NoError(t, err)
		assert.False(t, aprobada)
	})

	t.Run("sin asignación no hay regla", func(t *testing.T) {
		aprobada, err := e.engine.IntentarAprobacionAutomatica(context.Background(), f, nil)
		require.NoError(t, err)
		assert.False(t, aprobada)
	})
}

func TestAutoAprobacionSoloDesdeRevision(t *testing.T) {
	e := nuevoEntorno(&fakeAnalizador{ev: &ports.EvaluacionPatron{EnRango: true, Confianza: 0.99}})
	f := facturaEnEstado(e, entity.EstadoCuarentena)

	aprobada, err := e.engine.IntentarAprobacionAutomatica(context.Background(), f, asignacionAuto())
	require.NoError(t, err)
	assert.False(t, aprobada)
}
