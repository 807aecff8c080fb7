package tenancy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/facturas-pro/internal/application/tenancy"
	"github.com/tu-usuario/facturas-pro/internal/domain"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
)

func ptr(s string) *string { return &s }

// Árbol de prueba: raíz corporativa -> sede BOG -> sub-sede BOG-NORTE,
// más una sede MED hermana.
func jerarquiaDePrueba() *tenancy.Jerarquia {
	grupos := []*entity.Grupo{
		{ID: "g-root", Codigo: "CORP", Nivel: 0, Activo: true},
		{ID: "g-bog", Codigo: "BOG", PadreID: ptr("g-root"), Nivel: 1, Activo: true},
		{ID: "g-med", Codigo: "MED", PadreID: ptr("g-root"), Nivel: 1, Activo: true},
		{ID: "g-bog-norte", Codigo: "BOG-N", PadreID: ptr("g-bog"), Nivel: 2, Activo: true},
	}
	return tenancy.NuevaJerarquia(grupos)
}

func TestAncestros_OrdenRaizAHoja(t *testing.T) {
	j := jerarquiaDePrueba()
	assert.Equal(t, []string{"g-root", "g-bog", "g-bog-norte"}, j.Ancestros("g-bog-norte"))
	assert.Equal(t, []string{"g-root"}, j.Ancestros("g-root"))
	assert.Nil(t, j.Ancestros("no-existe"))
}

func TestDescendientes_IncluyeAlPropioGrupo(t *testing.T) {
	j := jerarquiaDePrueba()

	desc := j.Descendientes("g-bog")
	assert.Len(t, desc, 2)
	assert.Contains(t, desc, "g-bog")
	assert.Contains(t, desc, "g-bog-norte")

	todos := j.Descendientes("g-root")
	assert.Len(t, todos, 4)

	assert.Empty(t, j.Descendientes("no-existe"))
}

func TestEsRaizYNivel(t *testing.T) {
	j := jerarquiaDePrueba()
	assert.True(t, j.EsRaiz("g-root"))
	assert.False(t, j.EsRaiz("g-bog"))
	assert.Equal(t, 0, j.Nivel("g-root"))
	assert.Equal(t, 2, j.Nivel("g-bog-norte"))
	assert.Equal(t, -1, j.Nivel("no-existe"))
	assert.Equal(t, []string{"g-root"}, j.Raices())
}

func TestEsAncestroDe_Estricto(t *testing.T) {
	j := jerarquiaDePrueba()
	assert.True(t, j.EsAncestroDe("g-root", "g-bog-norte"))
	assert.True(t, j.EsAncestroDe("g-bog", "g-bog-norte"))
	assert.False(t, j.EsAncestroDe("g-bog-norte", "g-bog"), "la autoridad nunca sube")
	assert.False(t, j.EsAncestroDe("g-bog", "g-bog"), "un grupo no es su propio ancestro")
	assert.False(t, j.EsAncestroDe("g-med", "g-bog-norte"))
}

func TestValidarPadre(t *testing.T) {
	j := jerarquiaDePrueba()

	t.Run("padre válido", func(t *testing.T) {
		require.NoError(t, j.ValidarPadre("", ptr("g-bog"), 2))
	})
	t.Run("raíz con nivel distinto de cero", func(t *testing.T) {
		err := j.ValidarPadre("", nil, 1)
		assert.ErrorIs(t, err, domain.ErrJerarquiaInvalida)
	})
	t.Run("padre inexistente", func(t *testing.T) {
		err := j.ValidarPadre("", ptr("fantasma"), 1)
		assert.ErrorIs(t, err, domain.ErrJerarquiaInvalida)
	})
	t.Run("salto de nivel", func(t *testing.T) {
		// colgar un nivel 3 directamente de la raíz (nivel 0)
		err := j.ValidarPadre("", ptr("g-root"), 3)
		assert.ErrorIs(t, err, domain.ErrJerarquiaInvalida)
	})
	t.Run("ciclo directo", func(t *testing.T) {
		err := j.ValidarPadre("g-bog", ptr("g-bog"), 2)
		assert.ErrorIs(t, err, domain.ErrJerarquiaInvalida)
	})
	t.Run("ciclo vía descendiente", func(t *testing.T) {
		err := j.ValidarPadre("g-bog", ptr("g-bog-norte"), 3)
		assert.ErrorIs(t, err, domain.ErrJerarquiaInvalida)
	})
}
