package dian_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/facturas-pro/pkg/dian"
)

// Vectores calculados a mano con el módulo 11 DIAN (pesos alineados a la
// derecha: un cuerpo de 9 dígitos usa 41,37,29,23,19,17,13,7,3).
func TestNormalizar_CalculaDigitoVerificacion(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"900123456", "900123456-8"},
		{"900.123.456", "900123456-8"},
		{"900 123 456", "900123456-8"},
		{"800185449", "800185449-9"},
		{"830053105", "830053105-3"},
		{"12345", "12345-8"},
		{"123456789012345", "123456789012345-2"},
		// residuo 1 => DV = 1 directamente (sin restar de 11)
		{"33333", "33333-1"},
		// residuo 0 => DV = 0
		{"42000", "42000-0"},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := dian.Normalizar(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizar_DigitoExplicitoValido(t *testing.T) {
	got, err := dian.Normalizar("800185449-9")
	require.NoError(t, err)
	assert.Equal(t, "800185449-9", got)

	// con puntos de miles y DV explícito
	got, err = dian.Normalizar("800.185.449-9")
	require.NoError(t, err)
	assert.Equal(t, "800185449-9", got)
}

func TestNormalizar_DigitoExplicitoIncorrecto(t *testing.T) {
	// el DV correcto de 800185449 es 9; cualquier otro debe rechazarse
	_, err := dian.Normalizar("800185449-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, dian.ErrDigitoVerificacion)
}

func TestNormalizar_FormatoInvalido(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"1234",             // menos de 5 dígitos
		"1234567890123456", // más de 15 dígitos
		"90012345A",
		"nit:900123456",
	}
	for _, raw := range cases {
		t.Run(fmt.Sprintf("%q", raw), func(t *testing.T) {
			_, err := dian.Normalizar(raw)
			assert.ErrorIs(t, err, dian.ErrFormatoInvalido)
		})
	}
}

// Normalizar debe ser un punto fijo: normalizar la salida devuelve la salida.
func TestNormalizar_Idempotente(t *testing.T) {
	seeds := []string{"900123456", "800185449", "12345", "123456789012345", "33333", "42000"}
	for _, seed := range seeds {
		canon, err := dian.Normalizar(seed)
		require.NoError(t, err)
		again, err := dian.Normalizar(canon)
		require.NoError(t, err)
		assert.Equal(t, canon, again, "re-normalizar la forma canónica debe ser estable")
		assert.True(t, dian.EsCanonico(canon))
	}
}

func TestCalcularDigitoVerificacion(t *testing.T) {
	dv, err := dian.CalcularDigitoVerificacion("900123456")
	require.NoError(t, err)
	assert.Equal(t, 8, dv)

	dv, err = dian.CalcularDigitoVerificacion("800.185.449")
	require.NoError(t, err)
	assert.Equal(t, 9, dv)

	_, err = dian.CalcularDigitoVerificacion("123")
	assert.ErrorIs(t, err, dian.ErrFormatoInvalido)
}
