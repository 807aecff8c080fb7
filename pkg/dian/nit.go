package dian

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Errores de validación de NIT. Se comparan con errors.Is; nunca por texto.
var (
	// ErrFormatoInvalido indica que el NIT no tiene entre 5 y 15 dígitos o
	// contiene caracteres no permitidos.
	ErrFormatoInvalido = errors.New("dian: formato de NIT inválido")
	// ErrDigitoVerificacion indica que el dígito de verificación explícito no
	// coincide con el calculado por el algoritmo módulo 11 de la DIAN.
	ErrDigitoVerificacion = errors.New("dian: dígito de verificación del NIT no coincide")
)

// pesos para el cálculo del dígito de verificación (Orden Administrativa 4 de
// 1989, DIAN). Se alinean a la derecha sobre el cuerpo del NIT: un NIT de 9
// dígitos usa los últimos 9 pesos, uno de 15 usa la tabla completa.
var nitWeights = [15]int{71, 67, 59, 53, 47, 43, 41, 37, 29, 23, 19, 17, 13, 7, 3}

// Límites de longitud del cuerpo del NIT (sin dígito de verificación).
const (
	minDigitosNit = 5
	maxDigitosNit = 15
)

// Normalizar recibe un NIT en cualquier formato usual ("900.123.456",
// "900123456-8", "900 123 456") y devuelve la forma canónica
// "<dígitos>-<dígito de verificación>".
//
// Si la entrada trae dígito de verificación explícito (sufijo "-D"), debe
// coincidir con el calculado; si no lo trae, se calcula y se agrega. La función
// es pura e idempotente: normalizar una forma canónica devuelve la misma forma.
func Normalizar(raw string) (string, error) {
	cuerpo, dvExplicito, tieneDV, err := separarDigitoVerificacion(raw)
	if err != nil {
		return "", err
	}
	if len(cuerpo) < minDigitosNit || len(cuerpo) > maxDigitosNit {
		return "", fmt.Errorf("%w: se esperaban entre %d y %d dígitos, se encontraron %d",
			ErrFormatoInvalido, minDigitosNit, maxDigitosNit, len(cuerpo))
	}
	dv := calcularDV(cuerpo)
	if tieneDV && dvExplicito != dv {
		return "", fmt.Errorf("%w: esperado %d, recibido %d", ErrDigitoVerificacion, dv, dvExplicito)
	}
	return fmt.Sprintf("%s-%d", cuerpo, dv), nil
}

// CalcularDigitoVerificacion calcula el dígito de verificación para el cuerpo
// del NIT (solo dígitos, sin DV). Útil para completar NITs en formularios.
func CalcularDigitoVerificacion(cuerpo string) (int, error) {
	digitos := extraerDigitos(cuerpo)
	if len(digitos) < minDigitosNit || len(digitos) > maxDigitosNit {
		return 0, fmt.Errorf("%w: se esperaban entre %d y %d dígitos, se encontraron %d",
			ErrFormatoInvalido, minDigitosNit, maxDigitosNit, len(digitos))
	}
	return calcularDV(digitos), nil
}

// EsCanonico informa si s ya está en forma canónica "<dígitos>-<dv>".
func EsCanonico(s string) bool {
	norm, err := Normalizar(s)
	return err == nil && norm == s
}

// separarDigitoVerificacion divide la entrada en cuerpo (solo dígitos) y
// dígito de verificación explícito. El DV explícito es el sufijo "-D" con un
// solo dígito; cualquier otro guion se trata como separador de formato.
func separarDigitoVerificacion(raw string) (cuerpo string, dv int, tieneDV bool, err error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", 0, false, fmt.Errorf("%w: entrada vacía", ErrFormatoInvalido)
	}
	if idx := strings.LastIndexByte(s, '-'); idx >= 0 {
		sufijo := s[idx+1:]
		if len(sufijo) == 1 && sufijo[0] >= '0' && sufijo[0] <= '9' {
			dv = int(sufijo[0] - '0')
			tieneDV = true
			s = s[:idx]
		}
	}
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
		case r == '.' || r == ' ' || r == '-':
			// separadores de formato permitidos
		default:
			return "", 0, false, fmt.Errorf("%w: carácter no permitido %q", ErrFormatoInvalido, r)
		}
	}
	return extraerDigitos(s), dv, tieneDV, nil
}

// calcularDV aplica el módulo 11 DIAN: suma ponderada con los pesos alineados
// a la derecha; residuo 0 o 1 es el DV, en otro caso el DV es 11 - residuo.
func calcularDV(cuerpo string) int {
	offset := len(nitWeights) - len(cuerpo)
	var sum int
	for i := 0; i < len(cuerpo); i++ {
		sum += int(cuerpo[i]-'0') * nitWeights[offset+i]
	}
	residuo := sum % 11
	if residuo == 0 || residuo == 1 {
		return residuo
	}
	return 11 - residuo
}

func extraerDigitos(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
