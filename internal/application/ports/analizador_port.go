package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// EvaluacionPatron es el veredicto del analizador histórico para un total.
type EvaluacionPatron struct {
	// EnRango indica si el total está dentro del rango esperado del proveedor.
	EnRango bool
	// Confianza en [0,1]. Por debajo del umbral configurado la factura va a
	// revisión manual aunque EnRango sea true.
	Confianza float64
}

// AnalizadorPatronHistorico es el colaborador externo que compara el total de
// una factura contra el patrón de pagos del proveedor. El algoritmo de scoring
// es responsabilidad del colaborador; el motor solo consume el veredicto y
// ante la duda rutea a revisión manual, nunca auto-rechaza.
type AnalizadorPatronHistorico interface {
	Evaluar(ctx context.Context, nit string, total decimal.Decimal) (*EvaluacionPatron, error)
}
