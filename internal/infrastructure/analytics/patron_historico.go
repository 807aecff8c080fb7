// Package analytics implementa el analizador de patrón histórico de pagos
// usado por la regla de auto-aprobación. Consultas de solo lectura.
package analytics

import (
	"context"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/facturas-pro/internal/application/ports"
)

const (
	// muestraMinima: por debajo de este número de facturas pagadas no hay
	// patrón y la confianza es cero (siempre revisión manual).
	muestraMinima = 3
	// ventanaMuestras: últimas facturas pagadas consideradas por proveedor.
	ventanaMuestras = 24
	// desviacionesMaximas: amplitud del rango esperado en desviaciones estándar.
	desviacionesMaximas = 2.0
)

var _ ports.AnalizadorPatronHistorico = (*PatronHistorico)(nil)

// PatronHistorico evalúa el total de una factura entrante contra la media y la
// desviación estándar de las últimas facturas pagadas del mismo emisor. La
// confianza crece con el tamaño de la muestra y decrece con la distancia del
// total a la media.
type PatronHistorico struct {
	pool *pgxpool.Pool
}

// NewPatronHistorico construye el analizador sobre el pool de lectura.
func NewPatronHistorico(pool *pgxpool.Pool) *PatronHistorico {
	return &PatronHistorico{pool: pool}
}

// Evaluar calcula el veredicto para el total del NIT emisor.
func (a *PatronHistorico) Evaluar(ctx context.Context, nit string, total decimal.Decimal) (*ports.EvaluacionPatron, error) {
	const query = `
		SELECT total_a_pagar
		FROM facturas
		WHERE nit_emisor = $1 AND estado = 'pagada'
		ORDER BY updated_at DESC
		LIMIT $2`
	rows, err := a.pool.Query(ctx, query, nit, ventanaMuestras)
	if err != nil {
		return nil, fmt.Errorf("histórico de pagos: %w", err)
	}
	defer rows.Close()

	var muestras []float64
	for rows.Next() {
		var monto decimal.Decimal
		if err := rows.Scan(&monto); err != nil {
			return nil, fmt.Errorf("scan histórico: %w", err)
		}
		muestras = append(muestras, monto.InexactFloat64())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(muestras) < muestraMinima {
		return &ports.EvaluacionPatron{EnRango: false, Confianza: 0}, nil
	}

	media, desviacion := mediaYDesviacion(muestras)
	valor := total.InexactFloat64()

	// distancia a la media en desviaciones; con desviación cero solo el valor
	// exacto de la media queda en rango
	var distancia float64
	if desviacion == 0 {
		if valor != media {
			distancia = desviacionesMaximas + 1
		}
	} else {
		distancia = math.Abs(valor-media) / desviacion
	}
	enRango := distancia <= desviacionesMaximas

	// la confianza parte del tamaño de la muestra y se castiga con la distancia
	confianza := float64(len(muestras)) / float64(ventanaMuestras)
	if confianza > 1 {
		confianza = 1
	}
	if enRango {
		confianza *= 1 - distancia/(desviacionesMaximas*2)
	} else {
		confianza = 0
	}

	return &ports.EvaluacionPatron{EnRango: enRango, Confianza: confianza}, nil
}

func mediaYDesviacion(muestras []float64) (media, desviacion float64) {
	n := float64(len(muestras))
	var suma float64
	for _, m := range muestras {
		suma += m
	}
	media = suma / n

	var varianza float64
	for _, m := range muestras {
		varianza += (m - media) * (m - media)
	}
	varianza /= n
	return media, math.Sqrt(varianza)
}
