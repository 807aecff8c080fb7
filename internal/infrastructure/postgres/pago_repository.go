package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/facturas-pro/internal/domain"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
	"github.com/tu-usuario/facturas-pro/internal/domain/repository"
)

var _ repository.PagoRepository = (*PagoRepo)(nil)

// PagoRepo implementación de PagoRepository sobre PostgreSQL (usable con pool o tx).
type PagoRepo struct {
	q Querier
}

// NewPagoRepository construye el adaptador de pagos. Pasar pool o tx (Querier).
func NewPagoRepository(q Querier) *PagoRepo {
	return &PagoRepo{q: q}
}

// Create persiste el pago. La unicidad global de la referencia la impone el
// constraint único de la tabla; la violación se traduce a ErrReferenciaDuplicada.
func (r *PagoRepo) Create(p *entity.Pago) error {
	query := `
		INSERT INTO pagos (id, factura_id, monto, referencia, metodo, registrado_por, registrado_en)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.FacturaID, p.Monto, p.Referencia, p.Metodo, p.RegistradoPor, p.RegistradoEn,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrReferenciaDuplicada, p.Referencia)
		}
		return fmt.Errorf("insert pago: %w", err)
	}
	return nil
}

// ListByFactura devuelve los pagos de la factura en orden de registro.
func (r *PagoRepo) ListByFactura(facturaID string) ([]*entity.Pago, error) {
	query := `
		SELECT id, factura_id, monto, referencia, metodo, registrado_por, registrado_en
		FROM pagos WHERE factura_id = $1 ORDER BY registrado_en`
	rows, err := r.q.Query(context.Background(), query, facturaID)
	if err != nil {
		return nil, fmt.Errorf("list pagos: %w", err)
	}
	defer rows.Close()

	var out []*entity.Pago
	for rows.Next() {
		var p entity.Pago
		if err := rows.Scan(&p.ID, &p.FacturaID, &p.Monto, &p.Referencia, &p.Metodo,
			&p.RegistradoPor, &p.RegistradoEn); err != nil {
			return nil, fmt.Errorf("scan pago: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// TotalPagado devuelve la suma de los pagos registrados de la factura.
func (r *PagoRepo) TotalPagado(facturaID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(monto), 0) FROM pagos WHERE factura_id = $1`,
		facturaID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total pagado: %w", err)
	}
	return total, nil
}
