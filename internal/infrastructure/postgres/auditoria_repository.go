package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
	"github.com/tu-usuario/facturas-pro/internal/domain/repository"
)

var _ repository.AuditoriaRepository = (*AuditoriaRepo)(nil)

// AuditoriaRepo implementación del log append-only de transiciones. No expone
// UPDATE ni DELETE: las entradas son inmutables.
type AuditoriaRepo struct {
	q Querier
}

// NewAuditoriaRepository construye el adaptador de auditoría. Pasar pool o tx (Querier).
func NewAuditoriaRepository(q Querier) *AuditoriaRepo {
	return &AuditoriaRepo{q: q}
}

// Append agrega una entrada al log.
func (r *AuditoriaRepo) Append(a *entity.AuditoriaWorkflow) error {
	query := `
		INSERT INTO auditoria_workflow (id, factura_id, estado_origen, estado_destino, actor, rol_actor, nota, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.FacturaID, a.EstadoOrigen, a.EstadoDestino, a.Actor, a.RolActor, a.Nota, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert auditoría: %w", err)
	}
	return nil
}

// ListByFactura devuelve el historial de transiciones de la factura en orden
// cronológico.
func (r *AuditoriaRepo) ListByFactura(facturaID string) ([]*entity.AuditoriaWorkflow, error) {
	query := `
		SELECT id, factura_id, estado_origen, estado_destino, actor, rol_actor, nota, created_at
		FROM auditoria_workflow WHERE factura_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, facturaID)
	if err != nil {
		return nil, fmt.Errorf("list auditoría: %w", err)
	}
	defer rows.Close()

	var out []*entity.AuditoriaWorkflow
	for rows.Next() {
		var a entity.AuditoriaWorkflow
		if err := rows.Scan(&a.ID, &a.FacturaID, &a.EstadoOrigen, &a.EstadoDestino,
			&a.Actor, &a.RolActor, &a.Nota, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan auditoría: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
