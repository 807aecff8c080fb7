package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/facturas-pro/internal/domain"
	"github.com/tu-usuario/facturas-pro/internal/domain/entity"
	"github.com/tu-usuario/facturas-pro/internal/domain/repository"
)

var _ repository.FacturaRepository = (*FacturaRepo)(nil)

// FacturaRepo implementación de FacturaRepository sobre PostgreSQL (usable con pool o tx).
type FacturaRepo struct {
	q Querier
}

// NewFacturaRepository construye el adaptador de facturas. Pasar pool o tx (Querier).
func NewFacturaRepository(q Querier) *FacturaRepo {
	return &FacturaRepo{q: q}
}

const columnasFactura = `id, numero_factura, cufe, nit_emisor, nombre_emisor,
	subtotal, impuestos, total, total_a_pagar, moneda, estado, aprobador,
	tipo_aprobacion, motivo_rechazo, grupo_id, responsable_id, created_at, updated_at`

// Create persiste la factura recién clasificada.
func (r *FacturaRepo) Create(f *entity.Factura) error {
	query := `
		INSERT INTO facturas (` + columnasFactura + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		f.ID, f.NumeroFactura, f.CUFE, f.NitEmisor, f.NombreEmisor,
		f.Subtotal, f.Impuestos, f.Total, f.TotalAPagar, f.Moneda, f.Estado,
		f.Aprobador, f.TipoAprobacion, f.MotivoRechazo, f.GrupoID, f.ResponsableID,
		f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: factura %s del emisor %s",
				domain.ErrReferenciaDuplicada, f.NumeroFactura, f.NitEmisor)
		}
		return fmt.Errorf("insert factura: %w", err)
	}
	return nil
}

// GetByID obtiene la factura por ID.
func (r *FacturaRepo) GetByID(id string) (*entity.Factura, error) {
	query := `SELECT ` + columnasFactura + ` FROM facturas WHERE id = $1`
	f, err := escanearFactura(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get factura: %w", err)
	}
	return f, nil
}

// UpdateEstado aplica el cambio de estado con compare-and-swap: el UPDATE
// exige que el estado en DB siga siendo estadoEsperado. Cero filas afectadas
// significa que otro actor ganó la carrera.
func (r *FacturaRepo) UpdateEstado(f *entity.Factura, estadoEsperado entity.EstadoFactura) error {
	query := `
		UPDATE facturas
		SET estado = $3, aprobador = $4, tipo_aprobacion = $5, motivo_rechazo = $6,
		    grupo_id = $7, responsable_id = $8, updated_at = $9
		WHERE id = $1 AND estado = $2`
	cmd, err := r.q.Exec(context.Background(), query,
		f.ID, estadoEsperado, f.Estado, f.Aprobador, f.TipoAprobacion,
		f.MotivoRechazo, f.GrupoID, f.ResponsableID, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update estado factura: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrModificacionConcurrente
	}
	return nil
}

// List devuelve facturas según el filtro de alcance. GrupoIDs nil = vista
// global; vacío no nulo no retorna filas.
func (r *FacturaRepo) List(filtro repository.FacturaFiltro) ([]*entity.Factura, error) {
	query := `SELECT ` + columnasFactura + ` FROM facturas WHERE 1=1`
	args := []any{}

	if filtro.GrupoIDs != nil {
		if len(filtro.GrupoIDs) == 0 {
			return nil, nil
		}
		args = append(args, filtro.GrupoIDs)
		query += fmt.Sprintf(" AND grupo_id = ANY($%d)", len(args))
	}
	if filtro.Estado != nil {
		args = append(args, *filtro.Estado)
		query += fmt.Sprintf(" AND estado = $%d", len(args))
	}
	args = append(args, filtro.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, filtro.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list facturas: %w", err)
	}
	defer rows.Close()
	return escanearFacturas(rows)
}

// ListCuarentena devuelve las facturas en cuarentena, las más antiguas primero.
func (r *FacturaRepo) ListCuarentena(limit, offset int) ([]*entity.Factura, error) {
	query := `
		SELECT ` + columnasFactura + `
		FROM facturas WHERE estado = 'cuarentena'
		ORDER BY created_at LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cuarentena: %w", err)
	}
	defer rows.Close()
	return escanearFacturas(rows)
}

// ResumenCuarentena agrega la cuarentena por NIT emisor: cantidad e impacto
// financiero (suma de total_a_pagar). Vista derivada, siempre recomputable.
func (r *FacturaRepo) ResumenCuarentena() ([]*repository.CuarentenaResumenItem, error) {
	query := `
		SELECT nit_emisor, MAX(nombre_emisor), COUNT(*), SUM(total_a_pagar)
		FROM facturas WHERE estado = 'cuarentena'
		GROUP BY nit_emisor
		ORDER BY SUM(total_a_pagar) DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("resumen cuarentena: %w", err)
	}
	defer rows.Close()

	var out []*repository.CuarentenaResumenItem
	for rows.Next() {
		var item repository.CuarentenaResumenItem
		if err := rows.Scan(&item.NitEmisor, &item.NombreEmisor, &item.Cantidad,
			&item.ImpactoFinanciero); err != nil {
			return nil, fmt.Errorf("scan resumen cuarentena: %w", err)
		}
		out = append(out, &item)
	}
	return out, rows.Err()
}

func escanearFactura(row pgx.Row) (*entity.Factura, error) {
	var f entity.Factura
	err := row.Scan(&f.ID, &f.NumeroFactura, &f.CUFE, &f.NitEmisor, &f.NombreEmisor,
		&f.Subtotal, &f.Impuestos, &f.Total, &f.TotalAPagar, &f.Moneda, &f.Estado,
		&f.Aprobador, &f.TipoAprobacion, &f.MotivoRechazo, &f.GrupoID, &f.ResponsableID,
		&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func escanearFacturas(rows pgx.Rows) ([]*entity.Factura, error) {
	var out []*entity.Factura
	for rows.Next() {
		f, err := escanearFactura(rows)
		if err != nil {
			return nil, fmt.Errorf("scan factura: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
