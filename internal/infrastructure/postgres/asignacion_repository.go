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

var _ repository.AsignacionRepository = (*AsignacionRepo)(nil)

// AsignacionRepo implementación de AsignacionRepository sobre PostgreSQL.
// La unicidad de (nit, responsable, grupo) activa la impone un índice único
// parcial; la violación se traduce a domain.ErrNitYaAsignado.
type AsignacionRepo struct {
	q Querier
}

// NewAsignacionRepository construye el adaptador de asignaciones. Pasar pool o tx (Querier).
func NewAsignacionRepository(q Querier) *AsignacionRepo {
	return &AsignacionRepo{q: q}
}

const columnasAsignacion = `id, nit, nombre_proveedor, email_proveedor, responsable_id, grupo_id,
	permite_aprobacion_automatica, requiere_revision_siempre, activo, created_at, updated_at`

// Create persiste la asignación.
func (r *AsignacionRepo) Create(a *entity.AsignacionNit) error {
	query := `
		INSERT INTO asignaciones_nit (` + columnasAsignacion + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.Nit, a.NombreProveedor, a.EmailProveedor, a.ResponsableID, a.GrupoID,
		a.PermiteAprobacionAutomatica, a.RequiereRevisionSiempre, a.Activo,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrNitYaAsignado
		}
		return fmt.Errorf("insert asignación: %w", err)
	}
	return nil
}

// GetByID obtiene la asignación por ID.
func (r *AsignacionRepo) GetByID(id string) (*entity.AsignacionNit, error) {
	query := `SELECT ` + columnasAsignacion + ` FROM asignaciones_nit WHERE id = $1`
	a, err := escanearAsignacion(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get asignación: %w", err)
	}
	return a, nil
}

// ListActivasPorNit devuelve las asignaciones activas del NIT canónico,
// ordenadas por fecha de creación ascendente para que el desempate del
// resolutor sea determinista.
func (r *AsignacionRepo) ListActivasPorNit(nit string) ([]*entity.AsignacionNit, error) {
	query := `
		SELECT ` + columnasAsignacion + `
		FROM asignaciones_nit WHERE nit = $1 AND activo = true
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, nit)
	if err != nil {
		return nil, fmt.Errorf("list asignaciones por nit: %w", err)
	}
	defer rows.Close()
	return escanearAsignaciones(rows)
}

// FindPorClave busca la asignación (activa o no) para la clave natural.
func (r *AsignacionRepo) FindPorClave(nit, responsableID string, grupoID *string) (*entity.AsignacionNit, error) {
	query := `
		SELECT ` + columnasAsignacion + `
		FROM asignaciones_nit
		WHERE nit = $1 AND responsable_id = $2 AND grupo_id IS NOT DISTINCT FROM $3`
	a, err := escanearAsignacion(r.q.QueryRow(context.Background(), query, nit, responsableID, grupoID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find asignación por clave: %w", err)
	}
	return a, nil
}

// List devuelve asignaciones paginadas, activas primero.
func (r *AsignacionRepo) List(limit, offset int) ([]*entity.AsignacionNit, error) {
	query := `
		SELECT ` + columnasAsignacion + `
		FROM asignaciones_nit
		ORDER BY activo DESC, created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list asignaciones: %w", err)
	}
	defer rows.Close()
	return escanearAsignaciones(rows)
}

// Reactivate vuelve a activar una asignación desactivada.
func (r *AsignacionRepo) Reactivate(id string) error {
	return r.setActivo(id, true)
}

// Deactivate marca la asignación como inactiva. Nunca hay borrado físico.
func (r *AsignacionRepo) Deactivate(id string) error {
	return r.setActivo(id, false)
}

func (r *AsignacionRepo) setActivo(id string, activo bool) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE asignaciones_nit SET activo = $2, updated_at = now() WHERE id = $1`,
		id, activo)
	if err != nil {
		return fmt.Errorf("set activo asignación: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNoEncontrado
	}
	return nil
}

// Update actualiza los flags de la asignación.
func (r *AsignacionRepo) Update(a *entity.AsignacionNit) error {
	_, err := r.q.Exec(context.Background(), `
		UPDATE asignaciones_nit
		SET nombre_proveedor = $2, email_proveedor = $3,
		    permite_aprobacion_automatica = $4, requiere_revision_siempre = $5,
		    updated_at = $6
		WHERE id = $1`,
		a.ID, a.NombreProveedor, a.EmailProveedor, a.PermiteAprobacionAutomatica,
		a.RequiereRevisionSiempre, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update asignación: %w", err)
	}
	return nil
}

func escanearAsignacion(row pgx.Row) (*entity.AsignacionNit, error) {
	var a entity.AsignacionNit
	err := row.Scan(&a.ID, &a.Nit, &a.NombreProveedor, &a.EmailProveedor, &a.ResponsableID, &a.GrupoID,
		&a.PermiteAprobacionAutomatica, &a.RequiereRevisionSiempre, &a.Activo,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func escanearAsignaciones(rows pgx.Rows) ([]*entity.AsignacionNit, error) {
	var out []*entity.AsignacionNit
	for rows.Next() {
		a, err := escanearAsignacion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asignación: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
