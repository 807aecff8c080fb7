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

var _ repository.ResponsableRepository = (*ResponsableRepo)(nil)

// ResponsableRepo implementación de ResponsableRepository sobre PostgreSQL.
// Las lecturas cargan las membresías desde responsable_grupos con una segunda
// consulta (o un agregado en los listados).
type ResponsableRepo struct {
	q Querier
}

// NewResponsableRepository construye el adaptador de responsables. Pasar pool o tx (Querier).
func NewResponsableRepository(q Querier) *ResponsableRepo {
	return &ResponsableRepo{q: q}
}

// Create persiste el responsable y sus membresías iniciales.
func (r *ResponsableRepo) Create(resp *entity.Responsable) error {
	query := `
		INSERT INTO responsables (id, username, nombre, email, password_hash, rol, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		resp.ID, resp.Username, resp.Nombre, resp.Email, resp.PasswordHash,
		resp.Rol, resp.Activo, resp.CreatedAt, resp.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username %s", domain.ErrReferenciaDuplicada, resp.Username)
		}
		return fmt.Errorf("insert responsable: %w", err)
	}
	return r.insertarMembresias(resp.ID, resp.Grupos)
}

// Update actualiza nombre, email, rol y updated_at.
func (r *ResponsableRepo) Update(resp *entity.Responsable) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE responsables SET nombre = $2, email = $3, rol = $4, updated_at = $5 WHERE id = $1`,
		resp.ID, resp.Nombre, resp.Email, resp.Rol, resp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update responsable: %w", err)
	}
	return nil
}

// GetByID obtiene el responsable con sus membresías.
func (r *ResponsableRepo) GetByID(id string) (*entity.Responsable, error) {
	return r.getBy("id = $1", id)
}

// GetByUsername obtiene el responsable por username (para login).
func (r *ResponsableRepo) GetByUsername(username string) (*entity.Responsable, error) {
	return r.getBy("username = $1", username)
}

func (r *ResponsableRepo) getBy(cond, arg string) (*entity.Responsable, error) {
	query := `
		SELECT id, username, nombre, email, password_hash, rol, activo, created_at, updated_at
		FROM responsables WHERE ` + cond
	var resp entity.Responsable
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&resp.ID, &resp.Username, &resp.Nombre, &resp.Email, &resp.PasswordHash,
		&resp.Rol, &resp.Activo, &resp.CreatedAt, &resp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get responsable: %w", err)
	}
	grupos, err := r.membresias(resp.ID)
	if err != nil {
		return nil, err
	}
	resp.Grupos = grupos
	return &resp, nil
}

// List devuelve responsables paginados, con membresías agregadas en la misma consulta.
func (r *ResponsableRepo) List(limit, offset int) ([]*entity.Responsable, error) {
	query := `
		SELECT r.id, r.username, r.nombre, r.email, r.password_hash, r.rol, r.activo,
		       r.created_at, r.updated_at,
		       COALESCE(array_agg(rg.grupo_id) FILTER (WHERE rg.grupo_id IS NOT NULL), '{}')
		FROM responsables r
		LEFT JOIN responsable_grupos rg ON rg.responsable_id = r.id
		GROUP BY r.id
		ORDER BY r.username LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list responsables: %w", err)
	}
	defer rows.Close()
	return escanearResponsables(rows)
}

// ListByGrupo devuelve los responsables con membresía directa en el grupo.
func (r *ResponsableRepo) ListByGrupo(grupoID string) ([]*entity.Responsable, error) {
	query := `
		SELECT r.id, r.username, r.nombre, r.email, r.password_hash, r.rol, r.activo,
		       r.created_at, r.updated_at,
		       COALESCE(array_agg(rg2.grupo_id) FILTER (WHERE rg2.grupo_id IS NOT NULL), '{}')
		FROM responsables r
		JOIN responsable_grupos rg ON rg.responsable_id = r.id AND rg.grupo_id = $1
		LEFT JOIN responsable_grupos rg2 ON rg2.responsable_id = r.id
		GROUP BY r.id
		ORDER BY r.username`
	rows, err := r.q.Query(context.Background(), query, grupoID)
	if err != nil {
		return nil, fmt.Errorf("list responsables by grupo: %w", err)
	}
	defer rows.Close()
	return escanearResponsables(rows)
}

// SetGrupos reemplaza las membresías directas del responsable.
func (r *ResponsableRepo) SetGrupos(responsableID string, grupoIDs []string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM responsable_grupos WHERE responsable_id = $1`, responsableID)
	if err != nil {
		return fmt.Errorf("limpiar membresías: %w", err)
	}
	return r.insertarMembresias(responsableID, grupoIDs)
}

// Deactivate marca al responsable como inactivo.
func (r *ResponsableRepo) Deactivate(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE responsables SET activo = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate responsable: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNoEncontrado
	}
	return nil
}

func (r *ResponsableRepo) insertarMembresias(responsableID string, grupoIDs []string) error {
	for _, grupoID := range grupoIDs {
		_, err := r.q.Exec(context.Background(),
			`INSERT INTO responsable_grupos (responsable_id, grupo_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			responsableID, grupoID)
		if err != nil {
			return fmt.Errorf("insert membresía: %w", err)
		}
	}
	return nil
}

func (r *ResponsableRepo) membresias(responsableID string) ([]string, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT grupo_id FROM responsable_grupos WHERE responsable_id = $1 ORDER BY grupo_id`,
		responsableID)
	if err != nil {
		return nil, fmt.Errorf("membresías: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scan membresía: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func escanearResponsables(rows pgx.Rows) ([]*entity.Responsable, error) {
	var out []*entity.Responsable
	for rows.Next() {
		var resp entity.Responsable
		if err := rows.Scan(&resp.ID, &resp.Username, &resp.Nombre, &resp.Email,
			&resp.PasswordHash, &resp.Rol, &resp.Activo, &resp.CreatedAt, &resp.UpdatedAt,
			&resp.Grupos); err != nil {
			return nil, fmt.Errorf("scan responsable: %w", err)
		}
		out = append(out, &resp)
	}
	return out, rows.Err()
}
