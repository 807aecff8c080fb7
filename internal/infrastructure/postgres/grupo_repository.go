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

var _ repository.GrupoRepository = (*GrupoRepo)(nil)

// GrupoRepo implementación de GrupoRepository sobre PostgreSQL (usable con pool o tx).
type GrupoRepo struct {
	q Querier
}

// NewGrupoRepository construye el adaptador de grupos. Pasar pool o tx (Querier).
func NewGrupoRepository(q Querier) *GrupoRepo {
	return &GrupoRepo{q: q}
}

// Create persiste un grupo nuevo.
func (r *GrupoRepo) Create(g *entity.Grupo) error {
	query := `
		INSERT INTO grupos (id, codigo, nombre, padre_id, nivel, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		g.ID, g.Codigo, g.Nombre, g.PadreID, g.Nivel, g.Activo, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: código %s", domain.ErrReferenciaDuplicada, g.Codigo)
		}
		return fmt.Errorf("insert grupo: %w", err)
	}
	return nil
}

// Update actualiza nombre y updated_at. El código, el padre y el nivel son inmutables.
func (r *GrupoRepo) Update(g *entity.Grupo) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE grupos SET nombre = $2, updated_at = $3 WHERE id = $1`,
		g.ID, g.Nombre, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update grupo: %w", err)
	}
	return nil
}

// GetByID obtiene un grupo por ID.
func (r *GrupoRepo) GetByID(id string) (*entity.Grupo, error) {
	query := `
		SELECT id, codigo, nombre, padre_id, nivel, activo, created_at, updated_at
		FROM grupos WHERE id = $1`
	var g entity.Grupo
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&g.ID, &g.Codigo, &g.Nombre, &g.PadreID, &g.Nivel, &g.Activo, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get grupo: %w", err)
	}
	return &g, nil
}

// GetByCodigo obtiene un grupo activo por su código corto.
func (r *GrupoRepo) GetByCodigo(codigo string) (*entity.Grupo, error) {
	query := `
		SELECT id, codigo, nombre, padre_id, nivel, activo, created_at, updated_at
		FROM grupos WHERE codigo = $1 AND activo = true`
	var g entity.Grupo
	err := r.q.QueryRow(context.Background(), query, codigo).Scan(
		&g.ID, &g.Codigo, &g.Nombre, &g.PadreID, &g.Nivel, &g.Activo, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get grupo by codigo: %w", err)
	}
	return &g, nil
}

// ListActivos devuelve todos los grupos activos ordenados por nivel.
func (r *GrupoRepo) ListActivos() ([]*entity.Grupo, error) {
	query := `
		SELECT id, codigo, nombre, padre_id, nivel, activo, created_at, updated_at
		FROM grupos WHERE activo = true ORDER BY nivel, codigo`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list grupos: %w", err)
	}
	defer rows.Close()

	var out []*entity.Grupo
	for rows.Next() {
		var g entity.Grupo
		if err := rows.Scan(&g.ID, &g.Codigo, &g.Nombre, &g.PadreID, &g.Nivel,
			&g.Activo, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan grupo: %w", err)
		}
		out = append(out, &g)
	}
	return out, rows.Err()
}

// Deactivate marca el grupo como inactivo.
func (r *GrupoRepo) Deactivate(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE grupos SET activo = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate grupo: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNoEncontrado
	}
	return nil
}

// TieneReferenciasActivas informa si el grupo tiene asignaciones activas o
// facturas sin cerrar que lo referencien.
func (r *GrupoRepo) TieneReferenciasActivas(id string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM asignaciones_nit WHERE grupo_id = $1 AND activo = true)
		    OR EXISTS (SELECT 1 FROM facturas WHERE grupo_id = $1 AND estado NOT IN ('pagada', 'rechazada'))`
	var ocupado bool
	if err := r.q.QueryRow(context.Background(), query, id).Scan(&ocupado); err != nil {
		return false, fmt.Errorf("referencias de grupo: %w", err)
	}
	return ocupado, nil
}
