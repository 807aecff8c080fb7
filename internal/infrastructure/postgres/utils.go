package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si err es una violación de constraint único
// (SQLSTATE 23505). Solo inspecciona el código estructurado del PgError;
// el texto del error nunca se interpreta.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
