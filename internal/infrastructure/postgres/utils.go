package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Código SQLSTATE de PostgreSQL para violación de constraint UNIQUE.
const codeUniqueViolation = "23505"

// isUniqueViolation detecta la violación de un UNIQUE para que los adaptadores
// la traduzcan a domain.ErrDuplicate. El fallback por texto cubre drivers o
// proxies que envuelven el error sin conservar el *pgconn.PgError.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}
