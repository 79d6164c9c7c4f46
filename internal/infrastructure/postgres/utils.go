package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// withRange agrega filtros opcionales de fecha sobre column a partir del siguiente placeholder.
func withRange(query, column string, args []any, from, to *time.Time) (string, []any) {
	pos := len(args) + 1
	if from != nil {
		query += fmt.Sprintf(" AND %s >= $%d", column, pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND %s <= $%d", column, pos)
		args = append(args, *to)
	}
	return query, args
}
