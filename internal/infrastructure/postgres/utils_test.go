package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWithRange(t *testing.T) {
	base := "SELECT id FROM time_entries WHERE project_id = $1"
	from := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	q, args := withRange(base, "start_time", []any{"P1"}, nil, nil)
	assert.Equal(t, base, q)
	assert.Len(t, args, 1)

	q, args = withRange(base, "start_time", []any{"P1"}, &from, &to)
	assert.Equal(t, base+" AND start_time >= $2 AND start_time <= $3", q)
	assert.Equal(t, []any{"P1", from, to}, args)

	q, args = withRange(base, "date", []any{"P1"}, nil, &to)
	assert.Equal(t, base+" AND date <= $2", q)
	assert.Equal(t, []any{"P1", to}, args)
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", pgErr)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("conexión rechazada")))
}
