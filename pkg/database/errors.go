package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
)

// ConstraintName returns the violated constraint for unique and check
// violations, or "" for any other error.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return ""
	}

	switch pgErr.Code {
	case codeUniqueViolation, codeCheckViolation:
		return pgErr.ConstraintName
	default:
		return ""
	}
}
