// Package repository provides database access for domain entities.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateBudget is returned when a budget with the same user, category,
// period and start date already exists.
var ErrDuplicateBudget = errors.New("budget for this category and period start date already exists")

// ErrDuplicateEmail is returned when registering an already-used email.
var ErrDuplicateEmail = errors.New("user with this email already exists")

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
