package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation.
// When constraints are provided the violation must reference one of them:
// Postgres reports the constraint name, SQLite reports "table.column".
func IsUniqueViolation(err error, constraints ...string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return matchesConstraint(pgErr.ConstraintName, constraints)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return matchesConstraint(pqErr.Constraint, constraints)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) && !hasConstraint(constraints) {
		return true
	}

	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if !hasConstraint(constraints) {
		return true
	}
	for _, c := range constraints {
		if c != "" && strings.Contains(msg, c) {
			return true
		}
	}
	return false
}

func hasConstraint(constraints []string) bool {
	for _, c := range constraints {
		if c != "" {
			return true
		}
	}
	return false
}

func matchesConstraint(name string, constraints []string) bool {
	if !hasConstraint(constraints) {
		return true
	}
	for _, c := range constraints {
		if c != "" && c == name {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err is gorm's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
