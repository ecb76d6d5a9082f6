package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/acadtrack/backend/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// uniqueRule maps one unique index to the domain fault it represents.
// constraint is the postgres index name, columns the text sqlite reports
// after "UNIQUE constraint failed: ".
type uniqueRule struct {
	constraint string
	columns    string
	err        error
}

// translateError turns a unique-index violation into the matching
// domain fault. Other errors are wrapped with op.
func translateError(op string, err error, rules ...uniqueRule) error {
	if err == nil {
		return nil
	}
	if constraint, detail, ok := uniqueViolation(err); ok {
		for _, r := range rules {
			if constraint != "" && constraint == r.constraint {
				return r.err
			}
			if constraint == "" && strings.Contains(detail, r.columns) {
				return r.err
			}
		}
		return shared.ErrAlreadyExists
	}
	return fmt.Errorf("%s: %w", op, err)
}

// uniqueViolation reports whether err is a unique-index violation, with the
// postgres constraint name when known and the raw driver message otherwise.
func uniqueViolation(err error) (constraint, detail string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return "", "", false
		}
		return pgErr.ConstraintName, pgErr.Message, true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", err.Error(), true
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return "", msg, true
	}
	return "", "", false
}

// notFound maps gorm.ErrRecordNotFound to target and wraps anything else.
func notFound(op string, err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return fmt.Errorf("%s: %w", op, err)
}
