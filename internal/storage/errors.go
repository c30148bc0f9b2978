package storage

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key constraint violation")
	ErrInvalidTransition   = errors.New("status transition not allowed")
	ErrPubSubUnavailable   = errors.New("pub/sub unavailable")
)

// Postgres SQLSTATE codes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Error is a classified database error. It matches its Kind with errors.Is
// and keeps the driver error reachable through Unwrap.
type Error struct {
	Kind       error
	Constraint string
	Err        error
}

func (e *Error) Error() string   { return e.Err.Error() }
func (e *Error) Unwrap() error   { return e.Err }
func (e *Error) Is(t error) bool { return t == e.Kind }

// Classify maps driver errors (pgx, lib/pq, gorm translated, sqlite text) onto
// the package sentinels. Unknown errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &Error{Kind: ErrNotFound, Err: err}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &Error{Kind: ErrUniqueViolation, Err: err}
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return &Error{Kind: ErrForeignKeyViolation, Err: err}
	}

	// pgx
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return &Error{Kind: ErrUniqueViolation, Constraint: pgErr.ConstraintName, Err: err}
		case codeForeignKeyViolation:
			return &Error{Kind: ErrForeignKeyViolation, Constraint: pgErr.ConstraintName, Err: err}
		}
		return err
	}
	// lib/pq
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeUniqueViolation:
			return &Error{Kind: ErrUniqueViolation, Constraint: pqErr.Constraint, Err: err}
		case codeForeignKeyViolation:
			return &Error{Kind: ErrForeignKeyViolation, Constraint: pqErr.Constraint, Err: err}
		}
		return err
	}

	// sqlite reports constraint failures only in the message
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return &Error{Kind: ErrUniqueViolation, Err: err}
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return &Error{Kind: ErrForeignKeyViolation, Err: err}
	}
	return err
}

// ConstraintName returns the violated constraint, or "" when the driver did not report one.
func ConstraintName(err error) string {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Constraint
	}
	return ""
}
