package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies a failure for the HTTP boundary.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindPersistence Kind = "persistence"
)

// Error is the failure type returned by every service operation.
type Error struct {
	Kind      Kind
	Op        string // operation that failed, for logs
	Field     string // offending field for validation failures
	Message   string // client-safe message
	Retryable bool
	Cause     error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target has the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels usable with errors.Is.
var (
	ErrValidation  = &Error{Kind: KindValidation}
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrPersistence = &Error{Kind: KindPersistence}
)

// Validation creates a validation failure for a request field.
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// NotFound creates a not-found failure for a resource.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// Persistence wraps a driver error raised while running op.
func Persistence(op string, cause error) *Error {
	return &Error{
		Kind:      KindPersistence,
		Op:        op,
		Message:   "operation could not be completed",
		Retryable: IsRetryable(cause),
		Cause:     cause,
	}
}

// Classify turns an arbitrary error raised inside a transaction step into an *Error.
// Errors that are already classified pass through untouched.
func Classify(op, resource string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		if de.Op == "" {
			de.Op = op
		}
		return de
	}
	if errors.Is(err, pgx.ErrNoRows) {
		nf := NotFound(resource)
		nf.Op = op
		nf.Cause = err
		return nf
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case "22":
			// data exception: a value the column cannot hold, such as numeric overflow
			return &Error{
				Kind:    KindValidation,
				Op:      op,
				Field:   pgErr.ColumnName,
				Message: "request contains a value out of range",
				Cause:   err,
			}
		case "23":
			// integrity constraint violation: the request referenced something invalid
			return &Error{
				Kind:    KindValidation,
				Op:      op,
				Field:   pgErr.ColumnName,
				Message: "request violates a data constraint",
				Cause:   err,
			}
		}
	}
	return Persistence(op, err)
}

// IsRetryable reports whether err is a transient persistence failure.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03", "57P01":
			return true
		}
		return len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08"
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}

// KindOf returns the kind of err, defaulting to persistence for unclassified errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindPersistence
}
