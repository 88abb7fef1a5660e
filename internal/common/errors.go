package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound           = errors.New("requested resource not found")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden access")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource conflict") // e.g. stale exercise version
	ErrValidation         = errors.New("validation failed")
	ErrStorage            = errors.New("storage failure")
	ErrEvaluator          = errors.New("evaluator unavailable")
	ErrUpstreamAuth       = errors.New("identity provider exchange failed")
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrUnknownUser is a NotFound outcome for submitters without a User row.
	ErrUnknownUser = fmt.Errorf("unknown user: %w", ErrNotFound)
)

// StorageError wraps a backend failure with the store operation that produced it.
// It matches ErrStorage with errors.Is, and unwraps to the driver error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// NewStorageError classifies a driver error. Constraint violations that map onto
// client-visible outcomes keep their sentinel so the caller sees 404/409, not 503.
func NewStorageError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w", op, ErrConflict)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: referenced row missing: %w", op, ErrNotFound)
		}
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%s: %w", op, ErrConflict)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%s: referenced row missing: %w", op, ErrNotFound)
		}
	}
	return &StorageError{Op: op, Err: err}
}

// ValidationErrorf formats a client-fault error that maps to 400.
func ValidationErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrEvaluator) || errors.Is(err, ErrUpstreamAuth) {
		return http.StatusBadGateway
	}

	// Storage failures, ErrServiceUnavailable and anything unclassified.
	return http.StatusServiceUnavailable
}

// PublicMessage returns the text safe to put in a response body. Internal
// failures collapse to a generic message; the full chain belongs in the log.
func PublicMessage(err error) string {
	switch HTTPStatusFromError(err) {
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	case http.StatusBadGateway:
		if errors.Is(err, ErrUpstreamAuth) {
			return "authentication with identity provider failed"
		}
		return "evaluator unavailable"
	case http.StatusUnauthorized:
		return "authentication required"
	case http.StatusNotFound:
		if errors.Is(err, ErrUnknownUser) {
			return ErrUnknownUser.Error()
		}
		return ErrNotFound.Error()
	case http.StatusConflict:
		return ErrConflict.Error()
	}
	return err.Error()
}
