package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
)

var (
	errNotFound          = errors.New("not found")
	errValidation        = errors.New("validation error")
	errNoMatchingEntries = errors.New("no matching entries")
	errProfileIncomplete = errors.New("profile incomplete")
)

// validationError names the offending field. It unwraps to errValidation.
type validationError struct {
	Field   string
	Message string
}

func (e *validationError) Error() string { return e.Message }

func (e *validationError) Unwrap() error { return errValidation }

func invalidField(field, message string) *validationError {
	return &validationError{Field: field, Message: message}
}

// profileError lists the profile fields a computation needed but did not
// find. It unwraps to errProfileIncomplete.
type profileError struct {
	Missing []string
}

func (e *profileError) Error() string {
	return "profile incomplete: missing " + strings.Join(e.Missing, ", ")
}

func (e *profileError) Unwrap() error { return errProfileIncomplete }

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errNotFound), errors.Is(err, pgx.ErrNoRows):
		return http.StatusNotFound
	case errors.Is(err, errValidation):
		return http.StatusBadRequest
	case errors.Is(err, errNoMatchingEntries), errors.Is(err, errProfileIncomplete):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
