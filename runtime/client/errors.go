package client

import (
	"errors"
	"fmt"

	"github.com/satishbabariya/queryhelper/query/statement"
)

// Error kinds returned by Execute.
var (
	// ErrConnection is returned when no database connection could be opened.
	ErrConnection = errors.New("database connection failed")

	// ErrQueryExecution is returned when the database rejects a statement.
	ErrQueryExecution = errors.New("query on database failed")

	// ErrTooFewPlaceholders is returned when more parameters are supplied
	// than the statement has placeholders.
	ErrTooFewPlaceholders = statement.ErrTooFewPlaceholders

	// ErrTooManyPlaceholders is returned when fewer parameters are supplied
	// than the statement has placeholders.
	ErrTooManyPlaceholders = statement.ErrTooManyPlaceholders
)

// PlaceholderCountError reports a placeholder/parameter count mismatch. It
// matches ErrTooFewPlaceholders or ErrTooManyPlaceholders with errors.Is.
type PlaceholderCountError = statement.CountError

// ConnectionError wraps the driver error from a failed connection attempt.
type ConnectionError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%v (%s): %v", ErrConnection, e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Is checks if the error is ErrConnection.
func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

// QueryError wraps the driver error from a failed statement. Query is the
// statement before substitution, so parameter values never appear in it.
type QueryError struct {
	Query string
	Err   error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("%v: %v", ErrQueryExecution, e.Err)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is checks if the error is ErrQueryExecution.
func (e *QueryError) Is(target error) bool {
	return target == ErrQueryExecution
}

// IsPlaceholderMismatch checks if err reports a placeholder count mismatch.
func IsPlaceholderMismatch(err error) bool {
	return errors.Is(err, ErrTooFewPlaceholders) || errors.Is(err, ErrTooManyPlaceholders)
}
