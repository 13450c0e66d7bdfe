package config

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds returned by Load.
var (
	// ErrRead is returned when the configuration file cannot be read.
	ErrRead = errors.New("failed reading config file")

	// ErrParse is returned when the configuration file is not valid for its format.
	ErrParse = errors.New("failed parsing config file")

	// ErrValidation is returned when required keys are missing.
	ErrValidation = errors.New("invalid config file")
)

// ReadError reports a configuration file that could not be read.
type ReadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	return fmt.Sprintf("%v %s: %v", ErrRead, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ReadError) Unwrap() error {
	return e.Err
}

// Is checks if the error is ErrRead.
func (e *ReadError) Is(target error) bool {
	return target == ErrRead
}

// ParseError reports a configuration file that could not be parsed.
type ParseError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%v %s: %v", ErrParse, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is checks if the error is ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ValidationError reports missing or unusable configuration values.
type ValidationError struct {
	Path    string
	Missing []string
	Reason  string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	msg := fmt.Sprintf("%v", ErrValidation)
	if e.Path != "" {
		msg += " " + e.Path
	}
	return msg + ": " + strings.Join(parts, "; ")
}

// Is checks if the error is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
