package statement

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTooFewPlaceholders is returned when more parameters are supplied than
	// the statement has placeholders.
	ErrTooFewPlaceholders = errors.New("too few placeholders (?) in query")

	// ErrTooManyPlaceholders is returned when the statement has more
	// placeholders than parameters supplied.
	ErrTooManyPlaceholders = errors.New("too many placeholders (?) in query")
)

// CountError reports a mismatch between placeholders and parameters.
type CountError struct {
	Placeholders int
	Parameters   int
}

// Error implements the error interface.
func (e *CountError) Error() string {
	return fmt.Sprintf("%v: %d placeholders, %d parameters", e.kind(), e.Placeholders, e.Parameters)
}

// Is matches ErrTooFewPlaceholders or ErrTooManyPlaceholders.
func (e *CountError) Is(target error) bool {
	return target == e.kind()
}

func (e *CountError) kind() error {
	if e.Placeholders < e.Parameters {
		return ErrTooFewPlaceholders
	}
	return ErrTooManyPlaceholders
}

// Check returns a *CountError unless the statement has exactly n placeholders.
func (s *Statement) Check(n int) error {
	if len(s.placeholders) == n {
		return nil
	}
	return &CountError{Placeholders: len(s.placeholders), Parameters: n}
}

// Bind replaces every placeholder, left to right, with quote(params[i]).
// quote must return a complete literal including its surrounding quotes.
func (s *Statement) Bind(params []string, quote func(string) string) (string, error) {
	if err := s.Check(len(params)); err != nil {
		return "", err
	}
	if len(params) == 0 {
		return s.sql, nil
	}

	var b strings.Builder
	b.Grow(len(s.sql) + 8*len(params))

	last := 0
	for i, off := range s.placeholders {
		b.WriteString(s.sql[last:off])
		b.WriteString(quote(params[i]))
		last = off + 1
	}
	b.WriteString(s.sql[last:])

	return b.String(), nil
}
