// Package sqlgen holds the per-provider rules for turning a database
// configuration and string values into SQL a driver will accept.
package sqlgen

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedProvider is returned for a provider with no dialect.
var ErrUnsupportedProvider = errors.New("unsupported provider")

// Target identifies the database a dialect connects to.
type Target struct {
	Host     string
	Port     int
	Username string
	Password string
	Name     string
	Params   map[string]string
}

// Dialect describes one database provider.
type Dialect interface {
	// Provider returns the canonical provider name.
	Provider() string

	// DriverName returns the database/sql driver name.
	DriverName() string

	// DSN builds a driver data source name for the target.
	DSN(t Target) (string, error)

	// QuoteLiteral escapes value and wraps it as a string literal.
	QuoteLiteral(value string) string

	// VersionQuery returns a statement selecting the server version as a
	// single row with a single column.
	VersionQuery() string

	// SupportsReturning reports whether INSERT, UPDATE and DELETE accept a
	// RETURNING clause that yields rows.
	SupportsReturning() bool
}

// NewDialect returns the dialect for provider. The empty provider selects
// MySQL.
func NewDialect(provider string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "mysql", "mariadb":
		return &MySQLDialect{}, nil
	case "postgresql", "postgres":
		return &PostgresDialect{}, nil
	case "sqlite", "sqlite3":
		return &SQLiteDialect{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}
}

// Providers lists the canonical provider names.
func Providers() []string {
	return []string{"mysql", "postgres", "sqlite"}
}
