package sqlgen

import (
	"net/url"
	"strings"

	"github.com/lib/pq"
)

const defaultPostgresPort = 5432

// PostgresDialect targets PostgreSQL through lib/pq.
type PostgresDialect struct{}

func (d *PostgresDialect) Provider() string   { return "postgres" }
func (d *PostgresDialect) DriverName() string { return "postgres" }

func (d *PostgresDialect) DSN(t Target) (string, error) {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(t.Username, t.Password),
		Path:   "/" + t.Name,
	}

	if strings.HasPrefix(t.Host, "/") {
		// Unix socket directory goes in the host parameter.
		u.Host = ""
		q := url.Values{}
		q.Set("host", t.Host)
		u.RawQuery = q.Encode()
	} else {
		u.Host = hostPort(t.Host, t.Port, defaultPostgresPort)
	}

	if len(t.Params) > 0 {
		q := u.Query()
		for k, v := range t.Params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// QuoteLiteral defers to pq.QuoteLiteral, which switches to an E'' literal
// when the value contains a backslash.
func (d *PostgresDialect) QuoteLiteral(value string) string {
	return pq.QuoteLiteral(value)
}

func (d *PostgresDialect) VersionQuery() string {
	return "SHOW server_version"
}

func (d *PostgresDialect) SupportsReturning() bool {
	return true
}
