package sqlgen

import (
	"errors"
	"net/url"
	"strings"
)

// SQLiteDialect targets SQLite through mattn/go-sqlite3. The database name
// is the file path; host and credentials are not used.
type SQLiteDialect struct{}

func (d *SQLiteDialect) Provider() string   { return "sqlite" }
func (d *SQLiteDialect) DriverName() string { return "sqlite3" }

func (d *SQLiteDialect) DSN(t Target) (string, error) {
	if t.Name == "" {
		return "", errors.New("sqlite: empty database name")
	}
	if len(t.Params) == 0 {
		return t.Name, nil
	}

	q := url.Values{}
	for k, v := range t.Params {
		q.Set(k, v)
	}
	dsn := t.Name
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + q.Encode(), nil
}

// QuoteLiteral doubles single quotes. SQLite cuts string literals at a NUL
// byte, so NULs are spliced in with char(0).
func (d *SQLiteDialect) QuoteLiteral(value string) string {
	parts := strings.Split(value, "\x00")
	for i, p := range parts {
		parts[i] = "'" + strings.ReplaceAll(p, "'", "''") + "'"
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, "||char(0)||") + ")"
}

func (d *SQLiteDialect) VersionQuery() string {
	return "SELECT sqlite_version()"
}

// RETURNING needs SQLite 3.35 or later.
func (d *SQLiteDialect) SupportsReturning() bool {
	return true
}
