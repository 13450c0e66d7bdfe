package sqlgen

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
)

const defaultMySQLPort = 3306

// mysqlParams restores the driver's spelling of its own DSN parameters.
// Configuration keys arrive lowercased.
var mysqlParams = map[string]string{
	"allowallfiles":            "allowAllFiles",
	"allowcleartextpasswords":  "allowCleartextPasswords",
	"allowfallbacktoplaintext": "allowFallbackToPlaintext",
	"allownativepasswords":     "allowNativePasswords",
	"allowoldpasswords":        "allowOldPasswords",
	"checkconnliveness":        "checkConnLiveness",
	"clientfoundrows":          "clientFoundRows",
	"columnswithalias":         "columnsWithAlias",
	"connectionattributes":     "connectionAttributes",
	"interpolateparams":        "interpolateParams",
	"maxallowedpacket":         "maxAllowedPacket",
	"multistatements":          "multiStatements",
	"parsetime":                "parseTime",
	"readtimeout":              "readTimeout",
	"rejectreadonly":           "rejectReadOnly",
	"serverpubkey":             "serverPubKey",
	"writetimeout":             "writeTimeout",
}

// MySQLDialect targets MySQL and MariaDB through go-sql-driver/mysql.
type MySQLDialect struct{}

func (d *MySQLDialect) Provider() string   { return "mysql" }
func (d *MySQLDialect) DriverName() string { return "mysql" }

func (d *MySQLDialect) DSN(t Target) (string, error) {
	cfg := mysql.NewConfig()
	cfg.User = t.Username
	cfg.Passwd = t.Password
	cfg.DBName = t.Name

	switch {
	case strings.HasPrefix(t.Host, "/"):
		cfg.Net = "unix"
		cfg.Addr = t.Host
	default:
		cfg.Net = "tcp"
		cfg.Addr = hostPort(t.Host, t.Port, defaultMySQLPort)
	}

	if len(t.Params) > 0 {
		// Let the driver parse its own settings, then layer them onto cfg.
		q := url.Values{}
		for k, v := range t.Params {
			if name, ok := mysqlParams[strings.ToLower(k)]; ok {
				k = name
			}
			q.Set(k, v)
		}
		base := cfg.FormatDSN()
		sep := "?"
		if strings.Contains(base, "?") {
			sep = "&"
		}
		parsed, err := mysql.ParseDSN(base + sep + q.Encode())
		if err != nil {
			return "", err
		}
		cfg = parsed
	}

	return cfg.FormatDSN(), nil
}

// QuoteLiteral escapes the same bytes as mysql_real_escape_string: NUL,
// newline, carriage return, backslash, both quote characters and Ctrl-Z.
func (d *MySQLDialect) QuoteLiteral(value string) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(value); i++ {
		switch c := value[i]; c {
		case 0:
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		case '\032':
			b.WriteString(`\Z`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

func (d *MySQLDialect) VersionQuery() string {
	return "SELECT VERSION()"
}

// hostPort joins host with port, or with def when the host carries no port
// of its own.
func hostPort(host string, port, def int) string {
	if host == "" {
		host = "localhost"
	}
	if port > 0 {
		return net.JoinHostPort(host, strconv.Itoa(port))
	}
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, strconv.Itoa(def))
}

// MySQL has no RETURNING clause; MariaDB's is not relied on.
func (d *MySQLDialect) SupportsReturning() bool {
	return false
}
