// Package compat checks database server versions against the oldest
// releases the helper is tested with.
package compat

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"
)

// minimums holds the oldest supported server release per provider.
var minimums = map[string]string{
	"mysql":    "5.7.0",
	"mariadb":  "10.3.0",
	"postgres": "12.0",
	"sqlite":   "3.35.0",
}

// Report is the outcome of a version check.
type Report struct {
	Provider  string
	Server    string
	Parsed    *version.Version
	Minimum   *version.Version
	Supported bool
}

func (r Report) String() string {
	if r.Supported {
		return fmt.Sprintf("%s %s (minimum %s)", r.Provider, r.Parsed, r.Minimum)
	}
	return fmt.Sprintf("%s %s is older than the minimum supported %s", r.Provider, r.Parsed, r.Minimum)
}

// Check parses the server version string reported by provider and compares
// it with the supported minimum. MariaDB is recognized from the version
// string even though it connects as mysql.
func Check(provider, server string) (Report, error) {
	r := Report{Provider: provider, Server: server}

	if provider == "mysql" && strings.Contains(strings.ToLower(server), "mariadb") {
		r.Provider = "mariadb"
	}

	min, ok := minimums[r.Provider]
	if !ok {
		return r, fmt.Errorf("no minimum version known for provider %q", provider)
	}

	parsed, err := Parse(server)
	if err != nil {
		return r, err
	}

	r.Parsed = parsed
	r.Minimum = version.Must(version.NewVersion(min))
	r.Supported = parsed.Core().GreaterThanOrEqual(r.Minimum)
	return r, nil
}

// Parse extracts the leading version number from a server version string
// such as "8.0.36-0ubuntu0.22.04.1" or "16.2 (Debian 16.2-1.pgdg120+2)".
func Parse(server string) (*version.Version, error) {
	fields := strings.Fields(server)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty server version")
	}

	// MariaDB replication builds report "5.5.5-10.6.12-MariaDB".
	raw := strings.TrimPrefix(fields[0], "5.5.5-")

	v, err := version.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid server version %q: %w", server, err)
	}
	return v, nil
}
