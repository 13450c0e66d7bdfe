package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "8.0.36", want: "8.0.36"},
		{in: "8.0.36-0ubuntu0.22.04.1", want: "8.0.36"},
		{in: "16.2 (Debian 16.2-1.pgdg120+2)", want: "16.2.0"},
		{in: "10.6.12-MariaDB-log", want: "10.6.12"},
		{in: "5.5.5-10.6.12-MariaDB", want: "10.6.12"},
		{in: "3.50.4", want: "3.50.4"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Core().String())
		})
	}

	_, err := Parse("")
	assert.Error(t, err)
	_, err = Parse("not-a-version")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	tests := []struct {
		provider     string
		server       string
		wantProvider string
		supported    bool
	}{
		{provider: "mysql", server: "8.0.36-0ubuntu0.22.04.1", wantProvider: "mysql", supported: true},
		{provider: "mysql", server: "5.6.51", wantProvider: "mysql", supported: false},
		{provider: "mysql", server: "10.2.44-MariaDB", wantProvider: "mariadb", supported: false},
		{provider: "mysql", server: "10.11.6-MariaDB-0+deb12u1", wantProvider: "mariadb", supported: true},
		{provider: "postgres", server: "16.2 (Debian 16.2-1.pgdg120+2)", wantProvider: "postgres", supported: true},
		{provider: "postgres", server: "11.22", wantProvider: "postgres", supported: false},
		{provider: "sqlite", server: "3.35.0", wantProvider: "sqlite", supported: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider+" "+tt.server, func(t *testing.T) {
			r, err := Check(tt.provider, tt.server)
			require.NoError(t, err)
			assert.Equal(t, tt.wantProvider, r.Provider)
			assert.Equal(t, tt.supported, r.Supported)
			assert.NotEmpty(t, r.String())
		})
	}

	_, err := Check("oracle", "19.0")
	assert.Error(t, err)
}
