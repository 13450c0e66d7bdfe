// Package client executes parameterized SQL against the database described
// by a configuration file.
//
// Every Execute call opens its own connection and closes it before
// returning. A Client holds only its configuration, so it is safe for
// concurrent use.
package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/satishbabariya/queryhelper/config"
	"github.com/satishbabariya/queryhelper/query/cache"
	"github.com/satishbabariya/queryhelper/query/sqlgen"
	"github.com/satishbabariya/queryhelper/query/statement"
)

// DefaultStatementCacheSize is the number of parsed statements a Client
// keeps.
const DefaultStatementCacheSize = 256

// OpenFunc opens a database handle. sql.Open is the default.
type OpenFunc func(driverName, dataSourceName string) (*sql.DB, error)

// Option configures a Client.
type Option func(*Client)

// WithMiddleware appends middleware around statement execution.
func WithMiddleware(mw ...Middleware) Option {
	return func(c *Client) {
		c.middlewares = append(c.middlewares, mw...)
	}
}

// WithOpenFunc replaces sql.Open.
func WithOpenFunc(open OpenFunc) Option {
	return func(c *Client) {
		c.open = open
	}
}

// WithStatementCacheSize sets how many parsed statements are kept. Zero
// disables the cache.
func WithStatementCacheSize(n int) Option {
	return func(c *Client) {
		c.cacheSize = n
	}
}

// Client runs statements against one configured database.
type Client struct {
	cfg         config.DatabaseConfig
	dialect     sqlgen.Dialect
	dsn         string
	open        OpenFunc
	middlewares []Middleware
	cacheSize   int
	statements  *cache.LRU[string, *statement.Statement]
}

// New loads the configuration file at path and returns a Client for it.
// Load failures are returned unchanged (*config.ReadError,
// *config.ParseError, *config.ValidationError).
func New(path string, opts ...Option) (*Client, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	c, err := NewFromConfig(*cfg, opts...)
	var verr *config.ValidationError
	if errors.As(err, &verr) {
		verr.Path = path
	}
	return c, err
}

// NewFromConfig returns a Client for an already loaded configuration.
func NewFromConfig(cfg config.Config, opts ...Option) (*Client, error) {
	db := cfg.Database.Clone()

	dialect, err := sqlgen.NewDialect(db.Provider)
	if err != nil {
		return nil, &config.ValidationError{Reason: err.Error()}
	}

	dsn, err := dialect.DSN(sqlgen.Target{
		Host:     db.Host,
		Port:     db.Port,
		Username: db.Username,
		Password: db.Password,
		Name:     db.Name,
		Params:   db.Params,
	})
	if err != nil {
		return nil, &config.ValidationError{Reason: err.Error()}
	}

	c := &Client{
		cfg:       db,
		dialect:   dialect,
		dsn:       dsn,
		open:      sql.Open,
		cacheSize: DefaultStatementCacheSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cacheSize > 0 {
		c.statements = cache.NewLRU[string, *statement.Statement](c.cacheSize)
	}
	return c, nil
}

// Config returns a copy of the database configuration.
func (c *Client) Config() config.DatabaseConfig {
	return c.cfg.Clone()
}

// Dialect returns the SQL dialect of the configured provider.
func (c *Client) Dialect() sqlgen.Dialect {
	return c.dialect
}

// Execute substitutes params into the placeholders of query and runs it.
//
// A read returns its rows; anything else returns the affected-row count.
// The placeholder count is checked before any connection is opened and a
// mismatch yields a *PlaceholderCountError. Connection failures yield a
// *ConnectionError and statement failures a *QueryError.
func (c *Client) Execute(ctx context.Context, query string, params []string) (*Result, error) {
	stmt := c.parse(query)
	if err := stmt.Check(len(params)); err != nil {
		return nil, err
	}

	event := &QueryEvent{
		Statement:    query,
		Provider:     c.dialect.Provider(),
		Placeholders: stmt.Placeholders(),
		ReturnsRows:  stmt.ReturnsRows(c.dialect.SupportsReturning()),
	}

	err := runMiddleware(ctx, c.middlewares, event, func() error {
		result, err := c.run(ctx, stmt, params, event.ReturnsRows)
		event.Result = result
		return err
	})
	if err != nil {
		return nil, err
	}
	return event.Result, nil
}

func (c *Client) parse(query string) *statement.Statement {
	if c.statements == nil {
		return statement.Parse(query)
	}
	return c.statements.GetOrSet(query, func() *statement.Statement {
		return statement.Parse(query)
	})
}

// CacheStats reports statement cache usage. It is zero when the cache is
// disabled.
func (c *Client) CacheStats() cache.Stats {
	if c.statements == nil {
		return cache.Stats{}
	}
	return c.statements.Stats()
}

func (c *Client) run(ctx context.Context, stmt *statement.Statement, params []string, reads bool) (*Result, error) {
	conn, release, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	sqlText, err := stmt.Bind(params, c.dialect.QuoteLiteral)
	if err != nil {
		return nil, err
	}

	if !reads {
		res, err := conn.ExecContext(ctx, sqlText)
		if err != nil {
			return nil, &QueryError{Query: stmt.SQL(), Err: err}
		}
		result, err := affected(res)
		if err != nil {
			return nil, &QueryError{Query: stmt.SQL(), Err: err}
		}
		return result, nil
	}

	rows, err := conn.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, &QueryError{Query: stmt.SQL(), Err: err}
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, &QueryError{Query: stmt.SQL(), Err: err}
	}
	return result, nil
}

// connect opens a handle and checks out its single connection. release
// closes both.
func (c *Client) connect(ctx context.Context) (*sql.Conn, func(), error) {
	db, err := c.open(c.dialect.DriverName(), c.dsn)
	if err != nil {
		return nil, nil, &ConnectionError{Provider: c.dialect.Provider(), Err: err}
	}
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, nil, &ConnectionError{Provider: c.dialect.Provider(), Err: err}
	}

	return conn, func() {
		conn.Close()
		db.Close()
	}, nil
}

// ServerVersion asks the server for its version string.
func (c *Client) ServerVersion(ctx context.Context) (string, error) {
	result, err := c.Execute(ctx, c.dialect.VersionQuery(), nil)
	if err != nil {
		return "", err
	}
	if len(result.Rows) == 0 || len(result.Columns) == 0 {
		return "", &QueryError{Query: c.dialect.VersionQuery(), Err: sql.ErrNoRows}
	}
	return fmt.Sprint(result.Rows[0][result.Columns[0]]), nil
}
