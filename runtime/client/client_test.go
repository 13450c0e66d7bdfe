package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/satishbabariya/queryhelper/config"
	"github.com/satishbabariya/queryhelper/query/cache"
)

// writeConfig writes a JSON config for an SQLite database at dbPath and
// returns the config file path.
func writeConfig(t *testing.T, dir, dbPath string) string {
	t.Helper()
	path := filepath.Join(dir, "config.json")
	body := fmt.Sprintf(`{"database": {"provider": "sqlite", "host": "localhost", "username": "app", "password": "secret", "name": %q}}`, dbPath)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

type ExecuteSuite struct {
	suite.Suite
	ctx    context.Context
	client *Client
}

func TestExecuteSuite(t *testing.T) {
	suite.Run(t, new(ExecuteSuite))
}

func (s *ExecuteSuite) SetupTest() {
	dir := s.T().TempDir()
	path := writeConfig(s.T(), dir, filepath.Join(dir, "test.db"))

	c, err := New(path)
	s.Require().NoError(err)
	s.client = c
	s.ctx = context.Background()

	s.exec(`CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, note TEXT)`)
	s.exec(`INSERT INTO users (id, name, note) VALUES (?, ?, ?)`, "5", "Bob", "what?")
	s.exec(`INSERT INTO users (id, name, note) VALUES (?, ?, ?)`, "6", "Carol", "")
}

func (s *ExecuteSuite) exec(query string, params ...string) *Result {
	s.T().Helper()
	result, err := s.client.Execute(s.ctx, query, params)
	s.Require().NoError(err, query)
	return result
}

func (s *ExecuteSuite) TestSelectByID() {
	result := s.exec("SELECT * FROM users WHERE id = ?", "5")

	s.Require().Equal(KindRows, result.Kind)
	s.Equal([]string{"id", "name", "note"}, result.Columns)
	s.Require().Len(result.Rows, 1)
	s.Equal(Row{"id": int64(5), "name": "Bob", "note": "what?"}, result.Rows[0])
	s.Zero(result.RowsAffected)
}

func (s *ExecuteSuite) TestSelectOrderAndEmpty() {
	result := s.exec("SELECT name FROM users ORDER BY id DESC")
	s.Require().Len(result.Rows, 2)
	s.Equal("Carol", result.Rows[0]["name"])
	s.Equal("Bob", result.Rows[1]["name"])

	result = s.exec("SELECT * FROM users WHERE name = ?", "nobody")
	s.True(result.IsRows())
	s.NotNil(result.Rows)
	s.Empty(result.Rows)
}

func (s *ExecuteSuite) TestUpdateReturnsAffected() {
	result := s.exec("UPDATE users SET name = ? WHERE id = ?", "Alice", "5")

	s.Equal(KindAffected, result.Kind)
	s.False(result.IsRows())
	s.EqualValues(1, result.RowsAffected)
	s.Nil(result.Rows)

	result = s.exec("SELECT name FROM users WHERE id = ?", "5")
	s.Equal("Alice", result.Rows[0]["name"])

	result = s.exec("DELETE FROM users WHERE id > ?", "0")
	s.EqualValues(2, result.RowsAffected)
}

func (s *ExecuteSuite) TestInsertReturning() {
	result := s.exec("INSERT INTO users (name) VALUES (?) RETURNING id, name", "Dave")

	s.Require().True(result.IsRows())
	s.Require().Len(result.Rows, 1)
	s.Equal("Dave", result.Rows[0]["name"])
	s.EqualValues(7, result.Rows[0]["id"])
}

func (s *ExecuteSuite) TestCommentedReturningIsWrite() {
	for _, query := range []string{
		"UPDATE users SET name = ? WHERE id = ? /* returning */",
		"UPDATE users SET name = ? WHERE id = ? -- notify returning customers",
	} {
		result := s.exec(query, "Zed", "6")

		s.Equal(KindAffected, result.Kind, query)
		s.EqualValues(1, result.RowsAffected, query)
	}

	result := s.exec("SELECT name FROM users WHERE id = ?", "6")
	s.Equal("Zed", result.Rows[0]["name"])
}

func (s *ExecuteSuite) TestPlaceholderInsideLiteral() {
	result := s.exec("SELECT * FROM users WHERE note = 'what?'")
	s.Len(result.Rows, 1)

	_, err := s.client.Execute(s.ctx, "SELECT * FROM users WHERE note = 'what?'", []string{"x"})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrTooFewPlaceholders))

	var countErr *PlaceholderCountError
	s.Require().True(errors.As(err, &countErr))
	s.Equal(0, countErr.Placeholders)
	s.Equal(1, countErr.Parameters)
}

func (s *ExecuteSuite) TestTooManyPlaceholders() {
	_, err := s.client.Execute(s.ctx, "SELECT * FROM users WHERE id = ? OR id = ?", []string{"5"})
	s.True(errors.Is(err, ErrTooManyPlaceholders))
	s.True(IsPlaceholderMismatch(err))
}

func (s *ExecuteSuite) TestEscapingRoundTrip() {
	values := []string{
		"O'Brien",
		`back\slash`,
		`trailing\`,
		"line\nbreak\r\ttab",
		`double "quoted"`,
		"what? ?",
		"'; DROP TABLE users; --",
		"ctrl\x1az",
		"ünïcödé ✓",
		"",
	}

	for i, v := range values {
		id := fmt.Sprint(100 + i)
		s.exec("INSERT INTO users (id, name, note) VALUES (?, ?, 'lit?')", id, v)

		result := s.exec("SELECT name, note FROM users WHERE id = ?", id)
		s.Require().Len(result.Rows, 1, "value %q", v)
		s.Equal(v, result.Rows[0]["name"], "value %q", v)
		s.Equal("lit?", result.Rows[0]["note"])
	}

	result := s.exec("SELECT count(*) AS n FROM users")
	s.EqualValues(2+len(values), result.Rows[0]["n"])
}

func (s *ExecuteSuite) TestQueryError() {
	_, err := s.client.Execute(s.ctx, "SELECT * FROM missing_table WHERE id = ?", []string{"secret-value"})
	s.Require().Error(err)
	s.True(errors.Is(err, ErrQueryExecution))

	var qErr *QueryError
	s.Require().True(errors.As(err, &qErr))
	s.Equal("SELECT * FROM missing_table WHERE id = ?", qErr.Query)
	s.Contains(err.Error(), "missing_table")
	s.NotContains(err.Error(), "secret-value")

	_, err = s.client.Execute(s.ctx, "UPDATE missing_table SET a = ?", []string{"1"})
	s.True(errors.Is(err, ErrQueryExecution))
}

func (s *ExecuteSuite) TestConcurrentCalls() {
	var wg sync.WaitGroup
	errs := make(chan error, 8)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := s.client.Execute(s.ctx, "SELECT name FROM users WHERE id = ?", []string{"5"})
			if err == nil && len(result.Rows) != 1 {
				err = fmt.Errorf("got %d rows", len(result.Rows))
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.NoError(err)
	}
}

func (s *ExecuteSuite) TestServerVersion() {
	v, err := s.client.ServerVersion(s.ctx)
	s.Require().NoError(err)
	s.True(strings.HasPrefix(v, "3."), v)
}

func (s *ExecuteSuite) TestStatementCache() {
	before := s.client.CacheStats()
	s.exec("SELECT name FROM users WHERE id = ?", "5")
	s.exec("SELECT name FROM users WHERE id = ?", "6")

	after := s.client.CacheStats()
	s.Equal(before.Hits+1, after.Hits)
	s.Equal(before.Misses+1, after.Misses)
	s.Equal(DefaultStatementCacheSize, after.MaxSize)
}

func (s *ExecuteSuite) TestMiddleware() {
	var events []QueryEvent
	var timed []string

	record := func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		events = append(events, *event)
		return err
	}

	c, err := NewFromConfig(config.Config{Database: s.client.Config()},
		WithMiddleware(record, TimingMiddleware(func(stmt string, d time.Duration) {
			timed = append(timed, stmt)
		}), LoggingMiddleware()))
	s.Require().NoError(err)

	_, err = c.Execute(s.ctx, "SELECT * FROM users WHERE id = ?", []string{"5"})
	s.Require().NoError(err)
	_, err = c.Execute(s.ctx, "SELECT * FROM nope", nil)
	s.Require().Error(err)

	s.Require().Len(events, 2)
	s.Equal("SELECT * FROM users WHERE id = ?", events[0].Statement)
	s.Equal("sqlite", events[0].Provider)
	s.Equal(1, events[0].Placeholders)
	s.True(events[0].ReturnsRows)
	s.NoError(events[0].Error)
	s.Require().NotNil(events[0].Result)
	s.Len(events[0].Result.Rows, 1)
	s.False(events[0].End.Before(events[0].Start))

	s.Error(events[1].Error)
	s.Equal([]string{"SELECT * FROM users WHERE id = ?", "SELECT * FROM nope"}, timed)
}

func TestNew_ConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := New(filepath.Join(dir, "absent.json"))
	assert.True(t, errors.Is(err, config.ErrRead))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"database":`), 0o600))
	_, err = New(bad)
	assert.True(t, errors.Is(err, config.ErrParse))

	partial := filepath.Join(dir, "partial.json")
	require.NoError(t, os.WriteFile(partial, []byte(`{"database": {"host": "h"}}`), 0o600))
	_, err = New(partial)
	assert.True(t, errors.Is(err, config.ErrValidation))

	_, err = NewFromConfig(config.Config{Database: config.DatabaseConfig{Provider: "oracle"}})
	assert.True(t, errors.Is(err, config.ErrValidation))
	assert.Contains(t, err.Error(), "unsupported provider")
}

func TestExecute_MismatchBeforeConnect(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, filepath.Join(dir, "no-such-dir", "x.db"))

	opened := 0
	c, err := New(path, WithOpenFunc(func(driver, dsn string) (*sql.DB, error) {
		opened++
		return sql.Open(driver, dsn)
	}))
	require.NoError(t, err)

	_, err = c.Execute(context.Background(), "SELECT * FROM users WHERE a = ? AND b = ?", nil)
	assert.True(t, errors.Is(err, ErrTooManyPlaceholders))
	assert.False(t, errors.Is(err, ErrConnection))
	assert.Equal(t, 0, opened)
}

func TestExecute_ConnectionError(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, filepath.Join(dir, "no-such-dir", "x.db"))

	c, err := New(path)
	require.NoError(t, err)

	_, err = c.Execute(context.Background(), "SELECT 1", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConnection))

	var connErr *ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, "sqlite", connErr.Provider)
	assert.NotEmpty(t, connErr.Err.Error())
}

func TestExecute_OpenFailure(t *testing.T) {
	dir := t.TempDir()
	c, err := New(writeConfig(t, dir, filepath.Join(dir, "x.db")), WithOpenFunc(func(string, string) (*sql.DB, error) {
		return nil, errors.New("driver exploded")
	}))
	require.NoError(t, err)

	_, err = c.Execute(context.Background(), "SELECT 1", nil)
	assert.True(t, errors.Is(err, ErrConnection))
	assert.Contains(t, err.Error(), "driver exploded")
}

func TestExecute_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	c, err := New(writeConfig(t, dir, filepath.Join(dir, "x.db")))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Execute(ctx, "SELECT 1", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_ConfigIsCopy(t *testing.T) {
	c, err := NewFromConfig(config.Config{Database: config.DatabaseConfig{
		Provider: "sqlite",
		Name:     "x.db",
		Params:   map[string]string{"_busy_timeout": "100"},
	}})
	require.NoError(t, err)

	cfg := c.Config()
	cfg.Name = "changed"
	cfg.Params["_busy_timeout"] = "0"

	assert.Equal(t, "x.db", c.Config().Name)
	assert.Equal(t, "100", c.Config().Params["_busy_timeout"])
	assert.Equal(t, "sqlite3", c.Dialect().DriverName())
}

func TestClient_StatementCacheDisabled(t *testing.T) {
	dir := t.TempDir()
	c, err := New(writeConfig(t, dir, filepath.Join(dir, "test.db")), WithStatementCacheSize(0))
	require.NoError(t, err)

	result, err := c.Execute(context.Background(), "SELECT ? AS v", []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, "x", result.Rows[0]["v"])
	assert.Equal(t, cache.Stats{}, c.CacheStats())
}
