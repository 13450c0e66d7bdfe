package client

import (
	"context"
	"time"

	"github.com/satishbabariya/queryhelper/internal/debug"
)

// QueryEvent describes one Execute call as seen by middleware. Statement is
// the text before substitution; parameter values are not exposed.
type QueryEvent struct {
	Statement    string
	Provider     string
	Placeholders int
	ReturnsRows  bool

	Start    time.Time
	End      time.Time
	Duration time.Duration
	Error    error
	Result   *Result
}

// Middleware wraps the connect-and-execute step of Execute. It must call
// next exactly once to run the statement.
type Middleware func(ctx context.Context, event *QueryEvent, next func() error) error

// runMiddleware runs exec through the chain, filling in timing and outcome.
func runMiddleware(ctx context.Context, chain []Middleware, event *QueryEvent, exec func() error) error {
	event.Start = time.Now()

	index := 0
	var next func() error
	next = func() error {
		if index >= len(chain) {
			err := exec()
			event.End = time.Now()
			event.Duration = event.End.Sub(event.Start)
			event.Error = err
			return err
		}

		mw := chain[index]
		index++
		return mw(ctx, event, next)
	}

	return next()
}

// LoggingMiddleware logs every statement through the debug logger.
func LoggingMiddleware() Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		log := debug.With("provider", event.Provider, "placeholders", event.Placeholders, "reads", event.ReturnsRows)
		log.DebugContext(ctx, "executing statement", "sql", event.Statement)

		err := next()
		if err != nil {
			log.DebugContext(ctx, "statement failed", "duration", event.Duration, "error", err)
			return err
		}

		if r := event.Result; r != nil && r.IsRows() {
			log.DebugContext(ctx, "statement completed", "duration", event.Duration, "rows", len(r.Rows))
		} else if r != nil {
			log.DebugContext(ctx, "statement completed", "duration", event.Duration, "affected", r.RowsAffected)
		}
		return nil
	}
}

// TimingMiddleware reports the duration of every statement.
func TimingMiddleware(onTiming func(statement string, duration time.Duration)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if onTiming != nil {
			onTiming(event.Statement, event.Duration)
		}
		return err
	}
}
