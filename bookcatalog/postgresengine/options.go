package postgresengine

import (
	"github.com/pagebound/bookcatalog-go/bookcatalog"
)

// Logger interface for SQL query logging, operational metrics, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Option defines a functional option for configuring a BookStore.
type Option func(*BookStore) error

// WithTableName sets the table name for the BookStore.
func WithTableName(tableName string) Option {
	return func(bs *BookStore) error {
		if tableName == "" {
			return bookcatalog.ErrEmptyBooksTableName
		}

		bs.bookTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the BookStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Row counts and durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(bs *BookStore) error {
		bs.logger = logger
		return nil
	}
}
