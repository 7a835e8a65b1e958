package bookcatalog

import "time"

// Option defines a functional option for configuring a CatalogStore.
type Option func(*CatalogStore) error

// WithLogger sets the logger for the CatalogStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: per-operation timing and pipeline stage counts (development use)
// Info level: operation outcomes and result sizes (production-safe)
// Warn level: non-critical issues like sanitized-away filter input
// Error level: failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(cs *CatalogStore) error {
		cs.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the CatalogStore.
// The contextual logger will receive log messages with context information including
// automatic trace/span correlation when tracing is enabled, enabling unified observability.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(cs *CatalogStore) error {
		cs.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the CatalogStore.
// The metrics collector will receive performance and operational metrics including
// operation durations, result counts, validation failures, and storage errors.
func WithMetrics(collector MetricsCollector) Option {
	return func(cs *CatalogStore) error {
		cs.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the CatalogStore.
// The tracing collector will receive distributed tracing information including
// span creation for catalog operations, context propagation, and error tracking.
func WithTracing(collector TracingCollector) Option {
	return func(cs *CatalogStore) error {
		cs.tracingCollector = collector
		return nil
	}
}

// WithClock overrides the time source used to stamp LastUpdated on writes.
// Intended for tests that need deterministic timestamps.
func WithClock(clock func() time.Time) Option {
	return func(cs *CatalogStore) error {
		cs.clock = clock
		return nil
	}
}
