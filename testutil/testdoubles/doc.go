// Package testdoubles provides spy implementations of the bookcatalog
// observability interfaces, capturing logger, metrics and tracing calls so
// tests can assert on the instrumentation of catalog operations.
package testdoubles
