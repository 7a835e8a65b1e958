// Package fixtures provides canonical book inputs for tests, built around
// one valid BookData that individual tests adjust through options.
package fixtures
