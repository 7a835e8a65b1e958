// Package memoryengine provides the in-memory BookStorage implementation.
//
// The Store keeps all records in process memory, guarded by a read-write
// mutex, and assigns monotonically increasing numeric IDs that are never
// reused. It is the default storage for the CatalogStore and the one used
// throughout the test suites.
package memoryengine
