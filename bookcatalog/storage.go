package bookcatalog

import (
	"context"
	"errors"
)

var (
	// ErrBookNotFound is returned by a BookStorage when no record carries the requested ID.
	ErrBookNotFound = errors.New("book not found")

	// ErrDuplicateBookID is returned by a BookStorage when inserting a record whose ID is already taken.
	ErrDuplicateBookID = errors.New("book id already exists")

	// ErrNilStorage is returned when a CatalogStore is constructed without a backing storage.
	ErrNilStorage = errors.New("storage must not be nil")

	// ErrNilDatabaseConnection is returned when a database-backed storage is constructed without a connection.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyBooksTableName is returned when a database-backed storage is configured with an empty table name.
	ErrEmptyBooksTableName = errors.New("empty bookTableName supplied")
)

// BookStorage is the record-level persistence contract the CatalogStore runs on.
//
// Implementations own ID assignment: Insert must assign a fresh, never-reused
// ID when the given book carries none, and must return ErrDuplicateBookID when
// the given ID is already taken. Get and Remove return ErrBookNotFound for
// unknown IDs, as does Replace. List returns all records in insertion order.
//
// Implementations must not alias caller state; returned books are safe for
// the caller to mutate.
type BookStorage interface {
	Insert(ctx context.Context, book Book) (Book, error)
	Get(ctx context.Context, id string) (Book, error)
	Replace(ctx context.Context, book Book) error
	Remove(ctx context.Context, id string) error
	List(ctx context.Context) ([]Book, error)
}
