package memoryengine

import (
	"context"
	"strconv"
	"sync"

	"github.com/pagebound/bookcatalog-go/bookcatalog"
)

// Store is an in-memory BookStorage backed by a slice and an ID index.
//
// All methods are safe for concurrent use. Records never alias caller
// state: books are deep-copied on the way in and on the way out.
type Store struct {
	mu     sync.RWMutex
	books  []bookcatalog.Book
	index  map[string]int
	nextID int
}

// New creates an empty Store. The first assigned ID is "1".
func New() *Store {
	return &Store{
		index:  make(map[string]int),
		nextID: 1,
	}
}

// Insert stores a new book.
//
// When the book carries no ID, the store assigns the next one from a
// monotonic counter; assigned IDs are never reused, even after deletes.
// A caller-provided numeric ID bumps the counter past it so later
// assignments can never collide with it.
func (s *Store) Insert(ctx context.Context, book bookcatalog.Book) (bookcatalog.Book, error) {
	if err := ctx.Err(); err != nil {
		return bookcatalog.Book{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if book.ID == "" {
		book.ID = strconv.Itoa(s.nextID)
		s.nextID++
	} else {
		if _, taken := s.index[book.ID]; taken {
			return bookcatalog.Book{}, bookcatalog.ErrDuplicateBookID
		}

		if numericID, err := strconv.Atoi(book.ID); err == nil && numericID >= s.nextID {
			s.nextID = numericID + 1
		}
	}

	record := book.Clone()
	s.index[record.ID] = len(s.books)
	s.books = append(s.books, record)

	return record.Clone(), nil
}

// Get returns the book with the given ID.
func (s *Store) Get(ctx context.Context, id string) (bookcatalog.Book, error) {
	if err := ctx.Err(); err != nil {
		return bookcatalog.Book{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	position, found := s.index[id]
	if !found {
		return bookcatalog.Book{}, bookcatalog.ErrBookNotFound
	}

	return s.books[position].Clone(), nil
}

// Replace overwrites the stored record carrying the book's ID.
func (s *Store) Replace(ctx context.Context, book bookcatalog.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	position, found := s.index[book.ID]
	if !found {
		return bookcatalog.ErrBookNotFound
	}

	s.books[position] = book.Clone()

	return nil
}

// Remove deletes the book with the given ID. The ID is not reused.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	position, found := s.index[id]
	if !found {
		return bookcatalog.ErrBookNotFound
	}

	s.books = append(s.books[:position], s.books[position+1:]...)
	delete(s.index, id)

	for i := position; i < len(s.books); i++ {
		s.index[s.books[i].ID] = i
	}

	return nil
}

// List returns all stored books in insertion order.
func (s *Store) List(ctx context.Context) ([]bookcatalog.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]bookcatalog.Book, 0, len(s.books))
	for _, book := range s.books {
		books = append(books, book.Clone())
	}

	return books, nil
}
