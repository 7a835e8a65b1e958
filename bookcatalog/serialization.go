package bookcatalog

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// ErrInvalidBookJSON is returned when a payload is not valid JSON at all.
var ErrInvalidBookJSON = errors.New("payload is not valid json")

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary
	jsonFast = jsoniter.ConfigFastest
)

// BookToJSON serializes a Book into its canonical JSON payload.
// This is the wire and storage representation; field names are camelCase.
func BookToJSON(book Book) ([]byte, error) {
	payload, err := json.Marshal(book)
	if err != nil {
		return nil, fmt.Errorf("marshaling book %q: %w", book.ID, err)
	}

	return payload, nil
}

// BookFromJSON deserializes a Book from its canonical JSON payload.
func BookFromJSON(payload []byte) (Book, error) {
	if !jsonFast.Valid(payload) {
		return Book{}, ErrInvalidBookJSON
	}

	var book Book
	if err := json.Unmarshal(payload, &book); err != nil {
		return Book{}, fmt.Errorf("unmarshaling book payload: %w", err)
	}

	return book, nil
}
