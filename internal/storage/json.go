package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/assistant-bot/internal/addressbook"
)

// JSONStore keeps the book in a JSON file.
type JSONStore struct {
	path string
}

// NewJSONStore returns a store backed by the JSON file at path. The file is
// not touched until Load or Save.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the file the store reads and writes.
func (s *JSONStore) Path() string {
	return s.path
}

// Load reads the book. Comments and trailing commas are stripped first so
// files edited by hand still parse.
func (s *JSONStore) Load(_ context.Context) (*addressbook.Book, error) {
	data, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return addressbook.New(), nil
	}

	var doc document
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	book, err := fromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("invalid address book %s: %w", s.path, err)
	}
	return book, nil
}

// Save writes the book as indented JSON.
func (s *JSONStore) Save(_ context.Context, book *addressbook.Book) error {
	data, err := json.MarshalIndent(toDocument(book), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode address book: %w", err)
	}
	return writeFileAtomic(s.path, append(data, '\n'), 0o644)
}

// Close is a no-op for file stores.
func (s *JSONStore) Close() error {
	return nil
}
