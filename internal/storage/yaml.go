package storage

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/assistant-bot/internal/addressbook"
)

// YAMLStore keeps the book in a YAML file.
type YAMLStore struct {
	path string
}

// NewYAMLStore returns a store backed by the YAML file at path.
func NewYAMLStore(path string) *YAMLStore {
	return &YAMLStore{path: path}
}

// Path returns the file the store reads and writes.
func (s *YAMLStore) Path() string {
	return s.path
}

// Load reads the YAML document. A missing or empty file loads as an
// empty book.
func (s *YAMLStore) Load(_ context.Context) (*addressbook.Book, error) {
	data, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return addressbook.New(), nil
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	book, err := fromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("invalid address book %s: %w", s.path, err)
	}
	return book, nil
}

// Save writes the book as a YAML document, replacing the file atomically.
func (s *YAMLStore) Save(_ context.Context, book *addressbook.Book) error {
	data, err := yaml.Marshal(toDocument(book))
	if err != nil {
		return fmt.Errorf("failed to encode address book: %w", err)
	}
	return writeFileAtomic(s.path, data, 0o644)
}

// Close is a no-op; the file is opened only while loading or saving.
func (s *YAMLStore) Close() error {
	return nil
}
