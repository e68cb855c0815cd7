package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/assistant-bot/internal/addressbook"
	"github.com/shinji-kodama/assistant-bot/internal/model"
)

// Store loads and saves a whole address book.
type Store interface {
	// Load returns the stored book, or an empty one when nothing has been
	// saved yet.
	Load(ctx context.Context) (*addressbook.Book, error)

	// Save replaces the stored book with book.
	Save(ctx context.Context, book *addressbook.Book) error

	// Close releases any resources held by the store.
	Close() error
}

// Backend names a storage implementation.
type Backend string

const (
	// BackendJSON stores the book as a JSON document.
	BackendJSON Backend = "json"

	// BackendYAML stores the book as a YAML document.
	BackendYAML Backend = "yaml"

	// BackendSQLite stores the book in an SQLite database.
	BackendSQLite Backend = "sqlite"

	// BackendMemory keeps the book in memory only.
	BackendMemory Backend = "memory"
)

// String returns the backend name.
func (b Backend) String() string {
	return string(b)
}

// IsValid reports whether b is a known backend.
func (b Backend) IsValid() bool {
	switch b {
	case BackendJSON, BackendYAML, BackendSQLite, BackendMemory:
		return true
	default:
		return false
	}
}

// ParseBackend converts a user-supplied name to a Backend, ignoring case.
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	if !b.IsValid() {
		return "", fmt.Errorf("invalid storage backend: %q (valid: json, yaml, sqlite, memory)", s)
	}
	return b, nil
}

// BackendForPath picks a backend from the file extension of path.
// Unknown extensions fall back to JSON.
func BackendForPath(path string) Backend {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return BackendYAML
	case ".db", ".sqlite", ".sqlite3":
		return BackendSQLite
	default:
		return BackendJSON
	}
}

// Open returns the store for backend at path. An empty backend is resolved
// from the path's extension.
func Open(ctx context.Context, backend Backend, path string) (Store, error) {
	if backend == "" {
		backend = BackendForPath(path)
	}

	switch backend {
	case BackendJSON:
		return NewJSONStore(path), nil
	case BackendYAML:
		return NewYAMLStore(path), nil
	case BackendSQLite:
		return OpenSQLite(ctx, path)
	case BackendMemory:
		return NewMemoryStore(nil), nil
	default:
		return nil, fmt.Errorf("invalid storage backend: %q", backend)
	}
}

// currentVersion is written into every document; readers accept 0 (absent)
// and 1.
const currentVersion = 1

// document is the on-disk shape shared by the JSON and YAML backends.
type document struct {
	Version  int          `json:"version" yaml:"version"`
	Contacts []contactDoc `json:"contacts" yaml:"contacts"`
}

type contactDoc struct {
	Name     string   `json:"name" yaml:"name"`
	Phones   []string `json:"phones,omitempty" yaml:"phones,omitempty"`
	Birthday string   `json:"birthday,omitempty" yaml:"birthday,omitempty"`
}

func toDocument(book *addressbook.Book) document {
	doc := document{
		Version:  currentVersion,
		Contacts: make([]contactDoc, 0, book.Len()),
	}
	for _, r := range book.Records() {
		c := contactDoc{Name: r.Name.String(), Birthday: r.Birthday.String()}
		for _, p := range r.Phones {
			c.Phones = append(c.Phones, p.String())
		}
		doc.Contacts = append(doc.Contacts, c)
	}
	return doc
}

// fromDocument rebuilds a book, validating every field the same way user
// input is validated.
func fromDocument(doc document) (*addressbook.Book, error) {
	if doc.Version > currentVersion {
		return nil, fmt.Errorf("unsupported address book version %d (max %d)", doc.Version, currentVersion)
	}

	book := addressbook.New()
	for i, c := range doc.Contacts {
		r, err := recordFrom(c.Name, c.Phones, c.Birthday)
		if err != nil {
			return nil, fmt.Errorf("contact #%d: %w", i+1, err)
		}
		book.Add(r)
	}
	return book, nil
}

func recordFrom(name string, phones []string, birthday string) (*addressbook.Record, error) {
	n, err := model.NewName(name)
	if err != nil {
		return nil, err
	}
	r := addressbook.NewRecord(n)
	for _, p := range phones {
		if err := r.AddPhone(p); err != nil {
			return nil, fmt.Errorf("contact %q: %w", n, err)
		}
	}
	if birthday != "" {
		if err := r.SetBirthday(birthday); err != nil {
			return nil, fmt.Errorf("contact %q: %w", n, err)
		}
	}
	return r, nil
}
