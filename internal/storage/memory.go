package storage

import (
	"context"
	"sync"

	"github.com/shinji-kodama/assistant-bot/internal/addressbook"
)

// MemoryStore holds a copy of the book in memory. Load and Save both copy,
// so callers never share records with the store.
type MemoryStore struct {
	mu    sync.Mutex
	book  *addressbook.Book
	saves int
}

// NewMemoryStore returns a store seeded with initial (nil means empty).
func NewMemoryStore(initial *addressbook.Book) *MemoryStore {
	if initial == nil {
		initial = addressbook.New()
	}
	return &MemoryStore{book: initial.Clone()}
}

// Load returns a copy of the stored book, so callers can mutate it
// freely.
func (s *MemoryStore) Load(_ context.Context) (*addressbook.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.Clone(), nil
}

// Save stores a copy of book and counts the call.
func (s *MemoryStore) Save(_ context.Context, book *addressbook.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.book = book.Clone()
	s.saves++
	return nil
}

// Saves returns how many times Save has been called.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Close is a no-op; the memory store holds no resources.
func (s *MemoryStore) Close() error {
	return nil
}
