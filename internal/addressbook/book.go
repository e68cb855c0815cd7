package addressbook

import (
	"strings"

	"github.com/shinji-kodama/assistant-bot/internal/model"
)

// Book is an address book keyed by contact name. Iteration follows the
// order in which names were first added.
//
// Book is not safe for concurrent use.
type Book struct {
	records map[model.Name]*Record
	order   []model.Name
}

// New returns an empty address book.
func New() *Book {
	return &Book{records: make(map[model.Name]*Record)}
}

// Add stores record under its name. A record with the same name is
// replaced in place and keeps its original position.
func (b *Book) Add(record *Record) {
	if _, exists := b.records[record.Name]; !exists {
		b.order = append(b.order, record.Name)
	}
	b.records[record.Name] = record
}

// Find returns the record for name, or nil.
func (b *Book) Find(name model.Name) *Record {
	return b.records[name]
}

// Delete removes the record for name. Deleting an unknown name is a no-op;
// the return value reports whether anything was removed.
func (b *Book) Delete(name model.Name) bool {
	if _, exists := b.records[name]; !exists {
		return false
	}
	delete(b.records, name)
	for i, n := range b.order {
		if n == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return true
}

// Records returns the records in insertion order. The slice is fresh but
// the records are shared with the book.
func (b *Book) Records() []*Record {
	out := make([]*Record, 0, len(b.order))
	for _, n := range b.order {
		out = append(out, b.records[n])
	}
	return out
}

// Len returns the number of contacts.
func (b *Book) Len() int {
	return len(b.order)
}

// String renders every record on its own line.
func (b *Book) String() string {
	lines := make([]string, 0, len(b.order))
	for _, r := range b.Records() {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n")
}

// Clone returns a deep copy of the book and all of its records.
func (b *Book) Clone() *Book {
	c := New()
	for _, r := range b.Records() {
		c.Add(r.Clone())
	}
	return c
}
