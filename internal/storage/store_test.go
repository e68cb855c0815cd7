package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/assistant-bot/internal/addressbook"
	"github.com/shinji-kodama/assistant-bot/internal/model"
)

// sampleBook returns a book exercising every field: several phones, a
// birthday, a contact with neither, and the earliest representable date.
func sampleBook(t *testing.T) *addressbook.Book {
	t.Helper()

	book := addressbook.New()

	john := addressbook.NewRecord("John")
	require.NoError(t, john.AddPhone("0501234567"))
	require.NoError(t, john.AddPhone("0671234567"))
	require.NoError(t, john.SetBirthday("15.03.1990"))
	book.Add(john)

	book.Add(addressbook.NewRecord("Zoe"))

	// 01.01.0001 is the zero time.Time and must still persist as set.
	eve := addressbook.NewRecord("Eve")
	require.NoError(t, eve.SetBirthday("01.01.0001"))
	book.Add(eve)

	amy := addressbook.NewRecord("Amy")
	require.NoError(t, amy.AddPhone("0931112233"))
	book.Add(amy)

	return book
}

// TestStores_RoundTrip saves and reloads the same book through every
// backend and expects identical output, including record order.
func TestStores_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		backend Backend
		file    string
	}{
		{"json", BackendJSON, "book.json"},
		{"yaml", BackendYAML, "book.yaml"},
		{"sqlite", BackendSQLite, "book.db"},
		{"memory", BackendMemory, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			store, err := Open(ctx, tt.backend, path)
			require.NoError(t, err)
			defer func() { _ = store.Close() }()

			empty, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, empty.Len(), "fresh store should load empty")

			want := sampleBook(t)
			require.NoError(t, store.Save(ctx, want))

			got, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want.String(), got.String())
		})
	}
}

// TestStores_SaveOverwrites checks that a second save fully replaces the
// first, so deleted contacts do not come back.
func TestStores_SaveOverwrites(t *testing.T) {
	ctx := context.Background()

	for _, file := range []string{"book.json", "book.yml", "book.sqlite"} {
		t.Run(file, func(t *testing.T) {
			store, err := Open(ctx, "", filepath.Join(t.TempDir(), file))
			require.NoError(t, err)
			defer func() { _ = store.Close() }()

			book := sampleBook(t)
			require.NoError(t, store.Save(ctx, book))

			book.Delete("John")
			require.NoError(t, store.Save(ctx, book))

			got, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, got.Len())
			assert.Nil(t, got.Find("John"))
		})
	}
}

func TestJSONStore_LoadTolerantSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.json")
	content := `{
  // edited by hand
  "version": 1,
  "contacts": [
    {"name": "John", "phones": ["0501234567",], "birthday": "01.02.1990"},
  ],
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	book, err := NewJSONStore(path).Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, book.Find("John"))
	assert.Equal(t, "01.02.1990", book.Find("John").Birthday.String())
}

// TestFileStores_InvalidContent verifies that bad data is reported rather
// than silently dropped.
func TestFileStores_InvalidContent(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		target  error
	}{
		{"json bad phone", "b.json", `{"contacts":[{"name":"A","phones":["12"]}]}`, model.ErrInvalidPhone},
		{"json bad birthday", "b.json", `{"contacts":[{"name":"A","birthday":"1990-01-01"}]}`, model.ErrInvalidBirthday},
		{"json empty name", "b.json", `{"contacts":[{"name":" "}]}`, model.ErrEmptyName},
		{"yaml bad phone", "b.yaml", "contacts:\n  - name: A\n    phones: [\"abc\"]\n", model.ErrInvalidPhone},
		{"json syntax", "b.json", `{"contacts": [`, nil},
		{"future version", "b.json", `{"version": 99, "contacts": []}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			store, err := Open(context.Background(), "", path)
			require.NoError(t, err)

			_, err = store.Load(context.Background())
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestFileStores_WhitespaceFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.json")
	require.NoError(t, os.WriteFile(path, []byte("\n  \n"), 0o644))

	book, err := NewJSONStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, book.Len())
}

// TestWriteFileAtomic checks that the parent directory is created and no
// temp files are left next to the target.
func TestWriteFileAtomic(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	path := filepath.Join(dir, "book.json")

	require.NoError(t, writeFileAtomic(path, []byte("one"), 0o600))
	require.NoError(t, writeFileAtomic(path, []byte("two"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestMemoryStore_CopiesOnLoadAndSave(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(nil)

	book := sampleBook(t)
	require.NoError(t, store.Save(ctx, book))
	book.Delete("John")

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, loaded.Find("John"), "mutating the saved book must not affect the store")

	loaded.Delete("Amy")
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, again.Len())
	assert.Equal(t, 1, store.Saves())
}

func TestBackendForPath(t *testing.T) {
	tests := []struct {
		path string
		want Backend
	}{
		{"addressbook.json", BackendJSON},
		{"addressbook.YAML", BackendYAML},
		{"data/book.yml", BackendYAML},
		{"book.db", BackendSQLite},
		{"book.sqlite3", BackendSQLite},
		{"addressbook", BackendJSON},
		{"addressbook.pkl", BackendJSON},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, BackendForPath(tt.path))
		})
	}
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend(" SQLite ")
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, b)

	_, err = ParseBackend("pickle")
	assert.Error(t, err)
	assert.False(t, Backend("").IsValid())
}
