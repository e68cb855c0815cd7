package storage

import (
	"context"
	"database/sql"
	"fmt"

	// Registers the pure-Go "sqlite" driver.
	_ "modernc.org/sqlite"

	"github.com/shinji-kodama/assistant-bot/internal/addressbook"
)

// sqliteSchema creates the two tables, one statement per Exec.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
		position INTEGER PRIMARY KEY,
		name     TEXT NOT NULL UNIQUE,
		birthday TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS phones (
		contact_name TEXT NOT NULL,
		position     INTEGER NOT NULL,
		phone        TEXT NOT NULL,
		PRIMARY KEY (contact_name, position)
	)`,
}

// SQLiteStore keeps the book in two tables: contacts (one row per record,
// ordered by position) and phones (one row per number).
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and makes sure the
// schema exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY between
	// our own statements.
	db.SetMaxOpenConns(1)

	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create schema in %s: %w", path, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore wraps an already opened database. The schema is assumed
// to exist.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load reads every contact with its phones in saved order. An empty
// database loads as an empty book.
func (s *SQLiteStore) Load(ctx context.Context) (*addressbook.Book, error) {
	// Phones are read first, in a separate query, so that only one result
	// set is open at a time on the single connection.
	phones, err := s.loadPhones(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name, birthday FROM contacts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	book := addressbook.New()
	for rows.Next() {
		var (
			name     string
			birthday sql.NullString
		)
		if err := rows.Scan(&name, &birthday); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		// NULL birthday scans as "" and means "no birthday".
		r, err := recordFrom(name, phones[name], birthday.String)
		if err != nil {
			return nil, err
		}
		book.Add(r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read contacts: %w", err)
	}
	return book, nil
}

// loadPhones returns every phone grouped by contact, in saved order.
func (s *SQLiteStore) loadPhones(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT contact_name, phone FROM phones ORDER BY contact_name, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query phones: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var name, phone string
		if err := rows.Scan(&name, &phone); err != nil {
			return nil, fmt.Errorf("failed to scan phone: %w", err)
		}
		out[name] = append(out[name], phone)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read phones: %w", err)
	}
	return out, nil
}

// Save replaces all rows inside one transaction; on any failure the
// previous contents stay intact.
func (s *SQLiteStore) Save(ctx context.Context, book *addressbook.Book) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Step 1: clear both tables. Phones go first since they reference
	// contacts by name.
	if _, err = tx.ExecContext(ctx, `DELETE FROM phones`); err != nil {
		return fmt.Errorf("failed to clear phones: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM contacts`); err != nil {
		return fmt.Errorf("failed to clear contacts: %w", err)
	}

	// Step 2: insert every record. The loop index becomes the position
	// column so Load restores book order.
	for i, r := range book.Records() {
		var birthday sql.NullString
		if !r.Birthday.IsZero() {
			birthday = sql.NullString{String: r.Birthday.String(), Valid: true}
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO contacts (position, name, birthday) VALUES (?, ?, ?)`,
			i, r.Name.String(), birthday); err != nil {
			return fmt.Errorf("failed to insert contact %q: %w", r.Name, err)
		}
		for j, p := range r.Phones {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO phones (contact_name, position, phone) VALUES (?, ?, ?)`,
				r.Name.String(), j, p.String()); err != nil {
				return fmt.Errorf("failed to insert phone of %q: %w", r.Name, err)
			}
		}
	}

	// Step 3: commit. The deferred Rollback runs only when err is set.
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit address book: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
