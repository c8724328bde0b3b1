package pricing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps raw archive responses in a single database file, one row
// per date. Useful when billing many periods without scattering cache files.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open price db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping price db: %w", err)
	}
	_, err = db.Exec(
		"CREATE TABLE IF NOT EXISTS prices (" +
			"date TEXT PRIMARY KEY, " +
			"raw BLOB NOT NULL)",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prices table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, date string) ([]byte, bool, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT raw FROM prices WHERE date = ?", date,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached %s: %w", date, err)
	}
	return raw, true, nil
}

// Put implements Store. INSERT OR IGNORE keeps existing rows untouched.
func (s *SQLiteStore) Put(ctx context.Context, date string, raw []byte) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO prices (date, raw) VALUES (?, ?)", date, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", date, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
