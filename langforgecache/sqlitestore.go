package langforgecache

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists cache entries in a SQLite database file, storing
// each blob as a base64 string in a TEXT column.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) a cache database under dataDir.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", filepath.Join(dataDir, "langforgecache.db"))
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS cache_entries (
		cache_key TEXT NOT NULL PRIMARY KEY,
		data TEXT NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("create cache table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT data FROM cache_entries WHERE cache_key = ?;`, key)

	var encoded string
	if err := row.Scan(&encoded); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("decode stored cache entry: %w", err)
	}
	return data, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (cache_key, data) VALUES (?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET data = excluded.data;`,
		key, encoded)
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
