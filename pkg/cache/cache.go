// Package cache provides SQLite-backed caching for imageinfo API responses.
package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS imageinfo_cache (
	title TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	expires_at DATETIME NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_imageinfo_cache_expires_at ON imageinfo_cache(expires_at);
`

// Cache stores raw imageinfo responses keyed by file title.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral cache.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache open: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Get retrieves a cached value by title.
// Returns nil, false if not found or expired.
func (c *Cache) Get(title string) ([]byte, bool) {
	var value string
	var expiresAt time.Time

	err := c.db.QueryRow(
		"SELECT value, expires_at FROM imageinfo_cache WHERE title = ?", title,
	).Scan(&value, &expiresAt)

	if err != nil || time.Now().After(expiresAt) {
		return nil, false
	}

	return []byte(value), true
}

// Set stores a value with the given TTL.
func (c *Cache) Set(title string, value []byte, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl)

	_, err := c.db.Exec(
		`INSERT INTO imageinfo_cache (title, value, expires_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(title) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		title, string(value), expiresAt,
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached value.
func (c *Cache) Delete(title string) error {
	_, err := c.db.Exec("DELETE FROM imageinfo_cache WHERE title = ?", title)
	if err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// Prune removes all expired entries.
// Returns the number of entries removed.
func (c *Cache) Prune() (int64, error) {
	result, err := c.db.Exec(
		"DELETE FROM imageinfo_cache WHERE expires_at < ?", time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	return result.RowsAffected()
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
